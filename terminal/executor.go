/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
)

// Result is the single outcome of one command execution. Interrupted means
// the poll ceiling was hit and the text is a partial capture; that is a
// successful result, not an error.
type Result struct {
	Text        string `json:"text"`
	Truncated   bool   `json:"truncated,omitempty"`
	Interrupted bool   `json:"interrupted,omitempty"`
	TimedOutMS  int    `json:"timed_out_ms,omitempty"`
}

// Executor orchestrates confirmation, session acquisition, completion
// polling and output normalization for one command at a time. Concurrent
// calls are independent; the only shared state is the read-only settings.
type Executor struct {
	provider Provider
	settings Settings
	confirm  Confirmer
	logger   *logging.Logger

	pollInterval time.Duration
	ceiling      time.Duration
	grace        time.Duration
	maxLines     int
}

// Option configures an Executor
type Option func(*Executor)

// WithPollInterval sets the delay between completion checks
func WithPollInterval(d time.Duration) Option {
	return func(e *Executor) {
		e.pollInterval = d
	}
}

// WithCommandTimeout sets the poll ceiling after which partial output is
// captured and the result marked interrupted
func WithCommandTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.ceiling = d
	}
}

// WithGraceMargin sets the extra margin the outer deadline allows beyond the
// poll ceiling
func WithGraceMargin(d time.Duration) Option {
	return func(e *Executor) {
		e.grace = d
	}
}

// WithMaxOutputLines sets the output line cap
func WithMaxOutputLines(n int) Option {
	return func(e *Executor) {
		e.maxLines = n
	}
}

// New creates an Executor with the given collaborators and options
func New(provider Provider, settings Settings, confirm Confirmer, logger *logging.Logger, opts ...Option) *Executor {
	e := &Executor{
		provider:     provider,
		settings:     settings,
		confirm:      confirm,
		logger:       logger,
		pollInterval: global.DefaultPollIntervalMS * time.Millisecond,
		ceiling:      global.DefaultCommandTimeoutMS * time.Millisecond,
		grace:        global.DefaultGraceMarginMS * time.Millisecond,
		maxLines:     global.DefaultMaxOutputLines,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pollOutcome carries the captured text out of the poll goroutine
type pollOutcome struct {
	text        string
	interrupted bool
}

// Execute runs a command in the labeled terminal session and returns exactly
// one result. No retries are attempted at any layer: a declined confirmation,
// a missing terminal and an outer-deadline breach are each terminal.
func (e *Executor) Execute(ctx context.Context, command string) (*Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, generic(fmt.Errorf("command cannot be empty"))
	}

	// Confirmation gate. The flag is read fresh on every call.
	if !e.settings.BraveMode() {
		if !e.confirm.Confirm(confirmPrompt(command)) {
			if e.logger != nil {
				e.logger.Infof("Command execution declined by user")
			}
			return nil, canceled()
		}
	}

	session, err := e.provider.Acquire(global.TerminalLabel)
	if err != nil || session == nil {
		if e.logger != nil {
			e.logger.Warnf("Terminal acquisition failed: %v", err)
		}
		return nil, noTerminal()
	}

	session.Clear()
	if err := session.Run(command); err != nil {
		return nil, generic(err)
	}

	ceilingMS := int(e.ceiling / time.Millisecond)

	// The poll loop runs on its own goroutine so a caller blocked here never
	// holds up other executions. The context hands it a cancellation signal:
	// if the caller gives up, the worker stops too instead of polling on
	// unobserved.
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan pollOutcome, 1)
	go e.poll(pollCtx, session, outcomes)

	outer := time.NewTimer(e.ceiling + e.grace)
	defer outer.Stop()

	select {
	case out := <-outcomes:
		text, truncated := normalizeOutput(out.text, e.maxLines)
		result := &Result{
			Text:        text,
			Truncated:   truncated,
			Interrupted: out.interrupted,
		}
		if out.interrupted {
			result.TimedOutMS = ceilingMS
			if result.Text != "" {
				result.Text += "\n"
			}
			result.Text += interruptedNotice(ceilingMS)
			if e.logger != nil {
				e.logger.Warnf("Command still running after %d ms, returning partial output", ceilingMS)
			}
		}
		return result, nil

	case <-outer.C:
		return nil, timedOut(ceilingMS)

	case <-ctx.Done():
		return nil, generic(ctx.Err())
	}
}

// poll checks every pollInterval whether the session's attached process is
// still running. It sends exactly one outcome unless canceled first.
func (e *Executor) poll(ctx context.Context, session Session, outcomes chan<- pollOutcome) {
	deadline := time.Now().Add(e.ceiling)

	for {
		if !session.Running() {
			outcomes <- pollOutcome{text: session.Text()}
			return
		}
		if time.Now().After(deadline) {
			outcomes <- pollOutcome{text: session.Text(), interrupted: true}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(e.pollInterval):
		}
	}
}

// ReadText returns the current text of the labeled terminal session
func (e *Executor) ReadText() (string, error) {
	session, err := e.provider.Acquire(global.TerminalLabel)
	if err != nil || session == nil {
		return "", noTerminal()
	}
	return session.Text(), nil
}

// confirmPrompt builds the confirmation question, truncating long commands
// for display only
func confirmPrompt(command string) string {
	display := command
	// Truncate on runes, not bytes, so a multibyte character at the boundary
	// is never split
	if runes := []rune(display); len(runes) > global.CommandDisplayMaxLen {
		display = string(runes[:global.CommandDisplayMaxLen]) + "..."
	}
	return fmt.Sprintf("Execute command in terminal: %s", display)
}

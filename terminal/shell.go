/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/PivotLLM/Cockpit/logging"
)

// ShellProvider supplies shell-backed terminal sessions. Each label maps to
// one session; sessions are reused across commands so their buffers behave
// like a terminal display.
type ShellProvider struct {
	shell    string
	dir      string
	logger   *logging.Logger
	mu       sync.Mutex
	sessions map[string]*shellSession
}

// NewShellProvider creates a provider running commands under the given shell
// in the given working directory.
func NewShellProvider(shell, dir string, logger *logging.Logger) *ShellProvider {
	return &ShellProvider{
		shell:    shell,
		dir:      dir,
		logger:   logger,
		sessions: make(map[string]*shellSession),
	}
}

// Acquire returns the open session for the label, or opens a new one.
// It fails if the configured shell cannot be found.
func (p *ShellProvider) Acquire(label string) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sessions[label]; ok {
		return s, nil
	}

	if _, err := exec.LookPath(p.shell); err != nil {
		return nil, fmt.Errorf("shell not found: %s", p.shell)
	}

	s := &shellSession{
		id:     uuid.New().String(),
		label:  label,
		shell:  p.shell,
		dir:    p.dir,
		logger: p.logger,
	}
	p.sessions[label] = s

	if p.logger != nil {
		p.logger.Debugf("Opened terminal session %s (%s)", s.id, label)
	}
	return s, nil
}

// CloseAll closes every open session
func (p *ShellProvider) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for label, s := range p.sessions {
		_ = s.Close()
		delete(p.sessions, label)
	}
}

// shellSession runs commands via `shell -c` and captures combined output in
// an in-memory buffer standing in for the terminal display.
type shellSession struct {
	id     string
	label  string
	shell  string
	dir    string
	logger *logging.Logger

	mu   sync.Mutex
	buf  []byte
	cmd  *exec.Cmd
	done chan struct{}
}

func (s *shellSession) ID() string {
	return s.id
}

func (s *shellSession) Label() string {
	return s.label
}

// Run starts a command. A session attaches at most one process at a time.
func (s *shellSession) Run(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		select {
		case <-s.done:
			// previous command finished
		default:
			return fmt.Errorf("session busy: a command is already running")
		}
	}

	cmd := exec.Command(s.shell, "-c", command)
	cmd.Dir = s.dir
	cmd.Stdout = (*sessionWriter)(s)
	cmd.Stderr = (*sessionWriter)(s)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	s.cmd = cmd
	s.done = done
	return nil
}

func (s *shellSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
}

func (s *shellSession) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.buf)
}

func (s *shellSession) Running() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (s *shellSession) Close() error {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil && done != nil {
		select {
		case <-done:
			// already finished
		default:
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return nil
}

// sessionWriter appends process output to the session buffer under its mutex
type sessionWriter shellSession

func (w *sessionWriter) Write(p []byte) (int, error) {
	s := (*shellSession)(w)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	return len(p), nil
}

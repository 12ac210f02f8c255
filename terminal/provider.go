/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package terminal implements the terminal command executor: confirmation
// gating, session acquisition, completion polling and output normalization.
package terminal

// Session is a live terminal: a shell with at most one attached child process
// and a readable text buffer. The executor only reads its text and asks
// whether the attached process is still running; session lifecycle belongs to
// the provider.
type Session interface {
	// ID returns the session's unique identifier
	ID() string

	// Label returns the display label the session was acquired under
	Label() string

	// Run starts a command in the session, attaching its process
	Run(command string) error

	// Clear resets the session's text buffer
	Clear()

	// Text returns the session's captured text
	Text() string

	// Running reports whether the attached process is still running
	Running() bool

	// Close terminates any attached process and releases the session
	Close() error
}

// Provider supplies terminal sessions. Acquire returns the existing session
// for the label if one is open, or opens a new one.
type Provider interface {
	Acquire(label string) (Session, error)
}

// Confirmer is a blocking ask-the-user capability supplied by the host.
// Callers must expect the call to block until the user answers.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Settings exposes the execution-confirmation bypass flag. Implementations
// must return the current value on every call rather than a cached one.
type Settings interface {
	BraveMode() bool
}

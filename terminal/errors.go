/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import (
	"errors"
	"fmt"
)

// Kind classifies executor failures. Callers inside the server match on the
// kind; the rendered message is the externally visible contract.
type Kind int

//goland:noinspection GoCommentStart
const (
	// KindCanceled - the user declined the execution confirmation
	KindCanceled Kind = iota + 1

	// KindNoTerminal - the provider could not supply a usable session
	KindNoTerminal

	// KindTimeout - the outer call deadline was breached before any result,
	// partial or otherwise, could be captured
	KindTimeout

	// KindGeneric - any other failure, message passed through
	KindGeneric
)

// Error is a classified executor failure
type Error struct {
	Kind      Kind
	TimeoutMS int   // populated for KindTimeout
	Err       error // wrapped cause for KindGeneric
}

// Error renders the stable message for each kind. These exact strings are
// what external callers observe, so they must not change.
func (e *Error) Error() string {
	switch e.Kind {
	case KindCanceled:
		return "canceled"
	case KindNoTerminal:
		return "No terminal available"
	case KindTimeout:
		return fmt.Sprintf("Command execution timed out after %d milliseconds", e.TimeoutMS)
	default:
		if e.Err != nil {
			return fmt.Sprintf("Execution error: %v", e.Err)
		}
		return "Execution error: unknown"
	}
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a terminal error of the given kind
func IsKind(err error, kind Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

func canceled() error {
	return &Error{Kind: KindCanceled}
}

func noTerminal() error {
	return &Error{Kind: KindNoTerminal}
}

func timedOut(ms int) error {
	return &Error{Kind: KindTimeout, TimeoutMS: ms}
}

func generic(err error) error {
	return &Error{Kind: KindGeneric, Err: err}
}

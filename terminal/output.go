/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import (
	"fmt"
	"strings"
)

// normalizeOutput trims captured terminal text, drops a trailing prompt
// artifact, and caps the line count, appending a truncation marker when the
// cap is hit. Returns the normalized text and whether it was truncated.
func normalizeOutput(raw string, maxLines int) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}

	lines := strings.Split(text, "\n")

	// A last line ending in $ or > is taken for the next shell prompt rather
	// than command output. This can misfire on legitimate output ending in
	// those characters.
	if len(lines) > 0 && looksLikePrompt(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	truncated := false
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if truncated {
		out += fmt.Sprintf("\n... (output truncated at %d lines)", maxLines)
	}
	return out, truncated
}

// looksLikePrompt reports whether a line resembles a shell prompt
func looksLikePrompt(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return strings.HasSuffix(trimmed, "$") || strings.HasSuffix(trimmed, ">")
}

// interruptedNotice is appended to output captured before the attached
// process finished.
func interruptedNotice(timeoutMS int) string {
	return fmt.Sprintf("[Command interrupted after %d milliseconds - the process may still be running]", timeoutMS)
}

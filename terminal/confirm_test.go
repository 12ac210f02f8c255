/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import "testing"

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{" yes \n", true},
		{"n", false},
		{"no", false},
		{"", false},
		{"\n", false},
		{"yeah", false},
		{"ok", false},
	}

	for _, tt := range tests {
		if got := isAffirmative(tt.answer); got != tt.want {
			t.Errorf("isAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestConfirmWithoutTTY(t *testing.T) {
	// With no terminal attached the only safe answer is no.
	c := &TTYConfirmer{ttyPath: "/nonexistent/tty"}
	if c.Confirm("Execute command in terminal: ls") {
		t.Error("Confirm() = true without a terminal, want false")
	}
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package terminal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/PivotLLM/Cockpit/logging"
)

// TTYConfirmer asks the user on the controlling terminal. Stdio carries the
// protocol, so the prompt goes to /dev/tty; when no terminal is attached the
// answer is always no.
type TTYConfirmer struct {
	ttyPath string
	logger  *logging.Logger
}

// NewTTYConfirmer creates a confirmer prompting on /dev/tty
func NewTTYConfirmer(logger *logging.Logger) *TTYConfirmer {
	return &TTYConfirmer{
		ttyPath: "/dev/tty",
		logger:  logger,
	}
}

// Confirm prompts the user and blocks until they answer. Only an explicit
// yes is treated as approval.
func (c *TTYConfirmer) Confirm(prompt string) bool {
	tty, err := os.OpenFile(c.ttyPath, os.O_RDWR, 0)
	if err != nil {
		if c.logger != nil {
			c.logger.Warnf("No controlling terminal for confirmation, declining: %v", err)
		}
		return false
	}
	defer func(tty *os.File) {
		_ = tty.Close()
	}(tty)

	if _, err := fmt.Fprintf(tty, "%s [y/N]: ", prompt); err != nil {
		return false
	}

	answer, err := bufio.NewReader(tty).ReadString('\n')
	if err != nil {
		return false
	}

	return isAffirmative(answer)
}

// isAffirmative interprets a confirmation answer
func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package commands exposes configured external tools (gradle, adb, git) and
// named actions as subprocess executions with allowlists and timeouts.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
)

// RunResult represents the outcome of one subprocess execution
type RunResult struct {
	Command    string   `json:"command"`
	Args       []string `json:"args,omitempty"`
	Success    bool     `json:"success"`
	Output     string   `json:"output"`
	Error      string   `json:"error,omitempty"`
	ExitCode   int      `json:"exit_code"`
	DurationMS int64    `json:"duration_ms"`
}

// runner executes external commands in a fixed working directory
type runner struct {
	dir    string
	logger *logging.Logger
}

// clampTimeout applies the default and bounds to a configured timeout
func clampTimeout(sec int) time.Duration {
	if sec <= 0 {
		sec = global.DefaultProcessTimeoutSec
	}
	if sec < global.MinProcessTimeoutSec {
		sec = global.MinProcessTimeoutSec
	}
	if sec > global.MaxProcessTimeoutSec {
		sec = global.MaxProcessTimeoutSec
	}
	return time.Duration(sec) * time.Second
}

// run executes a command and captures its output. A non-zero exit is
// reported in the result, not as an error; only failures to start the
// process return an error.
func (r *runner) run(ctx context.Context, path string, args []string, timeout time.Duration) (*RunResult, error) {
	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, path, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.logger != nil {
		r.logger.Infof("Executing %s %s (timeout %v)", path, strings.Join(args, " "), timeout)
	}

	err := cmd.Run()
	duration := time.Since(start)

	result := &RunResult{
		Command:    path,
		Args:       args,
		Output:     stdout.String(),
		DurationMS: duration.Milliseconds(),
	}

	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			result.Error = "execution timed out"
			result.ExitCode = -1
			if r.logger != nil {
				r.logger.Warnf("Command %s timed out after %v", path, timeout)
			}
			return result, nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.Error = stderr.String()
			if result.Error == "" {
				result.Error = err.Error()
			}
			if r.logger != nil {
				r.logger.Warnf("Command %s exited with code %d", path, result.ExitCode)
			}
			return result, nil
		}

		result.Error = err.Error()
		result.ExitCode = -1
		if r.logger != nil {
			r.logger.Errorf("Failed to execute %s: %v", path, err)
		}
		return result, fmt.Errorf("failed to execute %s: %w", path, err)
	}

	result.Success = true
	if stderr.Len() > 0 && result.Output == "" {
		// Some tools write progress to stderr only
		result.Output = stderr.String()
	}

	if r.logger != nil {
		r.logger.Infof("Command %s completed in %v, output size=%d bytes", path, duration, len(result.Output))
	}
	return result, nil
}

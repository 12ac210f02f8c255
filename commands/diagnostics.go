/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package commands

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PivotLLM/Cockpit/global"
)

// Issue is one parsed diagnostic finding
type Issue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// DiagnosticResult is the response for a diagnostic run
type DiagnosticResult struct {
	ID         string  `json:"id"`
	Success    bool    `json:"success"`
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	RawOutput  string  `json:"raw_output,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS int64   `json:"duration_ms"`
}

// DiagnosticInfo describes a configured diagnostic for listings
type DiagnosticInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// issueRegex matches analyzer lines of the form
// file:line: severity: message or file:line:col: severity: message
var issueRegex = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(error|warning|info|note)\s*:\s*(.+)$`)

// ListDiagnostics returns all configured diagnostics
func (s *Service) ListDiagnostics() []DiagnosticInfo {
	diags := s.config.Diagnostics()
	infos := make([]DiagnosticInfo, 0, len(diags))
	for _, d := range diags {
		infos = append(infos, DiagnosticInfo{
			ID:          d.ID,
			DisplayName: d.DisplayName,
			Description: d.Description,
			Enabled:     d.Enabled,
		})
	}
	return infos
}

// RunDiagnostic executes a configured analyzer and parses its output into
// structured issues. A non-empty path scopes the analyzer to a file or
// directory inside the workspace and is appended to the configured arguments.
// Lines that do not match the expected format are kept in the raw output only.
func (s *Service) RunDiagnostic(ctx context.Context, id, path string) (*DiagnosticResult, error) {
	if id == "" {
		return nil, fmt.Errorf("diagnostic id cannot be empty")
	}

	diag := s.config.GetDiagnostic(id)
	if diag == nil {
		return nil, fmt.Errorf("diagnostic not found: %s", id)
	}
	if !diag.Enabled {
		return nil, fmt.Errorf("diagnostic is disabled: %s", id)
	}

	args := diag.Args
	if path != "" {
		if _, err := global.ValidatePathWithinDir(s.runner.dir, path); err != nil {
			return nil, fmt.Errorf("invalid diagnostic path: %w", err)
		}
		args = append(append([]string{}, diag.Args...), path)
	}

	s.logger.Infof("Running diagnostic '%s' (%s)", diag.ID, diag.DisplayName)

	run, err := s.runner.run(ctx, diag.Command, args, clampTimeout(diag.TimeoutSec))
	if err != nil {
		return nil, err
	}

	// Analyzers normally exit non-zero when findings exist; the run counts
	// as failed only when it produced no parseable output at all.
	output := run.Output
	if output == "" {
		output = run.Error
	}

	issues := parseIssues(output)

	result := &DiagnosticResult{
		ID:         id,
		Issues:     issues,
		Total:      len(issues),
		RawOutput:  output,
		DurationMS: run.DurationMS,
	}

	if run.Success || len(issues) > 0 {
		result.Success = true
	} else {
		result.Error = run.Error
	}

	s.logger.Debugf("Diagnostic '%s' produced %d issues", id, len(issues))
	return result, nil
}

// parseIssues extracts structured findings from analyzer output
func parseIssues(output string) []Issue {
	issues := []Issue{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := issueRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		lineNum, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		issue := Issue{
			File:     m[1],
			Line:     lineNum,
			Severity: m[4],
			Message:  m[5],
		}
		if m[3] != "" {
			if col, err := strconv.Atoi(m[3]); err == nil {
				issue.Column = col
			}
		}

		issues = append(issues, issue)
	}

	return issues
}

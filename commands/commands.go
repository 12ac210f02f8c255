/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PivotLLM/Cockpit/config"
	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
)

// Service exposes the configured command tools
type Service struct {
	config *config.Config
	logger *logging.Logger
	runner *runner
}

// NewService creates a commands service running tools in the workspace
// directory
func NewService(cfg *config.Config, logger *logging.Logger) *Service {
	return &Service{
		config: cfg,
		logger: logger,
		runner: &runner{
			dir:    cfg.WorkspaceDir(),
			logger: logger,
		},
	}
}

// checkAllow validates a subcommand against a tool's allowlist
func checkAllow(name string, tool config.CommandTool, sub string) error {
	if sub == "" {
		return fmt.Errorf("%s subcommand cannot be empty", name)
	}
	if !tool.Allowed(sub) {
		return fmt.Errorf("%s subcommand not permitted: %s (allowed: %s)", name, sub, strings.Join(tool.Allow, ", "))
	}
	return nil
}

// Gradle runs a gradle task with optional extra arguments
func (s *Service) Gradle(ctx context.Context, task string, args []string) (*RunResult, error) {
	tool := s.config.Gradle()
	if err := checkAllow("gradle", tool, task); err != nil {
		return nil, err
	}

	fullArgs := append([]string{task}, args...)
	return s.runner.run(ctx, tool.Path, fullArgs, clampTimeout(tool.TimeoutSec))
}

// ADB runs an adb subcommand with optional extra arguments
func (s *Service) ADB(ctx context.Context, sub string, args []string) (*RunResult, error) {
	tool := s.config.ADB()
	if err := checkAllow("adb", tool, sub); err != nil {
		return nil, err
	}

	fullArgs := append([]string{sub}, args...)
	return s.runner.run(ctx, tool.Path, fullArgs, clampTimeout(tool.TimeoutSec))
}

// Git runs a git subcommand with optional extra arguments
func (s *Service) Git(ctx context.Context, sub string, args []string) (*RunResult, error) {
	tool := s.config.Git()
	if err := checkAllow("git", tool, sub); err != nil {
		return nil, err
	}

	fullArgs := append([]string{sub}, args...)
	return s.runner.run(ctx, tool.Path, fullArgs, clampTimeout(tool.TimeoutSec))
}

// GitStatus reports the working tree status in porcelain format
func (s *Service) GitStatus(ctx context.Context) (*RunResult, error) {
	return s.Git(ctx, "status", []string{"--porcelain=v1", "--branch"})
}

// GitLog returns recent commits, one line each
func (s *Service) GitLog(ctx context.Context, limit int) (*RunResult, error) {
	if limit <= 0 {
		limit = global.DefaultLimit
	}
	return s.Git(ctx, "log", []string{"--oneline", "-n", strconv.Itoa(limit)})
}

// ActionInfo describes a configured action for listings
type ActionInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// ListActions returns all configured actions
func (s *Service) ListActions() []ActionInfo {
	actions := s.config.Actions()
	infos := make([]ActionInfo, 0, len(actions))
	for _, a := range actions {
		infos = append(infos, ActionInfo{
			ID:          a.ID,
			DisplayName: a.DisplayName,
			Description: a.Description,
			Enabled:     a.Enabled,
		})
	}
	return infos
}

// ExecuteAction runs a configured action by ID
func (s *Service) ExecuteAction(ctx context.Context, id string) (*RunResult, error) {
	if id == "" {
		return nil, fmt.Errorf("action id cannot be empty")
	}

	action := s.config.GetAction(id)
	if action == nil {
		return nil, fmt.Errorf("action not found: %s", id)
	}
	if !action.Enabled {
		return nil, fmt.Errorf("action is disabled: %s", id)
	}

	s.logger.Infof("Executing action '%s' (%s)", action.ID, action.DisplayName)
	return s.runner.run(ctx, action.Command, action.Args, clampTimeout(action.TimeoutSec))
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Cockpit/global"
)

// splitArgs splits a space-separated argument string
func splitArgs(args string) []string {
	return strings.Fields(args)
}

// Build, device and VCS tool handlers

func (s *Server) handleGradleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task := mcp.ParseString(request, "task", "")
	args := mcp.ParseString(request, "args", "")

	s.logToolCall(global.ToolGradleRun, map[string]string{"task": task, "args": args})

	if task == "" {
		return mcp.NewToolResultError("task parameter is required"), nil
	}

	result, err := s.commands.Gradle(ctx, task, splitArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

func (s *Server) handleADBCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub := mcp.ParseString(request, "subcommand", "")
	args := mcp.ParseString(request, "args", "")

	s.logToolCall(global.ToolADBCommand, map[string]string{"subcommand": sub, "args": args})

	if sub == "" {
		return mcp.NewToolResultError("subcommand parameter is required"), nil
	}

	result, err := s.commands.ADB(ctx, sub, splitArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

func (s *Server) handleGitStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logToolCall(global.ToolGitStatus, nil)

	result, err := s.commands.GitStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

func (s *Server) handleGitLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(mcp.ParseFloat64(request, "limit", float64(global.DefaultLimit)))

	s.logToolCall(global.ToolGitLog, nil)

	result, err := s.commands.GitLog(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

func (s *Server) handleGitCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub := mcp.ParseString(request, "subcommand", "")
	args := mcp.ParseString(request, "args", "")

	s.logToolCall(global.ToolGitCommand, map[string]string{"subcommand": sub, "args": args})

	if sub == "" {
		return mcp.NewToolResultError("subcommand parameter is required"), nil
	}

	result, err := s.commands.Git(ctx, sub, splitArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

// Diagnostics tool handlers

func (s *Server) handleDiagnosticsList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logToolCall(global.ToolDiagnosticsList, nil)

	infos := s.commands.ListDiagnostics()
	return createJSONResult(map[string]interface{}{
		"diagnostics": infos,
		"total":       len(infos),
	})
}

func (s *Server) handleDiagnosticsRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	path := mcp.ParseString(request, "path", "")

	s.logToolCall(global.ToolDiagnosticsRun, map[string]string{"id": id, "path": path})

	if id == "" {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	result, err := s.commands.RunDiagnostic(ctx, id, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

// Action tool handlers

func (s *Server) handleActionList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logToolCall(global.ToolActionList, nil)

	infos := s.commands.ListActions()
	return createJSONResult(map[string]interface{}{
		"actions": infos,
		"total":   len(infos),
	})
}

func (s *Server) handleActionExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")

	s.logToolCall(global.ToolActionExecute, map[string]string{"id": id})

	if id == "" {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	result, err := s.commands.ExecuteAction(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

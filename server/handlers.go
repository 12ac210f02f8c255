/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Cockpit/global"
)

// Helper function to create JSON tool results safely
func createJSONResult(data interface{}) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError("Failed to create JSON result"), nil
	}
	return result, nil
}

// logToolCall logs an MCP tool invocation at INFO level
func (s *Server) logToolCall(toolName string, params map[string]string) {
	if len(params) == 0 {
		s.logger.Infof("Tool %s called", toolName)
		return
	}
	// Build params string
	var parts []string
	for k, v := range params {
		if v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if len(parts) == 0 {
		s.logger.Infof("Tool %s called", toolName)
	} else {
		s.logger.Infof("Tool %s called: %s", toolName, joinStrings(parts, ", "))
	}
}

// joinStrings joins string slice with separator (avoiding strings import)
func joinStrings(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	result := parts[0]
	for i := 1; i < len(parts); i++ {
		result += sep + parts[i]
	}
	return result
}

// truncateForLog bounds a command string for log lines
func truncateForLog(command string) string {
	if len(command) > global.CommandDisplayMaxLen {
		return command[:global.CommandDisplayMaxLen] + "..."
	}
	return command
}

// Terminal tool handlers

func (s *Server) handleTerminalExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := mcp.ParseString(request, "command", "")

	s.logToolCall(global.ToolTerminalExecute, map[string]string{"command": truncateForLog(command)})

	if command == "" {
		return mcp.NewToolResultError("command parameter is required"), nil
	}

	result, err := s.executor.Execute(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

func (s *Server) handleTerminalRead(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logToolCall(global.ToolTerminalRead, nil)

	text, err := s.executor.ReadText()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(map[string]interface{}{"text": text})
}

// Workspace event log handlers

func (s *Server) handleLogAppend(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := mcp.ParseString(request, "message", "")
	source := mcp.ParseString(request, "source", "")

	s.logToolCall(global.ToolLogAppend, map[string]string{"source": source})

	if message == "" {
		return mcp.NewToolResultError("message parameter is required"), nil
	}

	entry, err := s.workspace.AppendLog(source, message)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(entry)
}

func (s *Server) handleLogGet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(mcp.ParseFloat64(request, "limit", float64(global.DefaultLogLimit)))
	offset := int(mcp.ParseFloat64(request, "offset", 0))

	s.logToolCall(global.ToolLogGet, nil)

	result, err := s.workspace.GetLog(limit, offset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

// System handlers

func (s *Server) handleHealth(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logToolCall(global.ToolHealth, nil)

	return createJSONResult(map[string]interface{}{
		"name":        global.ProgramName,
		"version":     global.Version,
		"config_path": s.config.ConfigPath(),
		"workspace":   s.config.WorkspaceDir(),
		"shell":       s.config.Shell(),
		"brave_mode":  s.config.BraveMode(),
		"actions":     len(s.config.Actions()),
		"diagnostics": len(s.config.Diagnostics()),
	})
}

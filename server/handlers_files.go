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

// Workspace file tool handlers

func (s *Server) handleFileList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := mcp.ParseString(request, "prefix", "")

	s.logToolCall(global.ToolFileList, map[string]string{"prefix": prefix})

	items, err := s.workspace.List(prefix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(map[string]interface{}{
		"files": items,
		"total": len(items),
	})
}

func (s *Server) handleFileGet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")
	byteOffset := int64(mcp.ParseFloat64(request, "byte_offset", 0))
	maxBytes := int64(mcp.ParseFloat64(request, "max_bytes", 0))

	s.logToolCall(global.ToolFileGet, map[string]string{"path": path})

	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	item, err := s.workspace.Get(path, byteOffset, maxBytes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(item)
}

func (s *Server) handleFilePut(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")
	content := mcp.ParseString(request, "content", "")

	s.logToolCall(global.ToolFilePut, map[string]string{"path": path})

	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	created, err := s.workspace.Put(path, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(map[string]interface{}{
		"path":    path,
		"created": created,
	})
}

func (s *Server) handleFileAppend(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")
	content := mcp.ParseString(request, "content", "")

	s.logToolCall(global.ToolFileAppend, map[string]string{"path": path})

	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	if content == "" {
		return mcp.NewToolResultError("content parameter is required"), nil
	}

	if err := s.workspace.Append(path, content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Appended to %s", path)), nil
}

func (s *Server) handleFileEdit(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")
	oldString := mcp.ParseString(request, "old_string", "")
	newString := mcp.ParseString(request, "new_string", "")
	replaceAll := mcp.ParseBoolean(request, "replace_all", false)

	s.logToolCall(global.ToolFileEdit, map[string]string{"path": path})

	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	if oldString == "" {
		return mcp.NewToolResultError("old_string parameter is required"), nil
	}

	if err := s.workspace.Edit(path, oldString, newString, replaceAll); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Edited %s", path)), nil
}

func (s *Server) handleFileRename(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromPath := mcp.ParseString(request, "from_path", "")
	toPath := mcp.ParseString(request, "to_path", "")

	s.logToolCall(global.ToolFileRename, map[string]string{"from": fromPath, "to": toPath})

	if fromPath == "" {
		return mcp.NewToolResultError("from_path parameter is required"), nil
	}
	if toPath == "" {
		return mcp.NewToolResultError("to_path parameter is required"), nil
	}

	if err := s.workspace.Rename(fromPath, toPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Renamed %s to %s", fromPath, toPath)), nil
}

func (s *Server) handleFileDelete(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")

	s.logToolCall(global.ToolFileDelete, map[string]string{"path": path})

	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	if err := s.workspace.Delete(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", path)), nil
}

func (s *Server) handleFileSearch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := mcp.ParseString(request, "query", "")
	limit := int(mcp.ParseFloat64(request, "limit", float64(global.DefaultLimit)))
	offset := int(mcp.ParseFloat64(request, "offset", 0))

	s.logToolCall(global.ToolFileSearch, map[string]string{"query": query})

	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	result, err := s.workspace.Search(query, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return createJSONResult(result)
}

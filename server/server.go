/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package server wires the services to the MCP stdio transport and registers
// the tool surface.
package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PivotLLM/Cockpit/commands"
	"github.com/PivotLLM/Cockpit/config"
	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
	"github.com/PivotLLM/Cockpit/terminal"
	"github.com/PivotLLM/Cockpit/workspace"
)

// Server wraps the MCP server with our services
type Server struct {
	config             *config.Config
	logger             *logging.Logger
	provider           *terminal.ShellProvider
	executor           *terminal.Executor
	workspace          *workspace.Service
	commands           *commands.Service
	mcpServer          *server.MCPServer
	markNonDestructive bool
}

// New creates a new server instance
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	provider := terminal.NewShellProvider(cfg.Shell(), cfg.WorkspaceDir(), logger)

	limits := cfg.Terminal()
	executor := terminal.New(provider, cfg, terminal.NewTTYConfirmer(logger), logger,
		terminal.WithPollInterval(time.Duration(limits.PollIntervalMS)*time.Millisecond),
		terminal.WithCommandTimeout(time.Duration(limits.CommandTimeoutMS)*time.Millisecond),
		terminal.WithGraceMargin(time.Duration(limits.GraceMarginMS)*time.Millisecond),
		terminal.WithMaxOutputLines(limits.MaxOutputLines),
	)

	workspaceService := workspace.NewService(cfg.WorkspaceDir(), logger)
	commandsService := commands.NewService(cfg, logger)

	mcpServer := server.NewMCPServer(
		global.ProgramName,
		global.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	srv := &Server{
		config:             cfg,
		logger:             logger,
		provider:           provider,
		executor:           executor,
		workspace:          workspaceService,
		commands:           commandsService,
		mcpServer:          mcpServer,
		markNonDestructive: cfg.MarkNonDestructive(),
	}

	if err := srv.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return srv, nil
}

// readOnlyTool creates a tool with read-only annotations
// ReadOnly: true, Destructive: false, OpenWorld: false
func (s *Server) readOnlyTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}))
	return mcp.NewTool(name, opts...)
}

// defaultTool creates a tool with default annotations (non-destructive)
// ReadOnly: false, Destructive: false, OpenWorld: false
func (s *Server) defaultTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}))
	return mcp.NewTool(name, opts...)
}

// destructiveTool creates a tool with destructive annotations
// ReadOnly: false, Destructive: true (unless markNonDestructive config is set), OpenWorld: false
func (s *Server) destructiveTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	destructive := true
	if s.markNonDestructive {
		destructive = false
	}
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(destructive),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}))
	return mcp.NewTool(name, opts...)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Terminal tools
	s.mcpServer.AddTool(
		s.destructiveTool(global.ToolTerminalExecute,
			mcp.WithDescription("Execute a shell command in the integrated terminal and return its output. Unless brave mode is enabled in the config, the user is asked to confirm each command. Long-running commands are interrupted after the configured timeout and their partial output returned."),
			mcp.WithString("command",
				mcp.Description("Shell command to execute"),
				mcp.Required(),
			),
		), s.handleTerminalExecute)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolTerminalRead,
			mcp.WithDescription("Read the current contents of the integrated terminal without executing anything."),
		), s.handleTerminalRead)

	// Workspace file tools
	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolFileList,
			mcp.WithDescription("List files in the workspace."),
			mcp.WithString("prefix",
				mcp.Description("Optional path prefix filter"),
			),
		), s.handleFileList)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolFileGet,
			mcp.WithDescription("Read a file from the workspace."),
			mcp.WithString("path",
				mcp.Description("File path relative to the workspace root"),
				mcp.Required(),
			),
			mcp.WithNumber("byte_offset",
				mcp.Description("Byte position to start reading from, for chunked reading of large files (default: 0)"),
			),
			mcp.WithNumber("max_bytes",
				mcp.Description("Maximum bytes to return in this chunk, for chunked reading of large files (default: 0 = entire file)"),
			),
		), s.handleFileGet)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolFilePut,
			mcp.WithDescription("Create or overwrite a file in the workspace."),
			mcp.WithString("path",
				mcp.Description("File path relative to the workspace root"),
				mcp.Required(),
			),
			mcp.WithString("content",
				mcp.Description("File content (text only)"),
				mcp.Required(),
			),
		), s.handleFilePut)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolFileAppend,
			mcp.WithDescription("Append content to a workspace file. If the file doesn't exist, it is created with the provided content."),
			mcp.WithString("path",
				mcp.Description("File path relative to the workspace root"),
				mcp.Required(),
			),
			mcp.WithString("content",
				mcp.Description("Content to append (text only)"),
				mcp.Required(),
			),
		), s.handleFileAppend)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolFileEdit,
			mcp.WithDescription("Edit a workspace file using search-and-replace. The old_string must exist in the file exactly as specified. If it appears multiple times, use replace_all=true."),
			mcp.WithString("path",
				mcp.Description("File path relative to the workspace root"),
				mcp.Required(),
			),
			mcp.WithString("old_string",
				mcp.Description("Exact text to find and replace (must exist in file)"),
				mcp.Required(),
			),
			mcp.WithString("new_string",
				mcp.Description("Text to replace it with (can be empty string to delete)"),
				mcp.Required(),
			),
			mcp.WithBoolean("replace_all",
				mcp.Description("Replace all occurrences (default: false - fails if old_string appears multiple times)"),
			),
		), s.handleFileEdit)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolFileRename,
			mcp.WithDescription("Rename or move a file within the workspace."),
			mcp.WithString("from_path",
				mcp.Description("Current file path"),
				mcp.Required(),
			),
			mcp.WithString("to_path",
				mcp.Description("New file path"),
				mcp.Required(),
			),
		), s.handleFileRename)

	s.mcpServer.AddTool(
		s.destructiveTool(global.ToolFileDelete,
			mcp.WithDescription("Delete a file from the workspace."),
			mcp.WithString("path",
				mcp.Description("File path relative to the workspace root"),
				mcp.Required(),
			),
		), s.handleFileDelete)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolFileSearch,
			mcp.WithDescription("Search workspace files by filename or content."),
			mcp.WithString("query",
				mcp.Description("Search query string"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results"),
			),
			mcp.WithNumber("offset",
				mcp.Description("Number of results to skip"),
			),
		), s.handleFileSearch)

	// Build, device and VCS tools
	s.mcpServer.AddTool(
		s.defaultTool(global.ToolGradleRun,
			mcp.WithDescription("Run a gradle task in the workspace. Tasks may be restricted by the configured allowlist."),
			mcp.WithString("task",
				mcp.Description("Gradle task name (e.g. 'assembleDebug', 'test')"),
				mcp.Required(),
			),
			mcp.WithString("args",
				mcp.Description("Additional arguments, space separated"),
			),
		), s.handleGradleRun)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolADBCommand,
			mcp.WithDescription("Run an adb subcommand against a connected device. Subcommands may be restricted by the configured allowlist."),
			mcp.WithString("subcommand",
				mcp.Description("adb subcommand (e.g. 'devices', 'shell', 'logcat')"),
				mcp.Required(),
			),
			mcp.WithString("args",
				mcp.Description("Additional arguments, space separated"),
			),
		), s.handleADBCommand)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolGitStatus,
			mcp.WithDescription("Show the git working tree status of the workspace."),
		), s.handleGitStatus)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolGitLog,
			mcp.WithDescription("Show recent git commits in the workspace, one line each."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of commits to show"),
			),
		), s.handleGitLog)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolGitCommand,
			mcp.WithDescription("Run a git subcommand in the workspace. Subcommands may be restricted by the configured allowlist."),
			mcp.WithString("subcommand",
				mcp.Description("git subcommand (e.g. 'diff', 'branch', 'add')"),
				mcp.Required(),
			),
			mcp.WithString("args",
				mcp.Description("Additional arguments, space separated"),
			),
		), s.handleGitCommand)

	// Diagnostics tools
	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolDiagnosticsList,
			mcp.WithDescription("List the configured diagnostics analyzers."),
		), s.handleDiagnosticsList)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolDiagnosticsRun,
			mcp.WithDescription("Run a configured diagnostics analyzer and return its findings as structured issues."),
			mcp.WithString("id",
				mcp.Description("Diagnostic ID from the configuration"),
				mcp.Required(),
			),
			mcp.WithString("path",
				mcp.Description("Optional file or directory (relative to the workspace root) to scope the analyzer to"),
			),
		), s.handleDiagnosticsRun)

	// Action tools
	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolActionList,
			mcp.WithDescription("List the configured actions."),
		), s.handleActionList)

	s.mcpServer.AddTool(
		s.defaultTool(global.ToolActionExecute,
			mcp.WithDescription("Execute a configured action by ID."),
			mcp.WithString("id",
				mcp.Description("Action ID from the configuration"),
				mcp.Required(),
			),
		), s.handleActionExecute)

	// Workspace event log tools
	s.mcpServer.AddTool(
		s.defaultTool(global.ToolLogAppend,
			mcp.WithDescription("Append an entry to the workspace event log."),
			mcp.WithString("message",
				mcp.Description("Log message"),
				mcp.Required(),
			),
			mcp.WithString("source",
				mcp.Description("Optional source tag (e.g. 'gradle', 'agent')"),
			),
		), s.handleLogAppend)

	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolLogGet,
			mcp.WithDescription("Read entries from the workspace event log."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of entries"),
			),
			mcp.WithNumber("offset",
				mcp.Description("Number of entries to skip"),
			),
		), s.handleLogGet)

	// System tools
	s.mcpServer.AddTool(
		s.readOnlyTool(global.ToolHealth,
			mcp.WithDescription("Report server version and configuration status."),
		), s.handleHealth)

	return nil
}

// Run starts the MCP server with graceful shutdown
func (s *Server) Run() error {
	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		err := server.ServeStdio(s.mcpServer)
		// ServeStdio returns when stdin is closed (EOF) or on error
		errChan <- err
	}()

	s.logger.Infof("MCP server started successfully")

	// Wait for shutdown signal, stdin close, or error
	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received")
		s.shutdown()
		return nil

	case err := <-errChan:
		if err != nil {
			s.logger.Errorf("Server error: %v", err)
			s.shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		// nil error means stdin was closed (EOF) - normal exit
		s.logger.Info("Connection closed")
		s.shutdown()
		return nil
	}
}

// shutdown closes terminal sessions and flushes logs
func (s *Server) shutdown() {
	s.provider.CloseAll()
	s.logger.Info("Server stopped")
	if err := s.logger.Sync(); err != nil {
		s.logger.Warnf("Failed to flush logs on shutdown: %v", err)
	}
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

//goland:noinspection GoCommentStart,GoUnusedConst
const (
	// Configuration constants
	ConfigEnvVar          = "COCKPIT_CONFIG"
	DefaultBaseDir        = "~/.cockpit"
	DefaultConfigFileName = "config.json"
	DefaultShell          = "/bin/sh"

	// MCP Tool Names - Terminal
	ToolTerminalExecute = "terminal_execute"
	ToolTerminalRead    = "terminal_read"

	// MCP Tool Names - Workspace Files
	ToolFileList   = "file_list"
	ToolFileGet    = "file_get"
	ToolFilePut    = "file_put"
	ToolFileAppend = "file_append"
	ToolFileEdit   = "file_edit"
	ToolFileRename = "file_rename"
	ToolFileDelete = "file_delete"
	ToolFileSearch = "file_search"

	// MCP Tool Names - Build / Device / VCS
	ToolGradleRun  = "gradle_run"
	ToolADBCommand = "adb_command"
	ToolGitStatus  = "git_status"
	ToolGitLog     = "git_log"
	ToolGitCommand = "git_command"

	// MCP Tool Names - Diagnostics
	ToolDiagnosticsRun  = "diagnostics_run"
	ToolDiagnosticsList = "diagnostics_list"

	// MCP Tool Names - Actions
	ToolActionList    = "action_list"
	ToolActionExecute = "action_execute"

	// MCP Tool Names - Workspace Log
	ToolLogAppend = "log_append"
	ToolLogGet    = "log_get"

	// MCP Tool Names - System
	ToolHealth = "health"

	// Terminal executor defaults (milliseconds)
	DefaultPollIntervalMS   = 300
	DefaultCommandTimeoutMS = 120000
	DefaultGraceMarginMS    = 5000

	// Terminal output bounds
	DefaultMaxOutputLines = 2000

	// CommandDisplayMaxLen bounds the command text shown in the confirmation prompt
	CommandDisplayMaxLen = 100

	// TerminalLabel tags sessions opened by the executor
	TerminalLabel = "Cockpit Terminal"

	// File Constants
	EventLogName = "events.log"

	// Default Values
	DefaultLimit    = 50
	DefaultLogLimit = 100

	// Subprocess tool defaults
	DefaultProcessTimeoutSec = 300
	MinProcessTimeoutSec     = 1
	MaxProcessTimeoutSec     = 1800

	// Log Levels
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
	LogLevelFatal = "FATAL"
)

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package main

import (
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/PivotLLM/Cockpit/config"
	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
	"github.com/PivotLLM/Cockpit/server"
)

// EmbeddedDocs carries the default configuration and its schema
//
//go:embed docs/config-default.json docs/config-schema.json
var EmbeddedDocs embed.FS

func main() {
	// Top-level panic recovery
	defer func() {
		if rec := recover(); rec != nil {
			_, _ = fmt.Fprintf(os.Stderr, "FATAL PANIC: %v\n", rec)
			os.Exit(2)
		}
	}()

	// Parse command line flags
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		version    = flag.Bool("version", false, "Show version information")
		help       = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	// Handle version flag
	if *version {
		fmt.Printf("%s v%s\n", global.ProgramName, global.Version)
		return
	}

	// Handle help flag
	if *help {
		showHelp()
		return
	}

	// Normal MCP server mode - pass embedded FS and optional config path
	opts := []config.Option{config.WithEmbeddedFS(EmbeddedDocs)}
	if *configPath != "" {
		opts = append(opts, config.WithConfigPath(*configPath))
	}
	cfg := config.New(opts...)

	// Load and validate configuration
	if err := cfg.Load(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with config path
	logger, err := logging.New(cfg.LogFile())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *logging.Logger) {
		// Ensure logs are flushed before exit
		_ = logger.Sync()
		_ = logger.Close()
	}(logger)

	// Set log level from config
	logger.SetLevel(cfg.LogLevel())

	// Announce startup
	logger.Infof("%s v%s starting", global.ProgramName, global.Version)

	// Log first-run message
	if cfg.IsFirstRun() {
		logger.Infof("First run detected - created default configuration at %s", cfg.ConfigPath())
		logger.Info("Please review the configuration before enabling brave mode")
	}

	if cfg.BraveMode() {
		logger.Warn("Brave mode is enabled - terminal commands execute without confirmation")
	}

	// Create and start server
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	// Run the server
	if err := srv.Run(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

func showHelp() {
	fmt.Printf(`%s v%s - MCP Server for IDE Integration

USAGE:
    %s [OPTIONS]

OPTIONS:
    --config PATH    Path to configuration file
                     (default: $%s or %s/%s)
    --version        Show version information
    --help          Show this help message

DESCRIPTION:
    Cockpit is a Model Context Protocol (MCP) server that gives a
    connected agent controlled access to a development workspace:

    - Terminal command execution with user confirmation
    - Workspace file operations (list, read, write, edit, search)
    - Gradle, adb and git invocation with allowlists
    - Configured diagnostics analyzers and named actions
    - A shared workspace event log

CONFIGURATION:
    The server uses a JSON configuration file that defines:

    - workspace_dir: The directory tools operate on (default: workspace)
    - brave_mode: Skip the confirmation prompt for terminal commands
    - gradle / adb / git: Tool paths, allowlists and timeouts
    - diagnostics and actions: Configured external commands

    On first run, a default configuration is created in %s.

FIRST RUN:
    1. Run %s once to create the default config
    2. Edit %s/%s to point at your workspace and tools
    3. Run %s again to start the server

EXAMPLES:
    # Start with default config
    %s

    # Start with custom config
    %s --config /path/to/config.json

    # Show version
    %s --version

ENVIRONMENT:
    %s    Path to configuration file (if --config not used)
`, global.ProgramName, global.Version,
		global.ProgramName,
		global.ConfigEnvVar, global.DefaultBaseDir, global.DefaultConfigFileName,
		global.DefaultBaseDir,
		global.ProgramName,
		global.DefaultBaseDir, global.DefaultConfigFileName,
		global.ProgramName,
		global.ProgramName,
		global.ProgramName,
		global.ProgramName,
		global.ConfigEnvVar)
}

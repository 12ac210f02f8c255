/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package config loads and validates the Cockpit configuration file.
package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/xeipuuv/gojsonschema"

	"github.com/PivotLLM/Cockpit/global"
)

// Config provides access to application configuration
type Config struct {
	configPath   string      // resolved path to config file
	data         *configData // parsed configuration
	firstRun     bool        // true if config was just created
	workspaceDir string      // resolved workspace directory
	embeddedFS   embed.FS    // embedded default config and schema
}

// configData holds the parsed configuration (internal)
type configData struct {
	Version      int          `json:"version"`
	BaseDir      string       `json:"base_dir,omitempty"`
	WorkspaceDir string       `json:"workspace_dir,omitempty"`
	BraveMode    bool         `json:"brave_mode,omitempty"`
	Shell        string       `json:"shell,omitempty"`
	Terminal     Terminal     `json:"terminal,omitempty"`
	Gradle       CommandTool  `json:"gradle,omitempty"`
	ADB          CommandTool  `json:"adb,omitempty"`
	Git          CommandTool  `json:"git,omitempty"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
	Actions      []Action     `json:"actions,omitempty"`
	Logging      Logging      `json:"logging"`
	MarkNonDest  bool         `json:"mark_non_destructive,omitempty"`
}

// Terminal holds limits for the terminal command executor
type Terminal struct {
	PollIntervalMS   int `json:"poll_interval_ms,omitempty"`
	CommandTimeoutMS int `json:"command_timeout_ms,omitempty"`
	GraceMarginMS    int `json:"grace_margin_ms,omitempty"`
	MaxOutputLines   int `json:"max_output_lines,omitempty"`
}

// WithDefaults returns a copy of Terminal with defaults applied for zero values
func (t Terminal) WithDefaults() Terminal {
	result := t
	if result.PollIntervalMS <= 0 {
		result.PollIntervalMS = global.DefaultPollIntervalMS
	}
	if result.CommandTimeoutMS <= 0 {
		result.CommandTimeoutMS = global.DefaultCommandTimeoutMS
	}
	if result.GraceMarginMS <= 0 {
		result.GraceMarginMS = global.DefaultGraceMarginMS
	}
	if result.MaxOutputLines <= 0 {
		result.MaxOutputLines = global.DefaultMaxOutputLines
	}
	return result
}

// CommandTool configures an external binary exposed through a tool
// (gradle, adb, git). Allow restricts the permitted first argument; an empty
// list permits any.
type CommandTool struct {
	Path       string   `json:"path,omitempty"`
	Allow      []string `json:"allow,omitempty"`
	TimeoutSec int      `json:"timeout_sec,omitempty"`
}

// Allowed reports whether a subcommand passes the tool's allowlist.
func (ct CommandTool) Allowed(sub string) bool {
	if len(ct.Allow) == 0 {
		return true
	}
	for _, a := range ct.Allow {
		if a == sub {
			return true
		}
	}
	return false
}

// Diagnostic configures an analyzer command whose output is parsed into
// structured diagnostics.
type Diagnostic struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Command     string   `json:"command"`
	Args        []string `json:"args,omitempty"`
	Enabled     bool     `json:"enabled,omitempty"`
	TimeoutSec  int      `json:"timeout_sec,omitempty"`
}

// Action configures a named action: an external command the agent can trigger
// by ID, analogous to invoking a host action.
type Action struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Command     string   `json:"command"`
	Args        []string `json:"args,omitempty"`
	Enabled     bool     `json:"enabled,omitempty"`
	TimeoutSec  int      `json:"timeout_sec,omitempty"`
}

// Logging represents logging configuration
type Logging struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

// Option is a functional option for configuring Config
type Option func(*Config)

// New creates a new Config instance with optional configuration
func New(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithConfigPath sets an explicit config file path
func WithConfigPath(path string) Option {
	return func(c *Config) {
		c.configPath = path
	}
}

// WithEmbeddedFS sets the embedded filesystem holding the default config and
// the config schema
func WithEmbeddedFS(efs embed.FS) Option {
	return func(c *Config) {
		c.embeddedFS = efs
	}
}

// Load loads and validates configuration from file.
// If the base directory or config file doesn't exist, it creates them from
// the embedded default.
func (c *Config) Load() error {
	configPath, err := c.resolveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	c.configPath = configPath

	if !global.FileExists(configPath) {
		c.firstRun = true
		if err := c.setupDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to create default config at %s: %w", configPath, err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Schema validation first so errors name the offending field
	if err := c.validateSchema(data); err != nil {
		return err
	}

	// Strict parsing to surface unknown fields, then lenient fallback
	var cfg configData
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: config file %s: %v\n", configPath, err)
			if err := json.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		} else {
			return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	c.data = &cfg

	if err := c.resolveBaseDir(); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := c.normalizePaths(); err != nil {
		return fmt.Errorf("failed to normalize paths: %w", err)
	}

	return nil
}

// setupDefaultConfig creates a default config file from the embedded
// config-default.json. A file lock guards against two server instances racing
// on first run.
func (c *Config) setupDefaultConfig(configPath string) error {
	content, err := c.embeddedFS.ReadFile("docs/config-default.json")
	if err != nil {
		return fmt.Errorf("failed to read embedded config-default.json: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	lock := flock.New(configPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire config lock: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	// Another instance may have created it while we waited on the lock
	if global.FileExists(configPath) {
		return nil
	}

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// validateSchema validates raw config JSON against the embedded schema
func (c *Config) validateSchema(data []byte) error {
	schema, err := c.embeddedFS.ReadFile("docs/config-schema.json")
	if err != nil {
		// No embedded schema (tests construct Config without one); skip
		return nil
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config schema validation error: %w", err)
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("config file %s does not match schema: %s",
			c.configPath, strings.Join(details, "; "))
	}

	return nil
}

// resolveConfigPath determines the config file path using precedence rules
func (c *Config) resolveConfigPath() (string, error) {
	// 1. Explicit path (from WithConfigPath option)
	if c.configPath != "" {
		return resolveToAbsolute(c.configPath)
	}

	// 2. Environment variable
	if envPath := os.Getenv(global.ConfigEnvVar); envPath != "" {
		return resolveToAbsolute(envPath)
	}

	// 3. Default: base_dir/config.json
	return filepath.Join(expandHomePath(global.DefaultBaseDir), global.DefaultConfigFileName), nil
}

// resolveBaseDir resolves and validates the base_dir from config
func (c *Config) resolveBaseDir() error {
	if c.data.BaseDir == "" {
		c.data.BaseDir = expandHomePath(global.DefaultBaseDir)
		return nil
	}

	resolved := expandHomePath(c.data.BaseDir)
	if !filepath.IsAbs(resolved) {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: base_dir '%s' is not absolute, using default '%s'\n",
			c.data.BaseDir, global.DefaultBaseDir)
		resolved = expandHomePath(global.DefaultBaseDir)
	}

	c.data.BaseDir = resolved
	return nil
}

// resolvePath resolves a path relative to base_dir
func (c *Config) resolvePath(path string) string {
	if path == "" {
		return ""
	}
	expanded := expandHomePath(path)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(c.data.BaseDir, expanded)
}

// resolveToAbsolute converts a path to absolute, expanding ~/ if needed
func resolveToAbsolute(path string) (string, error) {
	expanded := expandHomePath(path)
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Abs(expanded)
}

// expandHomePath expands ~/ to the user's home directory
func expandHomePath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.data.Version != 1 {
		if c.data.Version < 1 {
			return fmt.Errorf("config version %d is too old (expected 1)", c.data.Version)
		}
		return fmt.Errorf("config version %d is newer than supported (expected 1)", c.data.Version)
	}

	if c.data.Shell == "" {
		c.data.Shell = global.DefaultShell
	}

	diagIDs := make(map[string]bool)
	for _, diag := range c.data.Diagnostics {
		if diag.ID == "" {
			return fmt.Errorf("diagnostic id cannot be empty")
		}
		if diag.Command == "" {
			return fmt.Errorf("diagnostic command cannot be empty for %s", diag.ID)
		}
		if diagIDs[diag.ID] {
			return fmt.Errorf("duplicate diagnostic id: %s", diag.ID)
		}
		diagIDs[diag.ID] = true
	}

	actionIDs := make(map[string]bool)
	for _, action := range c.data.Actions {
		if action.ID == "" {
			return fmt.Errorf("action id cannot be empty")
		}
		if action.DisplayName == "" {
			return fmt.Errorf("action display_name cannot be empty for %s", action.ID)
		}
		if action.Command == "" {
			return fmt.Errorf("action command cannot be empty for %s", action.ID)
		}
		if actionIDs[action.ID] {
			return fmt.Errorf("duplicate action id: %s", action.ID)
		}
		actionIDs[action.ID] = true
	}

	// Disable enabled actions whose executable cannot be found
	for i := range c.data.Actions {
		if !c.data.Actions[i].Enabled {
			continue
		}
		expanded := expandHomePath(c.data.Actions[i].Command)
		if _, err := exec.LookPath(expanded); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: action %s: executable not found: %s - disabling\n",
				c.data.Actions[i].ID, c.data.Actions[i].Command)
			c.data.Actions[i].Enabled = false
		} else {
			c.data.Actions[i].Command = expanded
		}
	}

	return nil
}

// normalizePaths resolves all paths to absolute and creates the workspace
func (c *Config) normalizePaths() error {
	workspaceDir := c.data.WorkspaceDir
	if workspaceDir == "" {
		workspaceDir = "workspace"
	}
	c.workspaceDir = c.resolvePath(workspaceDir)

	if err := os.MkdirAll(c.workspaceDir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory at %s: %w", c.workspaceDir, err)
	}

	if c.data.Logging.File != "" {
		c.data.Logging.File = c.resolvePath(c.data.Logging.File)
	}

	return nil
}

// Getter methods

// Version returns the config version
func (c *Config) Version() int {
	return c.data.Version
}

// BaseDir returns the resolved base directory (always absolute)
func (c *Config) BaseDir() string {
	return c.data.BaseDir
}

// WorkspaceDir returns the resolved workspace directory (always absolute)
func (c *Config) WorkspaceDir() string {
	return c.workspaceDir
}

// Shell returns the shell used for terminal sessions
func (c *Config) Shell() string {
	return c.data.Shell
}

// BraveMode reports whether the execution confirmation prompt is bypassed.
// The flag is re-read from the config file on every call so toggling it takes
// effect without a server restart; on read failure the loaded value is used.
func (c *Config) BraveMode() bool {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return c.data.BraveMode
	}
	var fresh struct {
		BraveMode bool `json:"brave_mode"`
	}
	if err := json.Unmarshal(data, &fresh); err != nil {
		return c.data.BraveMode
	}
	return fresh.BraveMode
}

// Terminal returns terminal executor limits with defaults applied
func (c *Config) Terminal() Terminal {
	return c.data.Terminal.WithDefaults()
}

// Gradle returns the gradle tool configuration with the default path applied
func (c *Config) Gradle() CommandTool {
	t := c.data.Gradle
	if t.Path == "" {
		t.Path = "gradle"
	}
	return t
}

// ADB returns the adb tool configuration with the default path applied
func (c *Config) ADB() CommandTool {
	t := c.data.ADB
	if t.Path == "" {
		t.Path = "adb"
	}
	return t
}

// Git returns the git tool configuration with the default path applied
func (c *Config) Git() CommandTool {
	t := c.data.Git
	if t.Path == "" {
		t.Path = "git"
	}
	return t
}

// Diagnostics returns all configured diagnostics
func (c *Config) Diagnostics() []Diagnostic {
	return c.data.Diagnostics
}

// GetDiagnostic returns a diagnostic by ID, or nil if not found
func (c *Config) GetDiagnostic(id string) *Diagnostic {
	for i := range c.data.Diagnostics {
		if c.data.Diagnostics[i].ID == id {
			return &c.data.Diagnostics[i]
		}
	}
	return nil
}

// Actions returns all configured actions
func (c *Config) Actions() []Action {
	return c.data.Actions
}

// GetAction returns an action by ID, or nil if not found
func (c *Config) GetAction(id string) *Action {
	for i := range c.data.Actions {
		if c.data.Actions[i].ID == id {
			return &c.data.Actions[i]
		}
	}
	return nil
}

// EnabledActions returns only the enabled actions
func (c *Config) EnabledActions() []Action {
	var enabled []Action
	for _, action := range c.data.Actions {
		if action.Enabled {
			enabled = append(enabled, action)
		}
	}
	return enabled
}

// LogFile returns the resolved log file path (always absolute)
func (c *Config) LogFile() string {
	return c.data.Logging.File
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() string {
	return c.data.Logging.Level
}

// MarkNonDestructive returns true if tools should be marked as non-destructive
func (c *Config) MarkNonDestructive() bool {
	return c.data.MarkNonDest
}

// IsFirstRun returns true if this is the first run (config was just created)
func (c *Config) IsFirstRun() bool {
	return c.firstRun
}

// ConfigPath returns the path to the loaded config file
func (c *Config) ConfigPath() string {
	return c.configPath
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PivotLLM/Cockpit/global"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *configData
		wantError bool
	}{
		{
			name: "valid minimal config",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
			},
			wantError: false,
		},
		{
			name: "invalid version",
			config: &configData{
				Version: 2,
			},
			wantError: true,
		},
		{
			name: "version too old",
			config: &configData{
				Version: 0,
			},
			wantError: true,
		},
		{
			name: "valid with diagnostics and actions",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Diagnostics: []Diagnostic{
					{ID: "lint", DisplayName: "Lint", Command: "/bin/echo"},
				},
				Actions: []Action{
					{ID: "sync", DisplayName: "Sync", Command: "/bin/echo"},
				},
			},
			wantError: false,
		},
		{
			name: "diagnostic without id",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Diagnostics: []Diagnostic{
					{DisplayName: "Lint", Command: "/bin/echo"},
				},
			},
			wantError: true,
		},
		{
			name: "diagnostic without command",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Diagnostics: []Diagnostic{
					{ID: "lint", DisplayName: "Lint"},
				},
			},
			wantError: true,
		},
		{
			name: "duplicate diagnostic ids",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Diagnostics: []Diagnostic{
					{ID: "lint", DisplayName: "Lint", Command: "/bin/echo"},
					{ID: "lint", DisplayName: "Lint Again", Command: "/bin/echo"},
				},
			},
			wantError: true,
		},
		{
			name: "action without display name",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Actions: []Action{
					{ID: "sync", Command: "/bin/echo"},
				},
			},
			wantError: true,
		},
		{
			name: "duplicate action ids",
			config: &configData{
				Version: 1,
				BaseDir: "/tmp/cockpit",
				Actions: []Action{
					{ID: "sync", DisplayName: "Sync", Command: "/bin/echo"},
					{ID: "sync", DisplayName: "Sync Again", Command: "/bin/echo"},
				},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{data: tt.config}
			err := cfg.validate()
			if (err != nil) != tt.wantError {
				t.Errorf("validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateDisablesMissingActionExecutable(t *testing.T) {
	cfg := &Config{data: &configData{
		Version: 1,
		BaseDir: "/tmp/cockpit",
		Actions: []Action{
			{ID: "ghost", DisplayName: "Ghost", Command: "/nonexistent/binary", Enabled: true},
		},
	}}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if cfg.data.Actions[0].Enabled {
		t.Error("action with missing executable still enabled after validate()")
	}
}

func TestValidateDefaultsShell(t *testing.T) {
	cfg := &Config{data: &configData{
		Version: 1,
		BaseDir: "/tmp/cockpit",
	}}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if cfg.data.Shell != global.DefaultShell {
		t.Errorf("shell = %q, want %q", cfg.data.Shell, global.DefaultShell)
	}
}

func TestExpandHomePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantHome bool // if true, expects home dir prefix
	}{
		{
			name:     "absolute path",
			path:     "/usr/local/bin",
			wantHome: false,
		},
		{
			name:     "home path",
			path:     "~/documents",
			wantHome: true,
		},
		{
			name:     "relative path",
			path:     "relative/path",
			wantHome: false,
		},
	}

	home, _ := os.UserHomeDir()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandHomePath(tt.path)
			if tt.wantHome {
				expected := filepath.Join(home, "documents")
				if result != expected {
					t.Errorf("expandHomePath(%s) = %s, want %s", tt.path, result, expected)
				}
			} else {
				if result != tt.path {
					t.Errorf("expandHomePath(%s) = %s, want %s", tt.path, result, tt.path)
				}
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{
		data: &configData{
			BaseDir: "/base/dir",
		},
	}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "absolute path",
			path:     "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			path:     "relative/path",
			expected: "/base/dir/relative/path",
		},
		{
			name:     "empty path",
			path:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cfg.resolvePath(tt.path)
			if result != tt.expected {
				t.Errorf("resolvePath(%s) = %s, want %s", tt.path, result, tt.expected)
			}
		})
	}
}

func TestTerminalWithDefaults(t *testing.T) {
	limits := Terminal{}.WithDefaults()
	if limits.PollIntervalMS != global.DefaultPollIntervalMS {
		t.Errorf("poll interval = %d, want %d", limits.PollIntervalMS, global.DefaultPollIntervalMS)
	}
	if limits.CommandTimeoutMS != global.DefaultCommandTimeoutMS {
		t.Errorf("command timeout = %d, want %d", limits.CommandTimeoutMS, global.DefaultCommandTimeoutMS)
	}
	if limits.GraceMarginMS != global.DefaultGraceMarginMS {
		t.Errorf("grace margin = %d, want %d", limits.GraceMarginMS, global.DefaultGraceMarginMS)
	}
	if limits.MaxOutputLines != global.DefaultMaxOutputLines {
		t.Errorf("max output lines = %d, want %d", limits.MaxOutputLines, global.DefaultMaxOutputLines)
	}

	custom := Terminal{PollIntervalMS: 100, CommandTimeoutMS: 1000}.WithDefaults()
	if custom.PollIntervalMS != 100 || custom.CommandTimeoutMS != 1000 {
		t.Error("WithDefaults() overrode configured values")
	}
}

func TestCommandToolAllowed(t *testing.T) {
	tests := []struct {
		name string
		tool CommandTool
		sub  string
		want bool
	}{
		{"empty allowlist permits all", CommandTool{}, "anything", true},
		{"listed subcommand", CommandTool{Allow: []string{"status", "log"}}, "status", true},
		{"unlisted subcommand", CommandTool{Allow: []string{"status", "log"}}, "push", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tool.Allowed(tt.sub); got != tt.want {
				t.Errorf("Allowed(%s) = %v, want %v", tt.sub, got, tt.want)
			}
		})
	}
}

func TestLoadAndGetters(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.json")
	configContent := `{
		"version": 1,
		"base_dir": "` + tmpDir + `",
		"shell": "/bin/bash",
		"gradle": {"path": "/opt/gradle/bin/gradle", "allow": ["build"]},
		"logging": {"file": "logs/cockpit.log", "level": "DEBUG"}
	}`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg := New(WithConfigPath(configPath))
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Version() != 1 {
		t.Errorf("Version() = %d, want 1", cfg.Version())
	}
	if cfg.Shell() != "/bin/bash" {
		t.Errorf("Shell() = %s, want /bin/bash", cfg.Shell())
	}
	if cfg.BaseDir() != tmpDir {
		t.Errorf("BaseDir() = %s, want %s", cfg.BaseDir(), tmpDir)
	}

	// Workspace dir defaults to base_dir/workspace and is created
	wantWorkspace := filepath.Join(tmpDir, "workspace")
	if cfg.WorkspaceDir() != wantWorkspace {
		t.Errorf("WorkspaceDir() = %s, want %s", cfg.WorkspaceDir(), wantWorkspace)
	}
	if _, err := os.Stat(wantWorkspace); err != nil {
		t.Errorf("workspace directory was not created: %v", err)
	}

	// Log file resolves relative to base_dir
	wantLog := filepath.Join(tmpDir, "logs/cockpit.log")
	if cfg.LogFile() != wantLog {
		t.Errorf("LogFile() = %s, want %s", cfg.LogFile(), wantLog)
	}
	if cfg.LogLevel() != "DEBUG" {
		t.Errorf("LogLevel() = %s, want DEBUG", cfg.LogLevel())
	}

	if cfg.Gradle().Path != "/opt/gradle/bin/gradle" {
		t.Errorf("Gradle().Path = %s, want configured path", cfg.Gradle().Path)
	}
	// Unconfigured tools fall back to their default binary names
	if cfg.ADB().Path != "adb" {
		t.Errorf("ADB().Path = %s, want adb", cfg.ADB().Path)
	}
	if cfg.Git().Path != "git" {
		t.Errorf("Git().Path = %s, want git", cfg.Git().Path)
	}

	if cfg.IsFirstRun() {
		t.Error("IsFirstRun() = true for existing config")
	}
	if cfg.ConfigPath() != configPath {
		t.Errorf("ConfigPath() = %s, want %s", cfg.ConfigPath(), configPath)
	}
}

func TestBraveModeReadFresh(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.json")
	writeConfig := func(brave bool) {
		content := `{"version": 1, "base_dir": "` + tmpDir + `"`
		if brave {
			content += `, "brave_mode": true`
		}
		content += `}`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
	}

	writeConfig(false)

	cfg := New(WithConfigPath(configPath))
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BraveMode() {
		t.Error("BraveMode() = true, want false")
	}

	// Toggling the flag on disk takes effect without reloading
	writeConfig(true)
	if !cfg.BraveMode() {
		t.Error("BraveMode() = false after file change, want true")
	}

	writeConfig(false)
	if cfg.BraveMode() {
		t.Error("BraveMode() = true after file change, want false")
	}
}

func TestLoadMissingConfigWithoutEmbedded(t *testing.T) {
	cfg := New(WithConfigPath(filepath.Join(t.TempDir(), "missing", "config.json")))
	if err := cfg.Load(); err == nil {
		t.Error("Load() with missing config and no embedded default succeeded, want error")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{"version": 99, "base_dir": "`+tmpDir+`"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg := New(WithConfigPath(configPath))
	if err := cfg.Load(); err == nil {
		t.Error("Load() with unsupported version succeeded, want error")
	}
}

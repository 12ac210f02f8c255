/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"strings"
	"testing"
)

func TestValidatePathWithinDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		path        string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid simple path",
			path: "file.txt",
		},
		{
			name: "valid nested path",
			path: "src/main/App.kt",
		},
		{
			name: "dot components collapse inside base",
			path: "src/./main/../main/App.kt",
		},
		{
			name:        "path traversal with ..",
			path:        "../outside.txt",
			wantErr:     true,
			errContains: "path traversal",
		},
		{
			name:        "nested traversal",
			path:        "src/../../outside.txt",
			wantErr:     true,
			errContains: "path traversal",
		},
		{
			name:        "absolute path rejected",
			path:        "/etc/passwd",
			wantErr:     true,
			errContains: "absolute paths not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := ValidatePathWithinDir(tmpDir, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got path %s", abs)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want substring %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !IsPathWithin(tmpDir, abs) {
				t.Errorf("resolved path %s not within %s", abs, tmpDir)
			}
		})
	}
}

func TestIsPathWithin(t *testing.T) {
	if !IsPathWithin("/base", "/base") {
		t.Error("base dir itself should be within")
	}
	if !IsPathWithin("/base", "/base/sub/file") {
		t.Error("nested path should be within")
	}
	if IsPathWithin("/base", "/basement/file") {
		t.Error("sibling with shared prefix should not be within")
	}
}

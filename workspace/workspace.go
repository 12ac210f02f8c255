/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package workspace provides file and event log operations scoped to the
// workspace directory. All paths are relative to the workspace root and
// validated against traversal.
package workspace

import (
	"path/filepath"
	"sync"

	"github.com/PivotLLM/Cockpit/global"
	"github.com/PivotLLM/Cockpit/logging"
)

// Service provides workspace file operations
type Service struct {
	dir    string
	logger *logging.Logger
	mu     sync.Mutex
}

// FileInfo describes a workspace file. Content and the byte range fields are
// only set by Get.
type FileInfo struct {
	Path       string `json:"path"`
	SizeBytes  int64  `json:"size_bytes"`
	ModifiedAt string `json:"modified_at"`
	Content    string `json:"content,omitempty"`
	Offset     int64  `json:"offset,omitempty"`
	TotalBytes int64  `json:"total_bytes,omitempty"`
}

// SearchResult is the response for file searches
type SearchResult struct {
	Query   string     `json:"query"`
	Matches []FileInfo `json:"matches"`
	Total   int        `json:"total"`
}

// NewService creates a workspace service rooted at dir
func NewService(dir string, logger *logging.Logger) *Service {
	return &Service{
		dir:    dir,
		logger: logger,
	}
}

// Dir returns the workspace root directory
func (s *Service) Dir() string {
	return s.dir
}

// validatePath resolves a workspace-relative path, rejecting absolute paths
// and traversal outside the root.
func (s *Service) validatePath(path string) (string, error) {
	return global.ValidatePathWithinDir(s.dir, path)
}

// eventLogPath returns the path to the workspace event log
func (s *Service) eventLogPath() string {
	return filepath.Join(s.dir, global.EventLogName)
}

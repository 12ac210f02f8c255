/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDir validates that a relative path, resolved against
// baseDir, stays within baseDir. Returns the absolute resolved path, or an
// error on absolute input or path traversal.
func ValidatePathWithinDir(baseDir, relativePath string) (string, error) {
	if filepath.IsAbs(relativePath) {
		return "", fmt.Errorf("absolute paths not allowed: %s", relativePath)
	}

	cleanPath := filepath.Clean(relativePath)

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute base directory: %w", err)
	}

	absFilePath, err := filepath.Abs(filepath.Join(absBaseDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute file path: %w", err)
	}

	if !IsPathWithin(absBaseDir, absFilePath) {
		return "", fmt.Errorf("path traversal attempt detected: %s", relativePath)
	}

	return absFilePath, nil
}

// IsPathWithin checks if resolvedPath is within or equal to baseDir.
// Both paths should be absolute.
func IsPathWithin(baseDir, resolvedPath string) bool {
	return strings.HasPrefix(resolvedPath, baseDir+string(filepath.Separator)) ||
		resolvedPath == baseDir
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PivotLLM/Cockpit/global"
)

// isInternal reports whether a workspace-relative path belongs to the
// service's own bookkeeping rather than user files.
func isInternal(relPath string) bool {
	return relPath == global.EventLogName || relPath == global.EventLogName+".lock"
}

// List lists workspace files, optionally filtered by path prefix.
func (s *Service) List(prefix string) ([]FileInfo, error) {
	if !global.DirExists(s.dir) {
		return []FileInfo{}, nil
	}

	var items []FileInfo

	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't read
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(s.dir, path)
		if err != nil {
			return nil
		}

		// Normalize to forward slashes
		relPath = filepath.ToSlash(relPath)

		if isInternal(relPath) {
			return nil
		}

		if prefix != "" && !strings.HasPrefix(relPath, prefix) {
			return nil
		}

		items = append(items, FileInfo{
			Path:       relPath,
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime().Format("2006-01-02T15:04:05Z07:00"),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list workspace files: %w", err)
	}

	s.logger.Debugf("Listed %d workspace files", len(items))
	return items, nil
}

// Get retrieves a file with an optional byte range. If maxBytes is 0 the
// entire file is returned.
func (s *Service) Get(path string, offset, maxBytes int64) (*FileInfo, error) {
	absPath, err := s.validatePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if err := global.IsValidUTF8File(absPath); err != nil {
		return nil, fmt.Errorf("binary_or_invalid_utf8: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	totalBytes := info.Size()

	if offset < 0 {
		offset = 0
	}

	var resultContent string
	resultOffset := offset

	if offset >= int64(len(content)) {
		// Offset beyond file size, return empty content
		resultContent = ""
	} else {
		end := int64(len(content))
		if maxBytes > 0 && offset+maxBytes < end {
			end = offset + maxBytes
		}
		resultContent = string(content[offset:end])
	}

	s.logger.Debugf("Retrieved workspace file %s (offset=%d, bytes=%d, total=%d)", path, resultOffset, len(resultContent), totalBytes)
	return &FileInfo{
		Path:       path,
		SizeBytes:  int64(len(resultContent)),
		ModifiedAt: info.ModTime().Format("2006-01-02T15:04:05Z07:00"),
		Content:    resultContent,
		Offset:     resultOffset,
		TotalBytes: totalBytes,
	}, nil
}

// Put creates or overwrites a file. It reports whether the file was created.
func (s *Service) Put(path, content string) (bool, error) {
	absPath, err := s.validatePath(path)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = os.Stat(absPath)
	exists := err == nil

	if err := global.EnsureDir(filepath.Dir(absPath)); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := global.AtomicWrite(absPath, []byte(content)); err != nil {
		return false, err
	}

	created := !exists
	s.logger.Debugf("Put workspace file %s (created=%t)", path, created)
	return created, nil
}

// Append appends content to a file, creating it if missing
func (s *Service) Append(path, content string) error {
	absPath, err := s.validatePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	if data, err := os.ReadFile(absPath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing file: %w", err)
	}

	if err := global.EnsureDir(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := global.AtomicWrite(absPath, []byte(existing+content)); err != nil {
		return err
	}

	s.logger.Debugf("Appended to workspace file %s", path)
	return nil
}

// Edit performs a search-and-replace edit on a file.
func (s *Service) Edit(path, oldString, newString string, replaceAll bool) error {
	if oldString == "" {
		return fmt.Errorf("old_string cannot be empty")
	}
	if oldString == newString {
		return fmt.Errorf("old_string and new_string cannot be identical")
	}

	absPath, err := s.validatePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)

	count := strings.Count(content, oldString)
	if count == 0 {
		return fmt.Errorf("old_string not found in file %s", path)
	}
	if count > 1 && !replaceAll {
		return fmt.Errorf("old_string appears %d times in file %s - use replace_all=true to replace all occurrences", count, path)
	}

	var newContent string
	if replaceAll {
		newContent = strings.ReplaceAll(content, oldString, newString)
	} else {
		newContent = strings.Replace(content, oldString, newString, 1)
	}

	if err := global.AtomicWrite(absPath, []byte(newContent)); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if replaceAll {
		s.logger.Debugf("Edited workspace file %s (replaced %d occurrences)", path, count)
	} else {
		s.logger.Debugf("Edited workspace file %s", path)
	}
	return nil
}

// Rename renames or moves a file within the workspace.
func (s *Service) Rename(fromPath, toPath string) error {
	absFrom, err := s.validatePath(fromPath)
	if err != nil {
		return err
	}
	absTo, err := s.validatePath(toPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !global.FileExists(absFrom) {
		return fmt.Errorf("source file not found: %s", fromPath)
	}
	if global.FileExists(absTo) {
		return fmt.Errorf("destination file already exists: %s", toPath)
	}

	if err := global.EnsureDir(filepath.Dir(absTo)); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(absFrom, absTo); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	s.logger.Debugf("Renamed workspace file %s -> %s", fromPath, toPath)
	return nil
}

// Delete removes a file from the workspace.
func (s *Service) Delete(path string) error {
	absPath, err := s.validatePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !global.FileExists(absPath) {
		return fmt.Errorf("file not found: %s", path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Debugf("Deleted workspace file %s", path)
	return nil
}

// Search finds files whose path or content contains the query,
// case-insensitively, with pagination.
func (s *Service) Search(query string, limit, offset int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if limit <= 0 {
		limit = global.DefaultLimit
	}

	var allMatches []FileInfo
	lowerQuery := strings.ToLower(query)

	if global.DirExists(s.dir) {
		err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}

			relPath, err := filepath.Rel(s.dir, path)
			if err != nil {
				return nil
			}
			relPath = filepath.ToSlash(relPath)

			if isInternal(relPath) {
				return nil
			}

			pathMatch := strings.Contains(strings.ToLower(relPath), lowerQuery)

			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			contentMatch := strings.Contains(strings.ToLower(string(content)), lowerQuery)

			if pathMatch || contentMatch {
				allMatches = append(allMatches, FileInfo{
					Path:       relPath,
					SizeBytes:  info.Size(),
					ModifiedAt: info.ModTime().Format("2006-01-02T15:04:05Z07:00"),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search workspace: %w", err)
		}
	}

	total := len(allMatches)

	if offset >= total {
		return &SearchResult{Query: query, Matches: []FileInfo{}, Total: total}, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	s.logger.Debugf("Search '%s' found %d total matches, returning %d", query, total, end-offset)
	return &SearchResult{
		Query:   query,
		Matches: allMatches[offset:end],
		Total:   total,
	}, nil
}

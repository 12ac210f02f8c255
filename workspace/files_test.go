/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PivotLLM/Cockpit/logging"
)

func createTestLogger(t *testing.T) *logging.Logger {
	tmpFile, err := os.CreateTemp("", "test-log-*.log")
	if err != nil {
		t.Fatalf("Failed to create temp log file: %v", err)
	}
	_ = tmpFile.Close()

	logger, err := logging.New(tmpFile.Name())
	if err != nil {
		_ = os.Remove(tmpFile.Name())
		t.Fatalf("Failed to create logger: %v", err)
	}

	t.Cleanup(func() {
		_ = logger.Close()
		_ = os.Remove(tmpFile.Name())
	})

	return logger
}

func createTestService(t *testing.T) (*Service, string) {
	dir := t.TempDir()
	return NewService(dir, createTestLogger(t)), dir
}

func TestFileOperations(t *testing.T) {
	svc, _ := createTestService(t)

	// Put a new file
	created, err := svc.Put("notes/readme.txt", "hello workspace")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !created {
		t.Error("Put() created = false for new file, want true")
	}

	// Overwrite it
	created, err = svc.Put("notes/readme.txt", "hello again")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if created {
		t.Error("Put() created = true for existing file, want false")
	}

	// Get it back
	item, err := svc.Get("notes/readme.txt", 0, 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.Content != "hello again" {
		t.Errorf("Get() content = %q, want %q", item.Content, "hello again")
	}
	if item.TotalBytes != int64(len("hello again")) {
		t.Errorf("Get() total bytes = %d, want %d", item.TotalBytes, len("hello again"))
	}

	// Append
	if err := svc.Append("notes/readme.txt", " and more"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	item, err = svc.Get("notes/readme.txt", 0, 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.Content != "hello again and more" {
		t.Errorf("content after append = %q, want %q", item.Content, "hello again and more")
	}

	// List
	items, err := svc.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() returned %d items, want 1", len(items))
	}
	if items[0].Path != "notes/readme.txt" {
		t.Errorf("listed path = %q, want %q", items[0].Path, "notes/readme.txt")
	}

	// Rename
	if err := svc.Rename("notes/readme.txt", "docs/readme.txt"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, err := svc.Get("notes/readme.txt", 0, 0); err == nil {
		t.Error("Get() on renamed-away path succeeded, want error")
	}

	// Delete
	if err := svc.Delete("docs/readme.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete("docs/readme.txt"); err == nil {
		t.Error("Delete() on missing file succeeded, want error")
	}
}

func TestGetByteRange(t *testing.T) {
	svc, _ := createTestService(t)

	if _, err := svc.Put("data.txt", "0123456789"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	tests := []struct {
		name       string
		offset     int64
		maxBytes   int64
		want       string
		wantOffset int64
	}{
		{"full file", 0, 0, "0123456789", 0},
		{"middle range", 2, 3, "234", 2},
		{"range past end", 8, 10, "89", 8},
		{"offset beyond file", 20, 5, "", 20},
		{"negative offset clamped", -5, 3, "012", 0},
		{"offset to end of file", 5, 0, "56789", 5},
		{"offset beyond file unbounded", 20, 0, "", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.Get("data.txt", tt.offset, tt.maxBytes)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if item.Content != tt.want {
				t.Errorf("content = %q, want %q", item.Content, tt.want)
			}
			if item.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", item.Offset, tt.wantOffset)
			}
			if item.TotalBytes != 10 {
				t.Errorf("total bytes = %d, want 10", item.TotalBytes)
			}
		})
	}
}

func TestGetRejectsBinary(t *testing.T) {
	svc, dir := createTestService(t)

	binPath := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(binPath, []byte{0x00, 0xff, 0xfe, 0x01}, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := svc.Get("blob.bin", 0, 0)
	if err == nil {
		t.Fatal("Get() on binary file succeeded, want error")
	}
	if !strings.Contains(err.Error(), "binary_or_invalid_utf8") {
		t.Errorf("error = %v, want binary_or_invalid_utf8", err)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	svc, _ := createTestService(t)

	paths := []string{
		"../escape.txt",
		"nested/../../escape.txt",
		"/etc/passwd",
	}

	for _, path := range paths {
		if _, err := svc.Put(path, "nope"); err == nil {
			t.Errorf("Put(%q) succeeded, want traversal error", path)
		}
		if _, err := svc.Get(path, 0, 0); err == nil {
			t.Errorf("Get(%q) succeeded, want traversal error", path)
		}
		if err := svc.Delete(path); err == nil {
			t.Errorf("Delete(%q) succeeded, want traversal error", path)
		}
	}
}

func TestEdit(t *testing.T) {
	svc, _ := createTestService(t)

	if _, err := svc.Put("code.txt", "alpha beta alpha"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Multiple occurrences without replace_all must fail
	if err := svc.Edit("code.txt", "alpha", "gamma", false); err == nil {
		t.Error("Edit() with ambiguous old_string succeeded, want error")
	}

	// replace_all resolves it
	if err := svc.Edit("code.txt", "alpha", "gamma", true); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	item, err := svc.Get("code.txt", 0, 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.Content != "gamma beta gamma" {
		t.Errorf("content = %q, want %q", item.Content, "gamma beta gamma")
	}

	// Single occurrence without replace_all
	if err := svc.Edit("code.txt", "beta", "delta", false); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	// Missing old_string
	if err := svc.Edit("code.txt", "epsilon", "zeta", false); err == nil {
		t.Error("Edit() with missing old_string succeeded, want error")
	}

	// Empty old_string
	if err := svc.Edit("code.txt", "", "zeta", false); err == nil {
		t.Error("Edit() with empty old_string succeeded, want error")
	}

	// Identical strings
	if err := svc.Edit("code.txt", "delta", "delta", false); err == nil {
		t.Error("Edit() with identical strings succeeded, want error")
	}
}

func TestListWithPrefix(t *testing.T) {
	svc, _ := createTestService(t)

	files := []string{"src/main.go", "src/util.go", "docs/guide.md"}
	for _, path := range files {
		if _, err := svc.Put(path, "content of "+path); err != nil {
			t.Fatalf("Put(%q) error = %v", path, err)
		}
	}

	items, err := svc.List("src/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("List(src/) returned %d items, want 2", len(items))
	}
	for _, item := range items {
		if !strings.HasPrefix(item.Path, "src/") {
			t.Errorf("listed path %q outside prefix", item.Path)
		}
	}
}

func TestSearch(t *testing.T) {
	svc, _ := createTestService(t)

	if _, err := svc.Put("src/main.go", "package main\nfunc main() {}"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := svc.Put("docs/guide.md", "How to build the project"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Content match, case-insensitive
	result, err := svc.Search("PACKAGE", 0, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Search(PACKAGE) total = %d, want 1", result.Total)
	}
	if result.Matches[0].Path != "src/main.go" {
		t.Errorf("match path = %q, want %q", result.Matches[0].Path, "src/main.go")
	}

	// Path match
	result, err = svc.Search("guide", 0, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Search(guide) total = %d, want 1", result.Total)
	}

	// No match
	result, err = svc.Search("nonexistent", 0, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 0 || len(result.Matches) != 0 {
		t.Errorf("Search(nonexistent) = %d matches, want 0", result.Total)
	}

	// Empty query
	if _, err := svc.Search("", 0, 0); err == nil {
		t.Error("Search() with empty query succeeded, want error")
	}
}

func TestSearchPagination(t *testing.T) {
	svc, _ := createTestService(t)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := svc.Put(name, "common marker"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	result, err := svc.Search("marker", 2, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
	if len(result.Matches) != 2 {
		t.Errorf("page size = %d, want 2", len(result.Matches))
	}

	result, err = svc.Search("marker", 2, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Matches) != 1 {
		t.Errorf("second page size = %d, want 1", len(result.Matches))
	}

	result, err = svc.Search("marker", 2, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Matches) != 0 {
		t.Errorf("past-end page size = %d, want 0", len(result.Matches))
	}
}

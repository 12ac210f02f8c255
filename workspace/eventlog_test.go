/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package workspace

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestEventLogAppendAndGet(t *testing.T) {
	svc, _ := createTestService(t)

	entry, err := svc.AppendLog("gradle", "build started")
	if err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}
	if entry.ID == "" {
		t.Error("AppendLog() returned entry without ID")
	}
	if entry.Timestamp == "" {
		t.Error("AppendLog() returned entry without timestamp")
	}

	if _, err := svc.AppendLog("", "build finished"); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}

	result, err := svc.GetLog(0, 0)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("GetLog() total = %d, want 2", result.Total)
	}
	if result.Events[0].Message != "build started" {
		t.Errorf("first event = %q, want %q", result.Events[0].Message, "build started")
	}
	if result.Events[0].Source != "gradle" {
		t.Errorf("first event source = %q, want %q", result.Events[0].Source, "gradle")
	}
	if result.Events[1].Message != "build finished" {
		t.Errorf("second event = %q, want %q", result.Events[1].Message, "build finished")
	}
}

func TestEventLogEmptyMessage(t *testing.T) {
	svc, _ := createTestService(t)

	if _, err := svc.AppendLog("test", ""); err == nil {
		t.Error("AppendLog() with empty message succeeded, want error")
	}
}

func TestEventLogMissingFile(t *testing.T) {
	svc, _ := createTestService(t)

	result, err := svc.GetLog(0, 0)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if result.Total != 0 {
		t.Errorf("GetLog() total = %d, want 0", result.Total)
	}
	if result.Events == nil {
		t.Error("GetLog() events = nil, want empty slice")
	}
}

func TestEventLogPagination(t *testing.T) {
	svc, _ := createTestService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.AppendLog("test", fmt.Sprintf("event %d", i)); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}
	}

	result, err := svc.GetLog(2, 1)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if len(result.Events) != 2 {
		t.Fatalf("page size = %d, want 2", len(result.Events))
	}
	if result.Events[0].Message != "event 1" {
		t.Errorf("first paged event = %q, want %q", result.Events[0].Message, "event 1")
	}

	result, err = svc.GetLog(10, 4)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if len(result.Events) != 1 {
		t.Errorf("tail page size = %d, want 1", len(result.Events))
	}

	result, err = svc.GetLog(10, 50)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if len(result.Events) != 0 {
		t.Errorf("past-end page size = %d, want 0", len(result.Events))
	}
}

func TestEventLogLargeEntry(t *testing.T) {
	svc, _ := createTestService(t)

	// Larger than bufio's default 64KB scan limit
	large := strings.Repeat("x", 70*1024)
	if _, err := svc.AppendLog("test", large); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}
	if _, err := svc.AppendLog("test", "after the big one"); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}

	result, err := svc.GetLog(10, 0)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("GetLog() total = %d, want 2", result.Total)
	}
	if result.Events[0].Message != large {
		t.Errorf("large event message length = %d, want %d", len(result.Events[0].Message), len(large))
	}
	if result.Events[1].Message != "after the big one" {
		t.Errorf("second event = %q, want %q", result.Events[1].Message, "after the big one")
	}
}

func TestEventLogConcurrentAppends(t *testing.T) {
	svc, _ := createTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = svc.AppendLog("worker", fmt.Sprintf("event %d", n))
		}(i)
	}
	wg.Wait()

	result, err := svc.GetLog(0, 0)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if result.Total != 10 {
		t.Errorf("total = %d, want 10", result.Total)
	}
}

func TestEventLogExcludedFromFileListing(t *testing.T) {
	svc, _ := createTestService(t)

	if _, err := svc.AppendLog("test", "first event"); err != nil {
		t.Fatalf("AppendLog() error = %v", err)
	}
	if _, err := svc.Put("visible.txt", "content"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	items, err := svc.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() returned %d items, want 1", len(items))
	}
	if items[0].Path != "visible.txt" {
		t.Errorf("listed path = %q, want %q", items[0].Path, "visible.txt")
	}
}

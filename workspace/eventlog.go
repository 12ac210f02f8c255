/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package workspace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// maxLogLineBytes bounds a single event log line on read
const maxLogLineBytes = 10 * 1024 * 1024

// LogEntry is one line of the workspace event log
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source,omitempty"`
	Message   string `json:"message"`
}

// LogResult is the response for log reads
type LogResult struct {
	Events []LogEntry `json:"events"`
	Total  int        `json:"total"`
}

// withLogLock executes a function while holding the event log's file lock.
// The lock covers other processes as well, not just this one.
func (s *Service) withLogLock(fn func() error) error {
	lock := flock.New(s.eventLogPath() + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire log lock: %w", err)
	}
	defer func(lock *flock.Flock) {
		_ = lock.Unlock()
	}(lock)

	return fn()
}

// AppendLog appends an entry to the workspace event log and returns it.
func (s *Service) AppendLog(source, message string) (*LogEntry, error) {
	if message == "" {
		return nil, fmt.Errorf("log message cannot be empty")
	}

	entry := &LogEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Source:    source,
		Message:   message,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log entry: %w", err)
	}

	err = s.withLogLock(func() error {
		f, err := os.OpenFile(s.eventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)

		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("Appended event log entry %s", entry.ID)
	return entry, nil
}

// GetLog reads event log entries with pagination. Entries are returned in
// append order; malformed lines are skipped.
func (s *Service) GetLog(limit, offset int) (*LogResult, error) {
	var allEvents []LogEntry

	err := s.withLogLock(func() error {
		f, err := os.Open(s.eventLogPath())
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)

		scanner := bufio.NewScanner(f)
		// Entries can exceed bufio's default 64KB token limit
		scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineBytes)
		for scanner.Scan() {
			var entry LogEntry
			if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
				continue
			}
			allEvents = append(allEvents, entry)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read event log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if allEvents == nil {
		allEvents = []LogEntry{}
	}
	total := len(allEvents)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return &LogResult{
		Events: allEvents[offset:end],
		Total:  total,
	}, nil
}

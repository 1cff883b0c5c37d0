package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is a
// JSON-serialized Record. The file is synced after every Append.
//
// Session identity: "<unix-timestamp>-<pid>.jsonl", so file names sort
// chronologically.
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       sessionIndex
	sessionID string
	startedAt time.Time
}

// NewJSONL creates the session JSONL log in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	sessionID := fmt.Sprintf("%d-%d", now.Unix(), os.Getpid())
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &JSONL{
		file:      f,
		sessionID: sessionID,
		startedAt: now,
	}, nil
}

// Append serializes rec as a JSON line, writes it to the file, and syncs.
// It is safe to call from multiple goroutines.
func (j *JSONL) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	j.idx.onAppend(rec)
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Summary returns totals for the records appended in this session.
func (j *JSONL) Summary() (Summary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Summary{
		SessionID: j.sessionID,
		StartedAt: j.startedAt,
		Total:     j.idx.total,
		Delivered: j.idx.delivered,
		Failed:    j.idx.failed,
		LastError: j.idx.lastError,
	}, nil
}

// ReadRecent returns up to limit records across all session files in dir,
// oldest first, and the number of malformed lines it skipped. limit <= 0
// returns everything. A missing dir yields no records.
func ReadRecent(dir string, limit int) ([]Record, int, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, 0, err
	}

	var records []Record
	skipped := 0
	for _, name := range files {
		recs, bad, err := readFile(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, err
		}
		records = append(records, recs...)
		skipped += bad
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, skipped, nil
}

func readFile(path string) ([]Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	var records []Record
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: read %q: %w", path, err)
	}
	return records, skipped, nil
}

// EnforceRetention removes the oldest session log files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir does
// not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return err
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

// sessionFiles lists the .jsonl files in dir in chronological order.
func sessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}

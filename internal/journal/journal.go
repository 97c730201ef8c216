// Package journal persists audit log lines to an append-only file shared
// between processes.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Journal appends audit records to a single on-disk file. Every record is
// prefixed with the per-process run id so interleaved writers can be told
// apart when the file is read back.
type Journal struct {
	path  string
	runID string

	mu   sync.Mutex
	lock *flock.Flock
	file *os.File
}

// Open creates or appends to the journal at path.
func Open(path string) (*Journal, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("journal: path required")
	}
	if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", trimmed, err)
	}
	return &Journal{
		path:  trimmed,
		runID: uuid.NewString(),
		lock:  flock.New(trimmed + ".lock"),
		file:  file,
	}, nil
}

// Record appends one line. The file lock keeps appends from other processes
// from interleaving mid-line; failures are swallowed so audit emission never
// blocks on journal trouble.
func (j *Journal) Record(line string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	if err := j.lock.Lock(); err != nil {
		return
	}
	defer j.lock.Unlock() //nolint:errcheck
	fmt.Fprintf(j.file, "%s %s\n", j.runID, line)
}

// RunID returns the identifier stamped on every record this process writes.
func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.runID
}

// Path returns the on-disk location backing the journal.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Lines reads the journal back, one record per element.
func (j *Journal) Lines() ([]string, error) {
	if j == nil {
		return nil, nil
	}
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal %s: %w", j.path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read journal %s: %w", j.path, err)
	}
	return lines, nil
}

// Close releases the journal file handle.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	var err error
	if j.file != nil {
		err = j.file.Close()
	}
	j.file = nil
	return err
}

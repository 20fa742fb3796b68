package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// JSONLStore stores records in a JSONL file with automatic rotation.
type JSONLStore struct {
	logger *lumberjack.Logger
	path   string
}

// NewJSONLStore creates a store with rotation options in megabytes and days.
func NewJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLStore, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &JSONLStore{logger: lj, path: path}, nil
}

// Append writes the record and triggers rotation if needed.
func (s *JSONLStore) Append(ctx context.Context, rec LogRecord) error {
	_ = ctx
	enc := json.NewEncoder(s.logger)
	return enc.Encode(rec)
}

// Query reads the live file and rotated backups. Results are ordered by
// timestamp since rotated files glob in lexical, not chronological, order.
func (s *JSONLStore) Query(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	_ = ctx
	// Rotated backups are named prefix-<timestamp>.ext, so the pattern
	// must wildcard between base name and extension.
	pattern := s.path + "*"
	if ext := filepath.Ext(s.path); ext != "" {
		pattern = strings.TrimSuffix(s.path, ext) + "*" + ext
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var res []LogRecord
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var r LogRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if !q.Matches(r) {
				continue
			}
			res = append(res, r)
		}
		_ = file.Close()
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return q.Tail(res), nil
}

// Close closes the underlying writer.
func (s *JSONLStore) Close() error {
	return s.logger.Close()
}

package storage

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// JSONLSink appends training records to a line-delimited JSON file, one
// compact object per line with fixed key order.
type JSONLSink struct {
	path     string
	file     *os.File
	existing int
	count    int
	logger   *slog.Logger
}

// NewJSONLSink opens outputPath for append, creating parent directories as
// needed. Lines already present in the file are counted so the closing
// summary can report the file's running total.
func NewJSONLSink(outputPath string, logger *slog.Logger) (*JSONLSink, error) {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("create output dir: %w", err)}
		}
	}

	existing, err := countLines(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "jsonl", Err: err}
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("open output file: %w", err)}
	}

	return &JSONLSink{
		path:     outputPath,
		file:     f,
		existing: existing,
		logger:   logger.With("component", "jsonl_sink"),
	}, nil
}

func (s *JSONLSink) Name() string { return "jsonl" }

// Append writes each record as one JSON line and syncs the batch to disk.
func (s *JSONLSink) Append(records []types.TrainingRecord) error {
	if s.file == nil {
		return &types.StorageError{Backend: "jsonl", Err: types.ErrSinkClosed}
	}

	for _, rec := range records {
		line, err := rec.MarshalLine()
		if err != nil {
			return &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("encode record: %w", err)}
		}
		if _, err := s.file.Write(append(line, '\n')); err != nil {
			return &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("write record: %w", err)}
		}
		s.count++
	}

	if err := s.file.Sync(); err != nil {
		return &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("sync: %w", err)}
	}
	return nil
}

// Count returns records written during this run.
func (s *JSONLSink) Count() int { return s.count }

func (s *JSONLSink) Close() error {
	if s.file == nil {
		return nil
	}
	s.logger.Info("JSONL written",
		"path", s.path,
		"records", s.count,
		"file_total", s.existing+s.count,
	)
	err := s.file.Close()
	s.file = nil
	return err
}

// countLines counts newline-terminated lines in path; a missing file counts
// as zero.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open existing output: %w", err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan existing output: %w", err)
	}
	return n, nil
}

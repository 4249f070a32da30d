package storage

import (
	"fmt"
	"log/slog"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// Sink is the interface for dataset output backends.
type Sink interface {
	// Append persists a batch of records, flushing before returning so
	// partial progress survives a later crash.
	Append(records []types.TrainingRecord) error

	// Count returns how many records this sink has written during the run.
	Count() int

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the sink backend identifier.
	Name() string
}

// NewSink creates the configured sink backend.
func NewSink(cfg *config.StorageConfig, logger *slog.Logger) (Sink, error) {
	switch cfg.Type {
	case "jsonl":
		return NewJSONLSink(cfg.OutputPath, logger)
	case "mongodb":
		return NewMongoSink(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	case "multi":
		jsonl, err := NewJSONLSink(cfg.OutputPath, logger)
		if err != nil {
			return nil, err
		}
		mongo, err := NewMongoSink(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		if err != nil {
			jsonl.Close()
			return nil, err
		}
		return NewMultiSink([]Sink{jsonl, mongo}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// MultiSink fans records out to multiple backends.
type MultiSink struct {
	backends []Sink
	logger   *slog.Logger
}

// NewMultiSink creates a sink that writes to every backend.
func NewMultiSink(backends []Sink, logger *slog.Logger) *MultiSink {
	return &MultiSink{
		backends: backends,
		logger:   logger.With("component", "multi_sink"),
	}
}

func (s *MultiSink) Name() string { return "multi" }

func (s *MultiSink) Append(records []types.TrainingRecord) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Append(records); err != nil {
			s.logger.Error("backend append failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiSink) Count() int {
	if len(s.backends) == 0 {
		return 0
	}
	return s.backends[0].Count()
}

func (s *MultiSink) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

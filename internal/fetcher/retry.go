package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// RetryingFetcher decorates a Fetcher with exponential-backoff retries for
// retryable failures. Retries are off by default; wrapping only happens when
// fetcher.max_retries is set above zero.
type RetryingFetcher struct {
	inner           Fetcher
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *slog.Logger
}

// NewRetryingFetcher wraps inner with the configured retry policy. When the
// config disables retries the inner fetcher is returned unchanged.
func NewRetryingFetcher(inner Fetcher, cfg *config.FetcherConfig, logger *slog.Logger) Fetcher {
	if cfg.MaxRetries <= 0 {
		return inner
	}
	return &RetryingFetcher{
		inner:           inner,
		maxRetries:      uint64(cfg.MaxRetries),
		initialInterval: cfg.RetryInitialInterval,
		maxInterval:     cfg.RetryMaxInterval,
		logger:          logger.With("component", "retrying_fetcher"),
	}
}

// Fetch retries the inner fetch on retryable errors, honoring Retry-After
// hints from rate-limited responses.
func (f *RetryingFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initialInterval
	b.MaxInterval = f.maxInterval

	bo := backoff.WithContext(backoff.WithMaxRetries(b, f.maxRetries), ctx)

	var page *Page
	attempt := 0

	op := func() error {
		attempt++
		p, err := f.inner.Fetch(ctx, rawURL)
		if err == nil {
			page = p
			return nil
		}

		var fe *types.FetchError
		if errors.As(err, &fe) && fe.Retryable {
			if fe.RetryAfter > 0 {
				// A server hint outranks our own schedule.
				select {
				case <-time.After(fe.RetryAfter):
				case <-ctx.Done():
					return backoff.Permanent(ctx.Err())
				}
			}
			f.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, bo); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}
	return page, nil
}

// Close closes the inner fetcher.
func (f *RetryingFetcher) Close() error {
	return f.inner.Close()
}

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// Ensure Acquirer implements the interface.
var _ driven.Acquirer = (*Acquirer)(nil)

// Default configuration values.
const (
	DefaultConcurrency  = 4
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryDelay   = 500 * time.Millisecond
	DefaultMaxBodyBytes = 5 << 20
)

const acceptHeader = "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5"

// Config holds configuration for the web acquirer.
type Config struct {
	// UserAgent is sent with every request (default: domain.DefaultUserAgent).
	UserAgent string

	// Concurrency bounds the number of requests in flight (default: 4).
	Concurrency int

	// RatePerSecond limits request starts (default: 5).
	RatePerSecond float64

	// Burst is the token bucket size (default: 2).
	Burst int

	// Timeout bounds each request including the body read (default: 30s).
	Timeout time.Duration

	// MaxRetries is the number of retries for temporary failures (default: 2).
	// Use a negative value to disable retries.
	MaxRetries int

	// RetryDelay is the initial backoff, doubled per retry (default: 500ms).
	RetryDelay time.Duration

	// MaxBodyBytes caps the response size (default: 5 MiB).
	MaxBodyBytes int64

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Acquirer fetches web pages concurrently.
type Acquirer struct {
	client       *http.Client
	userAgent    string
	concurrency  int
	timeout      time.Duration
	maxRetries   int
	retryDelay   time.Duration
	maxBodyBytes int64
	limiter      *limiter
}

// New creates a web acquirer.
func New(cfg Config) *Acquirer {
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Acquirer{
		client:       cfg.HTTPClient,
		userAgent:    cfg.UserAgent,
		concurrency:  cfg.Concurrency,
		timeout:      cfg.Timeout,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		maxBodyBytes: cfg.MaxBodyBytes,
		limiter:      newLimiter(cfg.RatePerSecond, cfg.Burst),
	}
}

// Acquire fetches every location and returns the successful documents in
// input order. Failed locations are logged and dropped. When nothing could
// be fetched the error is a *domain.AcquisitionError wrapping
// domain.ErrEmptyCorpus.
func (a *Acquirer) Acquire(ctx context.Context, locations []string) ([]domain.RawDocument, error) {
	logger.Section("Acquiring")
	logger.Debug("fetching %d location(s) with %d worker(s)", len(locations), a.concurrency)

	docs := make([]*domain.RawDocument, len(locations))
	errs := make([]error, len(locations))

	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i, loc := range locations {
		wg.Add(1)
		go func(i int, loc string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			docs[i], errs[i] = a.fetch(ctx, loc)
		}(i, loc)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}

	result := make([]domain.RawDocument, 0, len(locations))
	var failures []domain.FetchFailure
	for i, loc := range locations {
		if errs[i] != nil {
			logger.Warn("skipping %s: %v", loc, errs[i])
			failures = append(failures, domain.FetchFailure{URI: loc, Err: errs[i]})
			continue
		}
		logger.Debug("fetched %s (%d bytes, %s)", loc, len(docs[i].Content), docs[i].MIMEType)
		result = append(result, *docs[i])
	}

	if len(result) == 0 {
		return nil, &domain.AcquisitionError{Failures: failures, Empty: true}
	}
	if len(failures) > 0 {
		logger.Warn("acquired %d of %d location(s)", len(result), len(locations))
	}

	return result, nil
}

// fetch retrieves one location, retrying temporary failures with backoff.
func (a *Acquirer) fetch(ctx context.Context, loc string) (*domain.RawDocument, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, loc)
	}

	delay := a.retryDelay
	var lastErr error

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			wait := delay
			var statusErr *StatusError
			if errors.As(lastErr, &statusErr) && statusErr.RetryAfter > wait {
				wait = statusErr.RetryAfter
			}
			logger.Debug("retrying %s in %s (attempt %d)", loc, wait, attempt+1)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			delay *= 2
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, err := a.fetchOnce(ctx, loc)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		var statusErr *StatusError
		if !errors.As(err, &statusErr) || !statusErr.Temporary() {
			break
		}
	}

	return nil, lastErr
}

func (a *Acquirer) fetchOnce(ctx context.Context, loc string) (*domain.RawDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck
		return nil, &StatusError{
			URI:        loc,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > a.maxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, a.maxBodyBytes)
	}

	finalURL := loc
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.RawDocument{
		URI:       loc,
		MIMEType:  mediaType(resp.Header.Get("Content-Type"), body),
		Content:   body,
		FetchedAt: time.Now(),
		Metadata: map[string]any{
			"status_code": resp.StatusCode,
			"final_url":   finalURL,
		},
	}, nil
}

// mediaType returns the media type without parameters, sniffing the body
// when the server did not send one.
func mediaType(header string, body []byte) string {
	if header == "" {
		header = http.DetectContentType(body)
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

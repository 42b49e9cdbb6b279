package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamedeals/freegames/internal/model"
)

// SourceAdapter fetches raw listings for one storefront.
type SourceAdapter interface {
	Source() model.Source
	Fetch(ctx context.Context) ([]model.RawListing, error)
}

// TransportError indicates the storefront could not be reached or answered
// with a non-success status.
type TransportError struct {
	Source model.Source
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError indicates the storefront answered but the payload could not be
// interpreted.
type ParseError struct {
	Source model.Source
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// statusError is returned for non-2xx responses so retry logic can inspect
// the status code before the error is wrapped as a TransportError.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *statusError) retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// settings is the shared configuration embedded in every adapter.
type settings struct {
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// Option configures an adapter.
type Option func(*settings)

// WithBaseURL overrides the storefront base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) Option {
	return func(s *settings) {
		s.maxRetries = max
		s.retryBackoff = backoff
	}
}

func newSettings(defaultBaseURL string, opts ...Option) settings {
	s := settings{
		baseURL: defaultBaseURL,
		// No client-level timeout: the collector bounds each fetch through
		// the context it passes in.
		httpClient:   &http.Client{},
		logger:       slog.Default(),
		maxRetries:   2,
		retryBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// New constructs the adapter for a storefront.
func New(src model.Source, opts ...Option) (SourceAdapter, error) {
	switch src {
	case model.SourceEpic:
		return NewEpic(opts...), nil
	case model.SourceSteam:
		return NewSteam(opts...), nil
	case model.SourceGOG:
		return NewGOG(opts...), nil
	case model.SourceItchIO:
		return NewItchIO(opts...), nil
	case model.SourceUbisoft:
		return NewUbisoft(opts...), nil
	case model.SourceAmazon:
		return NewAmazon(opts...), nil
	default:
		return nil, fmt.Errorf("no adapter for source %q", src)
	}
}

// fetchBody performs a GET with retries and returns the response body.
// Network and status failures come back as *TransportError.
func (s *settings) fetchBody(ctx context.Context, src model.Source, url string) ([]byte, error) {
	var lastErr error
	backoff := s.retryBackoff

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			s.logger.Debug("retrying fetch",
				"source", src,
				"attempt", attempt,
				"backoff", jitter,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := s.doGet(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			// Let the collector classify cancellation as a timeout rather
			// than a transport failure.
			return nil, ctx.Err()
		}

		lastErr = err

		statusErr, ok := err.(*statusError)
		if ok && !statusErr.retryable() {
			break
		}
	}

	return nil, &TransportError{Source: src, Err: lastErr}
}

func (s *settings) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &statusError{StatusCode: resp.StatusCode}
	}

	return body, nil
}

// fetchDocument fetches a page and parses it with goquery.
func (s *settings) fetchDocument(ctx context.Context, src model.Source, url string) (*goquery.Document, error) {
	body, err := s.fetchBody(ctx, src, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: src, Err: err}
	}
	return doc, nil
}

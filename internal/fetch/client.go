package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Options configures a Client. Zero values take the package defaults.
type Options struct {
	MaxRetries  int
	Timeout     time.Duration
	BackoffUnit time.Duration
	UserAgent   string

	Logger  *slog.Logger
	Metrics *Metrics      // optional
	Stats   *LatencyStats // optional
}

// Client performs GET requests with bounded retries and exponential backoff.
// It is safe for concurrent use; connections are pooled across calls.
type Client struct {
	http        *resty.Client
	maxRetries  int
	backoffUnit time.Duration
	log         *slog.Logger
	metrics     *Metrics
	stats       *LatencyStats
}

func New(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = DefaultBackoffUnit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:        client,
		maxRetries:  opts.MaxRetries,
		backoffUnit: opts.BackoffUnit,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		stats:       opts.Stats,
	}
}

// MaxRetries returns the number of attempts made per Fetch.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Fetch retrieves url and parses it into a document. Transport errors,
// timeouts and non-2xx statuses are retried; once attempts are exhausted a
// *FetchError wrapping the last failure is returned. A successful response
// is never retried, whatever its content.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	log := c.log.With("url", url)

	var lastErr error
	for attempt := range c.maxRetries {
		log.Info("fetching page", "attempt", attempt+1, "max_retries", c.maxRetries)

		body, err := c.get(ctx, url)
		if err == nil {
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("parse html: %w", err)
			}
			return doc, nil
		}

		lastErr = err
		log.Warn("fetch attempt failed", "attempt", attempt+1, "max_retries", c.maxRetries, "error", err)
		if attempt+1 >= c.maxRetries {
			break
		}

		wait := Backoff(attempt, c.backoffUnit)
		log.Info("retrying", "wait", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			c.metrics.exhausted()
			return nil, &FetchError{URL: url, Attempts: attempt + 1, Err: ctx.Err()}
		}
	}

	c.metrics.exhausted()
	return nil, &FetchError{URL: url, Attempts: c.maxRetries, Err: lastErr}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(outcomeError, elapsed)
		return nil, err
	}
	if code := res.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		c.observe(outcomeStatus, elapsed)
		return nil, &StatusError{Code: code, Status: res.Status()}
	}
	c.observe(outcomeSuccess, elapsed)
	return res.Body(), nil
}

func (c *Client) observe(outcome string, elapsed time.Duration) {
	c.metrics.attempt(outcome, elapsed)
	if c.stats != nil {
		c.stats.Record(elapsed.Milliseconds(), outcome == outcomeSuccess)
	}
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

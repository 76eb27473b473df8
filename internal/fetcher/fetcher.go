// Package fetcher performs the single outbound HTTP GET behind every cache miss.
package fetcher

//go:generate mockgen -destination=../../testutils/mocks/fetcher/fetcher_mock.go -package=fetcher github.com/jonesrussell/trendscout/internal/fetcher Fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/trendscout/internal/logger"
)

// Defaults applied by New when the config leaves a field empty.
const (
	DefaultUserAgent   = "trendscout/1.0 (+https://github.com/jonesrussell/trendscout)"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 10 * 1024 * 1024
)

var (
	// ErrEmptyURL is returned when a request carries no URL.
	ErrEmptyURL = errors.New("empty url")
	// ErrUnexpectedStatus is wrapped when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Request describes one page download.
type Request struct {
	URL string
	// Timeout overrides Config.Timeout when positive.
	Timeout time.Duration
}

// Fetcher downloads raw page bodies.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// Config holds fetcher settings.
type Config struct {
	UserAgent   string        `mapstructure:"user_agent"    yaml:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	MaxBodySize int           `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// CollyFetcher is a Fetcher backed by a fresh colly collector per request.
type CollyFetcher struct {
	cfg Config
	log logger.Interface
}

var _ Fetcher = (*CollyFetcher)(nil)

// New creates a CollyFetcher, filling unset config fields with defaults.
func New(cfg Config, log logger.Interface) *CollyFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &CollyFetcher{cfg: cfg, log: log.WithComponent("fetcher")}
}

// Fetch performs a GET for req.URL and returns the response body.
// Any transport failure or non-2xx response is returned as an error.
func (f *CollyFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if req.URL == "" {
		return nil, ErrEmptyURL
	}

	timeout := f.cfg.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxBodySize(f.cfg.MaxBodySize),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	var (
		body      []byte
		status    int
		statusErr error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			status = r.StatusCode
			statusErr = fmt.Errorf("%w %d %s", ErrUnexpectedStatus, r.StatusCode, http.StatusText(r.StatusCode))
		}
	})

	start := time.Now()
	err := c.Visit(req.URL)
	if statusErr != nil {
		err = statusErr
	}
	if err == nil && (status < http.StatusOK || status >= http.StatusMultipleChoices) {
		err = fmt.Errorf("%w %d %s", ErrUnexpectedStatus, status, http.StatusText(status))
	}
	if err != nil {
		f.log.Debug("Fetch failed",
			"url", req.URL,
			"status", status,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, fmt.Errorf("GET %s: %w", req.URL, err)
	}

	f.log.Debug("Fetched page",
		"url", req.URL,
		"status", status,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, nil
}

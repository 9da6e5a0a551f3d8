package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/metrics"
)

// DefaultUserAgent is sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// Config holds the scraper settings.
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	Logger            *zap.Logger
}

// Client fetches product pages and extracts product records from them.
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new scraper client
func NewClient(cfg Config) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(max(cfg.MaxRetries, 0)).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:      logger,
	}
}

// SetDebug enables or disables request/response dumps
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
	c.http.SetDebug(debug)
}

// Scrape fetches url and extracts a product record. Transport errors,
// non-2xx responses and unparseable bodies are wrapped in
// domain.ErrScrapeFailed.
func (c *Client) Scrape(ctx context.Context, url string) (*domain.ProductRecord, error) {
	rec, err := c.scrape(ctx, url)
	if err != nil {
		metrics.ScrapesTotal.WithLabelValues("error").Inc()
		c.logger.Warn("scrape failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	metrics.ScrapesTotal.WithLabelValues("success").Inc()
	c.logger.Debug("scraped product",
		zap.String("url", url),
		zap.String("title", rec.Title),
		zap.Int("features", len(rec.Features)),
	)
	return rec, nil
}

func (c *Client) scrape(ctx context.Context, url string) (*domain.ProductRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrScrapeFailed, err)
	}

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrScrapeFailed, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrScrapeFailed, err)
	}

	rec := ParseProduct(doc, url)
	return &rec, nil
}

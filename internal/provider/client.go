package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/pkg/retry"
	"github.com/Amitro123/EventPulse/pkg/telemetry"
)

const maxBodyBytes = 4 << 20

// Options tunes the HTTP behaviour shared by the live adapters
type Options struct {
	HTTPClient *http.Client
	Retry      *retry.Config
	Breaker    BreakerConfig
}

// BreakerConfig tunes the per-provider circuit breaker
type BreakerConfig struct {
	// MaxRequests is the number of trial calls allowed while half open
	MaxRequests uint32
	// Interval resets closed-state counters; zero keeps counters forever
	Interval time.Duration
	// Timeout is how long the breaker stays open before a trial call
	Timeout time.Duration
	// MinRequests must be reached before the failure ratio is considered
	MinRequests uint32
	// FailureRatio trips the breaker once reached
	FailureRatio float64
	// OnStateChange observes transitions, e.g. for the breaker-state gauge
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns the breaker settings used for provider calls
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// settings maps the config onto gobreaker
func (c BreakerConfig) settings(name string) gobreaker.Settings {
	minRequests, ratio := c.MinRequests, c.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: c.MaxRequests,
		Interval:    c.Interval,
		Timeout:     c.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests || counts.Requests == 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: c.OnStateChange,
	}
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		HTTPClient: NewHTTPClient(30 * time.Second),
		Retry:      retry.DefaultConfig(),
		Breaker:    DefaultBreakerConfig(),
	}
}

// NewHTTPClient builds a pooled client for provider APIs
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// apiClient performs JSON GETs behind a circuit breaker with retries
type apiClient struct {
	http    *http.Client
	retrier *retry.Retrier
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func newAPIClient(name domain.ProviderID, opts Options) *apiClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(30 * time.Second)
	}
	return &apiClient{
		http:    opts.HTTPClient,
		retrier: retry.New(opts.Retry),
		breaker: gobreaker.NewCircuitBreaker[struct{}](opts.Breaker.settings(name.String())),
	}
}

// getJSON decodes the body of GET endpoint?params into out
func (c *apiClient) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		result := c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.fetch(ctx, target, out)
		})
		return struct{}{}, result.Err
	})
	return err
}

func (c *apiClient) fetch(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	telemetry.InjectHeaders(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := retry.ClassifyStatus(resp.StatusCode, snippet(body)); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return retry.Permanent(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}
	return nil
}

func snippet(body []byte) string {
	const max = 100
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}

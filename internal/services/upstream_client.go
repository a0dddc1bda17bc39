package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/models"
)

const (
	ResourceUser         = "user"
	ResourceWallet       = "wallet"
	ResourceTransactions = "transactions"
)

var (
	ErrUpstreamUnauthorized = errors.New("upstream rejected the request as unauthorized")
	ErrUpstreamTimeout      = errors.New("upstream request timed out")
	ErrUpstreamServer       = errors.New("upstream server error")
	ErrUpstreamResponse     = errors.New("unexpected upstream response")
)

// UpstreamError describes a failed call to the wallet API
type UpstreamError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type headerTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	return t.base.RoundTrip(req)
}

// UpstreamClient reads the user, wallet and transactions resources from the wallet API
type UpstreamClient struct {
	baseURL string
	client  *http.Client
	breaker CircuitBreakerInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewUpstreamClient creates a client for the API at cfg.BaseURL
func NewUpstreamClient(
	cfg *config.UpstreamConfig,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) *UpstreamClient {
	client := &http.Client{
		Transport: &headerTransport{
			userAgent: "wallet-dashboard/1.0",
			base:      http.DefaultTransport,
		},
		Timeout: cfg.Timeout,
	}

	return &UpstreamClient{
		baseURL: cfg.BaseURL,
		client:  client,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *UpstreamClient) GetUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, ResourceUser, "/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UpstreamClient) GetWallet(ctx context.Context) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := c.get(ctx, ResourceWallet, "/wallet", &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (c *UpstreamClient) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.get(ctx, ResourceTransactions, "/transactions", &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

func (c *UpstreamClient) get(ctx context.Context, resource, path string, out any) error {
	if c.breaker.IsOpen() {
		c.record(resource, "rejected")
		return &UpstreamError{Resource: resource, Err: ErrCircuitBreakerOpen}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Resource: resource, Err: fmt.Errorf("create request: %w", err)}
	}

	start := time.Now()
	resp, body, err := c.do(req)
	c.metrics.RecordProcessingTime(MetricUpstreamLatencyPrefix+resource, time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.record(resource, "canceled")
			return &UpstreamError{Resource: resource, Err: err}
		}
		c.breaker.RecordFailure()
		c.record(resource, "failed")
		if isTimeout(err) {
			return &UpstreamError{Resource: resource, Err: fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)}
		}
		return &UpstreamError{Resource: resource, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			c.breaker.RecordFailure()
			c.record(resource, "failed")
			return &UpstreamError{Resource: resource, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: decode body: %v", ErrUpstreamResponse, err)}
		}
		c.breaker.RecordSuccess()
		c.record(resource, "success")
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.ErrorContext(ctx, "unauthorized access to wallet API",
			"resource", resource,
			"url", req.URL.String(),
		)
		c.record(resource, "unauthorized")
		return &UpstreamError{Resource: resource, StatusCode: resp.StatusCode, Err: ErrUpstreamUnauthorized}

	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.ErrorContext(ctx, "wallet API server error",
			"resource", resource,
			"status", resp.StatusCode,
			"body", truncate(body, 512),
		)
		c.breaker.RecordFailure()
		c.record(resource, "failed")
		return &UpstreamError{Resource: resource, StatusCode: resp.StatusCode, Err: ErrUpstreamServer}

	default:
		c.logger.WarnContext(ctx, "unexpected wallet API status",
			"resource", resource,
			"status", resp.StatusCode,
		)
		c.record(resource, "failed")
		return &UpstreamError{Resource: resource, StatusCode: resp.StatusCode, Err: ErrUpstreamResponse}
	}
}

func (c *UpstreamClient) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error(
			"wallet API request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		return nil, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp, body, nil
}

func (c *UpstreamClient) record(resource, status string) {
	c.metrics.IncrementCounter(MetricUpstreamRequest, map[string]string{
		"resource": resource,
		"status":   status,
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

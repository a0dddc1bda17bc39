package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/database"
	"wallet-dashboard/internal/dto"
	"wallet-dashboard/internal/errors"
	"wallet-dashboard/internal/middleware"
	"wallet-dashboard/internal/models"
	"wallet-dashboard/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	cfg *config.Config
	app *application
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.cfg = &config.Config{
		Server: config.ServerConfig{
			Environment:      "testing",
			CORSAllowOrigins: []string{"*"},
		},
		Upstream: config.UpstreamConfig{
			Demo:     true,
			DemoSeed: 7,
			Timeout:  time.Second,
		},
		Cache: config.CacheConfig{
			UserStaleTime:         time.Minute,
			UserGCTime:            time.Minute,
			WalletStaleTime:       time.Minute,
			WalletGCTime:          time.Minute,
			TransactionsStaleTime: time.Minute,
			TransactionsGCTime:    time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitPerSecond: 100,
			RateLimitBurst:     100,
		},
	}
	s.app = s.newApp(nil)
}

func (s *ServerTestSuite) newApp(db *database.DB) *application {
	metrics := services.NewPrometheusMetricsWithRegistry(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newApplication(s.cfg, db, metrics, logger)
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.app.echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
}

func (s *ServerTestSuite) TestTransactionsUnfilteredByDefault() {
	rec := s.do(http.MethodGet, "/api/v1/transactions", "")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get(middleware.TraceIDHeader))

	var resp struct {
		Data models.TransactionList `json:"data"`
	}
	s.decode(rec, &resp)
	s.False(resp.Data.Applied)
	s.Equal(24, resp.Data.Count)
	s.Len(resp.Data.Items, 24)
}

func (s *ServerTestSuite) TestApplyAllTimeKeepsEverything() {
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/api/v1/filters/quick", `{"period":"All Time"}`).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/filters/apply", "").Code)

	rec := s.do(http.MethodGet, "/api/v1/transactions/raw", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data dto.RawTransactionsResponse `json:"data"`
	}
	s.decode(rec, &resp)
	s.True(resp.Data.Applied)
	s.Equal(24, resp.Data.Count)
}

func (s *ServerTestSuite) TestUnknownTypeLabelDoesNotFilter() {
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/api/v1/filters/types", `{"labels":["Nope"]}`).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/filters/apply", "").Code)

	rec := s.do(http.MethodGet, "/api/v1/transactions/raw", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data dto.RawTransactionsResponse `json:"data"`
	}
	s.decode(rec, &resp)
	s.True(resp.Data.Applied)
	s.Equal(24, resp.Data.Count)
}

func (s *ServerTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/v1/nope", "")

	s.Equal(http.StatusNotFound, rec.Code)
	var resp errors.ErrorResponse
	s.decode(rec, &resp)
	s.Equal(string(errors.ResourceNotFound), resp.Error.Code)
}

func (s *ServerTestSuite) TestHealthWithoutDatabase() {
	rec := s.do(http.MethodGet, "/health", "")

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp dto.HealthResponse
	s.decode(rec, &resp)
	s.Equal("disabled", resp.Database)
	s.Equal("none", resp.CircuitBreaker)
	s.Len(resp.Caches, 3)
}

func (s *ServerTestSuite) TestSnapshotsPersisted() {
	db := database.SetupTestDB(s.T())
	s.app = s.newApp(db)

	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/user", "").Code)

	snapshot, err := s.app.snapshots.Get(context.Background(), services.ResourceUser)
	s.Require().NoError(err)
	s.NotEmpty(snapshot.Payload)

	rec := s.do(http.MethodGet, "/health", "")
	var resp dto.HealthResponse
	s.decode(rec, &resp)
	s.Equal("connected", resp.Database)
}

func (s *ServerTestSuite) TestUpstreamModeHasBreaker() {
	s.cfg.Upstream.Demo = false
	s.cfg.Upstream.BaseURL = "http://127.0.0.1:1"
	s.cfg.Upstream.CircuitBreakerThreshold = 3
	s.cfg.Upstream.CircuitBreakerTimeout = time.Minute

	s.app = s.newApp(nil)

	s.Require().NotNil(s.app.breaker)
	s.Equal(services.StateClosed, s.app.breaker.GetState())
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	rec := s.do(http.MethodGet, "/metrics", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}

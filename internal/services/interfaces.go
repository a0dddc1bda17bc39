package services

import (
	"context"
	"time"

	"wallet-dashboard/internal/cache"
	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
)

// DataSourceInterface is the remote wallet API: one call per resource
type DataSourceInterface interface {
	GetUser(ctx context.Context) (*models.User, error)
	GetWallet(ctx context.Context) (*models.Wallet, error)
	GetTransactions(ctx context.Context) ([]models.Transaction, error)
}

// MetricsRecorderInterface records named counters, timings and gauges
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// CircuitBreakerInterface guards calls to the upstream API
type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// DashboardServiceInterface serves the dashboard views. Every view that depends on
// transactions is computed only from a successful fetch.
type DashboardServiceInterface interface {
	GetUser(ctx context.Context) (*models.User, error)
	GetWallet(ctx context.Context) (*models.Wallet, error)
	GetOverview(ctx context.Context) (*models.DashboardOverview, error)
	GetFilteredTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransactionList(ctx context.Context) (*models.TransactionList, error)
	GetBalanceHistory(ctx context.Context) (*models.BalanceHistory, error)
	Filters() *filter.Store
	CacheStates() []cache.State
	Invalidate()
	CollectGarbage() int
}

package dto

import (
	"wallet-dashboard/internal/cache"
	"wallet-dashboard/internal/models"
)

// RawTransactionsResponse wraps the filtered API records
type RawTransactionsResponse struct {
	Count        int                  `json:"count"`
	Applied      bool                 `json:"applied"`
	Transactions []models.Transaction `json:"transactions"`
}

// HealthResponse reports the service, its optional snapshot store and the caches
type HealthResponse struct {
	Status         string        `json:"status"`
	Time           string        `json:"time"`
	Database       string        `json:"database"`
	CircuitBreaker string        `json:"circuit_breaker"`
	Caches         []cache.State `json:"caches"`
}

// RefreshResponse reports how many cached resources were marked stale
type RefreshResponse struct {
	Invalidated int `json:"invalidated"`
}

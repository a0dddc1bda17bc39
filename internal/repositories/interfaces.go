package repositories

import (
	"context"
	"time"

	"wallet-dashboard/internal/models"
)

// SnapshotRepositoryInterface defines the contract for resource snapshot storage
type SnapshotRepositoryInterface interface {
	Get(ctx context.Context, key string) (*models.ResourceSnapshot, error)
	Save(ctx context.Context, snapshot *models.ResourceSnapshot) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

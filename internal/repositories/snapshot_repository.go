package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wallet-dashboard/internal/models"
)

var (
	ErrSnapshotNotFound = errors.New("resource snapshot not found")
)

// SnapshotRepository persists the last successful payload of each cached resource
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *gorm.DB) SnapshotRepositoryInterface {
	return &SnapshotRepository{
		db: db,
	}
}

// Get retrieves the snapshot stored under key
func (r *SnapshotRepository) Get(ctx context.Context, key string) (*models.ResourceSnapshot, error) {
	var snapshot models.ResourceSnapshot

	if err := r.db.WithContext(ctx).Where("resource_key = ?", key).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot %q: %w", key, err)
	}

	return &snapshot, nil
}

// Save inserts the snapshot or replaces the one already stored under its key
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *models.ResourceSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}
	if snapshot.Key == "" {
		return errors.New("snapshot key cannot be empty")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "updated_at"}),
	}).Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", snapshot.Key, err)
	}

	return nil
}

// DeleteOlderThan removes snapshots fetched before cutoff and returns how many were removed
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("fetched_at < ?", cutoff).Delete(&models.ResourceSnapshot{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", result.Error)
	}

	return result.RowsAffected, nil
}

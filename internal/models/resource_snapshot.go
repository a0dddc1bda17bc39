package models

import "time"

// ResourceSnapshot stores the last successful upstream payload of a cached resource
type ResourceSnapshot struct {
	Key       string    `gorm:"column:resource_key;type:varchar(64);primaryKey" json:"key"`
	Payload   []byte    `gorm:"not null" json:"-"`
	FetchedAt time.Time `gorm:"not null;index" json:"fetched_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (*ResourceSnapshot) TableName() string {
	return "resource_snapshots"
}

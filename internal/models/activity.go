package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records one staff action against a ledger, catalog or challan.
// CorrelationID links the entry to the request and to any published event.
type ActivityLog struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ActorID       uint              `gorm:"not null;index:idx_activity_actor_time,priority:1" json:"actor_id"`
	ActorRole     string            `gorm:"size:32;not null" json:"actor_role"`
	Department    string            `gorm:"size:20;index" json:"department"`
	Action        string            `gorm:"size:64;not null;index" json:"action"`
	EntityType    string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID      *uint             `json:"entity_id"`
	CorrelationID string            `gorm:"size:128;index" json:"correlation_id"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `gorm:"index:idx_activity_actor_time,priority:2" json:"created_at"`
}

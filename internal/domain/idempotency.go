// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency records the outcome of a previously processed vote request,
// keyed by (poll_id, key). It gives anonymous callers a best-effort dedup
// hint: replaying the same Idempotency-Key returns the originally produced
// response without inserting a second ballot. Authenticated voters do not
// need it; their uniqueness is enforced by the votes table itself.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	PollID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_poll_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_poll_key,priority:2"`
	VoteID    string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

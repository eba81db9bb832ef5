// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

// PollsStats returns aggregate metadata for a poll listing: the total number
// of matching rows and the most recent PublishedAt among them. An empty
// ownerID means all owners; publicOnly restricts the set to public polls.
// When nothing matches, the returned count is 0 and latest is nil.
func PollsStats(ctx context.Context, db *gorm.DB, ownerID string, publicOnly bool) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Poll{})
	if ownerID != "" {
		q = q.Where("created_by = ?", ownerID)
	}
	if publicOnly {
		q = q.Where("public = ?", true)
	}

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest published_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		PublishedAt time.Time
	}
	if err = q.Select("published_at").Order("published_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.PublishedAt, nil
}

// VotesStats returns aggregate metadata for a poll's ledger: the total
// number of ballots and the most recent CastAt among them. Results responses
// derive their ETag from this pair, so a corrected ballot (same count, newer
// CastAt) still invalidates client caches.
func VotesStats(ctx context.Context, db *gorm.DB, pollID string) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Vote{}).Where("poll_id = ?", pollID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		CastAt time.Time
	}
	if err = q.Select("cast_at").Order("cast_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CastAt, nil
}

// OptionsStats returns aggregate metadata for a poll's option set: how many
// options it currently has and the highest presentation order among them.
// Results ETags fold this pair in alongside VotesStats so that adding or
// removing an option invalidates cached tallies even when the ledger itself
// did not change.
func OptionsStats(ctx context.Context, db *gorm.DB, pollID string) (count int64, maxOrder int, err error) {
	q := db.WithContext(ctx).Model(&domain.Option{}).Where("poll_id = ?", pollID)

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		PresentationOrder int
	}
	if err = q.Select("presentation_order").Order("presentation_order DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.PresentationOrder, nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Poll model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a poll is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreatePoll inserts a poll row together with its options in one statement
// batch. IDs and timestamps are expected to be assigned by the caller
// (the service layer owns creation semantics).
func CreatePoll(ctx context.Context, db *gorm.DB, p *domain.Poll) error {
	return db.WithContext(ctx).Create(p).Error
}

// GetPoll fetches a single poll by ID with its options preloaded in
// presentation order. Returns ErrNotFound when missing.
func GetPoll(ctx context.Context, db *gorm.DB, id string) (*domain.Poll, error) {
	var p domain.Poll
	err := db.WithContext(ctx).
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("presentation_order ASC")
		}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// pollListing applies the shared ordering and preloads for poll listings.
func pollListing(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("presentation_order ASC")
		}).
		Order("published_at desc")
}

// ListPollsPage returns a page of all polls, most recent first.
func ListPollsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Poll, error) {
	var out []domain.Poll
	err := pollListing(ctx, db).Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListPublicPollsPage returns a page of public polls, most recent first.
func ListPublicPollsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Poll, error) {
	var out []domain.Poll
	err := pollListing(ctx, db).Where("public = ?", true).Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListOwnerPollsPage returns a page of polls created by ownerID.
func ListOwnerPollsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Poll, error) {
	var out []domain.Poll
	err := pollListing(ctx, db).Where("created_by = ?", ownerID).Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountPolls returns the number of polls matching the listing scope:
// all polls when ownerID is empty and publicOnly is false, public polls
// when publicOnly is set, or the owner's polls otherwise.
func CountPolls(ctx context.Context, db *gorm.DB, ownerID string, publicOnly bool) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Poll{})
	if publicOnly {
		q = q.Where("public = ?", true)
	} else if ownerID != "" {
		q = q.Where("created_by = ?", ownerID)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// SetPollVisibility flips the public flag on a poll. Ownership is checked
// by the service layer before calling; the WHERE clause still scopes to the
// owner so a stale check cannot widen the write. Returns ErrNotFound when
// no row was touched.
func SetPollVisibility(ctx context.Context, db *gorm.DB, id, ownerID string, public bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Poll{}).
		Where("id = ? AND created_by = ?", id, ownerID).
		Update("public", public)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePoll removes a poll and everything beneath it. Votes and options
// are deleted explicitly rather than relying on driver-level cascade
// support, which SQLite only honors with foreign_keys=ON.
func DeletePoll(ctx context.Context, db *gorm.DB, id string) error {
	tx := db.WithContext(ctx)
	if err := tx.Where("poll_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("poll_id = ?", id).Delete(&domain.Option{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&domain.Poll{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Option
// model. Options are always manipulated inside a poll-scoped transaction
// opened by the service layer.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

// CreateOption inserts a new option for pollID with the next presentation
// order. The caption is stored exactly as given; uniqueness within the poll
// is backed by the ux_option_caption index.
func CreateOption(ctx context.Context, db *gorm.DB, pollID, caption string, order int) (*domain.Option, error) {
	o := &domain.Option{
		ID:                uuid.NewString(),
		PollID:            pollID,
		Caption:           caption,
		PresentationOrder: order,
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// GetOption fetches a single option by ID. Returns ErrNotFound when missing.
func GetOption(ctx context.Context, db *gorm.DB, id string) (*domain.Option, error) {
	var o domain.Option
	if err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// MaxPresentationOrder returns the highest presentation order in the poll,
// or 0 when the poll has no options.
func MaxPresentationOrder(ctx context.Context, db *gorm.DB, pollID string) (int, error) {
	var row struct{ M *int }
	err := db.WithContext(ctx).
		Model(&domain.Option{}).
		Select("MAX(presentation_order) AS m").
		Where("poll_id = ?", pollID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.M == nil {
		return 0, nil
	}
	return *row.M, nil
}

// CaptionExists reports whether the poll already holds an option with this
// exact caption. Used as a fast-path check; the unique index is the source
// of truth.
func CaptionExists(ctx context.Context, db *gorm.DB, pollID, caption string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Option{}).
		Where("poll_id = ? AND caption = ?", pollID, caption).
		Count(&total).Error
	return total > 0, err
}

// DeleteOption removes an option and cascades its votes so result counts
// drop the option entirely instead of leaving stale rows behind. Returns
// ErrNotFound when the option does not exist.
func DeleteOption(ctx context.Context, db *gorm.DB, id string) error {
	tx := db.WithContext(ctx)
	if err := tx.Where("option_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&domain.Option{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Vote
// model — the ledger rows behind result aggregation.
//
// Error semantics:
//   - A duplicate authenticated ballot trips the ux_votes_poll_voter unique
//     index and is returned as a raw DB error. The service layer translates
//     it into ErrAlreadyVoted.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

// CreateVote inserts a ballot for pollID/optionID. voterID may be nil for
// anonymous ballots, which bypass the uniqueness index by design.
func CreateVote(ctx context.Context, db *gorm.DB, pollID, optionID string, voterID *string, now time.Time) (*domain.Vote, error) {
	v := &domain.Vote{
		ID:       uuid.NewString(),
		PollID:   pollID,
		OptionID: optionID,
		VoterID:  voterID,
		CastAt:   now.UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// GetVoteByVoter fetches the single ballot an authenticated voter holds in
// a poll, or ErrNotFound when they have not voted.
func GetVoteByVoter(ctx context.Context, db *gorm.DB, pollID, voterID string) (*domain.Vote, error) {
	var v domain.Vote
	err := db.WithContext(ctx).
		Where("poll_id = ? AND voter_id = ?", pollID, voterID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVote fetches a ballot by ID. Returns ErrNotFound when missing.
func GetVote(ctx context.Context, db *gorm.DB, id string) (*domain.Vote, error) {
	var v domain.Vote
	if err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ReassignVote atomically points an existing ballot at a new option and
// refreshes its cast time. Last committed write wins between concurrent
// corrections. Returns ErrNotFound when no row matches.
func ReassignVote(ctx context.Context, db *gorm.DB, id, newOptionID string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"option_id": newOptionID,
			"cast_at":   now.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListVotesByPoll returns all ledger rows for a poll, oldest first.
func ListVotesByPoll(ctx context.Context, db *gorm.DB, pollID string) ([]domain.Vote, error) {
	var out []domain.Vote
	err := db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("cast_at ASC").
		Find(&out).Error
	return out, err
}

// CountVotes returns the total number of ballots in a poll.
func CountVotes(ctx context.Context, db *gorm.DB, pollID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("poll_id = ?", pollID).
		Count(&total).Error
	return total, err
}

// CountVotesByOption returns per-option ballot counts for a poll, computed
// in a single statement that left-joins the ledger onto the current option
// set. Every option of the poll appears in the map, zero-filled when it has
// no ballots, and an option removed before the query ran cannot appear at
// all: the snapshot is consistent even under read-committed isolation.
func CountVotesByOption(ctx context.Context, db *gorm.DB, pollID string) (map[string]int64, error) {
	var rows []struct {
		OptionID string
		N        int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Option{}).
		Select("options.id AS option_id, COUNT(votes.id) AS n").
		Joins("LEFT JOIN votes ON votes.option_id = options.id").
		Where("options.poll_id = ?", pollID).
		Group("options.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.OptionID] = r.N
	}
	return out, nil
}

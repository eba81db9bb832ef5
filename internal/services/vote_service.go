// Package services – VoteService
//
// This file implements the VoteService, the ledger behind vote admission and
// correction. Per (poll, voter) an authenticated voter moves from unvoted to
// voted(option); a second cast is rejected with ErrAlreadyVoted and must go
// through Change, which reassigns the existing row instead of inserting.
// Anonymous ballots carry no server-side identity and are admitted without
// deduplication.
//
// Concurrency & atomicity:
//   - Every write runs inside a transaction so the state check, the
//     membership check, and the insert/update land or fail as a unit.
//   - The "has this voter already voted" pre-check is a fast path only;
//     the partial unique index on (poll_id, voter_id) is the authoritative
//     defense, and a constraint trip maps to ErrAlreadyVoted.
//   - Two concurrent corrections for the same ballot resolve as last
//     committed write wins; there are no merge semantics.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/cache"
	"github.com/pollkit/go-poll-backend/internal/domain"
	"github.com/pollkit/go-poll-backend/internal/events"
	"github.com/pollkit/go-poll-backend/internal/repo"
)

// VoteService implements the use-cases around casting and correcting votes.
type VoteService struct {
	// DB is the database handle used for all vote operations.
	DB *gorm.DB
	// Cache is the optional read cache; nil-safe when disabled.
	Cache *cache.Cache
	// Events receives vote events; defaults to a no-op publisher.
	Events events.Publisher
}

// NewVoteService constructs a VoteService with a no-op event publisher when
// none is given.
func NewVoteService(db *gorm.DB, c *cache.Cache, ev events.Publisher) *VoteService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &VoteService{DB: db, Cache: c, Events: ev}
}

// Cast admits a first vote on pollID for optionID.
//
// Semantics and validation:
//   - the poll must exist; otherwise ErrPollNotFound.
//   - the poll must be active at now; otherwise ErrPollClosed.
//   - optionID must belong to pollID; otherwise ErrOptionNotInPoll.
//   - for a non-nil voterID, an existing ballot yields ErrAlreadyVoted
//     (the caller should use Change). A nil voterID is anonymous: every
//     call inserts a new row.
//
// On success the created ballot is returned and a vote.cast event is
// published. A failed cast never leaves a partial row behind.
func (s *VoteService) Cast(ctx context.Context, pollID, optionID string, voterID *string, now time.Time) (*domain.Vote, error) {
	var out *domain.Vote
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkVotable(ctx, tx, pollID, optionID, now); err != nil {
			return err
		}

		if voterID != nil {
			// Fast-path duplicate check; ux_votes_poll_voter is the truth.
			if _, err := repo.GetVoteByVoter(ctx, tx, pollID, *voterID); err == nil {
				return ErrAlreadyVoted
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		v, err := repo.CreateVote(ctx, tx, pollID, optionID, voterID, now)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrAlreadyVoted
			}
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.InvalidateResults(ctx, pollID)
	s.Events.Publish(ctx, events.VoteCast, out)
	votesCastTotal.Inc()
	return out, nil
}

// Change corrects an authenticated voter's existing ballot to point at
// newOptionID, refreshing its cast time.
//
// Semantics and validation:
//   - the poll must exist and be active; otherwise ErrPollNotFound /
//     ErrPollClosed.
//   - newOptionID must belong to pollID; otherwise ErrOptionNotInPoll.
//   - the voter must already hold a ballot; otherwise ErrVoteNotFound
//     (the caller should use Cast).
//
// The ballot row is updated in place: a correction never adds a second row,
// so result totals are conserved. The updated ballot is returned and a
// vote.changed event is published.
func (s *VoteService) Change(ctx context.Context, pollID, newOptionID, voterID string, now time.Time) (*domain.Vote, error) {
	var out *domain.Vote
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkVotable(ctx, tx, pollID, newOptionID, now); err != nil {
			return err
		}

		v, err := repo.GetVoteByVoter(ctx, tx, pollID, voterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoteNotFound
			}
			return err
		}
		if err := repo.ReassignVote(ctx, tx, v.ID, newOptionID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoteNotFound
			}
			return err
		}
		v.OptionID = newOptionID
		v.CastAt = now.UTC()
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.InvalidateResults(ctx, pollID)
	s.Events.Publish(ctx, events.VoteChanged, out)
	votesChangedTotal.Inc()
	return out, nil
}

// ListByPoll returns the raw ledger rows for a poll, oldest first. Only the
// poll owner may read the ledger; other callers receive ErrNotOwner.
func (s *VoteService) ListByPoll(ctx context.Context, pollID, requesterID string) ([]domain.Vote, error) {
	p, err := repo.GetPoll(ctx, s.DB, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if p.CreatedBy != requesterID {
		return nil, ErrNotOwner
	}
	return repo.ListVotesByPoll(ctx, s.DB, pollID)
}

// checkVotable verifies that the poll exists, is active at now, and that
// optionID belongs to it. Shared by Cast and Change so both reject writes
// on closed polls and cross-poll options identically.
func (s *VoteService) checkVotable(ctx context.Context, tx *gorm.DB, pollID, optionID string, now time.Time) error {
	p, err := repo.GetPoll(ctx, tx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPollNotFound
		}
		return err
	}
	if PollState(p, len(p.Options), now) == StateExpired {
		return ErrPollClosed
	}

	o, err := repo.GetOption(ctx, tx, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotInPoll
		}
		return err
	}
	if o.PollID != pollID {
		return ErrOptionNotInPoll
	}
	return nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

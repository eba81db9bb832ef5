// Package services – OptionService
//
// This file implements the OptionService, which governs the option set of a
// poll after creation: owners can add options while the poll is active and
// remove them as long as at least two survive. Both operations run inside a
// poll-scoped transaction so a racing vote or removal cannot slip between
// the invariant check and the write.
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

// OptionService implements the use-cases around a poll's option registry.
type OptionService struct {
	// DB is the database handle used for all option operations.
	DB *gorm.DB
	// Cache is the optional read cache; nil-safe when disabled.
	Cache *cache.Cache
	// Events receives option lifecycle events; defaults to no-op.
	Events events.Publisher
}

// NewOptionService constructs an OptionService with a no-op event publisher
// when none is given.
func NewOptionService(db *gorm.DB, c *cache.Cache, ev events.Publisher) *OptionService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &OptionService{DB: db, Cache: c, Events: ev}
}

// Add appends a new option to an active poll on behalf of requesterID.
//
// Semantics and validation:
//   - the poll must exist; otherwise ErrPollNotFound.
//   - requesterID must be the poll owner; otherwise ErrNotOwner.
//   - the poll must be active at now; otherwise ErrPollClosed.
//   - caption must be non-blank and unique within the poll (exact match);
//     otherwise ErrBlankCaption / ErrDuplicateCaption.
//
// The new option's presentation order is max(existing)+1. The duplicate
// pre-check is a fast path; the ux_option_caption unique index is the
// source of truth and a constraint trip maps to ErrDuplicateCaption too.
func (s *OptionService) Add(ctx context.Context, pollID, requesterID, caption string, now time.Time) (*domain.Option, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, ErrBlankCaption
	}

	var out *domain.Option
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.GetPoll(ctx, tx, pollID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPollNotFound
			}
			return err
		}
		if p.CreatedBy != requesterID {
			return ErrNotOwner
		}
		if PollState(p, len(p.Options), now) == StateExpired {
			return ErrPollClosed
		}

		exists, err := repo.CaptionExists(ctx, tx, pollID, caption)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateCaption
		}

		max, err := repo.MaxPresentationOrder(ctx, tx, pollID)
		if err != nil {
			return err
		}
		o, err := repo.CreateOption(ctx, tx, pollID, caption, max+1)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateCaption
			}
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.InvalidatePoll(ctx, pollID)
	s.Cache.InvalidateResults(ctx, pollID)
	s.Events.Publish(ctx, events.OptionAdded, out)
	return out, nil
}

// Remove deletes an option from an active poll on behalf of requesterID.
//
// Semantics and validation:
//   - poll and option must exist and belong together; otherwise
//     ErrPollNotFound / ErrOptionNotFound.
//   - requesterID must be the poll owner; otherwise ErrNotOwner.
//   - the poll must be active at now; otherwise ErrPollClosed.
//   - at least two options must survive the removal; otherwise
//     ErrTooFewOptions.
//
// Votes for the removed option are cascaded away in the same transaction,
// so subsequent result counts simply drop the option.
func (s *OptionService) Remove(ctx context.Context, pollID, optionID, requesterID string, now time.Time) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.GetPoll(ctx, tx, pollID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPollNotFound
			}
			return err
		}
		if p.CreatedBy != requesterID {
			return ErrNotOwner
		}
		if PollState(p, len(p.Options), now) == StateExpired {
			return ErrPollClosed
		}

		o, err := repo.GetOption(ctx, tx, optionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
		if o.PollID != pollID {
			return ErrOptionNotFound
		}

		if len(p.Options) <= 2 {
			return ErrTooFewOptions
		}
		return repo.DeleteOption(ctx, tx, optionID)
	})
	if err != nil {
		return err
	}

	s.Cache.InvalidatePoll(ctx, pollID)
	s.Cache.InvalidateResults(ctx, pollID)
	s.Events.Publish(ctx, events.OptionRemoved, map[string]string{
		"poll_id":   pollID,
		"option_id": optionID,
	})
	return nil
}

// Package services – PollService
//
// This file implements the PollService, which manages the poll lifecycle:
// creation with its initial option set, listing (with pagination), fetching
// with private-poll gating, visibility changes, deletion with cascades, and
// the derived active/expired state. Service-level errors (e.g. ErrNotOwner,
// ErrNotEnoughOptions) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/cache"
	"github.com/pollkit/go-poll-backend/internal/domain"
	"github.com/pollkit/go-poll-backend/internal/events"
	"github.com/pollkit/go-poll-backend/internal/repo"
)

// State is the derived lifecycle state of a poll. It is computed on demand
// and never persisted, so a stored flag can never drift from the clock.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
)

// PollState derives a poll's state from its expiration and current option
// count. A poll is active while its deadline is in the future and it still
// offers a real choice (two or more options); anything else reads expired.
func PollState(p *domain.Poll, optionCount int, now time.Time) State {
	if now.Before(p.ValidUntil) && optionCount >= 2 {
		return StateActive
	}
	return StateExpired
}

// PollService provides poll lifecycle operations. It owns the transactional
// boundary for poll-level writes and keeps the results/poll caches and the
// event stream in step with the database.
type PollService struct {
	// DB is the database handle used for all poll operations.
	DB *gorm.DB
	// Cache is the optional Redis-backed read cache; nil-safe when disabled.
	Cache *cache.Cache
	// Events receives lifecycle events; defaults to a no-op publisher.
	Events events.Publisher
}

// NewPollService constructs a PollService with a no-op event publisher when
// none is given.
func NewPollService(db *gorm.DB, c *cache.Cache, ev events.Publisher) *PollService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &PollService{DB: db, Cache: c, Events: ev}
}

// Create validates and persists a new poll with its initial options.
//
// Semantics and validation:
//   - question must be non-blank; otherwise ErrBlankQuestion.
//   - at least two option captions are required; otherwise
//     ErrNotEnoughOptions (a validation failure, unlike the removal floor).
//   - captions must be non-blank and pairwise distinct (case-sensitive
//     exact match); otherwise ErrBlankCaption / ErrDuplicateCaption.
//   - validUntil must be strictly after now; otherwise ErrExpiryNotFuture.
//
// Presentation order is assigned 1..n in the given caption order. The poll
// and its options are inserted atomically; a poll.created event is published
// after commit.
func (s *PollService) Create(ctx context.Context, ownerID, question string, captions []string, validUntil time.Time, public bool, now time.Time) (*domain.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrBlankQuestion
	}
	if len(captions) < 2 {
		return nil, ErrNotEnoughOptions
	}
	seen := make(map[string]struct{}, len(captions))
	opts := make([]domain.Option, 0, len(captions))
	for i, caption := range captions {
		caption = strings.TrimSpace(caption)
		if caption == "" {
			return nil, ErrBlankCaption
		}
		if _, dup := seen[caption]; dup {
			return nil, ErrDuplicateCaption
		}
		seen[caption] = struct{}{}
		opts = append(opts, domain.Option{
			ID:                uuid.NewString(),
			Caption:           caption,
			PresentationOrder: i + 1,
		})
	}
	if !validUntil.After(now) {
		return nil, ErrExpiryNotFuture
	}

	p := &domain.Poll{
		ID:          uuid.NewString(),
		Question:    question,
		CreatedBy:   ownerID,
		PublishedAt: now.UTC(),
		ValidUntil:  validUntil.UTC(),
		Public:      public,
	}
	for i := range opts {
		opts[i].PollID = p.ID
	}
	p.Options = opts

	if err := repo.CreatePoll(ctx, s.DB, p); err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, events.PollCreated, p)
	return p, nil
}

// Get fetches a poll by ID. Private polls are returned only to their owner:
// other callers (including anonymous ones) receive ErrNotOwner, and a
// missing poll yields ErrPollNotFound. Public polls are served cache-first.
func (s *PollService) Get(ctx context.Context, pollID, requesterID string) (*domain.Poll, error) {
	if p, ok := s.Cache.GetPoll(ctx, pollID); ok {
		if !p.Public && p.CreatedBy != requesterID {
			return nil, ErrNotOwner
		}
		return p, nil
	}

	p, err := repo.GetPoll(ctx, s.DB, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	s.Cache.SetPoll(ctx, p)
	if !p.Public && p.CreatedBy != requesterID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// GetState reports the derived state of a poll at the given instant.
func (s *PollService) GetState(ctx context.Context, pollID string, now time.Time) (State, error) {
	p, err := repo.GetPoll(ctx, s.DB, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPollNotFound
		}
		return "", err
	}
	return PollState(p, len(p.Options), now), nil
}

// Scope selects which polls a listing returns.
type Scope int

const (
	ScopeAll Scope = iota
	ScopePublic
	ScopeOwner
)

// ListPage returns a page of polls for the given scope and the total count.
// It applies defaults for invalid page/pageSize, matching listing behavior
// elsewhere in the API.
func (s *PollService) ListPage(ctx context.Context, scope Scope, ownerID string, page, pageSize int) ([]domain.Poll, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var (
		total int64
		err   error
	)
	switch scope {
	case ScopePublic:
		total, err = repo.CountPolls(ctx, s.DB, "", true)
	case ScopeOwner:
		total, err = repo.CountPolls(ctx, s.DB, ownerID, false)
	default:
		total, err = repo.CountPolls(ctx, s.DB, "", false)
	}
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Poll{}, 0, nil
	}

	var items []domain.Poll
	switch scope {
	case ScopePublic:
		items, err = repo.ListPublicPollsPage(ctx, s.DB, offset, pageSize)
	case ScopeOwner:
		items, err = repo.ListOwnerPollsPage(ctx, s.DB, ownerID, offset, pageSize)
	default:
		items, err = repo.ListPollsPage(ctx, s.DB, offset, pageSize)
	}
	return items, total, err
}

// SetVisibility flips a poll between public and private. Only the owner may
// do this; the change moves the poll between listings immediately and never
// touches already-cast votes.
func (s *PollService) SetVisibility(ctx context.Context, pollID, requesterID string, public bool) (*domain.Poll, error) {
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
	if err := repo.SetPollVisibility(ctx, s.DB, pollID, requesterID, public); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	p.Public = public
	s.Cache.InvalidatePoll(ctx, pollID)
	return p, nil
}

// Delete removes a poll together with its options and votes. Only the owner
// may delete; the cascade runs in one transaction so a failed delete leaves
// the poll fully intact.
func (s *PollService) Delete(ctx context.Context, pollID, requesterID string) error {
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
		return repo.DeletePoll(ctx, tx, pollID)
	})
	if err != nil {
		return err
	}

	s.Cache.InvalidatePoll(ctx, pollID)
	s.Cache.InvalidateResults(ctx, pollID)
	s.Events.Publish(ctx, events.PollDeleted, map[string]string{"poll_id": pollID})
	return nil
}

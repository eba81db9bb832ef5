// Package services – ResultsService
//
// This file implements the ResultsService, which reports per-option vote
// counts for a poll. Counts come from a single statement joining the ledger
// onto the current option set, so the returned map is a consistent snapshot:
// a correction is one row and therefore contributes to exactly one option's
// count, and a ballot landing after the snapshot is simply not seen. Options
// with zero votes report as zero; options deleted from the poll do not
// appear at all.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/cache"
	"github.com/pollkit/go-poll-backend/internal/events"
	"github.com/pollkit/go-poll-backend/internal/repo"
)

// ResultsService computes authoritative result counts from the vote ledger.
type ResultsService struct {
	// DB is the database handle used for aggregation queries.
	DB *gorm.DB
	// Cache is the optional results cache; nil-safe when disabled. Writers
	// invalidate it, so a hit is at most one committed write stale.
	Cache *cache.Cache
	// Events is kept for symmetry with the other services; results reads
	// publish nothing.
	Events events.Publisher
}

// NewResultsService constructs a ResultsService.
func NewResultsService(db *gorm.DB, c *cache.Cache) *ResultsService {
	return &ResultsService{DB: db, Cache: c, Events: events.Nop{}}
}

// Results returns the optionID → count mapping for pollID, cache-first.
// A missing poll yields ErrPollNotFound. Counts come from one joined
// statement over the current option set, so a concurrently removed option
// can never linger in the map with a residual zero and a freshly added one
// is zero-filled.
func (s *ResultsService) Results(ctx context.Context, pollID string) (map[string]int64, error) {
	if m, ok := s.Cache.GetResults(ctx, pollID); ok {
		return m, nil
	}

	if _, err := repo.GetPoll(ctx, s.DB, pollID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	out, err := repo.CountVotesByOption(ctx, s.DB, pollID)
	if err != nil {
		return nil, err
	}

	s.Cache.SetResults(ctx, pollID, out)
	return out, nil
}

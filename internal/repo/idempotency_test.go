package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

func TestIdempotency_RoundTrip(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "p1", "k1", "vote-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.VoteID != "vote-1" || rec.Status != 201 {
		t.Fatalf("record mangled: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "p1", "k1", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("wrong record: %+v", got)
	}
}

func TestIdempotency_EmptyPollID(t *testing.T) {
	db := newRepoDB(t)

	rec, err := GetIdempotency(context.Background(), db, "   ", "k1", time.Now().UTC())
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", rec, err)
	}
}

func TestIdempotency_Expired(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	// Insert an already-expired record directly.
	exp := &domain.Idempotency{
		ID:        "expired",
		PollID:    "p1",
		Key:       "k1",
		VoteID:    "vote-1",
		Status:    201,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := GetIdempotency(ctx, db, "p1", "k1", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}
}

func TestIdempotency_DuplicateKey(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "p1", "k1", "vote-1", 201, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := CreateIdempotency(ctx, db, "p1", "k1", "vote-2", 201, time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key under another poll is a distinct tuple.
	if _, err := CreateIdempotency(ctx, db, "p2", "k1", "vote-3", 201, time.Hour); err != nil {
		t.Fatalf("cross-poll create: %v", err)
	}
}

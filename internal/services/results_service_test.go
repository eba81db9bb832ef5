package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestResults_ZeroFilled(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "A", "B", "C")
	svc := NewResultsService(db, nil)

	counts, err := svc.Results(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(counts))
	}
	for _, o := range p.Options {
		if counts[o.ID] != 0 {
			t.Fatalf("fresh poll should count zero, got %v", counts)
		}
	}
}

func TestResults_CountsMatchLedger(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "A", "B")
	voteSvc := NewVoteService(db, nil, nil)
	svc := NewResultsService(db, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, uid := range []string{"v1", "v2", "v3"} {
		uid := uid
		if _, err := voteSvc.Cast(ctx, p.ID, p.Options[0].ID, &uid, now); err != nil {
			t.Fatalf("cast %s: %v", uid, err)
		}
	}
	if _, err := voteSvc.Cast(ctx, p.ID, p.Options[1].ID, nil, now); err != nil {
		t.Fatalf("anonymous cast: %v", err)
	}

	counts, err := svc.Results(ctx, p.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if counts[p.Options[0].ID] != 3 || counts[p.Options[1].ID] != 1 {
		t.Fatalf("counts diverge from ledger: %v", counts)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	if total != 4 {
		t.Fatalf("total %d does not match 4 ballots", total)
	}
}

func TestResults_PollNotFound(t *testing.T) {
	svc := NewResultsService(newTestDB(t), nil)

	_, err := svc.Results(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
}

func TestKind_Classification(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{ErrBlankQuestion, KindValidation},
		{ErrOptionNotInPoll, KindValidation},
		{ErrNotEnoughOptions, KindValidation},
		{ErrPollClosed, KindState},
		{ErrNotOwner, KindAuthorization},
		{ErrAlreadyVoted, KindConflict},
		{ErrPollNotFound, KindNotFound},
		{ErrVoteNotFound, KindNotFound},
		{ErrTooFewOptions, KindInvariant},
		{context.DeadlineExceeded, KindInternal},
	}
	for _, tc := range tests {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

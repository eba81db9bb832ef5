package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestVote_Cast_Basic(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)

	uid := "v1"
	v, err := svc.Cast(context.Background(), p.ID, p.Options[0].ID, &uid, time.Now().UTC())
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if v.PollID != p.ID || v.OptionID != p.Options[0].ID {
		t.Fatalf("ballot misfiled: %+v", v)
	}
	if v.VoterID == nil || *v.VoterID != uid {
		t.Fatalf("voter identity lost: %+v", v.VoterID)
	}
}

func TestVote_Cast_DoubleVote(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)
	ctx := context.Background()

	uid := "v1"
	if _, err := svc.Cast(ctx, p.ID, p.Options[0].ID, &uid, time.Now().UTC()); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	// Second cast, even for a different option, is rejected.
	_, err := svc.Cast(ctx, p.ID, p.Options[1].ID, &uid, time.Now().UTC())
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	// The ledger still holds exactly one ballot.
	votes, err := svc.ListByPoll(ctx, p.ID, "owner")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected 1 ballot, got %d", len(votes))
	}
}

func TestVote_Cast_AnonymousNoDedup(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)
	ctx := context.Background()

	// Anonymous ballots carry no identity and are all admitted.
	for i := 0; i < 3; i++ {
		if _, err := svc.Cast(ctx, p.ID, p.Options[0].ID, nil, time.Now().UTC()); err != nil {
			t.Fatalf("anonymous cast %d: %v", i, err)
		}
	}

	votes, err := svc.ListByPoll(ctx, p.ID, "owner")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(votes) != 3 {
		t.Fatalf("expected 3 ballots, got %d", len(votes))
	}
}

func TestVote_Cast_ClosedPoll(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)

	uid := "v1"
	_, err := svc.Cast(context.Background(), p.ID, p.Options[0].ID, &uid, p.ValidUntil.Add(time.Second))
	if !errors.Is(err, ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed, got %v", err)
	}
}

func TestVote_Cast_OptionNotInPoll(t *testing.T) {
	db := newTestDB(t)
	p1 := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	p2 := seedPoll(t, db, "owner", true, future(), "A", "B")
	svc := NewVoteService(db, nil, nil)
	ctx := context.Background()
	uid := "v1"

	// Unknown option id.
	if _, err := svc.Cast(ctx, p1.ID, uuid.NewString(), &uid, time.Now().UTC()); !errors.Is(err, ErrOptionNotInPoll) {
		t.Fatalf("expected ErrOptionNotInPoll, got %v", err)
	}
	// Option of another poll.
	if _, err := svc.Cast(ctx, p1.ID, p2.Options[0].ID, &uid, time.Now().UTC()); !errors.Is(err, ErrOptionNotInPoll) {
		t.Fatalf("expected ErrOptionNotInPoll for cross-poll option, got %v", err)
	}
}

func TestVote_Cast_PollNotFound(t *testing.T) {
	svc := NewVoteService(newTestDB(t), nil, nil)
	uid := "v1"

	_, err := svc.Cast(context.Background(), uuid.NewString(), uuid.NewString(), &uid, time.Now().UTC())
	if !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
}

func TestVote_Cast_Concurrent(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)
	ctx := context.Background()
	uid := "racer"

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Cast(ctx, p.ID, p.Options[i%2].ID, &uid, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		}
	}
	if okCount != 1 {
		t.Fatalf("expected exactly one winning cast, got %d (errs=%v)", okCount, errs)
	}

	votes, err := svc.ListByPoll(ctx, p.ID, "owner")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("ledger holds %d ballots for one voter", len(votes))
	}
}

func TestVote_Change_MovesBallot(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)
	res := NewResultsService(db, nil)
	ctx := context.Background()
	uid := "v1"

	v, err := svc.Cast(ctx, p.ID, p.Options[0].ID, &uid, time.Now().UTC())
	if err != nil {
		t.Fatalf("cast: %v", err)
	}

	changed, err := svc.Change(ctx, p.ID, p.Options[1].ID, uid, time.Now().UTC())
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if changed.ID != v.ID {
		t.Fatalf("change created a new ballot instead of moving the old one")
	}
	if changed.OptionID != p.Options[1].ID {
		t.Fatalf("ballot did not move: %+v", changed)
	}

	// The count moved from the old option to the new one; the total held.
	counts, err := res.Results(ctx, p.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if counts[p.Options[0].ID] != 0 || counts[p.Options[1].ID] != 1 {
		t.Fatalf("counts did not move: %v", counts)
	}
}

func TestVote_Change_RequiresExistingBallot(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)

	_, err := svc.Change(context.Background(), p.ID, p.Options[0].ID, "nobody", time.Now().UTC())
	if !errors.Is(err, ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestVote_Change_ClosedPoll(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)
	ctx := context.Background()
	uid := "v1"

	if _, err := svc.Cast(ctx, p.ID, p.Options[0].ID, &uid, time.Now().UTC()); err != nil {
		t.Fatalf("cast: %v", err)
	}
	_, err := svc.Change(ctx, p.ID, p.Options[1].ID, uid, p.ValidUntil.Add(time.Second))
	if !errors.Is(err, ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed, got %v", err)
	}
}

func TestVote_ListByPoll_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewVoteService(db, nil, nil)

	if _, err := svc.ListByPoll(context.Background(), p.ID, "stranger"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

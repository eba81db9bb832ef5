package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:pollsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")
	// One connection keeps concurrent transactions serialized on the shared
	// in-memory database instead of tripping SQLITE_BUSY.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&domain.Poll{}, &domain.Option{}, &domain.Vote{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	// Partial unique index: one ballot per registered voter per poll.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_votes_poll_voter ON votes (poll_id, voter_id) WHERE voter_id IS NOT NULL",
	).Error; err != nil {
		t.Fatalf("unique index: %v", err)
	}
	return db
}

// seedPoll creates a poll through the service so every test starts from a
// state the API itself could have produced.
func seedPoll(t *testing.T, db *gorm.DB, owner string, public bool, validUntil time.Time, captions ...string) *domain.Poll {
	t.Helper()
	svc := NewPollService(db, nil, nil)
	p, err := svc.Create(context.Background(), owner, "Pineapple on pizza?", captions, validUntil, public, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed poll: %v", err)
	}
	return p
}

func future() time.Time { return time.Now().UTC().Add(24 * time.Hour) }

func TestPoll_Create_BlankQuestion(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	_, err := svc.Create(context.Background(), "u1", "   ", []string{"Yes", "No"}, future(), true, time.Now().UTC())
	if !errors.Is(err, ErrBlankQuestion) {
		t.Fatalf("expected ErrBlankQuestion, got %v", err)
	}
}

func TestPoll_Create_NotEnoughOptions(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	_, err := svc.Create(context.Background(), "u1", "q", []string{"Only"}, future(), true, time.Now().UTC())
	if !errors.Is(err, ErrNotEnoughOptions) {
		t.Fatalf("expected ErrNotEnoughOptions, got %v", err)
	}
	if Kind(err) != KindValidation {
		t.Fatalf("expected KindValidation, got %v", Kind(err))
	}
}

func TestPoll_Create_DuplicateCaption(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	_, err := svc.Create(context.Background(), "u1", "q", []string{"Yes", "Yes"}, future(), true, time.Now().UTC())
	if !errors.Is(err, ErrDuplicateCaption) {
		t.Fatalf("expected ErrDuplicateCaption, got %v", err)
	}
}

func TestPoll_Create_CaptionCaseSensitive(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	// "Yes" and "yes" are distinct captions.
	p, err := svc.Create(context.Background(), "u1", "q", []string{"Yes", "yes"}, future(), true, time.Now().UTC())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(p.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(p.Options))
	}
}

func TestPoll_Create_ExpiryNotFuture(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)
	now := time.Now().UTC()

	_, err := svc.Create(context.Background(), "u1", "q", []string{"Yes", "No"}, now.Add(-time.Minute), true, now)
	if !errors.Is(err, ErrExpiryNotFuture) {
		t.Fatalf("expected ErrExpiryNotFuture, got %v", err)
	}
}

func TestPoll_Create_AssignsPresentationOrder(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "u1", true, future(), "A", "B", "C")

	for i, o := range p.Options {
		if o.PresentationOrder != i+1 {
			t.Fatalf("option %d: expected order %d, got %d", i, i+1, o.PresentationOrder)
		}
		if o.PollID != p.ID {
			t.Fatalf("option %d not linked to poll", i)
		}
	}
}

func TestPoll_Get_NotFound(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	_, err := svc.Get(context.Background(), uuid.NewString(), "u1")
	if !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
}

func TestPoll_Get_PrivateGating(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", false, future(), "Yes", "No")
	svc := NewPollService(db, nil, nil)

	if _, err := svc.Get(context.Background(), p.ID, "owner"); err != nil {
		t.Fatalf("owner read should succeed: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID, "stranger"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
	// Anonymous requester (empty id) is gated too.
	if _, err := svc.Get(context.Background(), p.ID, ""); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for anonymous, got %v", err)
	}
}

func TestPoll_GetState_Derived(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "u1", true, future(), "Yes", "No")
	svc := NewPollService(db, nil, nil)
	ctx := context.Background()

	st, err := svc.GetState(ctx, p.ID, time.Now().UTC())
	if err != nil || st != StateActive {
		t.Fatalf("expected active, got %v (%v)", st, err)
	}

	// Same poll read past its deadline: no stored flag to flip.
	st, err = svc.GetState(ctx, p.ID, p.ValidUntil.Add(time.Second))
	if err != nil || st != StateExpired {
		t.Fatalf("expected expired, got %v (%v)", st, err)
	}
}

func TestPoll_ListPage_Scopes(t *testing.T) {
	db := newTestDB(t)
	seedPoll(t, db, "alice", true, future(), "Yes", "No")
	seedPoll(t, db, "alice", false, future(), "Yes", "No")
	seedPoll(t, db, "bob", true, future(), "Yes", "No")

	svc := NewPollService(db, nil, nil)
	ctx := context.Background()

	_, total, err := svc.ListPage(ctx, ScopeAll, "", 1, 20)
	if err != nil || total != 3 {
		t.Fatalf("all: expected 3, got %d (%v)", total, err)
	}
	_, total, err = svc.ListPage(ctx, ScopePublic, "", 1, 20)
	if err != nil || total != 2 {
		t.Fatalf("public: expected 2, got %d (%v)", total, err)
	}
	items, total, err := svc.ListPage(ctx, ScopeOwner, "alice", 1, 20)
	if err != nil || total != 2 {
		t.Fatalf("owner: expected 2, got %d (%v)", total, err)
	}
	for _, p := range items {
		if p.CreatedBy != "alice" {
			t.Fatalf("owner listing leaked poll of %q", p.CreatedBy)
		}
	}
}

func TestPoll_ListPage_Pagination(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 5; i++ {
		seedPoll(t, db, "u1", true, future(), "Yes", "No")
	}
	svc := NewPollService(db, nil, nil)

	items, total, err := svc.ListPage(context.Background(), ScopeAll, "", 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("expected total 5 page of 2, got total %d len %d", total, len(items))
	}
}

func TestPoll_SetVisibility_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")
	svc := NewPollService(db, nil, nil)
	ctx := context.Background()

	if _, err := svc.SetVisibility(ctx, p.ID, "stranger", false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	out, err := svc.SetVisibility(ctx, p.ID, "owner", false)
	if err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	if out.Public {
		t.Fatalf("expected private after toggle")
	}

	// The change is visible in listings immediately.
	_, total, err := svc.ListPage(ctx, ScopePublic, "", 1, 20)
	if err != nil || total != 0 {
		t.Fatalf("expected 0 public polls, got %d (%v)", total, err)
	}
}

func TestPoll_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	p := seedPoll(t, db, "owner", true, future(), "Yes", "No")

	voteSvc := NewVoteService(db, nil, nil)
	uid := "v1"
	if _, err := voteSvc.Cast(context.Background(), p.ID, p.Options[0].ID, &uid, time.Now().UTC()); err != nil {
		t.Fatalf("cast: %v", err)
	}

	svc := NewPollService(db, nil, nil)
	if err := svc.Delete(context.Background(), p.ID, "stranger"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID, "owner"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var polls, options, votes int64
	db.Model(&domain.Poll{}).Count(&polls)
	db.Model(&domain.Option{}).Count(&options)
	db.Model(&domain.Vote{}).Count(&votes)
	if polls != 0 || options != 0 || votes != 0 {
		t.Fatalf("cascade left rows behind: polls=%d options=%d votes=%d", polls, options, votes)
	}
}

func TestPoll_Delete_NotFound(t *testing.T) {
	svc := NewPollService(newTestDB(t), nil, nil)

	if err := svc.Delete(context.Background(), uuid.NewString(), "u1"); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
}

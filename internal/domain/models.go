// Package domain defines the persistence models for polls, options, and
// votes. These types are mapped with GORM and form the core data layer
// of the poll backend.
package domain

import (
	"time"
)

// Poll represents a question owned by a user, carrying an ordered set of
// options, an expiration instant, and a public/private visibility flag.
//
// A poll's "active" or "expired" state is never stored; it is derived from
// ValidUntil and the current option count (see services.PollState). A poll
// must hold at least two options whenever it is votable.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Question: the poll question; never blank.
//   - CreatedBy: identifier of the owning user; immutable after creation.
//   - PublishedAt: creation timestamp, immutable.
//   - ValidUntil: expiration timestamp; strictly after PublishedAt.
//   - Public: whether the poll shows up in the public listing.
//   - Options: owned options, ordered by PresentationOrder.
type Poll struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Question    string    `json:"question"     gorm:"type:text;not null"`
	CreatedBy   string    `json:"created_by"   gorm:"type:varchar(64);not null;index:idx_owner_polls"`
	PublishedAt time.Time `json:"published_at" gorm:"not null"`
	ValidUntil  time.Time `json:"valid_until"  gorm:"not null"`
	Public      bool      `json:"is_public"    gorm:"not null;default:true;index"`

	// Options are exclusively owned by this poll and cascade-deleted with it.
	Options []Option `json:"options,omitempty" gorm:"foreignKey:PollID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Poll.
func (Poll) TableName() string { return "polls" }

// Option is one selectable answer belonging to exactly one poll. Captions
// are unique within their poll (case-sensitive exact match), and
// PresentationOrder gives the stable display order.
type Option struct {
	ID                string `json:"id"      gorm:"type:char(36);primaryKey"`
	PollID            string `json:"poll_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_option_caption,priority:1;uniqueIndex:ux_option_order,priority:1"`
	Caption           string `json:"caption" gorm:"type:text;not null;uniqueIndex:ux_option_caption,priority:2"`
	PresentationOrder int    `json:"presentation_order" gorm:"not null;uniqueIndex:ux_option_order,priority:2"`

	// Poll is the owning poll. Options are destroyed with it.
	Poll Poll `json:"-" gorm:"foreignKey:PollID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Option.
func (Option) TableName() string { return "options" }

// Vote links a voter (or nobody, for anonymous ballots) to one option within
// one poll. For a non-null VoterID at most one row exists per (poll, voter);
// a second attempt is a correction that reassigns OptionID on the existing
// row instead of inserting. Anonymous votes are not deduplicated server-side.
//
// The authoritative duplicate defense is the partial unique index on
// (poll_id, voter_id) where voter_id is non-null, created in repo.AutoMigrate;
// application-level pre-checks are a fast path only.
type Vote struct {
	ID       string    `json:"id"        gorm:"type:char(36);primaryKey"`
	PollID   string    `json:"poll_id"   gorm:"type:char(36);not null;index:idx_poll_votes"`
	OptionID string    `json:"option_id" gorm:"type:char(36);not null;index"`
	VoterID  *string   `json:"voter_id"  gorm:"type:varchar(64)"` // nil = anonymous
	CastAt   time.Time `json:"cast_at"   gorm:"not null"`

	// Option is the chosen answer. Deleting an option removes its votes,
	// and deleting a poll removes everything beneath it.
	Option Option `json:"-" gorm:"foreignKey:OptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Vote.
func (Vote) TableName() string { return "votes" }

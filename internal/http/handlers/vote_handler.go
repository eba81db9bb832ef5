// Vote HTTP handlers.
//
// This file exposes REST endpoints for the vote ledger:
//   - POST /polls/{id}/votes    (cast a vote)
//   - PUT  /polls/{id}/votes    (change an existing vote)
//   - GET  /polls/{id}/votes    (raw ledger, owner only)
//
// Casting supports an optional Idempotency-Key header: a retried request with
// the same key replays the original response instead of failing with 409,
// which gives anonymous voters (who have no ledger identity) a best-effort
// duplicate shield.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pollkit/go-poll-backend/internal/http/middleware"
	"github.com/pollkit/go-poll-backend/internal/repo"
)

// CastVoteRequest is the JSON payload for casting or changing a vote.
type CastVoteRequest struct {
	// OptionID selects the candidate answer to vote for.
	OptionID string `json:"option_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// CastVote godoc
// @ID          castVote
// @Summary     Cast a vote
// @Description Records a vote for an option of an active poll. Registered voters (X-User-ID) may vote at most once per poll; anonymous requests may supply an Idempotency-Key for retry safety.
// @Tags        Votes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Voter identity (omit for anonymous)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Retry-safe request key"               example(b4f9d2e0-1c7a-4e57-9f3b-8a2d6c1e0f44)
// @Param       id               path    string  true  "Poll ID (UUID)"                       format(uuid)
// @Param       body             body    handlers.CastVoteRequest  true  "Vote payload"
//
// @Success     201  {object} domain.Vote
// @Failure     400  {object} handlers.ErrorResponse "Bad request or option not in poll"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     409  {object} handlers.ErrorResponse "Already voted or poll closed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/votes [post]
func (h *Handlers) CastVote(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "option_id required")
		return
	}
	if _, err := uuid.Parse(req.OptionID); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "option id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()

	// Replay: the validator already matched the Idempotency-Key against a
	// stored record, so serve the original outcome instead of re-casting.
	if middleware.IsReplay(c) && h.db != nil {
		if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
			if rec, err := repo.GetIdempotency(ctx, h.db, pollID, key, now); err == nil {
				if v, err := repo.GetVote(ctx, h.db, rec.VoteID); err == nil {
					ok(c, rec.Status, v)
					return
				}
			}
		}
	}

	v, err := h.voteSvc.Cast(ctx, pollID, req.OptionID, voterID(c), now)
	if err != nil {
		failFromErr(c, err)
		return
	}

	// Remember the outcome for retries carrying the same key (best effort).
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey && h.db != nil {
		if _, err := repo.CreateIdempotency(ctx, h.db, pollID, key, v.ID, http.StatusCreated, h.idemTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, v)
}

// ChangeVote godoc
// @ID          changeVote
// @Summary     Change a vote
// @Description Moves the caller's existing vote to a different option of the same poll. Requires a registered identity.
// @Tags        Votes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Voter identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"  format(uuid)
// @Param       body       body    handlers.CastVoteRequest  true  "Vote payload"
//
// @Success     200  {object} domain.Vote
// @Failure     400  {object} handlers.ErrorResponse "Bad request or option not in poll"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     404  {object} handlers.ErrorResponse "Poll or vote not found"
// @Failure     409  {object} handlers.ErrorResponse "Poll closed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/votes [put]
func (h *Handlers) ChangeVote(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "option_id required")
		return
	}
	if _, err := uuid.Parse(req.OptionID); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "option id must be a UUID")
		return
	}

	v, err := h.voteSvc.Change(c.Request.Context(), pollID, req.OptionID, uid, time.Now().UTC())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// ListVotes godoc
// @ID          listVotes
// @Summary     List a poll's votes
// @Description Returns the raw vote ledger of a poll in cast order. Only the poll owner may read it.
// @Tags        Votes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"  format(uuid)
//
// @Success     200  {array}  domain.Vote
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/votes [get]
func (h *Handlers) ListVotes(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	votes, err := h.voteSvc.ListByPoll(c.Request.Context(), pollID, uid)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, votes)
}

// Poll HTTP handlers.
//
// This file exposes REST endpoints for poll resources:
//   - POST   /polls                   (create, options inline)
//   - GET    /polls                   (list, paginated, ETag support)
//   - GET    /polls/public            (list public polls)
//   - GET    /polls/mine              (list polls owned by caller)
//   - GET    /polls/{id}              (fetch one, private polls owner-gated)
//   - PUT    /polls/{id}/visibility   (toggle public/private)
//   - DELETE /polls/{id}              (delete poll, cascades options and votes)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pollkit/go-poll-backend/internal/domain"
	"github.com/pollkit/go-poll-backend/internal/repo"
	"github.com/pollkit/go-poll-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// PollService defines poll lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PollService interface {
	// Create registers a poll for ownerID with its initial options.
	Create(ctx context.Context, ownerID, question string, captions []string, validUntil time.Time, public bool, now time.Time) (*domain.Poll, error)
	// Get returns a poll with its options; private polls only for the owner.
	Get(ctx context.Context, pollID, requesterID string) (*domain.Poll, error)
	// ListPage returns a page of polls under the given scope and the total count.
	ListPage(ctx context.Context, scope services.Scope, ownerID string, page, pageSize int) ([]domain.Poll, int64, error)
	// SetVisibility flips a poll between public and private.
	SetVisibility(ctx context.Context, pollID, requesterID string, public bool) (*domain.Poll, error)
	// Delete removes a poll together with its options and votes.
	Delete(ctx context.Context, pollID, requesterID string) error
}

// OptionService defines option management operations on an existing poll.
type OptionService interface {
	// Add appends a new candidate answer to a poll owned by requesterID.
	Add(ctx context.Context, pollID, requesterID, caption string, now time.Time) (*domain.Option, error)
	// Remove deletes an option (and its votes) while keeping at least two.
	Remove(ctx context.Context, pollID, optionID, requesterID string, now time.Time) error
}

// VoteService defines vote casting and retrieval operations.
type VoteService interface {
	// Cast records a vote for optionID in pollID; one per registered voter.
	Cast(ctx context.Context, pollID, optionID string, voterID *string, now time.Time) (*domain.Vote, error)
	// Change moves an existing vote to a different option of the same poll.
	Change(ctx context.Context, pollID, newOptionID, voterID string, now time.Time) (*domain.Vote, error)
	// ListByPoll returns the raw vote ledger of a poll (owner only).
	ListByPoll(ctx context.Context, pollID, requesterID string) ([]domain.Vote, error)
}

// ResultsService defines aggregated tally retrieval.
type ResultsService interface {
	// Results returns vote counts per option id, zero-filled for all options.
	Results(ctx context.Context, pollID string) (map[string]int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for polls, options, votes, and results.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic. The *gorm.DB handle is used only for
// cheap conditional-request stats and idempotency bookkeeping.
type Handlers struct {
	pollSvc PollService
	optSvc  OptionService
	voteSvc VoteService
	resSvc  ResultsService

	db              *gorm.DB
	defaultValidity time.Duration
	idemTTL         time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(pollSvc PollService, optSvc OptionService, voteSvc VoteService, resSvc ResultsService, db *gorm.DB, defaultValidity, idemTTL time.Duration) *Handlers {
	return &Handlers{
		pollSvc:         pollSvc,
		optSvc:          optSvc,
		voteSvc:         voteSvc,
		resSvc:          resSvc,
		db:              db,
		defaultValidity: defaultValidity,
		idemTTL:         idemTTL,
	}
}

// userID extracts the caller identity from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header. An empty
// result means the request is anonymous. It never touches c.Request if it's
// nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

// requireUserID is userID for owner-only operations: it aborts with 401 when
// no identity is present and reports whether the caller may proceed.
func requireUserID(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, CodeUnauthorized, "identity required (X-User-ID header)")
		return "", false
	}
	return uid, true
}

// voterID returns the caller identity as a vote ledger key, or nil for
// anonymous requests.
func voterID(c *gin.Context) *string {
	if uid := userID(c); uid != "" {
		return &uid
	}
	return nil
}

//
// DTOs
//

// CreatePollRequest is the JSON payload for creating a poll.
type CreatePollRequest struct {
	// Question is the poll question (required, non-blank).
	Question string `json:"question" binding:"required" example:"Pineapple on pizza?"`
	// Options are the initial candidate answers (at least two, distinct).
	Options []string `json:"options" binding:"required" example:"Yes,No"`
	// ValidUntil optionally sets the voting deadline; a server default is
	// applied when omitted.
	ValidUntil *time.Time `json:"valid_until,omitempty" example:"2026-09-04T12:00:00Z"`
	// Public marks the poll as visible to everyone.
	Public bool `json:"public" example:"true"`
}

// SetVisibilityRequest is the JSON payload for toggling poll visibility.
type SetVisibilityRequest struct {
	Public *bool `json:"public" binding:"required" example:"false"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListPollsResponse wraps a page of polls and pagination information.
type ListPollsResponse struct {
	Polls      []domain.Poll `json:"polls"`
	Pagination Pagination    `json:"pagination"`
}

// PollResponse wraps a poll with its derived lifecycle state.
type PollResponse struct {
	Poll  *domain.Poll   `json:"poll"`
	State services.State `json:"state" example:"active"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = intQuery(c, "page", defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = intQuery(c, "page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	if n, err := strconv.Atoi(c.Query(name)); err == nil {
		return n
	}
	return def
}

// parsePollID validates the :id path parameter as a UUID.
func parsePollID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "poll id must be a UUID")
		return "", false
	}
	return id, true
}

//
// Handlers
//

// CreatePoll godoc
// @ID          createPoll
// @Summary     Create a new poll
// @Description Creates a poll with its initial options and returns the poll resource.
// @Tags        Polls
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       body       body    handlers.CreatePollRequest  true  "Create poll payload"
//
// @Success     201  {object}  handlers.PollResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Identity required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /polls [post]
func (h *Handlers) CreatePoll(c *gin.Context) {
	uid, okID := requireUserID(c)
	if !okID {
		return
	}

	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	validUntil := now.Add(h.defaultValidity)
	if req.ValidUntil != nil {
		validUntil = req.ValidUntil.UTC()
	}

	p, err := h.pollSvc.Create(c.Request.Context(), uid, req.Question, req.Options, validUntil, req.Public, now)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, PollResponse{Poll: p, State: services.StateActive})
}

// listPolls is the shared implementation behind the three listing endpoints.
func (h *Handlers) listPolls(c *gin.Context, scope services.Scope, ownerID string) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.PollsStats(ctx, h.db, ownerID, scope == services.ScopePublic)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"polls:%d:%s:%d:%d"`, scope, ownerID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.pollSvc.ListPage(ctx, scope, ownerID, page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListPollsResponse{
		Polls: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// ListPolls godoc
// @ID          listPolls
// @Summary     List all polls (paginated)
// @Description Returns a page of all polls. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Polls
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListPollsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls [get]
func (h *Handlers) ListPolls(c *gin.Context) {
	h.listPolls(c, services.ScopeAll, "")
}

// ListPublicPolls godoc
// @ID          listPublicPolls
// @Summary     List public polls (paginated)
// @Description Returns a page of polls marked public.
// @Tags        Polls
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListPollsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/public [get]
func (h *Handlers) ListPublicPolls(c *gin.Context) {
	h.listPolls(c, services.ScopePublic, "")
}

// ListMyPolls godoc
// @ID          listMyPolls
// @Summary     List polls owned by the caller (paginated)
// @Description Returns a page of polls created by the current user.
// @Tags        Polls
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListPollsResponse
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/mine [get]
func (h *Handlers) ListMyPolls(c *gin.Context) {
	uid, okID := requireUserID(c)
	if !okID {
		return
	}
	h.listPolls(c, services.ScopeOwner, uid)
}

// GetPoll godoc
// @ID          getPoll
// @Summary     Fetch a poll
// @Description Returns a poll with its options and derived state. Private polls are visible only to their owner.
// @Tags        Polls
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Caller identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"   format(uuid)
//
// @Success     200  {object} handlers.PollResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Private poll"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id} [get]
func (h *Handlers) GetPoll(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}

	p, err := h.pollSvc.Get(c.Request.Context(), pollID, userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, PollResponse{
		Poll:  p,
		State: services.PollState(p, len(p.Options), time.Now().UTC()),
	})
}

// SetPollVisibility godoc
// @ID          setPollVisibility
// @Summary     Toggle poll visibility
// @Description Marks a poll public or private. Only the owner may change visibility.
// @Tags        Polls
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"  format(uuid)
// @Param       body       body    handlers.SetVisibilityRequest  true  "Visibility payload"
//
// @Success     200  {object} handlers.PollResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/visibility [put]
func (h *Handlers) SetPollVisibility(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Public == nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "public flag required")
		return
	}

	p, err := h.pollSvc.SetVisibility(c.Request.Context(), pollID, uid, *req.Public)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, PollResponse{
		Poll:  p,
		State: services.PollState(p, len(p.Options), time.Now().UTC()),
	})
}

// DeletePoll godoc
// @ID          deletePoll
// @Summary     Delete a poll
// @Description Deletes a poll together with its options and votes. Only the owner may delete.
// @Tags        Polls
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id} [delete]
func (h *Handlers) DeletePoll(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	if err := h.pollSvc.Delete(c.Request.Context(), pollID, uid); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

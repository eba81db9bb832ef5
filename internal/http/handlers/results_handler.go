// Results HTTP handler.
//
// This file exposes the aggregated tally endpoint:
//   - GET /polls/{id}/results
//
// Results are derived from the vote ledger on demand (with a cache in front)
// and never stored as mutable counters, so a response is always consistent
// with the ledger it was computed from.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollkit/go-poll-backend/internal/repo"
)

// ResultsResponse carries the per-option vote counts of a poll. Every option
// of the poll appears in Counts, including those with zero votes.
type ResultsResponse struct {
	PollID string           `json:"poll_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total" example:"42"`
}

// GetResults godoc
// @ID          getResults
// @Summary     Fetch poll results
// @Description Returns vote counts per option, zero-filled for options without votes. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Results
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       id             path    string  true  "Poll ID (UUID)"              format(uuid)
//
// @Success     200  {object} handlers.ResultsResponse
// @Header      200  {string} ETag  "Weak ETag for current tally"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/results [get]
func (h *Handlers) GetResults(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort). The ledger pair (count, latest cast_at)
	// changes on every cast and corrected ballot; the option pair (count,
	// max order) changes when the option set does, so a tally that gained or
	// lost a zero-vote option is never served from a client cache.
	if h.db != nil {
		count, maxTS, err := repo.VotesStats(ctx, h.db, pollID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			if optCount, maxOrder, err := repo.OptionsStats(ctx, h.db, pollID); err == nil {
				etag := fmt.Sprintf(`W/"results:%s:%d:%d:%d:%d"`, pollID, count, ts, optCount, maxOrder)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	counts, err := h.resSvc.Results(ctx, pollID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	ok(c, http.StatusOK, ResultsResponse{PollID: pollID, Counts: counts, Total: total})
}

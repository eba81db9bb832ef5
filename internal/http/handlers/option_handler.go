// Option HTTP handlers.
//
// This file exposes REST endpoints for managing a poll's candidate answers:
//   - POST   /polls/{id}/options          (add an option)
//   - DELETE /polls/{id}/options/{oid}    (remove an option and its votes)
//
// Both operations are owner-only and rejected once the poll has expired.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddOptionRequest is the JSON payload for adding an option to a poll.
type AddOptionRequest struct {
	// Caption is the option text, unique within the poll (1–255 chars).
	Caption string `json:"caption" binding:"required,min=1,max=255" example:"Maybe"`
}

// AddOption godoc
// @ID          addOption
// @Summary     Add an option to a poll
// @Description Appends a new candidate answer to an active poll owned by the caller.
// @Tags        Options
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"  example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"  format(uuid)
// @Param       body       body    handlers.AddOptionRequest  true  "Option payload"
//
// @Success     201  {object} domain.Option
// @Failure     400  {object} handlers.ErrorResponse "Bad request or duplicate caption"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Poll not found"
// @Failure     409  {object} handlers.ErrorResponse "Poll closed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/options [post]
func (h *Handlers) AddOption(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	var req AddOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Caption) == "" {
		fail(c, http.StatusBadRequest, CodeBadRequest, "caption required (1–255 chars)")
		return
	}

	opt, err := h.optSvc.Add(c.Request.Context(), pollID, uid, req.Caption, time.Now().UTC())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, opt)
}

// RemoveOption godoc
// @ID          removeOption
// @Summary     Remove an option from a poll
// @Description Deletes an option and the votes attached to it. A poll always keeps at least two options.
// @Tags        Options
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner identity"    example(user123)
// @Param       id         path    string  true  "Poll ID (UUID)"    format(uuid)
// @Param       oid        path    string  true  "Option ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Identity required"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Poll or option not found"
// @Failure     409  {object} handlers.ErrorResponse "Poll closed or too few options would remain"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /polls/{id}/options/{oid} [delete]
func (h *Handlers) RemoveOption(c *gin.Context) {
	pollID, okID := parsePollID(c)
	if !okID {
		return
	}
	optionID := c.Param("oid")
	if _, err := uuid.Parse(optionID); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "option id must be a UUID")
		return
	}
	uid, okUID := requireUserID(c)
	if !okUID {
		return
	}

	if err := h.optSvc.Remove(c.Request.Context(), pollID, optionID, uid, time.Now().UTC()); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

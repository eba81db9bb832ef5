package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollkit/go-poll-backend/internal/services"
)

// Stable machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodePollClosed       = "poll_closed"
	CodeTooFewOptions    = "too_few_options"
	CodePayloadTooLarge  = "payload_too_large"
	CodeTooManyRequests  = "too_many_requests"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

// failFromErr maps a service error to the API's status/code/message triple.
// Sentinels with a dedicated code (poll closed, too few options) are matched
// first; everything else falls back to its error kind.
func failFromErr(c *gin.Context, err error) {
	switch services.Kind(err) {
	case services.KindValidation:
		fail(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	case services.KindAuthorization:
		fail(c, http.StatusForbidden, CodeForbidden, err.Error())
	case services.KindNotFound:
		fail(c, http.StatusNotFound, CodeNotFound, err.Error())
	case services.KindConflict:
		fail(c, http.StatusConflict, CodeConflict, err.Error())
	case services.KindState:
		fail(c, http.StatusConflict, CodePollClosed, err.Error())
	case services.KindInvariant:
		fail(c, http.StatusConflict, CodeTooFewOptions, err.Error())
	default:
		fail(c, http.StatusInternalServerError, CodeInternalError, "unexpected error")
	}
}

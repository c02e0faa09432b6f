package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
)

// parseIDParam reads a numeric path parameter, writing the 400 itself on
// malformed input.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// Business rule codes shared by the rating flow.
var businessMessages = map[string]string{
	"invalid_rating_value":  "Rating must be an integer between 1 and 5",
	"self_rating_forbidden": "You cannot rate your own store",
}

// writeError translates storage/policy/domain failures into the error
// taxonomy. Unexpected errors are logged and returned as a generic 500.
func writeError(c *gin.Context, err error, notFoundMessage string) {
	var denied *policy.DeniedError
	if errors.As(err, &denied) {
		httperr.Forbidden(c, "forbidden", denied.Reason)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		msg := businessMessages[code]
		if msg == "" {
			msg = code
		}
		httperr.BadRequest(c, code, msg)
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		httperr.NotFound(c, "not_found", notFoundMessage)
	case errors.Is(err, store.ErrDuplicateEmail):
		httperr.Conflict(c, "duplicate_email", "Email already exists")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		httperr.Internal(c, "internal_error", "Server error")
	}
}

func bindingError(c *gin.Context, err error) {
	httperr.Write(c, http.StatusBadRequest, "invalid_request", err.Error())
}

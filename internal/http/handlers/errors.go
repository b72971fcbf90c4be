package handlers

import (
	"net/http"

	"broride/internal/domain"
	"broride/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps ledger error kinds to HTTP responses. The mapping
// is the only place transport codes appear; services deal in error kinds.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsSeatsExhausted(err):
		respondError(c, http.StatusConflict, "seats_exhausted", err.Error())
	case domain.IsNotBookable(err):
		respondError(c, http.StatusConflict, "route_not_bookable", err.Error())
	case domain.IsAlreadyRequested(err):
		respondError(c, http.StatusConflict, "already_requested", err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error())
	case domain.IsInvalidState(err):
		respondError(c, http.StatusConflict, "invalid_state", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

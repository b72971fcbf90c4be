package handlers

import (
	"net/http"

	"broride/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// requireActingUser pulls the identity-provider user id or rejects with 401.
func requireActingUser(c *gin.Context) (string, bool) {
	uid := middleware.ActingUserID(c)
	if uid == "" {
		RespondError(c, http.StatusUnauthorized, "missing user identity", nil)
		return "", false
	}
	return uid, true
}

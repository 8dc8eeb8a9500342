package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

// ErrorEnvelope is the body returned for every failed request.
type ErrorEnvelope struct {
	Error *appErrors.Error `json:"error"`
}

// Message is a minimal acknowledgement payload.
type Message struct {
	Message string `json:"message"`
}

// JSON sends payload as-is; list envelopes are built by the caller.
func JSON(c *gin.Context, status int, payload interface{}) {
	noStore(c)
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends an error response converting the error to the common structure.
// Internal failures surface their cause under error.detail.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil && appErr.Detail == "" {
		clone := *appErr
		clone.Detail = appErr.Err.Error()
		appErr = &clone
	}
	noStore(c)
	c.JSON(appErr.Status, ErrorEnvelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// ResetContent sends a 205 response with an empty body.
func ResetContent(c *gin.Context) {
	c.Status(http.StatusResetContent)
	c.Writer.WriteHeaderNow()
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

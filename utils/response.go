package utils

import (
	"errors"
	"log"
	"net/http"

	"notevault/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body for every failed request: one short message,
// no upstream payloads, no stack detail.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success responses carry the payload directly, no envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error responses
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

func ServiceUnavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: message})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// Error maps a classified error to its HTTP status. Unclassified errors are
// logged with context and returned as a generic internal failure.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrBadRequest):
		BadRequest(c, err.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		Unauthorized(c, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		Conflict(c, err.Error())
	case errors.Is(err, apperr.ErrNoteNotFound):
		NotFound(c, apperr.ErrNoteNotFound.Error())
	case errors.Is(err, apperr.ErrUnconfigured):
		ServiceUnavailable(c, err.Error())
	case errors.Is(err, apperr.ErrTransient):
		TrackError("upstream")
		log.Printf("upstream failure on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream request failed"})
	default:
		TrackError("internal")
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		InternalError(c, "internal server error")
	}
}

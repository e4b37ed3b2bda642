// Package http is the HTTP adapter: it translates requests into application
// service calls and application errors into status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/apperror"
)

// Response is the standard JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func okMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// fail maps application errors onto HTTP status codes. Unrecognized errors
// become opaque 500s; the detail stays in the server log.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case apperror.IsValidation(err):
		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, Response{
				Success: false, Error: verr.Error(), Fields: verr.Fields,
			})
			return
		}
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case apperror.IsNotFound(err):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case apperror.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
	case apperror.IsForbidden(err):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case apperror.IsStateConflict(err), apperror.IsConflict(err):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		logger.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false, Error: "internal server error",
		})
	}
}

package resp

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/ecode"
)

// Exception represents the failure response structure.
type Exception struct {
	Status  int    `json:"-"`                 // HTTP status
	Code    int    `json:"code"`              // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Error details
}

// Success writes data with 200.
func Success(c *gin.Context, data any) {
	WithStatusCode(c, http.StatusOK, data)
}

// WithStatusCode writes data with a custom success status.
func WithStatusCode(c *gin.Context, status int, data any) {
	if data == nil {
		c.JSON(status, gin.H{"message": ecode.Text(ecode.OK)})
		return
	}
	c.JSON(status, data)
}

// Fail writes a failure response and aborts the handler chain.
func Fail(c *gin.Context, r *Exception) {
	if r == nil {
		r = &Exception{Code: ecode.ServerErr}
	}
	if r.Code == 0 {
		r.Code = ecode.RequestErr
	}
	if r.Status == 0 {
		r.Status = ecode.ToHTTPStatus(r.Code)
	}
	if r.Message == "" {
		r.Message = ecode.Text(r.Code)
	}
	c.AbortWithStatusJSON(r.Status, r)
}

// BadRequest writes a parameter error.
func BadRequest(c *gin.Context, message string, errs ...any) {
	r := &Exception{Code: ecode.ParamErr, Message: message}
	if len(errs) > 0 {
		r.Errors = errs[0]
	}
	Fail(c, r)
}

// Unavailable writes a backend-unreachable error.
func Unavailable(c *gin.Context) {
	Fail(c, &Exception{Code: ecode.ServiceUnavailable})
}

// Error maps err onto a business code and writes it.
func Error(c *gin.Context, err error) {
	Fail(c, FromError(err))
}

// FromError classifies err for the HTTP surface.
func FromError(err error) *Exception {
	var qe *search.QueryError
	switch {
	case err == nil:
		return &Exception{Code: ecode.ServerErr}
	case errors.Is(err, search.ErrInvalidRange):
		return &Exception{Code: ecode.ParamErr, Errors: err.Error()}
	case errors.Is(err, search.ErrUnavailable):
		return &Exception{Code: ecode.ServiceUnavailable}
	case errors.Is(err, context.DeadlineExceeded):
		return &Exception{Code: ecode.Deadline}
	case errors.As(err, &qe):
		return &Exception{Code: ecode.BackendErr, Errors: qe.Error()}
	default:
		return &Exception{Code: ecode.ServerErr, Errors: err.Error()}
	}
}

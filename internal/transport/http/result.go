package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/domain"
)

// Result is the body of every mutating endpoint. Exactly one of Error,
// Success or URL is set; ID may accompany Success.
type Result struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
}

const (
	msgUnauthorized  = "Unauthorized"
	msgNotFound      = "Not Found"
	msgInvalidFields = "Invalid fields!"
	msgMissingFields = "Missing required fields"
	msgEmailTaken    = "Email already in use!"
	msgInternal      = "Internal Error"
)

// responder renders results and is the only place errors leave the service.
type responder struct {
	logger *slog.Logger
}

func (r responder) success(c *gin.Context, status int, msg, id string) {
	c.JSON(status, Result{Success: msg, ID: id})
}

// fail maps a use case error onto a status and a fixed message. Anything
// that is not a domain sentinel is logged under op and reported as internal.
func (r responder) fail(c *gin.Context, op string, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		r.logger.Error(op, "error", err, "path", c.FullPath())
	} else {
		r.logger.Debug(op, "error", err, "status", status)
	}
	c.JSON(status, Result{Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, msgEmailTaken
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, msgInvalidFields
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// bind decodes the JSON body. Tag validation happens in the use case.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Join(domain.ErrValidation, err)
	}
	return nil
}

package response

import (
	"SchoolLicensing/entity"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func Error(message string) Response {
	return Response{
		Success: false,
		Error:   message,
	}
}

// Status maps a classified error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrTrialExpired):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrConflict),
		errors.Is(err, entity.ErrAuthenticity),
		errors.Is(err, entity.ErrExpired),
		errors.Is(err, entity.ErrAlreadyUsed),
		errors.Is(err, entity.ErrCapacityExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail renders err with the matching status; details of an entity.Error are
// merged into the body next to the message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	body := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}
	var e *entity.Error
	if errors.As(err, &e) {
		for k, v := range e.Details {
			body[k] = v
		}
	}
	render.Status(r, Status(err))
	render.JSON(w, r, body)
}

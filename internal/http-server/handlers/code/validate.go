package code

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/request"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Validate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.code")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("code service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Code validation not available"))
			return
		}

		var req entity.CodeRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		result, err := handler.ValidateTeacherCode(r.Context(), req.AccessCode)
		if err != nil {
			logger.Debug("validate teacher code", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, result)
	}
}

func ValidateCapacity(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.code")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("code service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Code validation not available"))
			return
		}

		var req entity.CodeRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		result, err := handler.ValidateLicenseCapacity(r.Context(), req.AccessCode)
		if err != nil {
			logger.Debug("validate license capacity", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, result)
	}
}

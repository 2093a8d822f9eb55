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

func Use(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.code")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("code service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Code service not available"))
			return
		}

		var req entity.UseCodeRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			slog.String("code_id", req.CodeID),
			sl.Email("user", req.UserEmail),
		)

		result, err := handler.UseTeacherCode(r.Context(), &req)
		if err != nil {
			logger.Warn("use teacher code", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		logger.Info("teacher code used")

		render.JSON(w, r, result)
	}
}

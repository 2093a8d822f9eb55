package admin

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

func NextCode(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		adminEmail := pathParam(r, "admin_email")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Email("admin", adminEmail),
		)

		if handler == nil {
			logger.Error("admin service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Teacher codes not available"))
			return
		}

		next, err := handler.NextTeacherCode(r.Context(), adminEmail)
		if err != nil {
			logger.Debug("next teacher code", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, next)
	}
}

func SendCode(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("admin service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Teacher codes not available"))
			return
		}

		var req entity.SendCodeRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			sl.Email("admin", req.AdminEmail),
			sl.Email("to", req.RecipientEmail),
			slog.String("code_id", req.CodeID),
		)

		result, err := handler.SendTeacherCode(r.Context(), &req)
		if err != nil {
			logger.Error("send teacher code", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, result)
	}
}

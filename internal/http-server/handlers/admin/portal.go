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

func Portal(log *slog.Logger, handler Core) http.HandlerFunc {
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
			render.JSON(w, r, response.Error("Admin portal not available"))
			return
		}

		portal, err := handler.AdminPortal(r.Context(), adminEmail)
		if err != nil {
			logger.Debug("admin portal", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, portal)
	}
}

func Validate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("admin service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Admin validation not available"))
			return
		}

		var req entity.AdminRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		summary, err := handler.ValidateAdmin(r.Context(), req.AdminEmail)
		if err != nil {
			logger.With(sl.Email("admin", req.AdminEmail)).Debug("validate admin", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, summary)
	}
}

func Stats(log *slog.Logger, handler Core) http.HandlerFunc {
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
			render.JSON(w, r, response.Error("Admin stats not available"))
			return
		}

		stats, err := handler.AdminStats(r.Context(), adminEmail)
		if err != nil {
			logger.Debug("admin stats", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, stats)
	}
}

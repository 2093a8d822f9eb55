package admin

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func SchoolLicense(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		school := pathParam(r, "school_name")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("school", school),
		)

		if handler == nil {
			logger.Error("admin service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("License lookup not available"))
			return
		}

		license, err := handler.SchoolLicense(r.Context(), school)
		if err != nil {
			logger.Debug("school license", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, license)
	}
}

func SchoolCodes(log *slog.Logger, handler Core) http.HandlerFunc {
	return schoolCodes(log, handler, "teacher codes", func(h Core) codeLister { return h.TeacherCodes })
}

// SchoolAccessCodes lists codes of every type, student codes included.
func SchoolAccessCodes(log *slog.Logger, handler Core) http.HandlerFunc {
	return schoolCodes(log, handler, "access codes", func(h Core) codeLister { return h.AccessCodes })
}

type codeLister func(ctx context.Context, schoolName string) ([]entity.AccessCode, error)

func schoolCodes(log *slog.Logger, handler Core, what string, lister func(h Core) codeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		school := pathParam(r, "school_name")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("school", school),
		)

		if handler == nil {
			logger.Error("admin service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Code lookup not available"))
			return
		}

		codes, err := lister(handler)(r.Context(), school)
		if err != nil {
			logger.Error(what, sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, codes)
	}
}

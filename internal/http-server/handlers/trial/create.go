package trial

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/request"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	StartTrial(ctx context.Context, req *entity.TrialRequest) (*entity.TrialResult, error)
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.trial")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("trial service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Free trial not available"))
			return
		}

		var req entity.TrialRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			sl.Email("admin", req.AdminEmail),
			slog.String("school", req.SchoolName),
		)

		result, err := handler.StartTrial(r.Context(), &req)
		if err != nil {
			logger.Warn("start trial", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, result)
	}
}

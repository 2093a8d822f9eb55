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

func UserAccess(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.code")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("access service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Access check not available"))
			return
		}

		var req entity.UserAccessRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		access, err := handler.ValidateUserAccess(r.Context(), &req)
		if err != nil {
			logger.With(sl.Email("user", req.UserEmail)).Debug("validate user access", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, access)
	}
}

package operator

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/cont"
	"SchoolLicensing/internal/lib/api/request"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func GenerateKey(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.operator")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("operator", user.Username))
		}

		if handler == nil {
			logger.Error("key service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Key service not available"))
			return
		}

		var req entity.ApiKeyRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		key, err := handler.GenerateApiKey(r.Context(), req.Username)
		if err != nil {
			logger.Error("generate api key", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		logger.With(
			slog.String("username", req.Username),
			sl.Secret("key", key),
		).Info("api key issued")

		render.JSON(w, r, response.Ok(map[string]string{"username": req.Username, "key": key}))
	}
}

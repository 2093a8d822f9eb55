package checkout

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func GetSession(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.checkout")

		id := chi.URLParam(r, "id")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("session_id", id),
		)

		if handler == nil {
			logger.Error("checkout service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Checkout not available"))
			return
		}
		if id == "" {
			response.Fail(w, r, entity.Validation("Session id is required"))
			return
		}

		status, err := handler.GetCheckoutSession(r.Context(), id)
		if err != nil {
			logger.Error("get checkout session", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, status)
	}
}

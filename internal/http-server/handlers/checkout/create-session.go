package checkout

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

func CreateSession(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.checkout")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("checkout service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Checkout not available"))
			return
		}

		var req entity.CheckoutRequest
		if err := request.Bind(r, &req); err != nil {
			logger.With(sl.Err(err)).Debug("invalid checkout request")
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			slog.Int("students", req.StudentQuantity),
			slog.Int("teachers", req.TeacherQuantity),
		)

		result, err := handler.CreateCheckoutSession(r.Context(), &req)
		if err != nil {
			logger.Error("create checkout session", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		logger.With(slog.String("session_id", result.SessionID)).Info("checkout session created")

		render.JSON(w, r, result)
	}
}

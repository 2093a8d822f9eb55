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

// ManualPurchase records a purchase order paid outside the gateway.
func ManualPurchase(log *slog.Logger, handler Core) http.HandlerFunc {
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
			logger.Error("purchase service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Purchases not available"))
			return
		}

		var req entity.ManualPurchase
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			slog.String("school", req.SchoolName),
			slog.String("po_number", req.PONumber),
		)

		result, err := handler.ManualPurchase(r.Context(), &req)
		if err != nil {
			logger.Error("manual purchase", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		logger.With(slog.String("license_id", result.LicenseID)).Info("manual purchase recorded")

		render.JSON(w, r, response.Ok(result))
	}
}

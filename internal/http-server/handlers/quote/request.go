package quote

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

func RequestQuote(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.quote")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("quote service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Quote not available"))
			return
		}

		var req entity.QuoteRequest
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		quote, err := handler.Quote(&req)
		if err != nil {
			logger.Error("quote", sl.Err(err))
			response.Fail(w, r, err)
			return
		}
		logger.With(
			slog.Int("students", quote.StudentQuantity),
			slog.Int("teachers", quote.TeacherQuantity),
			slog.String("total", quote.GrandTotal.StringFixed(2)),
		).Info("quote requested")

		render.JSON(w, r, quote)
	}
}

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

// SendEmail mails a quote PDF; the body carries the file base64 encoded,
// so it is limited to the attachment size plus encoding overhead.
func SendEmail(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.quote")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("mail service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Mail not available"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, entity.MaxFileSize*2)
		var req entity.QuoteEmail
		if err := request.Bind(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		logger = logger.With(
			sl.Email("to", req.RecipientEmail),
			slog.String("quote_id", req.QuoteID),
		)

		if err := handler.SendQuoteEmail(r.Context(), &req); err != nil {
			logger.Error("send quote email", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"success": true,
			"message": "Quote email sent successfully",
		})
	}
}

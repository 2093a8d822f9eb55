package webhook

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const (
	maxBodyBytes    = int64(65536)
	signatureHeader = "Stripe-Signature"
)

type Core interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*entity.WebhookAck, error)
}

// Purchase receives gateway events. The body is read raw since the
// signature covers the exact bytes sent.
func Purchase(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.webhook")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("payment service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Payments not available"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Warn("read webhook body", sl.Err(err))
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			render.Status(r, status)
			render.JSON(w, r, response.Error("Error reading request body"))
			return
		}

		ack, err := handler.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader))
		if err != nil {
			if errors.Is(err, entity.ErrAuthenticity) {
				response.Fail(w, r, entity.Authenticity("Webhook Error: %s", err.Error()))
				return
			}
			logger.Error("handle webhook", sl.Err(err))
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, ack)
	}
}

package pages

import (
	"SchoolLicensing/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const paymentIncomplete = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Payment Incomplete</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
    .error { color: #dc3545; }
  </style>
</head>
<body>
  <h1 class="error">Payment Incomplete</h1>
  <p>Your payment was not completed. Please try again.</p>
  <a href="/">Return to Home</a>
</body>
</html>
`

// Success sends the buyer on to license distribution after checkout.
func Success(log *slog.Logger, distributionURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.With(
			sl.Module("http.handlers.pages"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("session_id", r.URL.Query().Get("session_id")),
		).Debug("checkout success redirect")

		http.Redirect(w, r, distributionURL, http.StatusFound)
	}
}

func PaymentError(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.HTML(w, r, paymentIncomplete)
	}
}

func Health(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

package pages

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRedirects(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()
	Success(log, "https://distribution.test")(w, httptest.NewRequest(http.MethodGet, "/success?session_id=cs_1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://distribution.test", w.Header().Get("Location"))
}

func TestPaymentError(t *testing.T) {
	w := httptest.NewRecorder()
	PaymentError(nil)(w, httptest.NewRequest(http.MethodGet, "/error", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Payment Incomplete")
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(nil)(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

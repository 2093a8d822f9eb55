package webhook

import (
	"SchoolLicensing/entity"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCore struct {
	payload   []byte
	signature string
	ack       *entity.WebhookAck
	err       error
}

func (f *fakeCore) HandleWebhook(_ context.Context, payload []byte, signature string) (*entity.WebhookAck, error) {
	f.payload = payload
	f.signature = signature
	return f.ack, f.err
}

func send(core Core, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/purchase", strings.NewReader(body))
	r.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	Purchase(slog.New(slog.NewTextHandler(io.Discard, nil)), core)(w, r)
	return w
}

func TestPurchase_PassesRawBody(t *testing.T) {
	core := &fakeCore{ack: &entity.WebhookAck{Received: true}}
	body := `{"id": "evt_1",  "type":"checkout.session.completed"}`

	w := send(core, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
	assert.Equal(t, body, string(core.payload))
	assert.Equal(t, "t=1,v1=abc", core.signature)
}

func TestPurchase_ProcessingErrorStill200(t *testing.T) {
	core := &fakeCore{ack: &entity.WebhookAck{Received: true, Error: "boom"}}
	w := send(core, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"error":"boom"}`, w.Body.String())
}

func TestPurchase_BadSignature(t *testing.T) {
	core := &fakeCore{err: entity.Authenticity("No signatures found matching the expected signature for payload")}
	w := send(core, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook Error: No signatures found")
}

func TestPurchase_BodyTooLarge(t *testing.T) {
	core := &fakeCore{ack: &entity.WebhookAck{Received: true}}
	w := send(core, strings.Repeat("x", int(maxBodyBytes)+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Nil(t, core.payload)
}

func TestPurchase_UnexpectedError(t *testing.T) {
	core := &fakeCore{err: errors.New("payment service is not set")}
	w := send(core, `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

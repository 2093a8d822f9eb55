package core

import (
	"SchoolLicensing/entity"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteRequest() *entity.QuoteEmail {
	return &entity.QuoteEmail{
		PDFBase64:      base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 quote")),
		RecipientEmail: "buyer@school.org",
		AdminName:      "Jane",
		SchoolName:     "Lincoln High",
		DistrictName:   "North",
		StudentQty:     "40",
		TeacherQty:     "3",
		StudentTotal:   "$200.00",
		TeacherTotal:   "$60.00",
		GrandTotal:     "$260.00",
		QuoteID:        "Q-1",
	}
}

func TestSendQuoteEmail(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.core.SendQuoteEmail(context.Background(), quoteRequest()))
	require.Len(t, env.mailer.sent, 1)

	msg := env.mailer.sent[0]
	assert.Equal(t, "buyer@school.org", msg.To)
	assert.Equal(t, "Quote PDF from Trinity Capital - Lincoln High", msg.Subject)
	assert.Contains(t, msg.Text, "Dear Jane,")
	assert.Contains(t, msg.Text, "Student Licenses: 40 ($200.00)")
	assert.NotContains(t, msg.Text, "School-Wide")

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Quote.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, entity.MIMETypePDF, msg.Attachments[0].MIMEType)
	assert.Equal(t, []byte("%PDF-1.4 quote"), msg.Attachments[0].Content)
}

func TestSendQuoteEmail_Bulk(t *testing.T) {
	env := newTestEnv(t)
	req := quoteRequest()
	req.StudentQty = entity.BulkQuoteQuantity
	req.TeacherQty = entity.BulkQuoteQuantity
	req.GrandTotal = entity.BulkQuoteTotal
	req.PDFFilename = "Lincoln.pdf"
	req.AdminName = ""

	require.NoError(t, env.core.SendQuoteEmail(context.Background(), req))
	msg := env.mailer.sent[0]
	assert.Contains(t, msg.Text, "Dear Administrator,")
	assert.Contains(t, msg.Text, "School-Wide License")
	assert.NotContains(t, msg.Text, "Student Licenses:")
	assert.Equal(t, "Lincoln.pdf", msg.Attachments[0].Filename)
}

func TestSendQuoteEmail_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		modify func(q *entity.QuoteEmail)
	}{
		{"missing pdf", func(q *entity.QuoteEmail) { q.PDFBase64 = "" }},
		{"missing recipient", func(q *entity.QuoteEmail) { q.RecipientEmail = "" }},
		{"bad recipient", func(q *entity.QuoteEmail) { q.RecipientEmail = "nope" }},
		{"bad base64", func(q *entity.QuoteEmail) { q.PDFBase64 = "***" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := quoteRequest()
			tt.modify(req)

			err := env.core.SendQuoteEmail(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, entity.ErrValidation))
			assert.Empty(t, env.mailer.sent)
		})
	}
}

func TestSendQuoteEmail_TransportError(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp down")

	err := env.core.SendQuoteEmail(context.Background(), quoteRequest())
	assert.True(t, errors.Is(err, entity.ErrUpstream))
}

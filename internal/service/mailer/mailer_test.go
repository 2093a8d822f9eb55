package mailer

import (
	"SchoolLicensing/entity"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func newTestService(sender Sender) *Service {
	return NewServiceWithSender(sender, "support@example.com", "Support", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSend(t *testing.T) {
	sender := &fakeSender{}
	s := newTestService(sender)

	id, err := s.Send(context.Background(), &entity.MailMessage{
		To:      "teacher@school.org",
		ReplyTo: "admin@school.org",
		Subject: "Your code",
		Text:    "Code: ABCD1234",
		HTML:    "Code: <b>ABCD1234</b>",
		Attachments: []entity.Attachment{
			{Filename: "Quote.pdf", MIMEType: entity.MIMETypePDF, Content: []byte("%PDF-1.4")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, sender.sent, 1)

	var buf bytes.Buffer
	_, err = sender.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "To: <teacher@school.org>")
	assert.Contains(t, raw, "Reply-To: <admin@school.org>")
	assert.Contains(t, raw, "Subject: Your code")
	assert.Contains(t, raw, "Quote.pdf")
	assert.Contains(t, raw, "application/pdf")
}

func TestSend_InvalidRecipient(t *testing.T) {
	sender := &fakeSender{}
	s := newTestService(sender)

	_, err := s.Send(context.Background(), &entity.MailMessage{To: "not an email", Text: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrValidation))
	assert.Empty(t, sender.sent)
}

func TestSend_AttachmentTooLarge(t *testing.T) {
	s := newTestService(&fakeSender{})

	_, err := s.Send(context.Background(), &entity.MailMessage{
		To:          "a@b.org",
		Text:        "x",
		Attachments: []entity.Attachment{{Filename: "big.pdf", Content: make([]byte, entity.MaxFileSize+1)}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrValidation))
}

func TestSend_TransportError(t *testing.T) {
	s := newTestService(&fakeSender{err: errors.New("connection refused")})

	_, err := s.Send(context.Background(), &entity.MailMessage{To: "a@b.org", Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

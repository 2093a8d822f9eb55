package mailer

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/lib/sl"
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Sender is the SMTP transport for every outgoing email.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Service struct {
	client   Sender
	from     string
	fromName string
	log      *slog.Logger
}

func NewService(conf *config.Config, log *slog.Logger) (*Service, error) {
	client, err := mail.NewClient(conf.Mail.Host,
		mail.WithPort(conf.Mail.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(conf.Mail.User),
		mail.WithPassword(conf.Mail.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return NewServiceWithSender(client, conf.Mail.User, conf.Mail.FromName, log), nil
}

func NewServiceWithSender(sender Sender, from, fromName string, log *slog.Logger) *Service {
	return &Service{
		client:   sender,
		from:     from,
		fromName: fromName,
		log:      log.With(sl.Module("mailer")),
	}
}

// Send delivers the message and returns its Message-ID.
func (s *Service) Send(ctx context.Context, message *entity.MailMessage) (string, error) {
	msg, err := s.compose(message)
	if err != nil {
		return "", err
	}

	if err = s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	id := msg.GetGenHeader(mail.HeaderMessageID)
	messageID := ""
	if len(id) > 0 {
		messageID = id[0]
	}

	s.log.With(
		sl.Email("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("message_id", messageID),
	).Info("email sent")

	return messageID, nil
}

func (s *Service) compose(message *entity.MailMessage) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, entity.Validation("invalid recipient email: %s", message.To)
	}
	if message.ReplyTo != "" {
		if err := msg.ReplyTo(message.ReplyTo); err != nil {
			return nil, entity.Validation("invalid reply-to email: %s", message.ReplyTo)
		}
	}
	msg.Subject(message.Subject)
	msg.SetMessageID()
	msg.SetDate()

	switch {
	case message.Text != "" && message.HTML != "":
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, message.HTML)
	case message.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, message.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
	}

	for _, a := range message.Attachments {
		if len(a.Content) > entity.MaxFileSize {
			return nil, entity.Validation("%s", entity.FileTooLargeError(a.Filename, int64(len(a.Content))).Error())
		}
		mimeType := a.MIMEType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content), mail.WithFileContentType(mail.ContentType(mimeType))); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}

	return msg, nil
}

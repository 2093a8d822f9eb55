package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
)

const defaultQuoteFilename = "Quote.pdf"

// SendQuoteEmail mails a quote PDF rendered by the browser.
func (c *Core) SendQuoteEmail(ctx context.Context, req *entity.QuoteEmail) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if c.mailer == nil {
		return fmt.Errorf("mail service is not set")
	}

	pdf, err := base64.StdEncoding.DecodeString(req.PDFBase64)
	if err != nil {
		return entity.Validation("pdfBase64 is not valid base64")
	}
	filename := req.PDFFilename
	if filename == "" {
		filename = defaultQuoteFilename
	}

	message := quoteEmail(req)
	message.Attachments = []entity.Attachment{
		{Filename: filename, MIMEType: entity.MIMETypePDF, Content: pdf},
	}

	if _, err = c.mailer.Send(ctx, message); err != nil {
		return entity.Upstream(err)
	}

	c.log.With(
		sl.Email("to", req.RecipientEmail),
		slog.String("quote_id", req.QuoteID),
		slog.Bool("bulk", req.IsBulk()),
	).Info("quote email sent")
	return nil
}

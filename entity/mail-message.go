package entity

// MailMessage represents a message to be sent via email.
type MailMessage struct {
	To          string       `json:"to" validate:"required,email"`
	ReplyTo     string       `json:"reply_to,omitempty" validate:"omitempty,email"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text,omitempty"`
	HTML        string       `json:"html,omitempty"`
	Attachments []Attachment `json:"-"`
}

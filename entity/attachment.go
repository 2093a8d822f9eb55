package entity

import (
	"errors"
	"fmt"
)

// MaxFileSize is the maximum allowed attachment size (10 MB).
const MaxFileSize = 10 << 20

const MIMETypePDF = "application/pdf"

// ErrFileTooLarge is returned when an attachment exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// FileTooLargeError wraps ErrFileTooLarge with details about the offending file.
func FileTooLargeError(filename string, size int64) error {
	return fmt.Errorf("%w: %q is %d bytes, limit is %d MB", ErrFileTooLarge, filename, size, MaxFileSize>>20)
}

// Attachment represents a file attached to an outgoing MailMessage.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

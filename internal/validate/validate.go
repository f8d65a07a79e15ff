// Package validate checks candidate submissions before they are sent.
package validate

import (
	"fmt"
	"strings"

	"github.com/veridash/veridash/internal/models"
)

// MaxFileSize is the upload cap in bytes (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedMimeTypes is the fixed whitelist of accepted document types.
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"text/plain":         true,
}

// ValidationError describes a rejected submission. It is shown inline
// next to the offending control and never reaches the verification call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Payload validates a full submission payload for its declared mode.
func Payload(p *models.SubmissionPayload) error {
	if err := p.Validate(); err != nil {
		return &ValidationError{Field: "payload", Message: err.Error()}
	}
	switch p.Type {
	case models.PayloadText:
		return Text(p.Text)
	case models.PayloadFile:
		return File(p.File)
	}
	return &ValidationError{Field: "payload", Message: "unknown payload type"}
}

// Text validates pasted text: the trimmed string must be non-empty.
// No upper bound is imposed here.
func Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "Please enter some text to verify"}
	}
	return nil
}

// File validates an uploaded document. The media type is checked before
// the size so a too-large file of a disallowed type reports the type error.
func File(f *models.FileBlob) error {
	if f == nil {
		return &ValidationError{Field: "file", Message: "Please select a file to verify"}
	}
	if !AllowedMimeTypes[f.MimeType] {
		return &ValidationError{
			Field:   "file",
			Message: "Unsupported file type. Please upload a PDF, DOC, DOCX, or TXT file",
		}
	}
	if f.Size > MaxFileSize {
		return &ValidationError{
			Field:   "file",
			Message: "File is too large. Maximum size is 10 MB",
		}
	}
	return nil
}

package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// inline-data ceiling of the provider
const DefaultMaxBytes int64 = 20 << 20

var (
	ErrUnreadable      = errors.New("file could not be read")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmpty           = errors.New("file is empty")
)

type EncodingError struct {
	Filename string
	Err      error
}

func (e *EncodingError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("cannot read file: %v", e.Err)
	}

	return fmt.Sprintf("cannot read file %q: %v", e.Filename, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Payload is an encoded creative ready to be sent inline to the model.
// It is never mutated after Encode returns.
type Payload struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64, no data-URL prefix
	Size     int64  `json:"size"`
	Filename string `json:"filename,omitempty"`

	raw []byte
}

func (p *Payload) IsVideo() bool {
	return strings.HasPrefix(p.MIMEType, "video/")
}

func (p *Payload) IsImage() bool {
	return strings.HasPrefix(p.MIMEType, "image/")
}

// returns a copy of the decoded bytes
func (p *Payload) Bytes() ([]byte, error) {
	if p.raw != nil {
		return slices.Clone(p.raw), nil
	}

	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return data, nil
}

// like Bytes but shares the payload's buffer; callers must not modify it
func (p *Payload) shared() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}

	return p.Bytes()
}

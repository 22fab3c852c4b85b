// Package media turns user-supplied creatives into inline payloads for the
// generation request and tracks the temporary preview resources shown while a
// creative is selected.
package media

import (
	"encoding/base64"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// reads the whole file and produces a payload, maxBytes <= 0 uses DefaultMaxBytes
func Encode(r io.Reader, filename, declaredType string, maxBytes int64) (*Payload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, &EncodingError{Filename: filename, Err: ErrUnreadable}
	}

	return newPayload(data, filename, declaredType, maxBytes)
}

// validates a client-supplied base64 payload, accepting an optional data-URL prefix
func DecodePayload(mimeType, data string, maxBytes int64) (*Payload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	if strings.HasPrefix(data, "data:") {
		if i := strings.IndexByte(data, ','); i >= 0 {
			data = data[i+1:]
		}
	}

	data = strings.TrimSpace(data)
	if data == "" {
		return nil, &EncodingError{Err: ErrEmpty}
	}

	if int64(base64.StdEncoding.DecodedLen(len(data))) > maxBytes+2 {
		return nil, &EncodingError{Err: ErrTooLarge}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &EncodingError{Err: ErrUnreadable}
	}

	return newPayload(raw, "", mimeType, maxBytes)
}

func newPayload(data []byte, filename, declaredType string, maxBytes int64) (*Payload, error) {
	if len(data) == 0 {
		return nil, &EncodingError{Filename: filename, Err: ErrEmpty}
	}

	if int64(len(data)) > maxBytes {
		return nil, &EncodingError{Filename: filename, Err: ErrTooLarge}
	}

	mimeType, ok := inlineTypes[detectType(data, declaredType)]
	if !ok {
		return nil, &EncodingError{Filename: filename, Err: ErrUnsupportedType}
	}

	// data is owned by the payload from here on
	return &Payload{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
		Size:     int64(len(data)),
		Filename: filename,
		raw:      data,
	}, nil
}

// sniffed type wins unless sniffing only found a generic one
func detectType(data []byte, declaredType string) string {
	sniffed := baseType(mimetype.Detect(data).String())

	switch sniffed {
	case "", "application/octet-stream", "text/plain":
		return baseType(declaredType)
	}

	return sniffed
}

func baseType(contentType string) string {
	if contentType == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}

	return mediaType
}

// types the model takes as inline data, keyed by the sniffed or declared type
var inlineTypes = map[string]string{
	"image/png":       "image/png",
	"image/jpeg":      "image/jpeg",
	"image/webp":      "image/webp",
	"image/heic":      "image/heic",
	"image/heif":      "image/heif",
	"video/mp4":       "video/mp4",
	"video/mpeg":      "video/mpeg",
	"video/mov":       "video/mov",
	"video/quicktime": "video/mov",
	"video/avi":       "video/avi",
	"video/x-msvideo": "video/avi",
	"video/x-flv":     "video/x-flv",
	"video/webm":      "video/webm",
	"video/wmv":       "video/wmv",
	"video/x-ms-wmv":  "video/wmv",
	"video/x-ms-asf":  "video/wmv",
	"video/3gpp":      "video/3gpp",
}

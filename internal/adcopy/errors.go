package adcopy

import (
	"errors"
	"fmt"
)

var (
	ErrGenerationInProgress = errors.New("a generation is already in progress")
	ErrNoMedia              = errors.New("media is required")
)

type ErrorKind string

const (
	KindTransport      ErrorKind = "transport"
	KindTimeout        ErrorKind = "timeout"
	KindCanceled       ErrorKind = "canceled"
	KindProvider       ErrorKind = "provider"
	KindEmptyResponse  ErrorKind = "empty_response"
	KindMalformedJSON  ErrorKind = "malformed_json"
	KindSchemaMismatch ErrorKind = "schema_mismatch"
)

// GenerationError is the single failure type of Client.Generate.
// No partial result ever accompanies it.
type GenerationError struct {
	Kind      ErrorKind
	Retryable bool
	Err       error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}

	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(kind ErrorKind, retryable bool, format string, args ...any) *GenerationError {
	return &GenerationError{
		Kind:      kind,
		Retryable: retryable,
		Err:       fmt.Errorf(format, args...),
	}
}

// reports whether err is a GenerationError worth retrying
func IsRetryable(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Retryable
}

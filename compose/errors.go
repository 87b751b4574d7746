package compose

import (
	"fmt"

	"blogcms/encoding"
)

// ErrTooLarge aborts a save before any network call. Its message is
// deliberately distinct from provider failures so the two are never
// confused in user-facing output.
var ErrTooLarge = encoding.ErrTooLarge

// ValidationError is a per-field failure caught before the resolver does
// any work.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UploadError carries the asset provider's diagnostic message. A save that
// hits one is aborted with no document write.
type UploadError struct {
	Message string
	Details string
}

func (e *UploadError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

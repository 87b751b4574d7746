// Package compose implements the save-side workflow around the asset store:
// deciding what a post's cover image reference becomes on submit, and
// splicing inline image embeds into rich-text bodies.
package compose

import (
	"context"
	"strings"

	"blogcms/encoding"
	"blogcms/models"
	"blogcms/upload"
)

// Mode distinguishes creating a post from editing one. The cover image is
// required on create and optional on edit; keeping the rule keyed on an
// explicit mode stops it drifting into an implicit id-presence check.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Submission is a submitted post form before resolution. CoverInput holds
// whatever the form carried for the cover field: empty, a pending data URI,
// or a URL from a previous load.
type Submission struct {
	Title      string
	Category   string
	CoverInput string
	Body       string
}

// Resolver validates submissions and resolves their cover image reference.
type Resolver struct {
	uploader upload.Uploader
	maxBytes int64
}

func NewResolver(uploader upload.Uploader, maxBytes int64) *Resolver {
	return &Resolver{uploader: uploader, maxBytes: maxBytes}
}

// Validate applies the field rules that run before any network call.
func (r *Resolver) Validate(mode Mode, sub Submission) error {
	if strings.TrimSpace(sub.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if sub.Category == "" {
		return &ValidationError{Field: "category", Message: "Category is required"}
	}
	if !models.ValidCategory(sub.Category) {
		return &ValidationError{Field: "category", Message: "Unknown category"}
	}
	if mode == ModeCreate && sub.CoverInput == "" {
		return &ValidationError{Field: "coverImage", Message: "Image is required"}
	}
	return nil
}

// ResolveCover turns the submitted cover field into the value persisted as
// the post's cover image reference:
//
//   - empty input resolves to nil (no cover),
//   - a data URI is a fresh pending upload: size-checked, then uploaded, and
//     the returned URL becomes the reference,
//   - a remote URL was carried over from a previous load and is returned
//     verbatim.
//
// Any failure aborts the save; the caller must not write the document.
func (r *Resolver) ResolveCover(ctx context.Context, sub Submission) (*string, error) {
	switch {
	case sub.CoverInput == "":
		return nil, nil

	case encoding.IsDataURI(sub.CoverInput):
		size, err := encoding.DecodedSize(sub.CoverInput)
		if err != nil {
			return nil, &ValidationError{Field: "coverImage", Message: "Invalid image payload"}
		}
		if size > r.maxBytes {
			return nil, ErrTooLarge
		}
		url, err := r.uploader.Upload(ctx, sub.CoverInput)
		if err != nil {
			return nil, &UploadError{Message: "Upload failed", Details: err.Error()}
		}
		return &url, nil

	case encoding.IsRemoteURL(sub.CoverInput):
		url := sub.CoverInput
		return &url, nil

	default:
		return nil, &ValidationError{Field: "coverImage", Message: "Unrecognized image reference"}
	}
}

// Package encoding converts local image bytes into the data-URI form the
// upload gateway and the asset store accept.
package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrTooLarge is returned before any encoding work happens when the input
// exceeds the configured cap.
var ErrTooLarge = errors.New("file exceeds maximum upload size")

const dataURIPrefix = "data:"

// EncodeDataURI reads r and returns a base64 data URI with a sniffed MIME
// type. It fails with ErrTooLarge without encoding anything once more than
// maxBytes have been read.
func EncodeDataURI(r io.Reader, maxBytes int64) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return "", ErrTooLarge
	}

	mime := mimetype.Detect(raw)
	return dataURIPrefix + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodedSize reports the byte size the base64 payload of uri decodes to,
// without decoding it. Used by the gateway to cap accepted payloads.
func DecodedSize(uri string) (int64, error) {
	idx := strings.Index(uri, ";base64,")
	if !IsDataURI(uri) || idx < 0 {
		return 0, errors.New("not a base64 data URI")
	}
	payload := uri[idx+len(";base64,"):]
	n := int64(base64.StdEncoding.DecodedLen(len(payload)))
	// DecodedLen counts padding as content; trim it off.
	n -= int64(strings.Count(payload, "="))
	if n < 0 {
		n = 0
	}
	return n, nil
}

// IsDataURI reports whether s is a pending local upload (a data URI).
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIPrefix)
}

// IsRemoteURL reports whether s is an already-uploaded asset reference.
func IsRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

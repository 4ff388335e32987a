package blob

import (
	"context"
	"errors"
	"io"
)

// ErrUpload indicates a receipt blob could not be stored.
var ErrUpload = errors.New("receipt upload failed")

// Store captures the object storage operations the gateway needs.
type Store interface {
	// Upload stores body under path. Failures wrap ErrUpload.
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	// PublicURL returns the public URL for a stored object path.
	PublicURL(path string) string
}

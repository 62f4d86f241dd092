package storage

import (
	"context"
	"io"
)

// ObjectReader is the read-only view of object storage used to fetch the lookup table.
type ObjectReader interface {
	// Download opens an object. A missing object returns an error wrapping fs.ErrNotExist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

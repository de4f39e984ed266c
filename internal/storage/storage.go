package storage

import (
	"io"
)

// Storage abstracts where banner and custom-order attachments live.
// The console ships with a local-disk backend; swapping in a cloud
// bucket only needs another implementation of this interface.
type Storage interface {
	// Save writes the object and returns its public URL
	Save(key string, reader io.Reader) (string, error)

	// Exists reports whether the object is present and its size
	Exists(key string) (bool, int64, error)

	// Delete removes the object; deleting a missing object is not an error
	Delete(key string) error

	// Open reads the object back (used by the static file handler)
	Open(key string) (io.ReadCloser, error)
}

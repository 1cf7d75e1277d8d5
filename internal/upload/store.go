package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// Partitions are the two storage subtrees images can land in. The upload
// URL's path segment selects one; anything else is rejected before any
// filesystem access, which also blocks path traversal.
const (
	PartitionCategories = "categories"
	PartitionProducts   = "products"
)

var ErrUnknownPartition = errors.New("unknown upload partition")

// AllowedMIMETypes is the ingestion allow-list
var AllowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store persists uploaded images under a partitioned directory tree
type Store struct {
	root string
}

// NewStore creates the root and partition directories if absent
func NewStore(root string) (*Store, error) {
	for _, partition := range []string{PartitionCategories, PartitionProducts} {
		dir := filepath.Join(root, partition)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}

	return &Store{root: root}, nil
}

// Root returns the upload root directory
func (s *Store) Root() string {
	return s.root
}

// Save writes the image into the given partition under a collision-resistant
// name and returns that filename. The name combines a nanosecond timestamp
// with a random integer suffix, preserving the original extension, so two
// uploads of identical content never overwrite each other.
func (s *Store) Save(partition, ext string, src io.Reader) (string, error) {
	if partition != PartitionCategories && partition != PartitionProducts {
		return "", ErrUnknownPartition
	}

	filename := fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)

	path := filepath.Join(s.root, partition, filename)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	return filename, nil
}

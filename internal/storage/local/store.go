// Package local keeps attachment blobs in a single bbolt file. It backs
// development setups; blobs are served by the /files/ route.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"spisovka/internal/domain"
	fm "spisovka/internal/domain/services/filemanager"
)

var (
	blobsBucket = []byte("blobs")
	typesBucket = []byte("content_types")
)

// Store implements filemanager.BlobStore on bbolt.
type Store struct {
	db      *bbolt.DB
	baseURL string
}

var _ fm.BlobStore = (*Store)(nil)

// Open opens (or creates) the blob database at path. baseURL is the
// address under which the /files/ route is reachable.
func Open(path, baseURL string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blob database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{blobsBucket, typesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create blob buckets: %w", err)
	}

	return &Store{db: db, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty object path", domain.ErrValidation)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(blobsBucket).Put([]byte(path), data); err != nil {
			return err
		}
		return tx.Bucket(typesBucket).Put([]byte(path), []byte(contentType))
	})
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

// Delete removes path. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(blobsBucket).Delete([]byte(path)); err != nil {
			return err
		}
		return tx.Bucket(typesBucket).Delete([]byte(path))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/files/" + strings.Join(segments, "/")
}

// Get returns the stored bytes and content type of path.
func (s *Store) Get(path string) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(blobsBucket).Get([]byte(path))
		if v == nil {
			return domain.ErrNotFound
		}
		// bbolt values are only valid inside the transaction
		data = append([]byte(nil), v...)
		contentType = string(tx.Bucket(typesBucket).Get([]byte(path)))
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("blob %s: %w", path, domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, contentType, nil
}

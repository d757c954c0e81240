// Package storage persists uploaded payment evidence and returns a URL the
// back office can open.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes bounds a single evidence upload.
const DefaultMaxBytes int64 = 5 << 20

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds the maximum allowed size")
	// ErrUnsupportedType is returned when the sniffed content type is not accepted.
	ErrUnsupportedType = errors.New("file type not allowed; use JPEG, PNG, WEBP, GIF or PDF")
	// ErrEmpty is returned for zero-byte uploads.
	ErrEmpty = errors.New("file is empty")
)

var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"application/pdf",
}

// EvidenceStore stores an uploaded file and returns its public reference.
type EvidenceStore interface {
	Put(ctx context.Context, r io.Reader) (string, error)
}

// LocalStore writes evidence to a directory served under baseURL.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

var _ EvidenceStore = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, baseURL string, maxBytes int64) (*LocalStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL, maxBytes: maxBytes, now: time.Now}, nil
}

// MaxBytes returns the upload size limit.
func (s *LocalStore) MaxBytes() int64 {
	return s.maxBytes
}

// Put sniffs and stores the content of r. The stored name is generated, never
// taken from the client.
func (s *LocalStore) Put(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return "", ErrUnsupportedType
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), uuid.NewString(), mtype.Extension())
	if err := s.write(name, data); err != nil {
		return "", err
	}
	return s.baseURL + "/" + name, nil
}

// write goes through a temp file so readers never see a partial upload.
func (s *LocalStore) write(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return nil
}

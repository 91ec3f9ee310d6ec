// Package storage abstracts the blob store that holds uploaded trip
// images. The moderation pipeline reads image bytes from it and hands
// detectors a public URL for vendors that fetch by URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("object not found")

// Storage abstracts blob persistence so local disk can later be swapped
// for object storage.
type Storage interface {
	Put(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	URL(name string) string
	Delete(ctx context.Context, name string) error
}

// Local stores blobs on the filesystem under a single root directory and
// serves URLs off a public base the CDN or reverse proxy exposes.
type Local struct {
	root          string
	publicBaseURL string
}

// NewLocal creates a disk-backed store rooted at dir.
func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{
		root:          dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// resolve rejects names that would escape the root.
func (l *Local) resolve(name string) (string, error) {
	cleaned := filepath.Clean(strings.TrimLeft(name, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(l.root, cleaned), nil
}

func (l *Local) Put(ctx context.Context, name string, data []byte) error {
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", name, err)
	}
	return nil
}

func (l *Local) Read(ctx context.Context, name string) ([]byte, error) {
	full, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}
	return data, nil
}

// URL returns the externally reachable address for an object. Vendors
// that fetch images themselves (Green-Eye, OCR) receive this.
func (l *Local) URL(name string) string {
	return l.publicBaseURL + "/" + strings.TrimLeft(name, "/")
}

func (l *Local) Delete(ctx context.Context, name string) error {
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

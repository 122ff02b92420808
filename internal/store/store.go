// Package store owns the scratch directory: naming and placement of
// ephemeral artifacts, static serving, and background eviction.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mediakit/internal/fileutil"
)

// Sentinel errors for store operations.
var (
	ErrEmptyDir    = errors.New("store: scratch directory is required")
	ErrInvalidName = errors.New("store: invalid artifact name")
)

// tokenBytes sizes the random artifact token. 12 bytes of entropy keeps
// names unguessable; collisions are not checked (probabilistically safe).
const tokenBytes = 12

// Store places artifacts in a single flat scratch directory. It exposes no
// deletion API to pipelines; eviction is the Janitor's concern.
type Store struct {
	dir string
}

// New initializes a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure scratch dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the scratch root.
func (s *Store) Dir() string {
	return s.dir
}

// Allocate reserves a fresh artifact path: a random base-36 token plus the
// extension, directly under the scratch root. Nothing is written yet.
func (s *Store) Allocate(ext string) (name string, path string, err error) {
	if err := fileutil.ValidateExtension(ext); err != nil {
		return "", "", err
	}
	name = randomToken() + "." + ext
	return name, filepath.Join(s.dir, name), nil
}

// Write persists artifact bytes under a previously allocated name.
func (s *Store) Write(name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write artifact: %w", err)
	}
	return nil
}

// Path maps a public artifact name back to its location under the scratch
// root. Names carrying separators or traversal cannot resolve: the scratch
// directory is flat.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// FileServer serves artifacts by name. Mount it under the public file
// prefix with http.StripPrefix; anything that doesn't resolve to a regular
// file in the scratch root is a 404.
func (s *Store) FileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, err := s.Path(strings.TrimPrefix(r.URL.Path, "/"))
		if err != nil || !fileutil.FileExists(path) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	})
}

// randomToken returns a fresh random base-36 token.
func randomToken() string {
	buf := make([]byte, tokenBytes)
	// rand.Read never fails on supported platforms (crypto/rand docs).
	_, _ = rand.Read(buf)
	return new(big.Int).SetBytes(buf).Text(36)
}

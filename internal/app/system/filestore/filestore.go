// Package filestore persists uploaded bytes under a fixed root directory.
//
// Files are stored flat: a request attachment lives at
// "<root>/<requestID>_<sanitized name>" and that full slash-separated path is
// what gets recorded as the attachment's file_path. Writes replace any
// existing file at the same path.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ErrOutsideRoot is returned when a path does not name a file directly under the root.
var ErrOutsideRoot = errors.New("path is outside the storage root")

// StorageError reports a failed filesystem operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Stored describes a file that was written.
type Stored struct {
	Locator  string // name within the root, e.g. "12_plan.pdf"
	FilePath string // root-qualified path, e.g. "uploads/project_requests/12_plan.pdf"
	Size     int64
}

// Store writes and reads files under one root on an afero filesystem.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a Store rooted at root on fs. The root is created on first write.
func New(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: path.Clean(strings.TrimSuffix(root, "/"))}
}

// NewOS returns a Store on the host filesystem and makes sure root exists.
func NewOS(root string) (*Store, error) {
	s := New(afero.NewOsFs(), root)
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: s.root, Err: err}
	}
	return s, nil
}

// Root returns the directory files are written to.
func (s *Store) Root() string { return s.root }

// Locator returns the storage name for an attachment of a request.
func Locator(requestID int64, originalName string) string {
	return fmt.Sprintf("%d_%s", requestID, SecureFilename(originalName))
}

// Save stores an attachment for requestID under its deterministic locator.
func (s *Store) Save(ctx context.Context, requestID int64, originalName string, r io.Reader) (Stored, error) {
	return s.Put(ctx, Locator(requestID, originalName), r)
}

// Put writes r to root/name. name must be a single path element.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) (Stored, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Stored{}, &StorageError{Op: "write", Path: name, Err: ErrOutsideRoot}
	}
	full := path.Join(s.root, name)
	if err := ctx.Err(); err != nil {
		return Stored{}, &StorageError{Op: "write", Path: full, Err: err}
	}

	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return Stored{}, &StorageError{Op: "mkdir", Path: s.root, Err: err}
	}
	f, err := s.fs.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Stored{}, &StorageError{Op: "write", Path: full, Err: err}
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Stored{}, &StorageError{Op: "write", Path: full, Err: err}
	}

	return Stored{Locator: name, FilePath: full, Size: n}, nil
}

// Open opens a previously stored file by its recorded file path.
func (s *Store) Open(filePath string) (afero.File, error) {
	full, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(full)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: full, Err: err}
	}
	return f, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(filePath string) error {
	full, err := s.resolve(filePath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "remove", Path: full, Err: err}
	}
	return nil
}

// resolve checks that filePath names a file directly inside the root.
func (s *Store) resolve(filePath string) (string, error) {
	clean := path.Clean(filePath)
	dir, name := path.Split(clean)
	if path.Clean(dir) != s.root || name == "" {
		return "", &StorageError{Op: "resolve", Path: filePath, Err: ErrOutsideRoot}
	}
	return clean, nil
}

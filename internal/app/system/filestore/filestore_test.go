package filestore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/spf13/afero"
)

const root = "uploads/project_requests"

func TestSave_WritesFlatLocator(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := filestore.New(fs, root)

	got, err := s.Save(context.Background(), 12, "fileA", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got.Locator != "12_fileA" {
		t.Errorf("Locator: got %q, want %q", got.Locator, "12_fileA")
	}
	if got.FilePath != "uploads/project_requests/12_fileA" {
		t.Errorf("FilePath: got %q", got.FilePath)
	}
	if got.Size != 5 {
		t.Errorf("Size: got %d, want 5", got.Size)
	}

	b, err := afero.ReadFile(fs, got.FilePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(b) != "hello" {
		t.Errorf("content: got %q", b)
	}
}

func TestSave_SanitizesTraversal(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := filestore.New(fs, root)

	got, err := s.Save(context.Background(), 3, "../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got.FilePath != "uploads/project_requests/3_etc_passwd" {
		t.Errorf("FilePath: got %q", got.FilePath)
	}
}

func TestSave_LastWriterWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := filestore.New(fs, root)
	ctx := context.Background()

	if _, err := s.Save(ctx, 1, "a.txt", strings.NewReader("first version")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Save(ctx, 1, "a.txt", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	b, _ := afero.ReadFile(fs, got.FilePath)
	if string(b) != "second" {
		t.Errorf("expected overwrite, got %q", b)
	}
}

func TestSave_ReadOnlyFilesystemIsStorageError(t *testing.T) {
	s := filestore.New(afero.NewReadOnlyFs(afero.NewMemMapFs()), root)

	_, err := s.Save(context.Background(), 1, "a.txt", strings.NewReader("x"))
	var se *filestore.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
}

func TestSave_CanceledContext(t *testing.T) {
	s := filestore.New(afero.NewMemMapFs(), root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, 1, "a.txt", strings.NewReader("x"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPut_RejectsPathElements(t *testing.T) {
	s := filestore.New(afero.NewMemMapFs(), root)

	for _, name := range []string{"", "a/b", `a\b`, "..", "."} {
		_, err := s.Put(context.Background(), name, strings.NewReader("x"))
		if !errors.Is(err, filestore.ErrOutsideRoot) {
			t.Errorf("Put(%q): expected ErrOutsideRoot, got %v", name, err)
		}
	}
}

func TestOpen_RoundTrip(t *testing.T) {
	s := filestore.New(afero.NewMemMapFs(), root)
	content := []byte{0x00, 0x01, 0xfe, 0xff}

	got, err := s.Save(context.Background(), 9, "blob.bin", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	f, err := s.Open(got.FilePath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	b, _ := io.ReadAll(f)
	if !bytes.Equal(b, content) {
		t.Errorf("content mismatch: got %v", b)
	}
}

func TestOpen_RejectsPathsOutsideRoot(t *testing.T) {
	s := filestore.New(afero.NewMemMapFs(), root)

	for _, p := range []string{
		"etc/passwd",
		"uploads/project_requests/../secret",
		"uploads/project_requests/sub/1_a",
		"uploads/project_requests/",
	} {
		if _, err := s.Open(p); !errors.Is(err, filestore.ErrOutsideRoot) {
			t.Errorf("Open(%q): expected ErrOutsideRoot, got %v", p, err)
		}
	}
}

func TestRemove_MissingIsNotError(t *testing.T) {
	s := filestore.New(afero.NewMemMapFs(), root)
	if err := s.Remove("uploads/project_requests/nope"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestNewOS_CreatesRoot(t *testing.T) {
	dir := t.TempDir() + "/nested/root"
	s, err := filestore.NewOS(dir)
	if err != nil {
		t.Fatalf("NewOS failed: %v", err)
	}
	if ok, _ := afero.DirExists(afero.NewOsFs(), s.Root()); !ok {
		t.Errorf("expected %s to exist", s.Root())
	}
}

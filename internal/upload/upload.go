// Package upload turns multipart requests into file handles the pipeline
// can consume. Two materializations exist: DiskIntake writes the part to a
// spool directory (bytes re-read on demand, removed by Cleanup), and
// MemoryIntake buffers it fully in memory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FieldName is the single expected multipart file field.
const FieldName = "audio"

var ErrNoFile = errors.New("no audio file provided")

// File is one received upload. Exactly one of data/path is set depending
// on which intake produced it.
type File struct {
	Filename    string
	ContentType string
	Size        int64

	data []byte
	path string
}

// NewMemoryFile wraps an already-buffered payload as an upload handle,
// for callers that bypass HTTP intake.
func NewMemoryFile(filename, contentType string, data []byte) *File {
	return &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// Bytes materializes the raw upload content.
func (f *File) Bytes() ([]byte, error) {
	if f.path != "" {
		return os.ReadFile(f.path)
	}
	return f.data, nil
}

// Cleanup removes any on-disk artifact. Handlers must call it on every
// exit path; it is a no-op for memory-buffered uploads.
func (f *File) Cleanup() error {
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload artifact: %w", err)
	}
	f.path = ""
	return nil
}

type Intake interface {
	Receive(r *http.Request) (*File, error)
}

// DiskIntake spools uploads under Dir using collision-safe UUID names.
type DiskIntake struct {
	Dir string
}

func NewDiskIntake(dir string) (*DiskIntake, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskIntake{Dir: dir}, nil
}

func (d *DiskIntake) Receive(r *http.Request) (*File, error) {
	part, header, err := formFile(r)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	ext := filepath.Ext(header.Filename)
	dstPath := filepath.Join(d.Dir, uuid.NewString()+ext)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload artifact: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, part); err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("failed to write upload artifact: %w", err)
	}

	return &File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		path:        dstPath,
	}, nil
}

// MemoryIntake buffers the upload fully in memory for direct submission
// to the AI adapter.
type MemoryIntake struct{}

func (MemoryIntake) Receive(r *http.Request) (*File, error) {
	part, header, err := formFile(r)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer upload: %w", err)
	}

	return &File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		data:        data,
	}, nil
}

// formFile extracts the single expected file part. A request without one,
// or without a multipart body at all, is a caller error (ErrNoFile).
func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	part, header, err := r.FormFile(FieldName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	return part, header, nil
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// WriteFileRequest describes a file write routed through an ArtifactWriter.
type WriteFileRequest struct {
	Path        string
	Name        string
	Content     []byte
	ContentType string
	Checksum    string
}

// ArtifactWriter abstracts where rendered pages end up.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteFileRequest) error
}

// Publisher mirrors written pages to a remote store.
type Publisher interface {
	Publish(ctx context.Context, name string, body []byte, contentType string) error
}

// NewFilesystemWriter writes pages to disk. Without createParents only the
// last directory level is created, so a missing parent is an error.
func NewFilesystemWriter(createParents bool) ArtifactWriter {
	return &filesystemWriter{createParents: createParents}
}

type filesystemWriter struct {
	createParents bool
}

func (w *filesystemWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if w.createParents {
		return os.MkdirAll(path, 0o755)
	}
	err := os.Mkdir(path, 0o755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf("generator: %s exists and is not a directory", path)
	}
	return nil
}

func (w *filesystemWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	return os.WriteFile(req.Path, req.Content, 0o644)
}

// WithPublisher wraps writer so every successful write is also published.
// A nil publisher returns writer unchanged.
func WithPublisher(writer ArtifactWriter, publisher Publisher) ArtifactWriter {
	if publisher == nil {
		return writer
	}
	return &publishingWriter{ArtifactWriter: writer, publisher: publisher}
}

type publishingWriter struct {
	ArtifactWriter
	publisher Publisher
}

func (w *publishingWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := w.ArtifactWriter.WriteFile(ctx, req); err != nil {
		return err
	}
	if err := w.publisher.Publish(ctx, req.Name, req.Content, req.ContentType); err != nil {
		return fmt.Errorf("generator: publish %s: %w", req.Name, err)
	}
	return nil
}

// NewNoopWriter discards every write.
func NewNoopWriter() ArtifactWriter {
	return noopWriter{}
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }

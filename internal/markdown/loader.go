package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ArticleSource is one listed article file.
type ArticleSource struct {
	// Name is the file name minus its last extension.
	Name     string
	FileName string
	// Path joins the loader base path and FileName, for logs and errors.
	Path   string
	Source []byte
}

// Loader lists and reads article files from the top level of a filesystem.
type Loader struct {
	fs       fs.FS
	basePath string
}

// NewLoader constructs a Loader over filesystem. basePath is only used to
// build display paths.
func NewLoader(filesystem fs.FS, basePath string) *Loader {
	return &Loader{
		fs:       filesystem,
		basePath: basePath,
	}
}

// NewDirLoader reads articles from a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir), dir)
}

// LoadArticles returns every regular file in the loader root sorted by file
// name. Directories are skipped. Any read failure aborts the listing.
func (l *Loader) LoadArticles(ctx context.Context) ([]ArticleSource, error) {
	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("markdown loader list %s: %w", l.basePath, err)
	}

	articles := make([]ArticleSource, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}

		article, err := l.LoadFile(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// LoadFile reads a single article by file name.
func (l *Loader) LoadFile(ctx context.Context, name string) (ArticleSource, error) {
	select {
	case <-ctx.Done():
		return ArticleSource{}, ctx.Err()
	default:
	}

	path := l.displayPath(name)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return ArticleSource{}, fmt.Errorf("markdown loader read %s: %w", path, err)
	}

	return ArticleSource{
		Name:     Identifier(name),
		FileName: name,
		Path:     path,
		Source:   data,
	}, nil
}

func (l *Loader) displayPath(name string) string {
	if strings.TrimSpace(l.basePath) == "" {
		return name
	}
	return filepath.Join(l.basePath, name)
}

// Identifier strips the last "."-delimited segment from a file name:
// "post.md" becomes "post", "a.b.md" becomes "a.b". Names without a dot, or
// whose only dot is the leading one, are returned whole.
func Identifier(fileName string) string {
	base := filepath.Base(fileName)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base
	}
	return base[:i]
}

// Package generator exposes the article build API for hosts that wire their
// own loader, parser, renderer or writer instead of using the blog facade.
package generator

import (
	internal "github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/markdown"
)

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	ProcessedArticle = internal.ProcessedArticle
	HeadSummary      = internal.HeadSummary
	Dependencies     = internal.Dependencies
	ServiceOption    = internal.ServiceOption
	ArticleLoader    = internal.ArticleLoader
	ArtifactWriter   = internal.ArtifactWriter
	WriteFileRequest = internal.WriteFileRequest
	Publisher        = internal.Publisher
	ArticleSource    = markdown.ArticleSource
	Diagnostic       = markdown.Diagnostic
)

var (
	WithLogger      = internal.WithLogger
	WithClock       = internal.WithClock
	WithIDGenerator = internal.WithIDGenerator
)

// NewService wires an article generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies, opts ...ServiceOption) Service {
	return internal.NewService(cfg, deps, opts...)
}

// NewFilesystemWriter writes pages to disk. With createParents the output
// directory is created with all missing parents.
func NewFilesystemWriter(createParents bool) ArtifactWriter {
	return internal.NewFilesystemWriter(createParents)
}

// NewDirLoader lists articles from a directory.
func NewDirLoader(dir string) ArticleLoader {
	return markdown.NewDirLoader(dir)
}

// OutputPath returns {dir}/{name}.html.
func OutputPath(dir, name string) string {
	return internal.OutputPath(dir, name)
}

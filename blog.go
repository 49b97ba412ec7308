// Package blog turns a directory of Markdown articles into static HTML pages
// rendered through a shared page template.
package blog

import (
	"context"

	importcmd "github.com/goliatone/go-blog/internal/commands/importcmd"
	staticcmd "github.com/goliatone/go-blog/internal/commands/static"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// GeneratorService exports the article build contract.
type GeneratorService = generator.Service

// BuildResult reports what a build rendered and wrote.
type BuildResult = generator.BuildResult

// ProcessedArticle is one rendered page.
type ProcessedArticle = generator.ProcessedArticle

// Publisher mirrors written pages to remote storage.
type Publisher = generator.Publisher

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithTemplate       = di.WithTemplate
	WithMarkdownParser = di.WithMarkdownParser
	WithArticleLoader  = di.WithArticleLoader
	WithPublisher      = di.WithPublisher
	WithClock          = di.WithClock
)

// BuildOptions narrows a single build run.
type BuildOptions struct {
	DryRun bool
	// Workers overrides Config.Generator.Workers when positive.
	Workers int
	// OnWritten is called with each written path.
	OnWritten func(path string)
}

// ImportOptions describes one HTML import.
type ImportOptions struct {
	Source         string
	Output         string
	Overwrite      bool
	Selector       string
	GitHubFlavored bool
}

// Module is the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the build pipeline.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Config returns the resolved configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Generator returns the underlying build service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// LoggerProvider returns the provider shared by every module.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Build renders every article and, unless DryRun is set, writes the pages.
// The result is returned also when writing fails part way.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.BuildHandler().Execute(ctx, staticcmd.BuildArticlesCommand{
		DryRun:    opts.DryRun,
		Workers:   opts.Workers,
		OnWritten: opts.OnWritten,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

// Preview renders every article without writing anything.
func (m *Module) Preview(ctx context.Context, workers int) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.PreviewHandler().Execute(ctx, staticcmd.PreviewArticlesCommand{
		Workers: workers,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

// Import converts a published HTML page back into an article source and
// returns the generated source text.
func (m *Module) Import(ctx context.Context, opts ImportOptions) ([]byte, error) {
	var content []byte
	err := m.container.ImportHandler().Execute(ctx, importcmd.ImportArticleCommand{
		Source:         opts.Source,
		Output:         opts.Output,
		Overwrite:      opts.Overwrite,
		Selector:       opts.Selector,
		GitHubFlavored: opts.GitHubFlavored,
		ResultCallback: func(r importcmd.Result) {
			content = r.Content
		},
	})
	return content, err
}

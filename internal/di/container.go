package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/commands"
	importcmd "github.com/goliatone/go-blog/internal/commands/importcmd"
	staticcmd "github.com/goliatone/go-blog/internal/commands/static"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/publish"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/templates"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Option mutates the container before services are wired.
type Option func(*Container)

// Container wires the build pipeline from a resolved configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser
	renderer       interfaces.TemplateRenderer
	loader         generator.ArticleLoader
	writer         generator.ArtifactWriter
	publisher      generator.Publisher
	clock          func() time.Time

	generatorSvc   generator.Service
	buildHandler   *staticcmd.BuildArticlesHandler
	previewHandler *staticcmd.PreviewArticlesHandler
	importHandler  *importcmd.ImportArticleHandler
}

// WithLoggerProvider overrides the provider chosen from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithTemplate overrides the pongo2 renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if tr != nil {
			c.renderer = tr
		}
	}
}

// WithMarkdownParser overrides the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithArticleLoader overrides the directory loader.
func WithArticleLoader(loader generator.ArticleLoader) Option {
	return func(c *Container) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithWriter overrides the filesystem writer.
func WithWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		if writer != nil {
			c.writer = writer
		}
	}
}

// WithPublisher overrides the S3 publisher built from Config.Publish.
func WithPublisher(publisher generator.Publisher) Option {
	return func(c *Container) {
		if publisher != nil {
			c.publisher = publisher
		}
	}
}

// WithClock overrides the time source used for build durations.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.clock = now
		}
	}
}

// NewContainer validates cfg and wires every collaborator that was not
// supplied through options.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if c.renderer == nil {
		renderer, err := templates.NewRenderer(cfg.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("di: template renderer: %w", err)
		}
		if err := renderer.Load(cfg.TemplateFile); err != nil {
			return nil, fmt.Errorf("di: template renderer: %w", err)
		}
		c.renderer = renderer
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(c.parseOptions())
	}
	if c.loader == nil {
		c.loader = markdown.NewDirLoader(cfg.ArticleDir)
	}
	if c.writer == nil {
		c.writer = generator.NewFilesystemWriter(cfg.Generator.CreateParents)
	}
	if c.publisher == nil && cfg.Publish.Enabled() {
		publisher, err := publish.NewS3Publisher(context.Background(), publish.S3Config{
			Bucket:       cfg.Publish.Bucket,
			Prefix:       cfg.Publish.Prefix,
			Region:       cfg.Publish.Region,
			Profile:      cfg.Publish.Profile,
			UsePathStyle: cfg.Publish.PathStyle,
		}, publish.WithLogger(logging.PublishLogger(c.loggerProvider)))
		if err != nil {
			return nil, err
		}
		c.publisher = publisher
	}
	if c.publisher != nil {
		c.writer = generator.WithPublisher(c.writer, c.publisher)
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:    cfg.OutputDir,
		TemplateFile: cfg.TemplateFile,
		BaseURL:      cfg.BaseURL,
		Workers:      cfg.Generator.Workers,
		Metadata: markdown.PreprocessOptions{
			BaseURL:           cfg.BaseURL,
			Strict:            cfg.Metadata.Strict,
			DuplicateNewlines: cfg.Metadata.DuplicateNewlines,
			FrontMatter:       cfg.Metadata.FrontMatter,
			DisableEscaping:   cfg.Metadata.DisableEscaping,
		},
		Parser: c.parseOptions(),
	}, generator.Dependencies{
		Loader:   c.loader,
		Parser:   c.parser,
		Renderer: c.renderer,
		Writer:   c.writer,
	},
		generator.WithLogger(logging.GeneratorLogger(c.loggerProvider)),
		generator.WithClock(c.clock),
	)

	staticLogger := commands.CommandLogger(c.loggerProvider, "static")
	c.buildHandler = staticcmd.NewBuildArticlesHandler(c.generatorSvc, staticLogger,
		commands.WithClock[staticcmd.BuildArticlesCommand](c.clock))
	c.previewHandler = staticcmd.NewPreviewArticlesHandler(c.generatorSvc, staticLogger,
		commands.WithClock[staticcmd.PreviewArticlesCommand](c.clock))
	c.importHandler = importcmd.NewImportArticleHandler(commands.CommandLogger(c.loggerProvider, "import"))

	logging.ModuleLogger(c.loggerProvider, "blog").Debug("container.configured",
		"article_dir", cfg.ArticleDir,
		"output_dir", cfg.OutputDir,
		"template", cfg.TemplateFile,
		"publish", cfg.Publish.Enabled(),
	)
	return c, nil
}

// LoggerProvider returns the provider shared by every module.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// TemplateRenderer returns the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer { return c.renderer }

// GeneratorService returns the article build service.
func (c *Container) GeneratorService() generator.Service { return c.generatorSvc }

// BuildHandler returns the build command handler.
func (c *Container) BuildHandler() *staticcmd.BuildArticlesHandler { return c.buildHandler }

// PreviewHandler returns the dry-run command handler.
func (c *Container) PreviewHandler() *staticcmd.PreviewArticlesHandler { return c.previewHandler }

// ImportHandler returns the HTML import command handler.
func (c *Container) ImportHandler() *importcmd.ImportArticleHandler { return c.importHandler }

func (c *Container) parseOptions() interfaces.ParseOptions {
	md := c.Config.Markdown
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), md.Extensions...),
		Sanitize:   md.Sanitize,
		HardWraps:  md.HardWraps,
		HeadingIDs: md.HeadingIDs,
	}
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		opts := console.Options{}
		if strings.TrimSpace(cfg.Level) != "" {
			level, err := console.ParseLevel(cfg.Level)
			if err != nil {
				return nil, err
			}
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/prettify"
	"github.com/goliatone/go-blog/internal/templates"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	errLoaderRequired   = errors.New("generator: article loader is required")
	errParserRequired   = errors.New("generator: markdown parser is required")
	errRendererRequired = errors.New("generator: template renderer is required")
	errTemplateRequired = errors.New("generator: template file is required")
	errOutputDirMissing = errors.New("generator: output directory is required")
)

// Service describes the article build contract.
type Service interface {
	// Build renders every article once and, unless DryRun is set, writes
	// the results.
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	// Render turns every listed article into a ProcessedArticle without
	// touching the output directory.
	Render(ctx context.Context, opts BuildOptions) ([]ProcessedArticle, error)
	// Write ensures the output directory exists and writes one file per
	// article, returning the written paths in order.
	Write(ctx context.Context, articles []ProcessedArticle, opts BuildOptions) ([]string, error)
}

// Config captures runtime behaviour for the generator.
type Config struct {
	OutputDir    string
	TemplateFile string
	BaseURL      string
	// Workers above one render articles concurrently.
	Workers  int
	Metadata markdown.PreprocessOptions
	Parser   interfaces.ParseOptions
}

// BuildOptions narrows a single run.
type BuildOptions struct {
	DryRun bool
	// Workers overrides Config.Workers when positive.
	Workers int
	// OnWritten is called after each file lands on disk.
	OnWritten func(path string)
}

// ProcessedArticle is one rendered page.
type ProcessedArticle struct {
	Name        string
	HTML        string
	Source      string
	Output      string
	Checksum    string
	Head        HeadSummary
	Diagnostics []markdown.Diagnostic
	Duration    time.Duration
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID       string
	ArticlesBuilt int
	Articles      []ProcessedArticle
	Written       []string
	Duration      time.Duration
	DryRun        bool
}

// Diagnostics flattens the per-article diagnostics.
func (r *BuildResult) Diagnostics() []markdown.Diagnostic {
	if r == nil {
		return nil
	}
	var out []markdown.Diagnostic
	for _, article := range r.Articles {
		out = append(out, article.Diagnostics...)
	}
	return out
}

// ArticleLoader lists article sources.
type ArticleLoader interface {
	LoadArticles(ctx context.Context) ([]markdown.ArticleSource, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Loader   ArticleLoader
	Parser   interfaces.MarkdownParser
	Renderer interfaces.TemplateRenderer
	Writer   ArtifactWriter
}

// ServiceOption customises service behaviour.
type ServiceOption func(*service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how build identifiers are created.
func WithIDGenerator(next func() string) ServiceOption {
	return func(s *service) {
		if next != nil {
			s.newID = next
		}
	}
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies, opts ...ServiceOption) Service {
	if strings.TrimSpace(cfg.Metadata.BaseURL) == "" {
		cfg.Metadata.BaseURL = cfg.BaseURL
	}
	s := &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NoOp(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.deps.Writer == nil {
		s.deps.Writer = NewFilesystemWriter(false)
	}
	return s
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
	newID  func() string
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	result := &BuildResult{
		BuildID: s.newID(),
		DryRun:  opts.DryRun,
	}
	ctx = logging.ContextWithFields(ctx, map[string]any{"build_id": result.BuildID})
	logger := s.baseLogger(ctx)
	logger.Info("generator.build.started", "dry_run", opts.DryRun, "output_dir", s.cfg.OutputDir)

	articles, err := s.Render(ctx, opts)
	if err != nil {
		logging.WithFields(logger, map[string]any{"error": err}).Error("generator.build.failed")
		return nil, err
	}
	result.Articles = articles
	result.ArticlesBuilt = len(articles)

	if !opts.DryRun {
		written, err := s.Write(ctx, articles, opts)
		result.Written = written
		if err != nil {
			result.Duration = s.now().Sub(start)
			logging.WithFields(logger, map[string]any{"error": err}).Error("generator.build.failed")
			return result, err
		}
	}

	result.Duration = s.now().Sub(start)
	logger.Info("generator.build.completed",
		"articles", result.ArticlesBuilt,
		"written", len(result.Written),
		"took", result.Duration,
	)
	return result, nil
}

func (s *service) Render(ctx context.Context, opts BuildOptions) ([]ProcessedArticle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.validateRender(); err != nil {
		return nil, err
	}

	sources, err := s.deps.Loader.LoadArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: list articles: %w", err)
	}

	results := make([]ProcessedArticle, len(sources))
	workers := s.effectiveWorkerCount(opts, len(sources))

	if workers <= 1 {
		for i := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			article, err := s.renderArticle(ctx, sources[i])
			if err != nil {
				return nil, err
			}
			results[i] = article
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			article, err := s.renderArticle(groupCtx, sources[i])
			if err != nil {
				return err
			}
			results[i] = article
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *service) renderArticle(ctx context.Context, src markdown.ArticleSource) (ProcessedArticle, error) {
	start := s.now()
	logger := logging.WithArticleContext(s.baseLogger(ctx), src.Name, src.Path, "")

	pre, err := markdown.Preprocess(src.Source, src.Name, s.cfg.Metadata)
	if err != nil {
		return ProcessedArticle{}, fmt.Errorf("generator: preprocess %s: %w", src.Path, err)
	}
	for _, diag := range pre.Diagnostics {
		logger.Warn("generator.article.metadata", "code", diag.Code, "line", diag.Line, "detail", diag.Message)
	}

	body, err := s.deps.Parser.ParseWithOptions([]byte(pre.Content), s.cfg.Parser)
	if err != nil {
		return ProcessedArticle{}, fmt.Errorf("generator: markdown %s: %w", src.Path, err)
	}

	page, err := s.deps.Renderer.RenderTemplate(s.cfg.TemplateFile, templates.PageData{
		Head: pre.HTMLHead,
		Body: string(body),
		Extra: map[string]any{
			"name":  src.Name,
			"title": pre.Title(),
		},
	})
	if err != nil {
		return ProcessedArticle{}, fmt.Errorf("generator: render template %q for %s: %w", s.cfg.TemplateFile, src.Name, err)
	}

	formatted, err := prettify.Format(page)
	if err != nil {
		return ProcessedArticle{}, fmt.Errorf("generator: format %s: %w", src.Name, err)
	}

	head, err := InspectHead(formatted)
	if err != nil {
		return ProcessedArticle{}, fmt.Errorf("generator: inspect %s: %w", src.Name, err)
	}
	if head.Title == "" {
		logger.Debug("generator.article.untitled")
	}

	article := ProcessedArticle{
		Name:        src.Name,
		HTML:        formatted,
		Source:      src.Path,
		Output:      OutputPath(s.cfg.OutputDir, src.Name),
		Checksum:    computeHash([]byte(formatted)),
		Head:        head,
		Diagnostics: pre.Diagnostics,
		Duration:    s.now().Sub(start),
	}
	logger.Debug("generator.article.rendered",
		"title", head.Title,
		"open_graph", len(head.OpenGraph),
		"took", article.Duration,
	)
	return article, nil
}

func (s *service) Write(ctx context.Context, articles []ProcessedArticle, opts BuildOptions) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return nil, errOutputDirMissing
	}
	if err := s.deps.Writer.EnsureDir(ctx, s.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("generator: ensure output directory %s: %w", s.cfg.OutputDir, err)
	}

	written := make([]string, 0, len(articles))
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target := OutputPath(s.cfg.OutputDir, article.Name)
		checksum := article.Checksum
		if checksum == "" {
			checksum = computeHash([]byte(article.HTML))
		}
		req := WriteFileRequest{
			Path:        target,
			Name:        article.Name,
			Content:     []byte(article.HTML),
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
		}
		if err := s.deps.Writer.WriteFile(ctx, req); err != nil {
			return written, fmt.Errorf("generator: write %s: %w", target, err)
		}
		written = append(written, target)
		logging.WithArticleContext(s.baseLogger(ctx), article.Name, article.Source, target).
			Info("generator.article.written", "bytes", len(article.HTML))
		if opts.OnWritten != nil {
			opts.OnWritten(target)
		}
	}
	return written, nil
}

func (s *service) validateRender() error {
	switch {
	case s.deps.Loader == nil:
		return errLoaderRequired
	case s.deps.Parser == nil:
		return errParserRequired
	case s.deps.Renderer == nil:
		return errRendererRequired
	case strings.TrimSpace(s.cfg.TemplateFile) == "":
		return errTemplateRequired
	}
	return nil
}

func (s *service) effectiveWorkerCount(opts BuildOptions, articles int) int {
	workers := s.cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	if workers < 1 {
		workers = 1
	}
	if articles > 0 && workers > articles {
		return articles
	}
	return workers
}

func (s *service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

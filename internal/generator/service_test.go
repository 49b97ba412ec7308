package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/templates"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const testTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
{{ head }}
</head>
<body>
<main>
{{ body }}
</main>
</body>
</html>
`

const helloArticle = "META_START\nweb_title Hello World\nog:description A test post\nMETA_END\n# Heading\n"

type testEnv struct {
	articles string
	output   string
	renderer *templates.Renderer
}

func newTestEnv(t testing.TB, files map[string]string) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		articles: filepath.Join(root, "articles"),
		output:   filepath.Join(root, "output"),
	}
	tplDir := filepath.Join(root, "templates")
	for _, dir := range []string{env.articles, tplDir} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tplDir, "article.j2"), []byte(testTemplate), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(env.articles, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write article %s: %v", name, err)
		}
	}
	renderer, err := templates.NewRenderer(tplDir)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	env.renderer = renderer
	return env
}

func (e testEnv) service(cfg Config, opts ...ServiceOption) Service {
	if cfg.OutputDir == "" {
		cfg.OutputDir = e.output
	}
	if cfg.TemplateFile == "" {
		cfg.TemplateFile = "article.j2"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://blog.example.com"
	}
	return NewService(cfg, Dependencies{
		Loader:   markdown.NewDirLoader(e.articles),
		Parser:   markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		Renderer: e.renderer,
		Writer:   NewFilesystemWriter(false),
	}, opts...)
}

func TestBuildWritesFormattedArticle(t *testing.T) {
	env := newTestEnv(t, map[string]string{"hello.md": helloArticle})

	var announced []string
	result, err := env.service(Config{}, WithIDGenerator(func() string { return "build-1" })).
		Build(context.Background(), BuildOptions{OnWritten: func(path string) { announced = append(announced, path) }})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantPath := filepath.Join(env.output, "hello.html")
	if result.BuildID != "build-1" || result.ArticlesBuilt != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Written) != 1 || result.Written[0] != wantPath {
		t.Fatalf("expected written path %s, got %v", wantPath, result.Written)
	}
	if len(announced) != 1 || announced[0] != wantPath {
		t.Fatalf("expected OnWritten for %s, got %v", wantPath, announced)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := strings.Join([]string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"    <head>",
		`        <meta charset="UTF-8"/>`,
		`        <meta name="viewport" content="width=device-width, initial-scale=1"/>`,
		`        <meta property="og:url" content="https://blog.example.com/articles/hello.html"/>`,
		"        <title>",
		"            Hello World",
		"        </title>",
		`        <meta property="og:description" content="A test post"/>`,
		"    </head>",
		"    <body>",
		"        <main>",
		"            <h1>",
		"                Heading",
		"            </h1>",
		"        </main>",
		"    </body>",
		"</html>",
	}, "\n") + "\n"
	if string(data) != want {
		t.Fatalf("unexpected page\nwant:\n%s\ngot:\n%s", want, data)
	}

	article := result.Articles[0]
	if article.Name != "hello" || article.HTML != want {
		t.Fatalf("unexpected processed article %+v", article)
	}
	if article.Head.Title != "Hello World" || article.Head.OpenGraph["og:description"] != "A test post" {
		t.Fatalf("unexpected head summary %+v", article.Head)
	}
	if article.Head.URL != "https://blog.example.com/articles/hello.html" {
		t.Fatalf("unexpected og:url %q", article.Head.URL)
	}
	if article.Checksum == "" || article.Output != wantPath {
		t.Fatalf("expected checksum and output path, got %+v", article)
	}
}

func TestBuildEmptyDirectoryCreatesOutput(t *testing.T) {
	env := newTestEnv(t, nil)

	result, err := env.service(Config{}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.ArticlesBuilt != 0 || len(result.Written) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	entries, err := os.ReadDir(env.output)
	if err != nil {
		t.Fatalf("expected output directory to exist: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files written, got %d", len(entries))
	}
}

func TestBuildOverwritesExistingFiles(t *testing.T) {
	env := newTestEnv(t, map[string]string{"hello.md": helloArticle})
	if err := os.Mkdir(env.output, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(env.output, "hello.html")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write stale: %v", err)
	}

	if _, err := env.service(Config{}).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("expected existing file to be overwritten")
	}
}

func TestBuildDryRunSkipsWrites(t *testing.T) {
	env := newTestEnv(t, map[string]string{"hello.md": helloArticle})

	result, err := env.service(Config{}).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !result.DryRun || result.ArticlesBuilt != 1 || len(result.Written) != 0 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	if _, err := os.Stat(env.output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected output directory to be untouched, got %v", err)
	}
}

func TestBuildConcurrentMatchesSequential(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		files[name+".md"] = "META_START\nweb_title " + strings.ToUpper(name) + "\nMETA_END\n# " + name + "\n\nBody of " + name + ".\n"
	}
	env := newTestEnv(t, files)

	sequential, err := env.service(Config{Workers: 1}).Render(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("sequential Render: %v", err)
	}
	concurrent, err := env.service(Config{}).Render(context.Background(), BuildOptions{Workers: 4})
	if err != nil {
		t.Fatalf("concurrent Render: %v", err)
	}
	if len(sequential) != len(concurrent) {
		t.Fatalf("expected %d articles, got %d", len(sequential), len(concurrent))
	}
	for i := range sequential {
		if sequential[i].Name != concurrent[i].Name || sequential[i].HTML != concurrent[i].HTML {
			t.Fatalf("article %d differs between sequential and concurrent builds", i)
		}
	}
}

func TestBuildAbortsOnFirstError(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"good.md": "# fine\n",
		"bad.md":  "META_START\nweb_title never closed\n",
	})

	_, err := env.service(Config{Metadata: markdown.PreprocessOptions{Strict: true}}).
		Build(context.Background(), BuildOptions{})
	if !errors.Is(err, markdown.ErrUnterminatedMetadata) {
		t.Fatalf("expected unterminated metadata error, got %v", err)
	}
	if _, statErr := os.Stat(env.output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected nothing written after a failed render, got %v", statErr)
	}
}

func TestBuildLenientModeKeepsDiagnostics(t *testing.T) {
	env := newTestEnv(t, map[string]string{"bad.md": "intro\nMETA_START\nweb_title never closed\n"})

	result, err := env.service(Config{}).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	diags := result.Diagnostics()
	if len(diags) != 1 || diags[0].Code != markdown.DiagnosticUnterminated {
		t.Fatalf("expected unterminated diagnostic, got %+v", diags)
	}
}

func TestBuildMissingTemplateFails(t *testing.T) {
	env := newTestEnv(t, map[string]string{"hello.md": helloArticle})

	_, err := env.service(Config{TemplateFile: "missing.j2"}).Build(context.Background(), BuildOptions{})
	if err == nil || !strings.Contains(err.Error(), "missing.j2") {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestBuildRequiresDependencies(t *testing.T) {
	svc := NewService(Config{TemplateFile: "article.j2", OutputDir: t.TempDir()}, Dependencies{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, errLoaderRequired) {
		t.Fatalf("expected errLoaderRequired, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Build(ctx, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWriteCreatesSingleLevelOnly(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "missing", "output")
	articles := []ProcessedArticle{{Name: "a", HTML: "<p>a</p>\n"}}

	svc := NewService(Config{OutputDir: deep}, Dependencies{Writer: NewFilesystemWriter(false)})
	if _, err := svc.Write(context.Background(), articles, BuildOptions{}); err == nil {
		t.Fatal("expected error when parent directories are missing")
	}

	svc = NewService(Config{OutputDir: deep}, Dependencies{Writer: NewFilesystemWriter(true)})
	written, err := svc.Write(context.Background(), articles, BuildOptions{})
	if err != nil {
		t.Fatalf("Write with parents: %v", err)
	}
	if len(written) != 1 || written[0] != filepath.Join(deep, "a.html") {
		t.Fatalf("unexpected written paths %v", written)
	}
}

func TestWriteRejectsFileAsOutputDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "output")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	svc := NewService(Config{OutputDir: file}, Dependencies{})
	if _, err := svc.Write(context.Background(), nil, BuildOptions{}); err == nil {
		t.Fatal("expected error for non-directory output path")
	}
}

type recordingPublisher struct {
	mu    sync.Mutex
	names []string
	types []string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, name string, _ []byte, contentType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.names = append(p.names, name)
	p.types = append(p.types, contentType)
	return nil
}

func TestWritePublishesEachArticle(t *testing.T) {
	publisher := &recordingPublisher{}
	writer := WithPublisher(NewFilesystemWriter(false), publisher)
	svc := NewService(Config{OutputDir: filepath.Join(t.TempDir(), "out")}, Dependencies{Writer: writer})

	_, err := svc.Write(context.Background(), []ProcessedArticle{
		{Name: "one", HTML: "1"},
		{Name: "two", HTML: "2"},
	}, BuildOptions{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Join(publisher.names, ",") != "one,two" {
		t.Fatalf("unexpected published names %v", publisher.names)
	}
	if publisher.types[0] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", publisher.types[0])
	}

	failing := WithPublisher(NewNoopWriter(), &recordingPublisher{err: errors.New("boom")})
	svc = NewService(Config{OutputDir: "out"}, Dependencies{Writer: failing})
	written, err := svc.Write(context.Background(), []ProcessedArticle{{Name: "x"}}, BuildOptions{})
	if err == nil || len(written) != 0 {
		t.Fatalf("expected publish failure, got written=%v err=%v", written, err)
	}
	if WithPublisher(failing, nil) != failing {
		t.Fatal("expected nil publisher to return writer unchanged")
	}
}

func TestBuildDurationUsesClock(t *testing.T) {
	env := newTestEnv(t, nil)
	ticks := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC),
	}
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}

	result, err := env.service(Config{}, WithClock(clock)).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Duration != 2*time.Second {
		t.Fatalf("expected 2s duration, got %s", result.Duration)
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("out", "a.b"); got != filepath.Join("out", "a.b.html") {
		t.Fatalf("unexpected output path %q", got)
	}
}

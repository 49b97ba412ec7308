package blog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging/console"
)

func newModule(t *testing.T) (*blog.Module, blog.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := blog.DefaultConfig()
	cfg.ArticleDir = filepath.Join(root, "articles")
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.TemplateDir = filepath.Join(root, "templates")
	cfg.BaseURL = "https://blog.example.com/"

	mustWrite(t, filepath.Join(cfg.TemplateDir, cfg.TemplateFile), "<html><head>{{ head }}</head><body>{{ body }}</body></html>")
	mustWrite(t, filepath.Join(cfg.ArticleDir, "first.md"), "META_START\nweb_title First\nog:description One\nMETA_END\n# Heading\n")
	mustWrite(t, filepath.Join(cfg.ArticleDir, "second.txt"), "plain body\n")

	var sink strings.Builder
	m, err := blog.New(cfg, blog.WithLoggerProvider(console.NewProvider(console.Options{Writer: &sink})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, cfg
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestModuleBuildWritesEveryArticle(t *testing.T) {
	m, cfg := newModule(t)

	var written []string
	result, err := m.Build(context.Background(), blog.BuildOptions{
		OnWritten: func(path string) { written = append(written, path) },
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.ArticlesBuilt != 2 || len(written) != 2 {
		t.Fatalf("expected two articles, got %d built / %v", result.ArticlesBuilt, written)
	}

	first, err := os.ReadFile(filepath.Join(cfg.OutputDir, "first.html"))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	for _, want := range []string{
		`<meta property="og:url" content="https://blog.example.com/articles/first.html"/>`,
		`<meta property="og:description" content="One"/>`,
		"Heading",
	} {
		if !strings.Contains(string(first), want) {
			t.Fatalf("expected %q in output:\n%s", want, first)
		}
	}
}

func TestModuleBuildKeepsLeadingRuleInBody(t *testing.T) {
	m, cfg := newModule(t)
	mustWrite(t, filepath.Join(cfg.ArticleDir, "post.md"), "---\nUpdate: the server moved\n---\nRest of post.\n")

	if _, err := m.Build(context.Background(), blog.BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "post.html"))
	if err != nil {
		t.Fatalf("read post: %v", err)
	}
	page := string(data)
	if strings.Contains(page, `name="Update"`) {
		t.Fatalf("expected no head tag from body text:\n%s", page)
	}
	for _, want := range []string{"<hr/>", "Update: the server moved", "Rest of post."} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in output:\n%s", want, page)
		}
	}
}

func TestModulePreviewLeavesOutputUntouched(t *testing.T) {
	m, cfg := newModule(t)
	result, err := m.Preview(context.Background(), 2)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !result.DryRun || result.ArticlesBuilt != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(cfg.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output directory, got %v", err)
	}
}

func TestModuleImport(t *testing.T) {
	m, _ := newModule(t)
	source := filepath.Join(t.TempDir(), "page.html")
	mustWrite(t, source, `<html><head><title>Imported</title></head><body><p>text</p></body></html>`)

	content, err := m.Import(context.Background(), blog.ImportOptions{Source: source})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if string(content) != "META_START\nweb_title Imported\nMETA_END\ntext\n" {
		t.Fatalf("unexpected import %q", content)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.OutputDir = ""
	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}
}

package generator_test

import (
	"context"
	"io"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/templates"
	"github.com/goliatone/go-blog/pkg/generator"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// bodyRenderer skips template files and emits the page slots directly.
type bodyRenderer struct{}

func (bodyRenderer) RenderTemplate(_ string, data any, _ ...io.Writer) (string, error) {
	page := data.(templates.PageData)
	return "<html><head>" + page.Head + "</head><body>" + page.Body + "</body></html>", nil
}

func (bodyRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func TestPublicServiceRendersWithCustomCollaborators(t *testing.T) {
	loader := markdown.NewLoader(fstest.MapFS{
		"a.md": {Data: []byte("# A\n")},
	}, "mem")

	svc := generator.NewService(generator.Config{
		OutputDir:    "unused",
		TemplateFile: "page",
		BaseURL:      "https://blog.example.com",
	}, generator.Dependencies{
		Loader:   loader,
		Parser:   markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		Renderer: bodyRenderer{},
		Writer:   generator.NewFilesystemWriter(false),
	})

	articles, err := svc.Render(context.Background(), generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(articles) != 1 || articles[0].Name != "a" {
		t.Fatalf("unexpected articles %+v", articles)
	}
	if articles[0].Head.URL != "https://blog.example.com/articles/a.html" {
		t.Fatalf("unexpected og:url %q", articles[0].Head.URL)
	}
	if articles[0].Output != generator.OutputPath("unused", "a") {
		t.Fatalf("unexpected output %q", articles[0].Output)
	}
}

package templates

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestRendererRendersPageSlotsUnescaped(t *testing.T) {
	r, err := NewRenderer("testdata")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var streamed bytes.Buffer
	got, err := r.RenderTemplate("article.j2", PageData{
		Head: `<title>Hi &amp; bye</title>`,
		Body: "<h1>Heading</h1>",
	}, &streamed)
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if !strings.Contains(got, "<title>Hi &amp; bye</title>") {
		t.Fatalf("expected head inserted verbatim, got %q", got)
	}
	if !strings.Contains(got, "<main>\n<h1>Heading</h1>\n</main>") {
		t.Fatalf("expected body inserted verbatim, got %q", got)
	}
	if streamed.String() != got {
		t.Fatalf("expected writer to receive rendered output")
	}
}

func TestRendererEscapesPlainValues(t *testing.T) {
	r, err := NewRenderer("testdata")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	got, err := r.RenderString("{{ title }}|{{ head }}", PageData{
		Head:  "<b>safe</b>",
		Extra: map[string]any{"title": "<i>x</i>"},
	})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "&lt;i&gt;x&lt;/i&gt;|<b>safe</b>" {
		t.Fatalf("unexpected output %q", got)
	}

	got, err = r.RenderString("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "1-two" {
		t.Fatalf("unexpected map render %q", got)
	}
}

func TestRendererErrors(t *testing.T) {
	if _, err := NewRenderer(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected missing directory error")
	}
	if _, err := NewRenderer("testdata/article.j2"); !errors.Is(err, ErrTemplateDirNotDirectory) {
		t.Fatalf("expected ErrTemplateDirNotDirectory, got %v", err)
	}

	r, err := NewRenderer("testdata")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if _, err := r.RenderTemplate("missing.j2", PageData{}); err == nil {
		t.Fatal("expected missing template error")
	}
	if err := r.Load("missing.j2"); err == nil || !strings.Contains(err.Error(), "missing.j2") {
		t.Fatalf("expected Load to report missing.j2, got %v", err)
	}
	if err := r.Load("article.j2"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := r.RenderString("{{ head }}", 42); err == nil {
		t.Fatal("expected unsupported data error")
	}
	if _, err := r.RenderString("{% if %}", nil); err == nil {
		t.Fatal("expected compile error")
	}
}

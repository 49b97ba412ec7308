package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/internal/markdown"
)

const page = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<meta property="og:url" content="https://blog.example.com/articles/hello.html"/>
<title>
    Hello &amp; welcome
</title>
<meta property="og:description" content="A &quot;first&quot; post"/>
<meta name="author" content="someone"/>
</head>
<body>
<nav>skip me</nav>
<main>
<h1>Heading</h1>
<p>Some <em>text</em>.</p>
</main>
</body>
</html>`

func TestConvertExtractsMetadataAndBody(t *testing.T) {
	article, err := Convert([]byte(page))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := []markdown.Tag{
		{Key: "web_title", Value: "Hello & welcome", Kind: markdown.TagTitle},
		{Key: "og:description", Value: `A "first" post`, Kind: markdown.TagProperty},
		{Key: "author", Value: "someone", Kind: markdown.TagName},
	}
	if len(article.Tags) != len(want) {
		t.Fatalf("expected %d tags, got %+v", len(want), article.Tags)
	}
	for i := range want {
		if article.Tags[i] != want[i] {
			t.Fatalf("tag %d: expected %+v, got %+v", i, want[i], article.Tags[i])
		}
	}
	if article.Body != "# Heading\n\nSome _text_." {
		t.Fatalf("unexpected body %q", article.Body)
	}
}

func TestConvertFallsBackToBody(t *testing.T) {
	article, err := NewConverter(Options{Selector: "article"}).Convert([]byte(`<html><body><p>plain</p></body></html>`))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if article.Body != "plain" || len(article.Tags) != 0 {
		t.Fatalf("unexpected article %+v", article)
	}
	if got := string(article.Bytes()); got != "plain\n" {
		t.Fatalf("expected no metadata block, got %q", got)
	}
}

func TestConvertRejectsEmptyDocument(t *testing.T) {
	if _, err := Convert([]byte(`<html><head></head><body></body></html>`)); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestRoundTripThroughPreprocess(t *testing.T) {
	article, err := Convert([]byte(page))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	source := article.Bytes()
	if !strings.HasPrefix(string(source), "META_START\nweb_title Hello & welcome\n") {
		t.Fatalf("unexpected source %q", source)
	}

	pre, err := markdown.Preprocess(source, "hello", markdown.PreprocessOptions{
		BaseURL: "https://blog.example.com",
		Strict:  true,
	})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if pre.Title() != "Hello & welcome" {
		t.Fatalf("unexpected title %q", pre.Title())
	}
	if !strings.Contains(pre.HTMLHead, `<meta property="og:description" content="A &#34;first&#34; post" />`) {
		t.Fatalf("missing og:description in head %q", pre.HTMLHead)
	}
	if strings.Count(pre.HTMLHead, "og:url") != 1 {
		t.Fatalf("expected a single og:url, got %q", pre.HTMLHead)
	}
	if !strings.Contains(pre.Content, "# Heading") {
		t.Fatalf("body lost in round trip: %q", pre.Content)
	}
}

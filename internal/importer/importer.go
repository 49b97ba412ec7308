// Package importer turns previously published HTML pages back into article
// sources with a metadata block.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-blog/internal/markdown"
)

// ErrEmptyDocument is returned when the input has neither metadata nor body.
var ErrEmptyDocument = errors.New("importer: document has no content")

// skipped keys are recomputed on every build.
var skipped = map[string]struct{}{
	"og:url":   {},
	"viewport": {},
	"charset":  {},
}

// Article is an article source recovered from HTML.
type Article struct {
	Tags []markdown.Tag
	Body string
}

// Options tweaks the conversion.
type Options struct {
	// Selector picks the element holding the article body. Defaults to
	// "main", falling back to "body".
	Selector string
	// GitHubFlavored enables tables, strikethrough and task lists.
	GitHubFlavored bool
}

// Converter wraps an html-to-markdown converter.
type Converter struct {
	conv     *md.Converter
	selector string
}

// NewConverter returns a Converter with the given options.
func NewConverter(opts Options) *Converter {
	conv := md.NewConverter("", true, nil)
	if opts.GitHubFlavored {
		conv.Use(plugin.GitHubFlavored())
	}
	selector := strings.TrimSpace(opts.Selector)
	if selector == "" {
		selector = "main"
	}
	return &Converter{conv: conv, selector: selector}
}

// Convert uses a default Converter.
func Convert(document []byte) (*Article, error) {
	return NewConverter(Options{}).Convert(document)
}

// Convert parses document and extracts its head metadata and body.
func (c *Converter) Convert(document []byte) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("importer: parse html: %w", err)
	}

	article := &Article{}
	if title := flatten(doc.Find("head title").First().Text()); title != "" {
		article.Tags = append(article.Tags, markdown.Tag{
			Key:   markdown.WebTitleKey,
			Value: title,
			Kind:  markdown.TagTitle,
		})
	}

	doc.Find("head meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := sel.Attr("property")
		if !ok {
			key, ok = sel.Attr("name")
		}
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return
		}
		if _, skip := skipped[key]; skip {
			return
		}
		content, _ := sel.Attr("content")
		article.Tags = append(article.Tags, markdown.Tag{
			Key:   key,
			Value: flatten(content),
			Kind:  markdown.ClassifyKey(key),
		})
	})

	body := doc.Find(c.selector).First()
	if body.Length() == 0 {
		body = doc.Find("body").First()
	}
	if body.Length() > 0 {
		article.Body = strings.TrimSpace(c.conv.Convert(body))
	}

	if len(article.Tags) == 0 && article.Body == "" {
		return nil, ErrEmptyDocument
	}
	return article, nil
}

// Bytes renders the article as a source file: an optional metadata block
// followed by the Markdown body.
func (a *Article) Bytes() []byte {
	var buf bytes.Buffer
	if len(a.Tags) > 0 {
		buf.WriteString(markdown.MetaStartMarker + "\n")
		for _, tag := range a.Tags {
			buf.WriteString(tag.Key)
			if tag.Value != "" {
				buf.WriteByte(' ')
				buf.WriteString(tag.Value)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(markdown.MetaEndMarker + "\n")
	}
	if a.Body != "" {
		buf.WriteString(a.Body)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// flatten collapses whitespace so a value fits on one metadata line.
func flatten(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

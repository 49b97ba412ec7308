package generator

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HeadSummary is what a rendered page advertises in its <head>.
type HeadSummary struct {
	Title     string
	URL       string
	OpenGraph map[string]string
	Meta      map[string]string
}

// InspectHead reads the title and meta tags back out of a rendered page.
func InspectHead(document string) (HeadSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return HeadSummary{}, fmt.Errorf("parse document: %w", err)
	}

	summary := HeadSummary{
		Title:     strings.TrimSpace(doc.Find("head title").First().Text()),
		OpenGraph: map[string]string{},
		Meta:      map[string]string{},
	}

	doc.Find(`head meta[property]`).Each(func(_ int, sel *goquery.Selection) {
		property, _ := sel.Attr("property")
		if !strings.HasPrefix(property, "og") {
			return
		}
		content, _ := sel.Attr("content")
		summary.OpenGraph[property] = content
	})
	doc.Find(`head meta[name]`).Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		content, _ := sel.Attr("content")
		summary.Meta[name] = content
	})
	summary.URL = summary.OpenGraph["og:url"]

	return summary, nil
}

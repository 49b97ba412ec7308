// Package prettify formats rendered article pages: Prettify prints one node
// per line with a single space of indent per depth, and Reindent widens that
// indent to four spaces per level.
package prettify

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// Contents of these elements are printed as parsed, without reflowing.
var preservedElements = map[atom.Atom]bool{
	atom.Pre:      true,
	atom.Textarea: true,
}

// Text inside these elements is written without entity escaping.
var rawTextElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Prettify parses document and prints it one node per line. Every line,
// including the last, ends with "\n".
func Prettify(document string) (string, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("prettify: parse: %w", err)
	}

	p := &printer{}
	if err := p.node(root, 0); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) line(depth int, s string) {
	p.buf.WriteString(strings.Repeat(" ", depth))
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) children(n *html.Node, depth int) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := p.node(c, depth); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) node(n *html.Node, depth int) error {
	switch n.Type {
	case html.DocumentNode:
		return p.children(n, depth)
	case html.DoctypeNode:
		var b bytes.Buffer
		if err := html.Render(&b, n); err != nil {
			return fmt.Errorf("prettify: render doctype: %w", err)
		}
		p.line(depth, b.String())
	case html.CommentNode:
		p.line(depth, "<!--"+n.Data+"-->")
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		if n.Parent != nil && rawTextElements[n.Parent.DataAtom] {
			p.line(depth, text)
			return nil
		}
		p.line(depth, textEscaper.Replace(text))
	case html.ElementNode:
		if preservedElements[n.DataAtom] {
			var b bytes.Buffer
			if err := html.Render(&b, n); err != nil {
				return fmt.Errorf("prettify: render %s: %w", n.Data, err)
			}
			p.line(depth, b.String())
			return nil
		}
		if voidElements[n.DataAtom] {
			p.line(depth, "<"+n.Data+attributes(n)+"/>")
			return nil
		}
		p.line(depth, "<"+n.Data+attributes(n)+">")
		if err := p.children(n, depth+1); err != nil {
			return err
		}
		p.line(depth, "</"+n.Data+">")
	}
	return nil
}

func attributes(n *html.Node) string {
	if len(n.Attr) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range n.Attr {
		b.WriteByte(' ')
		if attr.Namespace != "" {
			b.WriteString(attr.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(attr.Val))
		b.WriteByte('"')
	}
	return b.String()
}

// Format prettifies document and widens the indentation.
func Format(document string) (string, error) {
	pretty, err := Prettify(document)
	if err != nil {
		return "", err
	}
	return Reindent(pretty), nil
}

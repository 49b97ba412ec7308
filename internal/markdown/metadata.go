package markdown

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"
)

const (
	// MetaStartMarker opens a metadata block when a line starts with it.
	MetaStartMarker = "META_START"
	// MetaEndMarker closes a metadata block when a line starts with it.
	MetaEndMarker = "META_END"
)

var (
	ErrNestedMetadataStart   = errors.New("markdown: META_START inside an open metadata block")
	ErrUnexpectedMetadataEnd = errors.New("markdown: META_END outside a metadata block")
	ErrUnterminatedMetadata  = errors.New("markdown: metadata block is never closed")
)

// State tracks whether the scanner sits inside a metadata block.
type State uint8

const (
	StateOutside State = iota
	StateInsideMetadata
)

func (s State) String() string {
	if s == StateInsideMetadata {
		return "inside_metadata"
	}
	return "outside"
}

// TagKind is the head element a metadata key maps onto.
type TagKind uint8

const (
	// TagName renders <meta name="..." content="..." />.
	TagName TagKind = iota
	// TagProperty renders <meta property="..." content="..." /> for og* keys.
	TagProperty
	// TagTitle renders <title>...</title> for web_title.
	TagTitle
)

// WebTitleKey is the metadata key rendered as the document title.
const WebTitleKey = "web_title"

// Tag is a single metadata entry in source order.
type Tag struct {
	Key   string
	Value string
	Kind  TagKind
}

// ClassifyKey picks the head element for key. Only the prefix and equality
// checks matter, the value never influences the result.
func ClassifyKey(key string) TagKind {
	switch {
	case strings.HasPrefix(key, "og"):
		return TagProperty
	case key == WebTitleKey:
		return TagTitle
	default:
		return TagName
	}
}

// Diagnostic codes recorded during preprocessing.
const (
	DiagnosticNestedStart   = "metadata.nested_start"
	DiagnosticUnexpectedEnd = "metadata.unexpected_end"
	DiagnosticUnterminated  = "metadata.unterminated"
	DiagnosticFrontMatter   = "metadata.frontmatter"
)

// Diagnostic describes input the extractor tolerated instead of rejecting.
type Diagnostic struct {
	Line    int
	Code    string
	Message string
}

// PreprocessOptions configures Preprocess.
type PreprocessOptions struct {
	// BaseURL prefixes the og:url tag. A trailing slash is trimmed.
	BaseURL string
	// Strict turns nested, stray and unterminated markers into errors.
	Strict bool
	// DuplicateNewlines keeps each source line terminator and appends
	// another newline, reproducing double spaced bodies.
	DuplicateNewlines bool
	// FrontMatter strips a leading YAML/TOML block and maps its scalar keys
	// onto head tags.
	FrontMatter bool
	// DisableEscaping embeds keys and values verbatim.
	DisableEscaping bool
}

// PreprocessedArticle is the body left after metadata removal plus the
// accumulated head fragment.
type PreprocessedArticle struct {
	Content     string
	HTMLHead    string
	Tags        []Tag
	Diagnostics []Diagnostic
}

// Title returns the last web_title value, if any.
func (p PreprocessedArticle) Title() string {
	title := ""
	for _, tag := range p.Tags {
		if tag.Kind == TagTitle {
			title = tag.Value
		}
	}
	return title
}

// SeedHead returns the fragments every head starts with.
func SeedHead(baseURL, identifier string) string {
	var b strings.Builder
	b.WriteString(`<meta charset="UTF-8" />`)
	b.WriteString("\n" + `<meta name="viewport" content="width=device-width, initial-scale=1" />`)
	fmt.Fprintf(&b, "\n"+`<meta property="og:url" content="%s" />`, ArticleURL(baseURL, identifier))
	return b.String()
}

// ArticleURL is the canonical address of an article page.
func ArticleURL(baseURL, identifier string) string {
	return strings.TrimRight(baseURL, "/") + "/articles/" + identifier + ".html"
}

// Preprocess separates the metadata block from the body of raw and renders
// the block into head fragments.
func Preprocess(raw []byte, identifier string, opts PreprocessOptions) (PreprocessedArticle, error) {
	out := PreprocessedArticle{}
	head := &headBuilder{escape: !opts.DisableEscaping}
	head.WriteString(SeedHead(opts.BaseURL, identifier))

	text := string(raw)
	if opts.FrontMatter {
		tags, rest, err := extractFrontMatter(raw)
		switch {
		case err != nil && opts.Strict:
			return PreprocessedArticle{}, err
		case err != nil:
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Line:    1,
				Code:    DiagnosticFrontMatter,
				Message: err.Error(),
			})
		default:
			for _, tag := range tags {
				head.add(tag)
				out.Tags = append(out.Tags, tag)
			}
			text = rest
		}
	}

	var body strings.Builder
	state := StateOutside
	openedAt := 0
	lineNo := 0

	for len(text) > 0 {
		var line string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i+1], text[i+1:]
		} else {
			line, text = text, ""
		}
		lineNo++

		content, terminator := splitTerminator(line)

		if strings.HasPrefix(content, MetaStartMarker) {
			if state == StateInsideMetadata {
				if opts.Strict {
					return PreprocessedArticle{}, fmt.Errorf("%w (line %d)", ErrNestedMetadataStart, lineNo)
				}
				out.Diagnostics = append(out.Diagnostics, Diagnostic{
					Line:    lineNo,
					Code:    DiagnosticNestedStart,
					Message: fmt.Sprintf("block opened on line %d is still open", openedAt),
				})
				continue
			}
			state = StateInsideMetadata
			openedAt = lineNo
			continue
		}
		if strings.HasPrefix(content, MetaEndMarker) {
			if state == StateOutside {
				if opts.Strict {
					return PreprocessedArticle{}, fmt.Errorf("%w (line %d)", ErrUnexpectedMetadataEnd, lineNo)
				}
				out.Diagnostics = append(out.Diagnostics, Diagnostic{
					Line:    lineNo,
					Code:    DiagnosticUnexpectedEnd,
					Message: "no metadata block is open",
				})
				continue
			}
			state = StateOutside
			continue
		}

		if state == StateOutside {
			body.WriteString(content)
			if opts.DuplicateNewlines {
				body.WriteString(terminator)
			}
			body.WriteByte('\n')
			continue
		}

		if strings.TrimSpace(content) == "" {
			continue
		}
		tag := parseMetadataLine(content)
		head.add(tag)
		out.Tags = append(out.Tags, tag)
	}

	if state == StateInsideMetadata {
		if opts.Strict {
			return PreprocessedArticle{}, fmt.Errorf("%w (opened on line %d)", ErrUnterminatedMetadata, openedAt)
		}
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Line:    openedAt,
			Code:    DiagnosticUnterminated,
			Message: "lines after the opening marker were treated as metadata",
		})
	}

	out.Content = body.String()
	out.HTMLHead = head.String()
	return out, nil
}

// parseMetadataLine splits at the first space. The remainder is trimmed and
// may be empty.
func parseMetadataLine(line string) Tag {
	key, value, _ := strings.Cut(line, " ")
	key = strings.TrimRightFunc(key, unicode.IsSpace)
	return Tag{
		Key:   key,
		Value: strings.TrimSpace(value),
		Kind:  ClassifyKey(key),
	}
}

// splitTerminator strips "\n" or "\r\n". The terminator is reported as "\n"
// when present.
func splitTerminator(line string) (string, string) {
	if !strings.HasSuffix(line, "\n") {
		return line, ""
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, "\n"
}

type headBuilder struct {
	strings.Builder
	escape bool
}

func (h *headBuilder) add(tag Tag) {
	key, value := tag.Key, tag.Value
	if h.escape {
		key, value = html.EscapeString(key), html.EscapeString(value)
	}
	switch tag.Kind {
	case TagProperty:
		fmt.Fprintf(h, "\n"+`<meta property="%s" content="%s" />`, key, value)
	case TagTitle:
		fmt.Fprintf(h, "<title>%s</title>", value)
	default:
		fmt.Fprintf(h, "\n"+`<meta name="%s" content="%s" />`, key, value)
	}
}

// Package templates renders article pages with Jinja-style templates through
// pongo2.
package templates

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrTemplateDirNotDirectory is returned when the template path is a file.
var ErrTemplateDirNotDirectory = errors.New("templates: template path is not a directory")

// Slot names the article template reads.
const (
	SlotHead = "head"
	SlotBody = "body"
)

// PageData is the data contract for article templates. Head and Body are
// inserted without autoescaping.
type PageData struct {
	Head string
	Body string
	// Extra values exposed next to the slots, e.g. "title" or "name".
	Extra map[string]any
}

// Renderer implements interfaces.TemplateRenderer on a pongo2 template set
// rooted at one directory. Compiled templates are cached by the set.
type Renderer struct {
	set *pongo2.TemplateSet
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// NewRenderer returns a renderer reading templates from baseDir.
func NewRenderer(baseDir string) (*Renderer, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("inspect template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTemplateDirNotDirectory, baseDir)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return nil, fmt.Errorf("template loader %s: %w", baseDir, err)
	}
	return &Renderer{
		set: pongo2.NewSet("blog", loader),
	}, nil
}

// Load compiles the named template into the set cache so a missing or
// broken template fails before any article is rendered.
func (r *Renderer) Load(name string) error {
	if _, err := r.set.FromCache(name); err != nil {
		return fmt.Errorf("load template %q: %w", name, err)
	}
	return nil
}

// RenderTemplate renders the named template file.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("load template %q: %w", name, err)
	}
	return execute(tpl, name, data, out)
}

// RenderString compiles templateContent and renders it.
func (r *Renderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("compile template: %w", err)
	}
	return execute(tpl, "inline", data, out)
}

func execute(tpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	rendered, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("write template %q: %w", name, err)
		}
	}
	return rendered, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case PageData:
		ctx := pongo2.Context{}
		for key, value := range v.Extra {
			ctx[key] = value
		}
		ctx[SlotHead] = pongo2.AsSafeValue(v.Head)
		ctx[SlotBody] = pongo2.AsSafeValue(v.Body)
		return ctx, nil
	case *PageData:
		if v == nil {
			return pongo2.Context{}, nil
		}
		return toContext(*v)
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("templates: unsupported data type %T", data)
	}
}

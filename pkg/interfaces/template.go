package interfaces

import (
	"io"
)

// TemplateRenderer renders page templates. RenderTemplate resolves name
// against the renderer's template directory; RenderString compiles the
// supplied source on the fly. When out writers are given the rendered output
// is also streamed to them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}

package interfaces

// MarkdownParser converts raw Markdown bytes into HTML. Implementations are
// expected to be reusable across articles without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Option names stay readable so
// they can be filled from environment variables and CLI flags.
type ParseOptions struct {
	// Extensions lists goldmark extensions by name ("table", "gfm", ...).
	// An empty list renders plain CommonMark.
	Extensions []string
	// Sanitize scrubs the rendered HTML with a user-generated-content policy.
	Sanitize bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// SafeMode drops raw HTML embedded in the Markdown source.
	SafeMode bool
	// HeadingIDs adds generated id attributes to headings.
	HeadingIDs bool
}

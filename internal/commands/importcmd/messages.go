package importcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importArticleMessageType = "blog.import.article"

// ImportArticleCommand converts a published HTML page back into an article
// source.
type ImportArticleCommand struct {
	// Source is the HTML file to read.
	Source string `json:"source"`
	// Output receives the article source. Empty leaves writing to the
	// caller through ResultCallback.
	Output string `json:"output,omitempty"`
	// Overwrite replaces an existing Output file.
	Overwrite bool `json:"overwrite,omitempty"`
	// Selector picks the body element, see importer.Options.
	Selector       string       `json:"selector,omitempty"`
	GitHubFlavored bool         `json:"github_flavored,omitempty"`
	ResultCallback func(Result) `json:"-"`
}

// Result is handed to ResultCallback after a successful conversion.
type Result struct {
	Source  string
	Output  string
	Content []byte
	Tags    int
}

// Type implements command.Message.
func (ImportArticleCommand) Type() string { return importArticleMessageType }

// Validate ensures a source path is present and differs from the output.
func (cmd ImportArticleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.import.source_required", "source is required")
			}
			return nil
		})),
		validation.Field(&cmd.Output, validation.By(func(value any) error {
			out := strings.TrimSpace(value.(string))
			if out != "" && out == strings.TrimSpace(cmd.Source) {
				return validation.NewError("blog.import.output_is_source", "output must differ from source")
			}
			return nil
		})),
	)
}

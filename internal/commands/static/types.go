package staticcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/internal/generator"
)

const (
	buildArticlesMessageType   = "blog.static.build"
	previewArticlesMessageType = "blog.static.preview"
)

// MaxWorkers caps the render pool requested through a command.
const MaxWorkers = 64

// ResultCallback receives the build result. It runs synchronously inside
// the handler, also when the build fails part way.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries a BuildResult plus handler metadata.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildArticlesCommand renders every article and writes the pages.
type BuildArticlesCommand struct {
	DryRun         bool              `json:"dry_run,omitempty"`
	Workers        int               `json:"workers,omitempty"`
	OnWritten      func(path string) `json:"-"`
	ResultCallback ResultCallback    `json:"-"`
}

// Type implements command.Message.
func (BuildArticlesCommand) Type() string { return buildArticlesMessageType }

// Validate checks the worker override.
func (m BuildArticlesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Workers,
			validation.Min(0).ErrorObject(validation.NewError("blog.static.build.workers_invalid", "workers must not be negative")),
			validation.Max(MaxWorkers),
		),
	)
}

// PreviewArticlesCommand renders every article without writing anything.
type PreviewArticlesCommand struct {
	Workers        int            `json:"workers,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (PreviewArticlesCommand) Type() string { return previewArticlesMessageType }

// Validate checks the worker override.
func (m PreviewArticlesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Workers,
			validation.Min(0).ErrorObject(validation.NewError("blog.static.preview.workers_invalid", "workers must not be negative")),
			validation.Max(MaxWorkers),
		),
	)
}

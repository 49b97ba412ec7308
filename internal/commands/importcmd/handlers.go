package importcmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/importer"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrOutputExists is returned when Output exists and Overwrite is unset.
var ErrOutputExists = errors.New("import command: output file already exists")

var _ command.Commander[ImportArticleCommand] = (*ImportArticleHandler)(nil)

// ImportArticleHandler runs HTML imports through the shared handler.
type ImportArticleHandler struct {
	inner *commands.Handler[ImportArticleCommand]
}

// NewImportArticleHandler creates an import handler.
func NewImportArticleHandler(logger interfaces.Logger, opts ...commands.HandlerOption[ImportArticleCommand]) *ImportArticleHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportArticleCommand) error {
		document, err := os.ReadFile(msg.Source)
		if err != nil {
			return fmt.Errorf("import command: read %s: %w", msg.Source, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		article, err := importer.NewConverter(importer.Options{
			Selector:       msg.Selector,
			GitHubFlavored: msg.GitHubFlavored,
		}).Convert(document)
		if err != nil {
			return err
		}
		content := article.Bytes()

		if msg.Output != "" {
			if err := writeOutput(msg.Output, content, msg.Overwrite); err != nil {
				return err
			}
			logging.WithFields(logger, map[string]any{
				"source": msg.Source,
				"output": msg.Output,
				"tags":   len(article.Tags),
			}).Info("import.command.article.written")
		}

		if msg.ResultCallback != nil {
			msg.ResultCallback(Result{
				Source:  msg.Source,
				Output:  msg.Output,
				Content: content,
				Tags:    len(article.Tags),
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportArticleCommand]{
		commands.WithLogger[ImportArticleCommand](logger),
		commands.WithOperation[ImportArticleCommand]("import.article"),
		commands.WithMessageFields(func(msg ImportArticleCommand) map[string]any {
			fields := map[string]any{"source": msg.Source}
			if msg.Output != "" {
				fields["output"] = msg.Output
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportArticleCommand].
func (h *ImportArticleHandler) Execute(ctx context.Context, msg ImportArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

func writeOutput(path string, content []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("import command: open %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("import command: write %s: %w", path, err)
	}
	return f.Close()
}

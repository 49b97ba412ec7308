package staticcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrServiceRequired is returned when a handler runs without a generator.
var ErrServiceRequired = errors.New("staticcmd: generator service is required")

// BuildArticlesHandler runs generator builds through the shared handler.
type BuildArticlesHandler struct {
	inner *commands.Handler[BuildArticlesCommand]
}

// NewBuildArticlesHandler constructs a handler wired to service.
func NewBuildArticlesHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildArticlesCommand]) *BuildArticlesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildArticlesCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		result, err := service.Build(ctx, generator.BuildOptions{
			DryRun:    msg.DryRun,
			Workers:   msg.Workers,
			OnWritten: msg.OnWritten,
		})
		operation := "build"
		if msg.DryRun {
			operation = "build_dry_run"
		}
		invokeCallback(msg.ResultCallback, result, operation)
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildArticlesCommand]{
		commands.WithLogger[BuildArticlesCommand](logger),
		commands.WithOperation[BuildArticlesCommand]("static.build"),
		commands.WithMessageFields(func(msg BuildArticlesCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Workers > 0 {
				fields["workers"] = msg.Workers
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildArticlesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildArticlesCommand].
func (h *BuildArticlesHandler) Execute(ctx context.Context, msg BuildArticlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PreviewArticlesHandler renders articles without writing them.
type PreviewArticlesHandler struct {
	inner *commands.Handler[PreviewArticlesCommand]
}

// NewPreviewArticlesHandler constructs a dry-run handler wired to service.
func NewPreviewArticlesHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PreviewArticlesCommand]) *PreviewArticlesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PreviewArticlesCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		result, err := service.Build(ctx, generator.BuildOptions{
			DryRun:  true,
			Workers: msg.Workers,
		})
		invokeCallback(msg.ResultCallback, result, "preview")
		return err
	}

	handlerOpts := []commands.HandlerOption[PreviewArticlesCommand]{
		commands.WithLogger[PreviewArticlesCommand](logger),
		commands.WithOperation[PreviewArticlesCommand]("static.preview"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PreviewArticlesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PreviewArticlesCommand].
func (h *PreviewArticlesHandler) Execute(ctx context.Context, msg PreviewArticlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, result *generator.BuildResult, operation string) {
	if cb == nil {
		return
	}
	metadata := map[string]any{"operation": operation}
	if result != nil {
		metadata["build_id"] = result.BuildID
		metadata["diagnostics"] = len(result.Diagnostics())
	}
	cb(ResultEnvelope{Result: result, Metadata: metadata})
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/routes64/pkg/adapters/file"
	"github.com/aretw0/routes64/pkg/scenario"
)

// Validate loads the scenario at path and writes the outcome and lint report to out.
// It returns the load error, if any.
func Validate(ctx context.Context, path string, opts []scenario.Option, out io.Writer) error {
	store, err := scenario.LoadSource(ctx, file.NewSource(path), opts...)
	if err != nil {
		fmt.Fprintf(out, "Scenario %s is invalid:\n", path)
		errs := scenario.Errors(err)
		if errs == nil {
			errs = []error{err}
		}
		for _, e := range errs {
			fmt.Fprintf(out, "  - %v\n", e)
		}
		return err
	}

	report := store.Report()
	fmt.Fprintf(out, "Scenario %q is valid: %d nodes, depth %d.\n", store.Meta().Title, store.Len(), store.Depth())
	fmt.Fprintf(out, "Endings: %d of %d canonical leaves.\n", report.FoundEndings, report.ExpectedEndings)
	if len(report.MissingEndings) > 0 {
		fmt.Fprintf(out, "  missing: %s\n", strings.Join(report.MissingEndings, ", "))
	}
	if len(report.Unreachable) > 0 {
		fmt.Fprintf(out, "Unreachable: %s\n", strings.Join(report.Unreachable, ", "))
	}
	if len(report.Irregular) > 0 {
		fmt.Fprintf(out, "Irregular ids: %s\n", strings.Join(report.Irregular, ", "))
	}
	return nil
}

// WatchValidate validates path, then again after every change, until ctx is done.
func WatchValidate(ctx context.Context, path string, opts []scenario.Option, out io.Writer, logger *slog.Logger) error {
	src := file.NewSource(path)
	src.Logger = logger

	changes, err := src.Watch(ctx)
	if err != nil {
		return err
	}

	_ = Validate(ctx, path, opts, out)
	fmt.Fprintln(out, ">>> Waiting for changes...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("change detected", "path", path)
			fmt.Fprintf(out, ">>> Change detected in '%s'.\n", path)
			_ = Validate(ctx, path, opts, out)
		}
	}
}

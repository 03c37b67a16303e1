package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/modelexport/watch"
)

// WatchCmd regenerates the output whenever the corpus changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the output whenever the source changes",
	Long: `Generate once, then watch the input directory and regenerate after
each burst of changes settles.

Timing comes from the [watch] section of modelexport.toml:
  debounce_ms      quiet period after the last change (default 300)
  min_interval_ms  minimum time between regenerations (default 1000)

Unchanged files are not parsed again between runs. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}
	opts := exportOptions(cfg)

	w, err := watch.New(cfg.InputDir,
		time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
		time.Duration(cfg.Watch.MinIntervalMS)*time.Millisecond,
		exporter.OutputPath(opts))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("Watching %s", cfg.InputDir)
	return w.Run(ctx, func(ctx context.Context) error {
		result, path, err := exporter.Export(ctx, opts)
		if err != nil {
			reportError(err)
			return err
		}
		pterm.Success.Printfln("Generated %s (%d types)", path, len(result.Declarations))
		return nil
	})
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/adapters/watcher"
	"github.com/amhub/dataworld/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the catalog whenever its file changes",
	Long: `Watch the catalog file and rebuild the snapshot after every change.

A change that fails validation is reported and the previous snapshot is
kept. Use --quiet to only report failures.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only report failed reloads")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if fileSource == nil {
		fmt.Println(ui.FormatError("No catalog file to watch"))
		fmt.Println(ui.FormatInfo("Run 'dw init' or pass --catalog"))
		return fmt.Errorf("catalog file not found")
	}

	ctx, stop := signalContext()
	defer stop()

	w := newCatalogWatcher()

	fmt.Println(ui.FormatRocket("Watching catalog..."))
	fmt.Println(ui.FormatMuted("File: " + fileSource.Path()))
	if cat := catalogService.Snapshot(); cat != nil {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Loaded %d materials", cat.Len())))
	} else {
		fmt.Println(ui.FormatWarning("Current file is invalid; waiting for a fix"))
	}
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for ev := range w.Events() {
		printReloadEvent(ev)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("watcher stopped: %w", err)
	}
	fmt.Println()
	fmt.Println(ui.FormatMuted("Watcher stopped"))
	return nil
}

func newCatalogWatcher() *watcher.CatalogWatcher {
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	return watcher.New(fileSource.Path(), catalogService, debounce, appLog)
}

func printReloadEvent(ev watcher.ReloadEvent) {
	stamp := ui.FormatMuted(ev.At.Format("15:04:05"))
	if ev.Err != nil {
		fmt.Printf("%s %s\n", stamp, ui.FormatError("Reload rejected, keeping previous catalog"))
		if ev.Response != nil && ev.Response.Report != nil {
			for _, ve := range ev.Response.Report.Rejected {
				fmt.Printf("    %s\n", ui.StyleMuted.Render(ve.Error()))
			}
		} else {
			fmt.Printf("    %s\n", ui.StyleMuted.Render(ev.Err.Error()))
		}
		return
	}
	if watchQuiet {
		return
	}
	resp := ev.Response
	msg := fmt.Sprintf("Catalog reloaded: %d materials (generation %d, %s)",
		resp.Catalog.Len(), resp.Generation, resp.Duration.Round(time.Millisecond))
	fmt.Printf("%s %s\n", stamp, ui.FormatSuccess(msg))
	if n := len(resp.Report.Rejected); n > 0 {
		fmt.Printf("    %s\n", ui.StyleWarning.Render(fmt.Sprintf("%d records skipped", n)))
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your dataworld installation",
	Long: `Diagnose issues with your dataworld setup.

Checks for:
  - Data directory and configuration file
  - Catalog file, with every rejected record
  - Records flagged during load (duplicates, unknown manufacturers)
  - Material images
  - Notification channel`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("🏥 dataworld doctor"))
	fmt.Println()

	checkStep("Data Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s (run 'dw init')", appVault.RootPath)
		}
		return nil
	})

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appVault.ConfigPath)
		}
		return nil
	})

	checkStep("Catalog File", func() error {
		if fileSource == nil {
			return fmt.Errorf("missing, serving the built-in catalog")
		}
		return nil
	})

	report := catalogService.LastReport()
	checkStep("Catalog Records", func() error {
		if report == nil {
			return loadErr
		}
		if len(report.Rejected) > 0 {
			for _, ve := range report.Rejected {
				fmt.Printf("    %s\n", ve.Error())
			}
			return fmt.Errorf("%d rejected, %d accepted (policy %s)", len(report.Rejected), report.Accepted, appConfig.LoadPolicy)
		}
		return nil
	})

	checkStep("Catalog Flags", func() error {
		if report == nil || len(report.Flags) == 0 {
			return nil
		}
		for _, f := range report.Flags {
			fmt.Printf("    %s\n", formatFlag(f))
		}
		return fmt.Errorf("%d records flagged", len(report.Flags))
	})

	checkStep("Material Images", func() error {
		cat := catalogService.Snapshot()
		if cat == nil || fileSource == nil {
			return nil
		}
		missing := 0
		for _, m := range cat.Materials() {
			if !m.HasImage() {
				continue
			}
			if path, ok := fileSource.ResolveImage(m); !ok {
				fmt.Printf("    %s -> %s (Missing)\n", m.Product, path)
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("%d images missing, cards show a placeholder", missing)
		}
		return nil
	})

	checkStep("Notification Channel", func() error {
		if appConfig.NotifyEndpoint == "" {
			return fmt.Errorf("no notify_endpoint, submissions go to %s", appVault.OutboxFile())
		}
		if appConfig.NotifyToken() == "" {
			return fmt.Errorf("%s is not set, requests are sent without a token", appConfig.NotifyTokenEnv)
		}
		return nil
	})

	return nil
}

func formatFlag(f domain.RecordFlag) string {
	return fmt.Sprintf("%s: %s (%s)", f.Product, f.Kind, f.Detail)
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}

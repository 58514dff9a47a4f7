package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/adapters/repository"
	"github.com/amhub/dataworld/pkg/config"
	"github.com/amhub/dataworld/pkg/ui"
	"github.com/amhub/dataworld/pkg/vault"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the dataworld data directory",
	Long: `Initialize the dataworld data directory.

This creates the managed directory at ~/.local/share/dataworld/ with:
  - catalog.yaml : The material catalog (seeded with the reference materials)
  - static/      : Material images referenced by the catalog
  - outbox/      : Requests and contact messages when no endpoint is configured
  - exports/     : Generated charts

and writes a default config.yaml to the config directory.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite the catalog and config with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := vault.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine data directory"))
		return err
	}
	if flagConfigPath != "" {
		v.ConfigPath = flagConfigPath
	}

	if v.Exists() && !initForce {
		fmt.Println(ui.FormatWarning("Data directory already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		fmt.Println(ui.FormatMuted("Use --force to restore the defaults"))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing dataworld..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize data directory"))
		return err
	}

	written, err := seedCatalog(getContext(), repository.NewFileSource(v.CatalogPath()), initForce)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to write catalog"))
		return err
	}
	if written {
		fmt.Println(ui.FormatSuccess("Reference catalog (catalog.yaml) created"))
	} else {
		fmt.Println(ui.FormatMuted("Keeping existing catalog.yaml"))
	}

	if _, err := os.Stat(v.ConfigPath); os.IsNotExist(err) || initForce {
		if err := config.DefaultConfig().Save(v.ConfigPath); err != nil {
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Default config created"))
		}
	}

	fmt.Println(ui.FormatSuccess("dataworld initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", v.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Browse the catalog: dw list"))
	fmt.Println(ui.FormatMuted("  2. Open the dashboard: dw dashboard"))
	fmt.Println(ui.FormatMuted("  3. Request a certificate: dw request \"Quantum Carbon\" --email you@example.com"))

	return nil
}

// seedCatalog writes the reference materials to src unless a catalog
// already exists there and force is not set
func seedCatalog(ctx context.Context, src *repository.FileSource, force bool) (bool, error) {
	if src.Exists() && !force {
		return false, nil
	}
	records, err := repository.Decode(repository.SeedCatalog(), "yaml")
	if err != nil {
		return false, fmt.Errorf("failed to decode seed catalog: %w", err)
	}
	if err := src.Save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

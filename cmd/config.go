package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amhub/dataworld/pkg/config"
	"github.com/amhub/dataworld/pkg/ui"
)

var configShow bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the dataworld configuration file",
	Long: `Open the configuration file in $EDITOR, creating it with defaults
when missing. Use --show to print the effective configuration instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configShow {
			data, err := yaml.Marshal(appConfig)
			if err != nil {
				return err
			}
			fmt.Println(ui.FormatMuted("# " + appVault.ConfigPath))
			fmt.Print(highlightYAML(string(data)))
			return nil
		}

		path := appVault.ConfigPath
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Println(ui.FormatSuccess("Default config created"))
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		c := exec.Command(GetPreferredEditor(), path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return err
		}

		if _, err := config.Load(path); err != nil {
			fmt.Println(ui.FormatWarning("Config has errors: " + err.Error()))
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "Print the effective configuration")
}

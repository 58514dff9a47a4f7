package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show the values available for each filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := requireCatalog()
		if err != nil {
			return err
		}

		opts := services.FacetOptionsOf(cat)
		fmt.Println(ui.FormatTitle("Facets"))
		fmt.Println()

		sections := []struct {
			name   string
			flag   string
			values []string
		}{
			{"Colors", "--color", opts.Colors},
			{"Manufacturers", "--manufacturer", opts.Manufacturers},
			{"Certifications", "--cert", opts.Certifications},
		}
		for _, s := range sections {
			fmt.Println(ui.RenderKeyValue(s.name, ui.FormatMuted(fmt.Sprintf("(%d, %s)", len(s.values), s.flag))))
			fmt.Print(ui.RenderSimpleList(s.values))
			fmt.Println()
		}
		fmt.Println(ui.FormatMuted("Example: dw list --color " + quoteIfSpaced(first(opts.Colors))))
		return nil
	},
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func quoteIfSpaced(s string) string {
	if strings.ContainsRune(s, ' ') {
		return `"` + s + `"`
	}
	return s
}

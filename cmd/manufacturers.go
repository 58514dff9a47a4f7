package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var manufacturersCmd = &cobra.Command{
	Use:     "manufacturers",
	Aliases: []string{"mfr"},
	Short:   "List manufacturers and their websites",
	Long: `List every manufacturer that appears in the catalog, in catalog order.

Websites come from manufacturer_websites in the config; manufacturers
without one show the placeholder. Names missing from known_manufacturers
are flagged.`,
	RunE: runManufacturers,
}

func runManufacturers(cmd *cobra.Command, args []string) error {
	cat, err := requireCatalog()
	if err != nil {
		return err
	}

	mfrs := services.Manufacturers(cat, websiteDirectory())
	if len(mfrs) == 0 {
		fmt.Println(ui.FormatWarning("No manufacturers found"))
		return nil
	}

	fmt.Println(ui.FormatTitle(ui.IconFactory + " Manufacturers"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Manufacturer", Width: 20},
		{Header: "Website", MaxWidth: 48},
		{Header: "Materials", Align: "right"},
		{Header: ""},
	})

	for _, m := range mfrs {
		website := m.Website
		if m.WebsiteDefaulted {
			website += " *"
		}
		flag := ""
		if m.Flagged {
			flag = ui.IconWarning + " unknown"
		}
		table.AddRow([]string{m.Name, website, strconv.Itoa(m.Materials), flag})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d manufacturers  (* placeholder website)", len(mfrs))))
	return nil
}

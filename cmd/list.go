package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	listColors        []string
	listManufacturers []string
	listCerts         []string
	listValidOnly     bool
	listAll           bool
	listToday         string
	listLimit         int
	listJSON          bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list [query]",
	Short:   "List catalog materials",
	Aliases: []string{"ls"},
	Long: `List materials in a table, narrowed by a text query and facets.

The query matches product, license/ISO, manufacturer, characteristics and
certifications, ignoring case. Facet flags can be repeated or comma-separated;
within one facet any value matches, across facets all must match.

Examples:
  dw list
  dw list tpu
  dw list --color Orange --color Gray
  dw list --manufacturer "BASF Forward AM" --cert RoHS
  dw list --all
  dw list --today 2026-07-01`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSliceVar(&listColors, "color", nil, "Only these colors")
	listCmd.Flags().StringSliceVar(&listManufacturers, "manufacturer", nil, "Only these manufacturers")
	listCmd.Flags().StringSliceVar(&listCerts, "cert", nil, "Only materials holding one of these certifications")
	// Defaults to the config's valid_only, applied in runList
	listCmd.Flags().BoolVar(&listValidOnly, "valid-only", true, "Hide materials whose certificate has expired")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include expired materials")
	listCmd.Flags().StringVar(&listToday, "today", "", "Evaluate validity as of this date (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Show at most N rows (default from config)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print materials as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := requireCatalog(); err != nil {
		return err
	}

	if !cmd.Flags().Changed("valid-only") {
		listValidOnly = appConfig.ValidOnly
	}
	if listAll {
		listValidOnly = false
	}
	if !cmd.Flags().Changed("limit") {
		listLimit = appConfig.MaxSearchResults
	}

	today, err := parseToday(listToday)
	if err != nil {
		return err
	}

	req := services.FilterRequest{
		Query: strings.Join(args, " "),
		Facets: domain.Facets{
			Colors:         listColors,
			Manufacturers:  listManufacturers,
			Certifications: listCerts,
			ValidOnly:      listValidOnly,
		},
		Today: today,
	}

	resp, err := filterService.Execute(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to filter materials"))
		return err
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Materials)
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("0 results"))
		if listValidOnly {
			fmt.Println(ui.FormatInfo("Expired materials are hidden; try --all"))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle("Materials"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Product", Width: 20, MaxWidth: 36},
		{Header: "License / ISO", MaxWidth: 24},
		{Header: "Manufacturer", MaxWidth: 24},
		{Header: "Valid until", Width: 11},
		{Header: "Color"},
		{Header: "Certifications", MaxWidth: 36},
	})

	shown := resp.Materials
	if listLimit > 0 && len(shown) > listLimit {
		shown = shown[:listLimit]
	}
	for _, m := range shown {
		valid := m.GetDisplayDate()
		if !m.IsValidOn(resp.Today) {
			valid += " ✘"
		}
		table.AddRow([]string{
			m.Product,
			m.LicenseISO,
			m.Manufacturer,
			valid,
			m.Color,
			m.GetCertificationsString(),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()

	summary := fmt.Sprintf("%d results", resp.Total)
	if len(shown) < resp.Total {
		summary = fmt.Sprintf("%d results (showing %d)", resp.Total, len(shown))
	}
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%s of %d as of %s", summary, resp.Of, resp.Today.Format(domain.DateLayout))))

	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/pkg/ui"
)

var certsCmd = &cobra.Command{
	Use:     "certs [query]",
	Aliases: []string{"certifications"},
	Short:   "List certification links",
	Long: `List one row per (product, manufacturer, certification).

An optional query keeps rows whose certification, product or manufacturer
contains it, ignoring case.`,
	RunE: runCerts,
}

func runCerts(cmd *cobra.Command, args []string) error {
	if _, err := requireCatalog(); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	resp, err := filterService.Certifications(getContext(), query)
	if err != nil {
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No certifications found matching: " + query))
		return nil
	}

	fmt.Println(ui.FormatTitle(ui.IconCert + " Certifications"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Certification", Width: 14},
		{Header: "Product", MaxWidth: 36},
		{Header: "Manufacturer", MaxWidth: 28},
	})
	for _, l := range resp.Links {
		table.AddRow([]string{l.Certification, l.Product, l.Manufacturer})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d results", resp.Total)))
	return nil
}

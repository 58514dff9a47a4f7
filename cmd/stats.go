package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	statsHorizon int
	statsToday   string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Show validity counts, facet distributions and the certificates
expiring within the horizon (expiry_horizon_days in the config).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsHorizon, "horizon", 0, "Days ahead to look for expiring certificates")
	statsCmd.Flags().StringVar(&statsToday, "today", "", "Evaluate validity as of this date (YYYY-MM-DD)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
}

func computeStats(cmd *cobra.Command) (services.CatalogStats, error) {
	cat, err := requireCatalog()
	if err != nil {
		return services.CatalogStats{}, err
	}
	today, err := parseToday(statsToday)
	if err != nil {
		return services.CatalogStats{}, err
	}
	horizon := appConfig.ExpiryHorizonDays
	if cmd.Flags().Changed("horizon") {
		horizon = statsHorizon
	}
	return services.ComputeStats(cat, today, time.Duration(horizon)*24*time.Hour), nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := computeStats(cmd)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println(ui.FormatTitle("Catalog statistics"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("As of", stats.Today.Format(domain.DateLayout)))
	fmt.Println(ui.RenderKeyValue("Materials", strconv.Itoa(stats.Materials)))
	fmt.Println(ui.RenderKeyValue("Valid", ui.StyleSuccess.Render(strconv.Itoa(stats.Valid))))
	fmt.Println(ui.RenderKeyValue("Expired", ui.StyleError.Render(strconv.Itoa(stats.Expired))))
	if stats.Flags > 0 {
		fmt.Println(ui.RenderKeyValue("Flags", ui.StyleWarning.Render(strconv.Itoa(stats.Flags))+ui.FormatMuted("  (dw doctor)")))
	}
	fmt.Println()

	printCounts("By manufacturer", stats.ByManufacturer)
	printCounts("By color", stats.ByColor)
	printCounts("By certification", stats.ByCertification)

	if len(stats.ExpiringSoon) > 0 {
		fmt.Println(ui.StyleWarning.Render(fmt.Sprintf("Expiring soon (%d)", len(stats.ExpiringSoon))))
		for _, m := range stats.ExpiringSoon {
			days := int(m.ValidUntil.Sub(stats.Today).Hours() / 24)
			fmt.Printf("  %s  %s %s\n", m.GetDisplayDate(), m.Product, ui.FormatMuted(fmt.Sprintf("(%dd)", days)))
		}
		fmt.Println()
	}

	return nil
}

func printCounts(title string, counts []services.Count) {
	if len(counts) == 0 {
		return
	}
	table := ui.NewTable([]ui.TableColumn{
		{Header: title, Width: 24, MaxWidth: 40},
		{Header: "Count", Align: "right"},
	})
	for _, c := range counts {
		table.AddRow([]string{c.Label, strconv.Itoa(c.Count)})
	}
	fmt.Print(table.Render())
	fmt.Println()
}

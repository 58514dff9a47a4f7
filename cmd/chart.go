package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	chartOutput string
	chartOpen   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render catalog statistics as an HTML chart page",
	Long: `Write an HTML page with bar charts of materials per manufacturer,
color and certification, plus the valid/expired split.

The page is written to the exports directory unless --output is given.`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output HTML file")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "Open the page in the browser")
	chartCmd.Flags().StringVar(&statsToday, "today", "", "Evaluate validity as of this date (YYYY-MM-DD)")
	chartCmd.Flags().IntVar(&statsHorizon, "horizon", 0, "Days ahead to look for expiring certificates")
}

func runChart(cmd *cobra.Command, args []string) error {
	stats, err := computeStats(cmd)
	if err != nil {
		return err
	}

	path := chartOutput
	if path == "" {
		path = appVault.GetExportPath("dataworld-stats.html")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := buildChartPage(stats).Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Chart written to " + path))
	if chartOpen {
		return OpenFile(path)
	}
	return nil
}

// buildChartPage lays out one chart per distribution
func buildChartPage(stats services.CatalogStats) *components.Page {
	page := components.NewPage()
	page.PageTitle = "DATAWORLD catalog"

	subtitle := "as of " + stats.Today.Format(domain.DateLayout)
	page.AddCharts(
		countBar("Materials per manufacturer", subtitle, stats.ByManufacturer),
		countBar("Materials per color", subtitle, stats.ByColor),
		countBar("Materials per certification", subtitle, stats.ByCertification),
		validityPie(stats, subtitle),
	)
	return page
}

func countBar(title, subtitle string, counts []services.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(counts))
	items := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Label)
		items = append(items, opts.BarData{Value: c.Count})
	}
	bar.SetXAxis(labels).AddSeries("Materials", items)
	return bar
}

func validityPie(stats services.CatalogStats, subtitle string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Certificate validity", Subtitle: subtitle}),
	)
	pie.AddSeries("Validity", []opts.PieData{
		{Name: "Valid", Value: stats.Valid},
		{Name: "Expired", Value: stats.Expired},
	})
	return pie
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	exploreAll     bool
	exploreRequest bool
	exploreCopy    bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore [query]",
	Short: "Fuzzy-find a material",
	Long: `Pick a material with a fuzzy finder and show its card.

The preview pane shows the catalog entry. Expired materials are hidden
unless --all is given.

Examples:
  dw explore
  dw explore carbon --request`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().BoolVar(&exploreAll, "all", false, "Include expired materials")
	exploreCmd.Flags().BoolVar(&exploreRequest, "request", false, "Request the certificate of the chosen material")
	exploreCmd.Flags().BoolVarP(&exploreCopy, "copy", "c", false, "Copy a summary of the chosen material")
}

func runExplore(cmd *cobra.Command, args []string) error {
	if _, err := requireCatalog(); err != nil {
		return err
	}

	resp, err := filterService.Execute(getContext(), services.FilterRequest{
		Query:  strings.Join(args, " "),
		Facets: domain.Facets{ValidOnly: !exploreAll && appConfig.ValidOnly},
	})
	if err != nil {
		return err
	}
	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("0 results"))
		return nil
	}

	materials := resp.Materials
	idx, err := fuzzyfinder.Find(
		materials,
		func(i int) string {
			m := materials[i]
			return fmt.Sprintf("%s  (%s)", m.Product, m.Manufacturer)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return explorePreview(materials[i], resp)
		}),
		fuzzyfinder.WithHeader(fmt.Sprintf("%d results", resp.Total)),
	)
	if err != nil {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}

	chosen := materials[idx]
	fmt.Println(renderCard(chosen, resp.Today))

	if exploreCopy {
		if err := clipboard.WriteAll(plainSummary(chosen)); err != nil {
			fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Copied to clipboard"))
		}
	}

	if exploreRequest {
		return submit(domain.Submission{
			Kind:    domain.KindCertificationRequest,
			Product: chosen.Product,
		})
	}
	return nil
}

func explorePreview(m domain.Material, resp *services.FilterResponse) string {
	status := "valid"
	if !m.IsValidOn(resp.Today) {
		status = "expired"
	}
	return fmt.Sprintf("%s\n\nStatus: %s as of %s", materialYAML(m), status, resp.Today.Format(domain.DateLayout))
}

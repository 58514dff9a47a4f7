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
	showYAML bool
	showCopy bool
)

var showCmd = &cobra.Command{
	Use:   "show <product>",
	Short: "Show a material card",
	Long: `Show one material with its badges, certifications and validity.

The argument is matched exactly first, then as a query. When the query
matches several materials a fuzzy finder opens.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Print the catalog entry as YAML")
	showCmd.Flags().BoolVarP(&showCopy, "copy", "c", false, "Copy a summary to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	cat, err := requireCatalog()
	if err != nil {
		return err
	}

	m, ok, err := resolveMaterial(cat, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if showYAML {
		fmt.Print(highlightYAML(materialYAML(m)))
	} else {
		fmt.Println(renderCard(m, domain.DateOf(timeNow())))
	}

	if showCopy {
		if err := clipboard.WriteAll(plainSummary(m)); err != nil {
			fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Copied to clipboard"))
		}
	}
	return nil
}

// resolveMaterial finds a product by exact name, or by query with a picker
// when the query is ambiguous. ok is false when nothing was chosen.
func resolveMaterial(cat *domain.Catalog, query string) (domain.Material, bool, error) {
	if m, found := cat.Find(query); found {
		return m, true, nil
	}

	matches := services.Apply(cat.Materials(), services.MatchQuery(query))
	switch len(matches) {
	case 0:
		fmt.Println(ui.FormatWarning("No materials found matching: " + query))
		return domain.Material{}, false, nil
	case 1:
		return matches[0], true, nil
	}

	m, ok := pickMaterial(matches)
	return m, ok, nil
}

// pickMaterial opens a fuzzy finder over materials
func pickMaterial(materials []domain.Material) (domain.Material, bool) {
	idx, err := fuzzyfinder.Find(
		materials,
		func(i int) string {
			return materials[i].Product
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return plainSummary(materials[i])
		}),
	)
	if err != nil {
		// User cancelled (Ctrl+C or ESC)
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return domain.Material{}, false
	}
	return materials[idx], true
}

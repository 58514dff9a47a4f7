package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/amhub/dataworld/internal/adapters/repository"
	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/pkg/ui"
)

// timeNow is swapped in tests
var timeNow = time.Now

// GetPreferredEditor returns the editor command from env, or default
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file or URL with the OS default application.
func OpenFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	// Start() detaches so dw can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// parseToday reads a --today flag value; empty means the current date
func parseToday(value string) (time.Time, error) {
	if value == "" {
		return domain.DateOf(timeNow()), nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q (want %s)", value, domain.DateLayout)
	}
	return t, nil
}

// materialYAML renders one material as it would appear in the catalog file
func materialYAML(m domain.Material) string {
	data, err := repository.Encode([]domain.MaterialRecord{m.Record()}, "yaml")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// highlightYAML applies syntax highlighting to YAML content
func highlightYAML(content string) string {
	if appConfig != nil && !appConfig.SyntaxHighlighting {
		return content
	}

	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatters.TTY256.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}

// renderCard formats a material the way the catalog page shows it
func renderCard(m domain.Material, today time.Time) string {
	var b strings.Builder

	b.WriteString(ui.StyleHeader.Render(ui.IconMaterial + " " + m.Product))
	b.WriteString("\n")
	b.WriteString(ui.FormatBadges(m.Color, m.LicenseISO))
	b.WriteString("\n")
	if m.Characteristics != "" {
		b.WriteString(ui.StyleSubtle.Render(m.Characteristics))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.RenderKeyValue("Manufacturer", m.Manufacturer))
	b.WriteString("\n")
	b.WriteString(ui.RenderKeyValue("Valid until", m.GetDisplayDate()+"  "+ui.FormatValidity(m.IsValidOn(today))))
	b.WriteString("\n")
	b.WriteString(ui.RenderKeyValue("Certifications", m.GetCertificationsString()))
	b.WriteString("\n")
	b.WriteString(ui.RenderKeyValue("Image", imageLabel(m)))

	return ui.StyleCard.Render(b.String())
}

// imageLabel resolves the material image or returns the placeholder text
func imageLabel(m domain.Material) string {
	if !m.HasImage() {
		return ui.FormatMuted("no image")
	}
	if fileSource == nil {
		return ui.FormatMuted(m.Image + " (not found)")
	}
	if resolved, ok := fileSource.ResolveImage(m); ok {
		return resolved
	}
	return ui.FormatMuted(m.Image + " (not found)")
}

// plainSummary is the clipboard form of a material
func plainSummary(m domain.Material) string {
	return fmt.Sprintf("%s\nManufacturer: %s\nLicense/ISO: %s\nColor: %s\nValid until: %s\nCertifications: %s\n",
		m.Product, m.Manufacturer, m.LicenseISO, m.Color, m.GetDisplayDate(), m.GetCertificationsString())
}

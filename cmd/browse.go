package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse manufacturers and their materials",
	Long: `Drill down from manufacturers to their materials to a material card.

Navigation:
- k / ↑ : Move Up
- j / ↓ : Move Down
- l / Enter : Open
- h / Backspace : Back
- v : Toggle expired materials
- q / Esc : Quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cat, err := requireCatalog()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	b := newCatalogBrowser(screen, cat, websiteDirectory(), domain.DateOf(timeNow()))
	b.validOnly = appConfig.ValidOnly
	return b.Run()
}

type browseLevel int

const (
	levelManufacturers browseLevel = iota
	levelMaterials
	levelDetail
)

// CatalogBrowser is a terminal drill-down over one catalog snapshot
type CatalogBrowser struct {
	screen        tcell.Screen
	cat           *domain.Catalog
	manufacturers []domain.Manufacturer
	today         time.Time
	validOnly     bool

	level         browseLevel
	manufacturer  string // selected at levelMaterials and below
	product       string // selected at levelDetail
	selectedIndex int
	scrollOffset  int
	parentIndex   []int // selection to restore when going back

	width  int
	height int
}

func newCatalogBrowser(screen tcell.Screen, cat *domain.Catalog, dir services.WebsiteDirectory, today time.Time) *CatalogBrowser {
	width, height := screen.Size()
	return &CatalogBrowser{
		screen:        screen,
		cat:           cat,
		manufacturers: services.Manufacturers(cat, dir),
		today:         today,
		level:         levelManufacturers,
		width:         width,
		height:        height,
	}
}

// Run starts the event loop until the user quits
func (b *CatalogBrowser) Run() error {
	defer b.screen.Fini()

	b.screen.Clear()
	b.render()

	for {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventResize:
			b.width, b.height = ev.Size()
			b.screen.Sync()
			b.render()

		case *tcell.EventKey:
			if b.handleKey(ev) {
				return nil
			}
			b.render()

		case nil:
			return nil
		}
	}
}

// handleKey applies one key press and reports whether to quit
func (b *CatalogBrowser) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp, tcell.KeyCtrlP:
		b.moveCursor(-1)
	case tcell.KeyDown, tcell.KeyCtrlN:
		b.moveCursor(1)
	case tcell.KeyEnter:
		b.open()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b.back()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			b.moveCursor(1)
		case 'k':
			b.moveCursor(-1)
		case 'l':
			b.open()
		case 'h':
			b.back()
		case 'g':
			b.selectedIndex = 0
			b.scrollOffset = 0
		case 'G':
			b.selectedIndex = max(len(b.items())-1, 0)
			b.adjustScroll()
		case 'v':
			b.validOnly = !b.validOnly
			b.selectedIndex = 0
			b.scrollOffset = 0
		}
	}
	return false
}

// items returns the labels selectable at the current level
func (b *CatalogBrowser) items() []string {
	switch b.level {
	case levelManufacturers:
		out := make([]string, 0, len(b.manufacturers))
		for _, m := range b.manufacturers {
			out = append(out, m.Name)
		}
		return out
	case levelMaterials:
		mats := b.materials()
		out := make([]string, 0, len(mats))
		for _, m := range mats {
			out = append(out, m.Product)
		}
		return out
	default:
		return nil
	}
}

// materials returns the selected manufacturer's materials
func (b *CatalogBrowser) materials() []domain.Material {
	preds := []services.Predicate{services.FromManufacturers([]string{b.manufacturer})}
	if b.validOnly {
		preds = append(preds, services.ValidOn(b.today))
	}
	return services.Apply(b.cat.Materials(), preds...)
}

func (b *CatalogBrowser) moveCursor(delta int) {
	items := b.items()
	if len(items) == 0 {
		return
	}
	b.selectedIndex = min(max(b.selectedIndex+delta, 0), len(items)-1)
	b.adjustScroll()
}

func (b *CatalogBrowser) adjustScroll() {
	visible := b.height - 8
	if visible < 1 {
		visible = 1
	}
	if b.selectedIndex < b.scrollOffset {
		b.scrollOffset = b.selectedIndex
	}
	if b.selectedIndex >= b.scrollOffset+visible {
		b.scrollOffset = b.selectedIndex - visible + 1
	}
}

func (b *CatalogBrowser) open() {
	items := b.items()
	if len(items) == 0 || b.selectedIndex >= len(items) {
		return
	}
	switch b.level {
	case levelManufacturers:
		b.manufacturer = items[b.selectedIndex]
		b.level = levelMaterials
	case levelMaterials:
		b.product = items[b.selectedIndex]
		b.level = levelDetail
	default:
		return
	}
	b.parentIndex = append(b.parentIndex, b.selectedIndex)
	b.selectedIndex = 0
	b.scrollOffset = 0
}

func (b *CatalogBrowser) back() {
	if b.level == levelManufacturers {
		return
	}
	b.level--
	last := len(b.parentIndex) - 1
	b.selectedIndex = b.parentIndex[last]
	b.parentIndex = b.parentIndex[:last]
	b.scrollOffset = 0
	b.adjustScroll()
}

// render draws the interface
func (b *CatalogBrowser) render() {
	b.screen.Clear()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorGreen)
	mutedStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	filter := "all materials"
	if b.validOnly {
		filter = "valid as of " + b.today.Format(domain.DateLayout)
	}

	y := 0
	switch b.level {
	case levelManufacturers:
		b.drawText(0, y, "┌─ DATAWORLD · Manufacturers", titleStyle)
		y++
		b.drawText(0, y, fmt.Sprintf("│  %d manufacturers │ %d materials", len(b.manufacturers), b.cat.Len()), mutedStyle)
	case levelMaterials:
		b.drawText(0, y, "┌─ "+b.manufacturer, titleStyle)
		y++
		b.drawText(0, y, "│  "+b.websiteOf(b.manufacturer)+" │ "+filter, mutedStyle)
	case levelDetail:
		b.drawText(0, y, "┌─ "+b.product, titleStyle)
		y++
		b.drawText(0, y, "│  "+b.manufacturer, mutedStyle)
	}
	y++
	b.drawText(0, y, "└"+strings.Repeat("─", 60), mutedStyle)
	y += 2

	if b.level == levelDetail {
		b.renderDetail(y)
	} else {
		b.renderList(y)
	}

	footerY := b.height - 2
	b.drawText(0, footerY, strings.Repeat("─", b.width), mutedStyle)
	footerY++
	b.drawText(0, footerY, "↑↓/jk: Navigate │ Enter/l: Open │ Backspace/h: Back │ v: Valid only │ q/Esc: Quit", mutedStyle)

	b.screen.Show()
}

func (b *CatalogBrowser) renderList(y int) {
	items := b.items()
	if len(items) == 0 {
		b.drawText(2, y, "(no materials)", tcell.StyleDefault.Foreground(tcell.ColorGray))
		return
	}

	visible := b.height - 8
	for i := b.scrollOffset; i < len(items) && i < b.scrollOffset+visible; i++ {
		style := tcell.StyleDefault
		prefix := "  "
		if i == b.selectedIndex {
			style = style.Reverse(true)
			prefix = "▶ "
		}
		b.drawText(0, y, prefix+b.describe(i, items[i]), style)
		y++
	}
}

func (b *CatalogBrowser) describe(i int, label string) string {
	if b.level == levelManufacturers {
		m := b.manufacturers[i]
		suffix := fmt.Sprintf("  (%d)", m.Materials)
		if m.Flagged {
			suffix += "  ⚠ unknown"
		}
		return label + suffix
	}
	if m, ok := b.cat.Find(label); ok && !m.IsValidOn(b.today) {
		return label + "  ✘ expired " + m.GetDisplayDate()
	}
	return label
}

func (b *CatalogBrowser) renderDetail(y int) {
	m, ok := b.cat.Find(b.product)
	if !ok {
		b.drawText(0, y, "Material not found: "+b.product, tcell.StyleDefault)
		return
	}

	keyStyle := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	validStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	status := "valid"
	if !m.IsValidOn(b.today) {
		validStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
		status = "expired"
	}

	rows := []struct{ key, value string }{
		{"License / ISO", m.LicenseISO},
		{"Color", m.Color},
		{"Characteristics", m.Characteristics},
		{"Valid until", m.GetDisplayDate()},
		{"Certifications", m.GetCertificationsString()},
		{"Image", m.Image},
	}
	for _, r := range rows {
		b.drawText(0, y, fmt.Sprintf("%-16s", r.key), keyStyle)
		b.drawText(17, y, r.value, tcell.StyleDefault)
		if r.key == "Valid until" {
			b.drawText(17+len(r.value)+2, y, status, validStyle)
		}
		y++
	}
}

func (b *CatalogBrowser) websiteOf(name string) string {
	for _, m := range b.manufacturers {
		if m.Name == name {
			return m.Website
		}
	}
	return ""
}

// drawText draws text at the specified position
func (b *CatalogBrowser) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= b.width {
			break
		}
		b.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

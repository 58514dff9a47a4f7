package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/amhub/dataworld/internal/core/ports/mocks"
	"github.com/amhub/dataworld/internal/core/services"
)

func newTestBrowser(t *testing.T) (*CatalogBrowser, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	today := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newCatalogBrowser(screen, mocks.ReferenceCatalog(), services.WebsiteDirectory{Default: "https://example.com"}, today)
	b.validOnly = true
	return b, screen
}

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// screenText returns the simulated screen one line per row
func screenText(screen tcell.SimulationScreen) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		}
		if (i+1)%width == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func TestCatalogBrowser_DrillDownAndBack(t *testing.T) {
	b, _ := newTestBrowser(t)

	if got := len(b.items()); got != 4 {
		t.Fatalf("Expected 4 manufacturers, got %d", got)
	}

	b.handleKey(runeEvent('j'))
	b.handleKey(runeEvent('l'))
	if b.level != levelMaterials || b.manufacturer != "BASF Forward AM" {
		t.Fatalf("Expected BASF materials, got level %v manufacturer %q", b.level, b.manufacturer)
	}
	if items := b.items(); len(items) != 1 || items[0] != "Ultrasint® TPU 64D" {
		t.Fatalf("Unexpected materials: %v", items)
	}

	b.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if b.level != levelDetail || b.product != "Ultrasint® TPU 64D" {
		t.Fatalf("Expected detail of the TPU, got level %v product %q", b.level, b.product)
	}

	b.handleKey(runeEvent('h'))
	b.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	if b.level != levelManufacturers {
		t.Fatalf("Expected manufacturers level, got %v", b.level)
	}
	if b.selectedIndex != 1 {
		t.Errorf("Expected selection restored to 1, got %d", b.selectedIndex)
	}

	// Back at the top level is a no-op
	b.handleKey(runeEvent('h'))
	if b.level != levelManufacturers {
		t.Errorf("Expected to stay at manufacturers, got %v", b.level)
	}
}

func TestCatalogBrowser_ValidOnlyToggle(t *testing.T) {
	b, _ := newTestBrowser(t)

	b.handleKey(runeEvent('G'))
	b.handleKey(runeEvent('k'))
	b.handleKey(runeEvent('l'))
	if b.manufacturer != "Quantum" {
		t.Fatalf("Expected Quantum, got %q", b.manufacturer)
	}
	if got := len(b.items()); got != 0 {
		t.Errorf("Expected expired material hidden, got %d items", got)
	}

	// Opening an empty list does nothing
	b.handleKey(runeEvent('l'))
	if b.level != levelMaterials {
		t.Errorf("Expected to stay on materials, got %v", b.level)
	}

	b.handleKey(runeEvent('v'))
	if got := len(b.items()); got != 1 {
		t.Errorf("Expected expired material shown, got %d items", got)
	}
}

func TestCatalogBrowser_CursorBounds(t *testing.T) {
	b, _ := newTestBrowser(t)

	b.handleKey(runeEvent('k'))
	if b.selectedIndex != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", b.selectedIndex)
	}
	for i := 0; i < 10; i++ {
		b.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	if b.selectedIndex != 3 {
		t.Errorf("Expected cursor clamped to 3, got %d", b.selectedIndex)
	}
	b.handleKey(runeEvent('g'))
	if b.selectedIndex != 0 {
		t.Errorf("Expected cursor at top, got %d", b.selectedIndex)
	}
}

func TestCatalogBrowser_Quit(t *testing.T) {
	b, _ := newTestBrowser(t)

	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"q", runeEvent('q'), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), true},
		{"move", runeEvent('j'), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.handleKey(tt.ev); got != tt.quit {
				t.Errorf("handleKey() = %v, want %v", got, tt.quit)
			}
		})
	}
}

func TestCatalogBrowser_Render(t *testing.T) {
	b, screen := newTestBrowser(t)

	b.render()
	text := screenText(screen)
	for _, want := range []string{"DATAWORLD · Manufacturers", "4 manufacturers", "3D Systems Floor  (1)", "Xiate Labs"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected screen to contain %q", want)
		}
	}

	b.validOnly = false
	b.handleKey(runeEvent('G'))
	b.handleKey(runeEvent('k'))
	b.handleKey(runeEvent('l'))
	b.render()
	text = screenText(screen)
	if !strings.Contains(text, "expired 2025-12-31") {
		t.Errorf("Expected expired marker on Quantum Carbon, got:\n%s", text)
	}

	b.handleKey(runeEvent('l'))
	b.render()
	text = screenText(screen)
	for _, want := range []string{"Quantum Carbon", "UL 94 V-0", "expired"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected detail to contain %q", want)
		}
	}
}

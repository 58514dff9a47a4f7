package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive dashboard (alias: dash)",
	Long: `Launch a full-screen dashboard over the catalog.

Tabs: Materials, Manufacturers, Certification, FAQ.

Keyboard Shortcuts:
  Navigation:
    ↑/k ↓/j     Move
    g / G       Top / bottom
    tab / 1-4   Switch tab

  Filters:
    /           Search (Materials and Certification keep separate queries)
    c           Cycle color
    m           Cycle manufacturer
    x           Cycle certification
    v           Toggle valid only
    C           Clear filters

  Actions:
    r           Request certificate for the selected material
    M           Message AM Hub
    ctrl+r      Reload catalog

  General:
    ?           Help
    q           Quit`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if _, err := requireCatalog(); err != nil {
		return err
	}

	m := newDashboardModel(getContext(), dashboardDeps{
		Catalog:        catalogService,
		Requests:       requestService,
		Websites:       websiteDirectory(),
		Today:          domain.DateOf(timeNow()),
		ValidOnly:      appConfig.ValidOnly,
		RequesterEmail: appConfig.RequesterEmail,
		RequesterName:  appConfig.RequesterName,
		Reload: func(ctx context.Context) error {
			_, err := catalogService.Reload(ctx)
			return err
		},
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	// Let queued submissions finish before the process exits
	requestService.Wait()
	return nil
}

// dashboardDeps carries what the model reads and writes outside itself
type dashboardDeps struct {
	Catalog        ports.SnapshotProvider
	Requests       *services.RequestService
	Websites       services.WebsiteDirectory
	Today          time.Time
	ValidOnly      bool
	RequesterEmail string
	RequesterName  string
	Reload         func(ctx context.Context) error // optional
}

type dashboardTab int

const (
	tabMaterials dashboardTab = iota
	tabManufacturers
	tabCertifications
	tabFAQ
)

var tabNames = []string{"Materials", "Manufacturers", "Certification", "FAQ"}

// Dashboard view modes
type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeHelp
	modeForm
)

// Preview state
type previewState struct {
	content  string
	product  string
	viewport viewport.Model
}

// submissionForm holds the request / contact form
type submissionForm struct {
	kind    domain.SubmissionKind
	product string
	name    textinput.Model
	email   textinput.Model
	message textarea.Model
	focus   int // 0 name, 1 email, 2 message
	err     string
}

// Dashboard model
type dashboardModel struct {
	ctx  context.Context
	deps dashboardDeps

	tab           dashboardTab
	materials     []domain.Material // filtered
	manufacturers []domain.Manufacturer
	links         []domain.CertificationLink // filtered by the search query
	options       domain.FacetOptions
	facets        domain.Facets
	colorIdx      int // -1 means no selection
	mfrIdx        int
	certIdx       int

	cursor        int
	offset        int
	mode          viewMode
	searchInput   textinput.Model // materials query
	certInput     textinput.Model // certification search, independent of the materials filter
	form          submissionForm
	help          help.Model
	keys          keyMap
	width         int
	height        int
	ready         bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	pending       int
	preview       previewState
}

// Key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Search    key.Binding
	Color     key.Binding
	Maker     key.Binding
	Cert      key.Binding
	ValidOnly key.Binding
	Clear     key.Binding
	Request   key.Binding
	Contact   key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Submit    key.Binding
	FocusNext key.Binding
	FocusPrev key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Search, k.ValidOnly, k.Request, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextTab, k.PrevTab},
		{k.Search, k.Color, k.Maker, k.Cert, k.ValidOnly, k.Clear},
		{k.Request, k.Contact, k.Reload, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Top:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	NextTab:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
	PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous tab")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Color:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle color")),
	Maker:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle manufacturer")),
	Cert:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cycle certification")),
	ValidOnly: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "valid only")),
	Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear filters")),
	Request:   key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("r", "request certificate")),
	Contact:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "message AM Hub")),
	Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload catalog")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	FocusNext: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	FocusPrev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
}

func newDashboardModel(ctx context.Context, deps dashboardDeps) dashboardModel {
	if deps.Today.IsZero() {
		deps.Today = domain.DateOf(time.Now())
	}

	ti := textinput.New()
	ti.Placeholder = "Search by name, ISO, manufacturer, certification..."
	ti.CharLimit = 100
	ti.Width = 50

	ci := textinput.New()
	ci.Placeholder = "Search certifications (e.g. ISO 9001)..."
	ci.CharLimit = 100
	ci.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	m := dashboardModel{
		ctx:         ctx,
		deps:        deps,
		tab:         tabMaterials,
		facets:      domain.Facets{ValidOnly: deps.ValidOnly},
		colorIdx:    -1,
		mfrIdx:      -1,
		certIdx:     -1,
		mode:        modeList,
		searchInput: ti,
		certInput:   ci,
		help:        help.New(),
		keys:        keys,
		preview:     previewState{viewport: vp},
	}
	m.refresh()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	if sel, ok := m.selectedMaterial(); ok {
		return m.loadPreview(sel)
	}
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		previewHeight := msg.Height - 16
		if previewHeight < 10 {
			previewHeight = 10
		}
		m.preview.viewport.Width = (msg.Width / 2) - 4
		m.preview.viewport.Height = previewHeight
		if m.mode == modeForm {
			m.form.message.SetWidth(max(msg.Width/2, 30))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(4 * time.Second)
		return m, clearMessageAfter(4 * time.Second)

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case submitResultMsg:
		m.pending--
		if msg.result.Err != nil {
			return m, status(ui.StyleError, "Delivery failed: "+msg.result.Err.Error())
		}
		return m, status(ui.StyleSuccess, fmt.Sprintf("%s Delivered via %s: %s",
			ui.IconSuccess, msg.result.Channel, msg.result.Submission.Subject()))

	case reloadMsg:
		if msg.err != nil {
			return m, status(ui.StyleError, "Reload failed, keeping current catalog: "+msg.err.Error())
		}
		m.refresh()
		cmds = append(cmds, status(ui.StyleSuccess, fmt.Sprintf("Catalog reloaded (%d materials)", len(m.materials))))
		if sel, ok := m.selectedMaterial(); ok {
			cmds = append(cmds, m.loadPreview(sel))
		}
		return m, tea.Batch(cmds...)

	case previewLoadedMsg:
		m.preview.content = msg.content
		m.preview.product = msg.product
		m.preview.viewport.SetContent(msg.content)
		m.preview.viewport.GotoTop()
		return m, nil
	}

	if m.mode == modeList || m.mode == modeSearch {
		var cmd tea.Cmd
		m.preview.viewport, cmd = m.preview.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			return m, m.previewSelected()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.itemCount()-1 {
			m.cursor++
			m.adjustViewport()
			return m, m.previewSelected()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		return m, m.previewSelected()

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(m.itemCount()-1, 0)
		m.adjustViewport()
		return m, m.previewSelected()

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.PageUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.PageDown()

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.tab + 1) % dashboardTab(len(tabNames)))
		return m, m.previewSelected()

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.tab + dashboardTab(len(tabNames)) - 1) % dashboardTab(len(tabNames)))
		return m, m.previewSelected()

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '4':
		m.switchTab(dashboardTab(msg.Runes[0] - '1'))
		return m, m.previewSelected()

	case key.Matches(msg, m.keys.Search):
		input := m.activeInput()
		if input == nil {
			return m, nil
		}
		m.mode = modeSearch
		input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Color):
		m.colorIdx = cycle(m.colorIdx, len(m.options.Colors))
		m.facets.Colors = pick(m.options.Colors, m.colorIdx)
		return m.afterFilterChange()

	case key.Matches(msg, m.keys.Maker):
		m.mfrIdx = cycle(m.mfrIdx, len(m.options.Manufacturers))
		m.facets.Manufacturers = pick(m.options.Manufacturers, m.mfrIdx)
		return m.afterFilterChange()

	case key.Matches(msg, m.keys.Cert):
		m.certIdx = cycle(m.certIdx, len(m.options.Certifications))
		m.facets.Certifications = pick(m.options.Certifications, m.certIdx)
		return m.afterFilterChange()

	case key.Matches(msg, m.keys.ValidOnly):
		m.facets.ValidOnly = !m.facets.ValidOnly
		return m.afterFilterChange()

	case key.Matches(msg, m.keys.Clear):
		m.colorIdx, m.mfrIdx, m.certIdx = -1, -1, -1
		m.facets = domain.Facets{ValidOnly: m.facets.ValidOnly}
		return m.afterFilterChange()

	case key.Matches(msg, m.keys.Request):
		if sel, ok := m.selectedMaterial(); ok {
			m.openForm(domain.KindCertificationRequest, sel.Product)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Contact):
		m.openForm(domain.KindContact, "")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reload):
		if m.deps.Reload != nil {
			return m, m.reload()
		}

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	input := m.activeInput()
	if input == nil {
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		input.Blur()
		input.SetValue("")
		return m.afterFilterChange()

	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		input.Blur()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			return m, m.previewSelected()
		}

	case msg.Type == tea.KeyDown:
		if m.cursor < m.itemCount()-1 {
			m.cursor++
			m.adjustViewport()
			return m, m.previewSelected()
		}

	default:
		oldQuery := input.Value()
		*input, cmd = input.Update(msg)
		if input.Value() != oldQuery {
			m.refresh()
			return m, tea.Batch(cmd, m.previewSelected())
		}
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.FocusNext):
		m.form.focus = (m.form.focus + 1) % 3
		return m, m.form.applyFocus()

	case key.Matches(msg, m.keys.FocusPrev):
		m.form.focus = (m.form.focus + 2) % 3
		return m, m.form.applyFocus()

	case msg.Type == tea.KeyEnter && m.form.focus < 2:
		m.form.focus++
		return m, m.form.applyFocus()
	}

	var cmd tea.Cmd
	switch m.form.focus {
	case 0:
		m.form.name, cmd = m.form.name.Update(msg)
	case 1:
		m.form.email, cmd = m.form.email.Update(msg)
	default:
		m.form.message, cmd = m.form.message.Update(msg)
	}
	return m, cmd
}

// submitForm validates synchronously and hands delivery to the request
// service; the result arrives later as a submitResultMsg
func (m dashboardModel) submitForm() (tea.Model, tea.Cmd) {
	if m.deps.Requests == nil {
		m.form.err = "no notification channel configured"
		return m, nil
	}

	sub := domain.Submission{
		Kind:           m.form.kind,
		Product:        m.form.product,
		RequesterName:  m.form.name.Value(),
		RequesterEmail: m.form.email.Value(),
		Message:        m.form.message.Value(),
	}

	results, err := m.deps.Requests.Submit(m.ctx, sub)
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	m.mode = modeList
	m.pending++
	return m, tea.Batch(
		status(ui.StyleInfo, fmt.Sprintf("%s Sending via %s...", ui.IconMail, m.deps.Requests.Channel())),
		waitForResult(results),
	)
}

func (m *dashboardModel) openForm(kind domain.SubmissionKind, product string) {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 120
	name.SetValue(m.deps.RequesterName)

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.SetValue(m.deps.RequesterEmail)

	message := textarea.New()
	message.Placeholder = "Message"
	message.CharLimit = domain.MaxMessageLength
	message.SetWidth(max(m.width/2, 30))
	message.SetHeight(5)
	if kind == domain.KindCertificationRequest {
		message.SetValue(domain.DefaultRequestMessage(product))
	}

	m.form = submissionForm{
		kind:    kind,
		product: product,
		name:    name,
		email:   email,
		message: message,
	}
	if m.deps.RequesterEmail != "" {
		m.form.focus = 2
	}
	m.form.applyFocus()
	m.mode = modeForm
}

func (f *submissionForm) applyFocus() tea.Cmd {
	f.name.Blur()
	f.email.Blur()
	f.message.Blur()
	switch f.focus {
	case 0:
		return f.name.Focus()
	case 1:
		return f.email.Focus()
	default:
		return f.message.Focus()
	}
}

func (m *dashboardModel) switchTab(tab dashboardTab) {
	m.tab = tab
	m.cursor = 0
	m.offset = 0
}

func (m dashboardModel) afterFilterChange() (tea.Model, tea.Cmd) {
	m.refresh()
	return m, m.previewSelected()
}

// refresh recomputes every view from the current snapshot, query and facets
func (m *dashboardModel) refresh() {
	cat := m.deps.Catalog.Snapshot()

	m.options = services.FacetOptionsOf(cat)
	m.materials = services.Filter(cat, m.searchInput.Value(), m.facets, m.deps.Today)
	m.manufacturers = services.Manufacturers(cat, m.deps.Websites)
	m.links = services.SearchCertifications(services.CertificationLinks(cat), m.certInput.Value())

	if m.cursor >= m.itemCount() {
		m.cursor = m.itemCount() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
}

func (m dashboardModel) itemCount() int {
	switch m.tab {
	case tabMaterials:
		return len(m.materials)
	case tabManufacturers:
		return len(m.manufacturers)
	case tabCertifications:
		return len(m.links)
	default:
		return 0
	}
}

func (m dashboardModel) selectedMaterial() (domain.Material, bool) {
	if m.tab != tabMaterials || m.cursor >= len(m.materials) {
		return domain.Material{}, false
	}
	return m.materials[m.cursor], true
}

func (m dashboardModel) previewSelected() tea.Cmd {
	if sel, ok := m.selectedMaterial(); ok {
		return m.loadPreview(sel)
	}
	return nil
}

func (m *dashboardModel) adjustViewport() {
	listHeight := m.listHeight()

	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m dashboardModel) listHeight() int {
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

// activeInput returns the search input of the current tab, nil when the tab has none
func (m *dashboardModel) activeInput() *textinput.Model {
	switch m.tab {
	case tabMaterials:
		return &m.searchInput
	case tabCertifications:
		return &m.certInput
	default:
		return nil
	}
}

// cycle advances a facet selection: none, first, ..., last, none
func cycle(idx, n int) int {
	if n == 0 || idx+1 >= n {
		return -1
	}
	return idx + 1
}

func pick(values []string, idx int) []string {
	if idx < 0 || idx >= len(values) {
		return nil
	}
	return []string{values[idx]}
}

// Views

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	switch m.mode {
	case modeHelp:
		return m.viewHelp()
	case modeForm:
		return m.viewForm()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")
	if m.activeInput() != nil {
		s.WriteString(m.renderSearchBar())
		s.WriteString("\n")
	}
	if m.tab == tabMaterials {
		s.WriteString(m.renderFacets())
		s.WriteString("\n\n")
	}

	switch m.tab {
	case tabMaterials:
		s.WriteString(m.viewMaterials())
	case tabManufacturers:
		s.WriteString(m.viewManufacturers())
	case tabCertifications:
		s.WriteString(m.viewCertifications())
	case tabFAQ:
		s.WriteString(renderFAQ())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	title := ui.FormatPill("DATAWORLD") + " " + ui.StyleSubtle.Render(tagline)

	stats := ui.StyleMuted.Render(fmt.Sprintf("%d results", len(m.materials)))
	if m.pending > 0 {
		stats = ui.StyleWarning.Render(fmt.Sprintf("%d sending", m.pending)) + "  " + stats
	}

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 1 {
		spacer = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m dashboardModel) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Underline(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(ui.ColorMuted).Padding(0, 1)

	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if dashboardTab(i) == m.tab {
			parts[i] = active.Render(label)
		} else {
			parts[i] = inactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m dashboardModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(m.width-4, 20))

	prompt := ui.StyleMuted.Render("🔍 ")
	if m.mode == modeSearch {
		prompt = ui.StylePrimary.Render("🔍 ")
	}

	input := m.activeInput()
	content := prompt + input.View()
	if m.mode != modeSearch && input.Value() == "" {
		content = prompt + ui.StyleMuted.Render("Press / to search...")
	}
	return searchStyle.Render(content)
}

func (m dashboardModel) renderFacets() string {
	label := func(name string, values []string) string {
		if len(values) == 0 {
			return ui.StyleMuted.Render(name + ": any")
		}
		return ui.StyleAccent.Render(name + ": " + strings.Join(values, ", "))
	}

	valid := ui.StyleMuted.Render("[ ] valid only")
	if m.facets.ValidOnly {
		valid = ui.StyleSuccess.Render("[✔] valid only (" + m.deps.Today.Format(domain.DateLayout) + ")")
	}

	return strings.Join([]string{
		label("Color", m.facets.Colors),
		label("Manufacturer", m.facets.Manufacturers),
		label("Certification", m.facets.Certifications),
		valid,
	}, "   ")
}

func (m dashboardModel) viewMaterials() string {
	if len(m.materials) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1, 2).
			Render("No materials match. Press C to clear filters or v to include expired ones.")
	}

	listWidth := int(float64(m.width) * 0.4)
	if listWidth < 30 {
		listWidth = 30
	}
	previewWidth := m.width - listWidth - 2

	listContent := m.renderMaterialList(listWidth)
	if previewWidth < 40 {
		return listContent
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, listContent, "  ", m.renderPreview(previewWidth))
}

func (m dashboardModel) renderMaterialList(width int) string {
	var s strings.Builder

	end := min(m.offset+m.listHeight(), len(m.materials))
	for i := m.offset; i < end; i++ {
		mat := m.materials[i]
		cursor := "  "
		titleStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
		if i == m.cursor {
			cursor = ui.StylePrimary.Render("▶ ")
			titleStyle = ui.StylePrimary.Bold(true)
		}

		date := ui.StyleMuted.Render(mat.GetDisplayDate())
		if !mat.IsValidOn(m.deps.Today) {
			date = ui.StyleError.Render(mat.GetDisplayDate())
		}

		title := ui.Truncate(mat.Product, max(width-15, 10))
		line := cursor + titleStyle.Render(title) + " " + date
		s.WriteString(padRight(line, width))
		s.WriteString("\n")
	}
	return s.String()
}

func (m dashboardModel) renderPreview(width int) string {
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(width - 2)

	sel, ok := m.selectedMaterial()
	if !ok || m.preview.product != sel.Product {
		return borderStyle.Render(lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1).Render("Loading preview..."))
	}

	var s strings.Builder
	s.WriteString(ui.StyleHeader.Render(sel.Product))
	s.WriteString("\n")
	s.WriteString(ui.FormatBadges(sel.Color, sel.LicenseISO))
	s.WriteString("  ")
	s.WriteString(ui.FormatValidity(sel.IsValidOn(m.deps.Today)))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("Press r to request the certificate"))
	s.WriteString("\n\n")
	s.WriteString(m.preview.viewport.View())

	return borderStyle.Render(s.String())
}

func (m dashboardModel) viewManufacturers() string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Manufacturer", Width: 20},
		{Header: "Website", MaxWidth: 40},
		{Header: "Materials", Align: "right"},
	})
	for _, mf := range m.manufacturers {
		name := mf.Name
		if mf.Flagged {
			name += " " + ui.IconWarning
		}
		table.AddRow([]string{name, mf.Website, strconv.Itoa(mf.Materials)})
	}
	return highlightRow(table.Render(), m.cursor)
}

func (m dashboardModel) viewCertifications() string {
	if len(m.links) == 0 {
		return ui.StyleMuted.Render("  No certifications match your search.")
	}
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Certification", Width: 14},
		{Header: "Product", MaxWidth: 32},
		{Header: "Manufacturer", MaxWidth: 28},
	})
	for _, l := range m.links {
		table.AddRow([]string{l.Certification, l.Product, l.Manufacturer})
	}
	return highlightRow(table.Render(), m.cursor)
}

// highlightRow marks the cursor row of a rendered table
func highlightRow(rendered string, cursor int) string {
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	row := cursor + 2 // header and separator
	for i := range lines {
		if i == row {
			lines[i] = ui.StylePrimary.Render("▶ ") + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m dashboardModel) viewForm() string {
	title := "Request certification: " + m.form.product
	if m.form.kind == domain.KindContact {
		title = "Contact AM Hub"
	}

	label := func(i int, name string) string {
		if m.form.focus == i {
			return ui.StylePrimary.Render("▶ " + name)
		}
		return ui.StyleMuted.Render("  " + name)
	}

	var s strings.Builder
	s.WriteString(ui.StyleHeader.Render(ui.IconMail + " " + title))
	s.WriteString("\n\n")
	s.WriteString(label(0, "Name"))
	s.WriteString("\n  ")
	s.WriteString(m.form.name.View())
	s.WriteString("\n\n")
	s.WriteString(label(1, "Email"))
	s.WriteString("\n  ")
	s.WriteString(m.form.email.View())
	s.WriteString("\n\n")
	s.WriteString(label(2, "Message"))
	s.WriteString("\n")
	s.WriteString(m.form.message.View())
	s.WriteString("\n\n")
	if m.form.err != "" {
		s.WriteString(ui.FormatError(m.form.err))
		s.WriteString("\n\n")
	}
	s.WriteString(ui.StyleMuted.Render("[tab] Next field  [ctrl+s] Send  [esc] Cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Render(s.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m dashboardModel) viewHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(1, 2)

	var s strings.Builder
	s.WriteString(titleStyle.Render("DATAWORLD Dashboard - Keyboard Shortcuts"))
	s.WriteString("\n\n")
	s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to dashboard"))
	s.WriteString("\n")
	return s.String()
}

func (m dashboardModel) renderFooter() string {
	statusLine := ui.StyleMuted.Render("Ready")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, m.help.ShortHelpView(m.keys.ShortHelp())))
}

func padRight(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type previewLoadedMsg struct {
	product string
	content string
}

type submitResultMsg struct {
	result services.SubmitResult
}

type reloadMsg struct {
	err error
}

func status(style lipgloss.Style, message string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

func clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// waitForResult blocks on the delivery result outside the update loop
func waitForResult(results <-chan services.SubmitResult) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{result: <-results}
	}
}

func (m dashboardModel) reload() tea.Cmd {
	reload := m.deps.Reload
	ctx := m.ctx
	return func() tea.Msg {
		return reloadMsg{err: reload(ctx)}
	}
}

func (m dashboardModel) loadPreview(mat domain.Material) tea.Cmd {
	return func() tea.Msg {
		return previewLoadedMsg{
			product: mat.Product,
			content: highlightYAML(materialYAML(mat)),
		}
	}
}

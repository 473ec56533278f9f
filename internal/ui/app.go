package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/filter"
	"github.com/abelbrown/arcade/internal/otel"
	"github.com/abelbrown/arcade/internal/prefs"
	"github.com/abelbrown/arcade/internal/ranking"
	"github.com/abelbrown/arcade/internal/session"
)

// defaultTimeout bounds one gateway round trip issued by the UI.
const defaultTimeout = 15 * time.Second

// ratingStep is the +/- increment of the minimum rating filter.
const ratingStep = 0.5

// mode is which component has keyboard focus.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeTitle
	modeFacets
	modeQuick
)

// ViewMode selects how results are laid out.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ParseViewMode returns the view mode named s.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewList, ViewGrid:
		return ViewMode(s), true
	}
	return ViewList, false
}

// ObsConfig wires observability into the App.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer // backs the debug overlay; nil disables it
}

// AppConfig holds the collaborators and settings for an App.
type AppConfig struct {
	Gateway    session.Gateway
	Prefs      prefs.Store // nil disables persistence
	PageSize   int
	QuickLimit int
	Debounce   time.Duration
	Timeout    time.Duration // per gateway request
	View       ViewMode
	Query      string // submitted on Init when non-empty
	Obs        ObsConfig
}

// App is the root Bubble Tea model.
// App never calls the gateway from Update: fetches run as tea.Cmds and
// their results come back as messages stamped with a session token.
type App struct {
	gw       session.Gateway
	prefs    prefs.Store
	log      *otel.Logger
	ring     *otel.RingBuffer
	timeout  time.Duration
	debounce time.Duration
	initial  string

	ctrl  *session.Controller
	quick *session.Quick

	keys      keyMap
	panelKeys panelKeys
	help      help.Model
	search    textinput.Model
	title     textinput.Model
	quickIn   textinput.Model
	spinner   spinner.Model

	mode         mode
	view         ViewMode
	cursor       int
	facetCursor  int
	quickCursor  int
	err          error
	width        int
	height       int
	ready        bool
	debugVisible bool

	// Set once the user picks a sort or view, so late prefs don't override it.
	sortChosen bool
	viewChosen bool
}

// NewApp creates the root model.
func NewApp(cfg AppConfig) App {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = session.DefaultDebounce
	}
	view, ok := ParseViewMode(string(cfg.View))
	if !ok {
		view = ViewList
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return App{
		gw:        cfg.Gateway,
		prefs:     cfg.Prefs,
		log:       cfg.Obs.Logger,
		ring:      cfg.Obs.Ring,
		timeout:   cfg.Timeout,
		debounce:  cfg.Debounce,
		initial:   strings.TrimSpace(cfg.Query),
		ctrl:      session.NewController(cfg.PageSize, cfg.Obs.Logger),
		quick:     session.NewQuick(cfg.QuickLimit, cfg.Obs.Logger),
		keys:      defaultKeyMap(),
		panelKeys: defaultPanelKeys(),
		help:      help.New(),
		search:    newInput("/ ", "search games...", 128),
		title:     newInput("title: ", "substring", 64),
		quickIn:   newInput("> ", "jump to a game...", 64),
		spinner:   s,
		view:      view,
	}
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.PromptStyle = FilterBarPrompt
	ti.CharLimit = limit
	return ti
}

// Init loads preferences and submits the initial query, if any.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{loadPrefsCmd(a.prefs)}
	if a.initial != "" {
		cmds = append(cmds, a.startCmd(a.ctrl.Submit(a.initial)), a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.log.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui",
			Msg: fmt.Sprintf("%T", msg),
		})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.search.Width = max(msg.Width-12, 10)
		a.title.Width = max(msg.Width-16, 10)
		a.quickIn.Width = max(min(msg.Width, 72)-10, 10)
		return a, nil

	case StartLoaded:
		if a.ctrl.CommitStart(msg.Result) {
			a.cursor = 0
		}
		return a, nil

	case PageLoaded:
		if !a.ctrl.CommitPage(msg.Result) {
			return a, nil
		}
		if msg.Result.Err != nil {
			a.err = msg.Result.Err
		}
		a.clampCursor()
		return a, nil

	case QuickTick:
		req, ok := a.quick.Fire(msg.Token)
		if !ok {
			a.clampQuickCursor()
			return a, nil
		}
		return a, a.quickCmd(req)

	case QuickLoaded:
		if a.quick.Commit(msg.Result) {
			a.clampQuickCursor()
		}
		return a, nil

	case PrefsLoaded:
		a.applyPrefs(msg)
		return a, nil

	case PrefSaved:
		if msg.Err != nil {
			a.log.Emit(otel.Event{
				Level: otel.LevelWarn, Kind: otel.KindPrefsError, Comp: "ui",
				Msg: "save " + msg.Key, Err: msg.Err.Error(),
			})
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Cursor blinks and other input internals go to the focused input.
	return a.updateInput(msg)
}

func (a App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.mode {
	case modeSearch:
		a.search, cmd = a.search.Update(msg)
	case modeTitle:
		a.title, cmd = a.title.Update(msg)
	case modeQuick:
		a.quickIn, cmd = a.quickIn.Update(msg)
	}
	return a, cmd
}

func (a *App) applyPrefs(msg PrefsLoaded) {
	if msg.Err != nil {
		a.log.Emit(otel.Event{
			Level: otel.LevelWarn, Kind: otel.KindPrefsError, Comp: "ui",
			Msg: "load", Err: msg.Err.Error(),
		})
	}
	if msg.Sort != "" && !a.sortChosen {
		if k, ok := ranking.ParseKey(msg.Sort); ok {
			a.ctrl.SetSort(k)
		}
	}
	if v, ok := ParseViewMode(msg.View); ok && !a.viewChosen {
		a.view = v
	}
}

// handleKey processes keyboard input for the focused component.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}
	a.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})

	if a.debugVisible {
		if key.Matches(msg, a.keys.Debug) || msg.String() == "esc" {
			a.debugVisible = false
		}
		return a, nil
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeTitle:
		return a.handleTitleKey(msg)
	case modeFacets:
		return a.handlePanelKey(msg)
	case modeQuick:
		return a.handleQuickKey(msg)
	}
	return a.handleBrowseKey(msg)
}

func (a App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the error bar.
	a.err = nil

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		a.search.SetValue(a.ctrl.Query())
		a.search.CursorEnd()
		return a, a.search.Focus()

	case key.Matches(msg, a.keys.Quick):
		a.mode = modeQuick
		a.quick.Reset()
		a.quickIn.SetValue("")
		a.quickCursor = 0
		return a, a.quickIn.Focus()

	case key.Matches(msg, a.keys.Category):
		req, ok := a.ctrl.SetCategory(a.ctrl.Category().Next())
		if !ok {
			return a, nil
		}
		a.cursor = 0
		return a, tea.Batch(a.startCmd(req), a.spinner.Tick)

	case key.Matches(msg, a.keys.Sort):
		next := a.ctrl.Sort().Next()
		a.ctrl.SetSort(next)
		a.sortChosen = true
		a.cursor = 0
		return a, savePrefCmd(a.prefs, prefs.KeySort, string(next))

	case key.Matches(msg, a.keys.View):
		if a.view == ViewGrid {
			a.view = ViewList
		} else {
			a.view = ViewGrid
		}
		a.viewChosen = true
		return a, savePrefCmd(a.prefs, prefs.KeyView, string(a.view))

	case key.Matches(msg, a.keys.RatingUp):
		a.ctrl.SetMinRating(a.ctrl.Filters().MinRating + ratingStep)
		a.clampCursor()
		return a, nil

	case key.Matches(msg, a.keys.RatingDown):
		a.ctrl.SetMinRating(a.ctrl.Filters().MinRating - ratingStep)
		a.clampCursor()
		return a, nil

	case key.Matches(msg, a.keys.Title):
		a.mode = modeTitle
		a.title.SetValue(a.ctrl.Filters().Title)
		a.title.CursorEnd()
		return a, a.title.Focus()

	case key.Matches(msg, a.keys.Facets):
		a.mode = modeFacets
		a.clampFacetCursor()
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		a.ctrl.ClearFilters()
		a.clampCursor()
		return a, nil

	case key.Matches(msg, a.keys.More):
		return a, a.loadMore()

	case key.Matches(msg, a.keys.Up):
		return a.moveCursor(-a.rowStride())
	case key.Matches(msg, a.keys.Down):
		return a.moveCursor(a.rowStride())
	case key.Matches(msg, a.keys.Left):
		if a.view == ViewGrid {
			return a.moveCursor(-1)
		}
		return a, nil
	case key.Matches(msg, a.keys.Right):
		if a.view == ViewGrid {
			return a.moveCursor(1)
		}
		return a, nil
	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		return a, nil
	case key.Matches(msg, a.keys.Bottom):
		return a.moveCursor(len(a.ctrl.View()))
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.mode = modeBrowse
		a.search.Blur()
		return a, a.submit(a.search.Value())
	case "esc":
		a.mode = modeBrowse
		a.search.Blur()
		a.search.SetValue(a.ctrl.Query())
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

func (a App) handleTitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.mode = modeBrowse
		a.title.Blur()
		a.ctrl.SetTitle(strings.TrimSpace(a.title.Value()))
		a.clampCursor()
		return a, nil
	case "esc":
		a.mode = modeBrowse
		a.title.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.title, cmd = a.title.Update(msg)
	return a, cmd
}

func (a App) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := facetRows(a.ctrl.Facets(), a.ctrl.Filters())
	switch {
	case key.Matches(msg, a.panelKeys.Close):
		a.mode = modeBrowse
	case key.Matches(msg, a.panelKeys.Up):
		if a.facetCursor > 0 {
			a.facetCursor--
		}
	case key.Matches(msg, a.panelKeys.Down):
		if a.facetCursor < len(rows)-1 {
			a.facetCursor++
		}
	case key.Matches(msg, a.panelKeys.Toggle):
		if a.facetCursor < len(rows) {
			row := rows[a.facetCursor]
			a.ctrl.ToggleFacet(row.facet, row.value)
			a.clampCursor()
		}
	case key.Matches(msg, a.panelKeys.Clear):
		a.ctrl.ClearFilters()
		a.clampCursor()
		a.clampFacetCursor()
	}
	return a, nil
}

func (a App) handleQuickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := a.quick.Results()
	switch msg.String() {
	case "esc", "ctrl+k":
		a.mode = modeBrowse
		a.quickIn.Blur()
		a.quick.Reset()
		return a, nil
	case "up", "ctrl+p":
		if a.quickCursor > 0 {
			a.quickCursor--
		}
		return a, nil
	case "down", "ctrl+n":
		if a.quickCursor < len(results)-1 {
			a.quickCursor++
		}
		return a, nil
	case "enter":
		text := strings.TrimSpace(a.quickIn.Value())
		if a.quickCursor < len(results) {
			text = results[a.quickCursor].Name
		}
		a.mode = modeBrowse
		a.quickIn.Blur()
		a.quick.Reset()
		if text == "" {
			return a, nil
		}
		a.search.SetValue(text)
		return a, a.submit(text)
	}

	before := a.quickIn.Value()
	var cmd tea.Cmd
	a.quickIn, cmd = a.quickIn.Update(msg)
	if a.quickIn.Value() == before {
		return a, cmd
	}
	tok := a.quick.Input(a.quickIn.Value())
	a.quickCursor = 0
	return a, tea.Batch(cmd, a.debounceCmd(tok))
}

// submit starts a new session for query.
func (a *App) submit(query string) tea.Cmd {
	req := a.ctrl.Submit(query)
	a.cursor = 0
	return tea.Batch(a.startCmd(req), a.spinner.Tick)
}

// loadMore requests the next page when the controller allows it.
func (a *App) loadMore() tea.Cmd {
	req, ok := a.ctrl.LoadMore()
	if !ok {
		return nil
	}
	return tea.Batch(a.pageCmd(req), a.spinner.Tick)
}

// moveCursor moves by delta within the view. Reaching the last item loads
// the next page.
func (a App) moveCursor(delta int) (tea.Model, tea.Cmd) {
	n := len(a.ctrl.View())
	if n == 0 {
		a.cursor = 0
		return a, nil
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
	if a.cursor == n-1 && delta > 0 {
		return a, a.loadMore()
	}
	return a, nil
}

// rowStride is how far up/down moves: one item in list view, one row of
// cards in grid view.
func (a App) rowStride() int {
	if a.view == ViewGrid {
		return gridColumns(a.width)
	}
	return 1
}

func (a App) busy() bool {
	switch a.ctrl.State() {
	case session.StateLoading, session.StateLoadingMore:
		return true
	}
	return false
}

func (a *App) clampCursor() {
	n := len(a.ctrl.View())
	a.cursor = min(a.cursor, max(n-1, 0))
}

func (a *App) clampFacetCursor() {
	n := len(facetRows(a.ctrl.Facets(), a.ctrl.Filters()))
	a.facetCursor = min(a.facetCursor, max(n-1, 0))
}

func (a *App) clampQuickCursor() {
	n := len(a.quick.Results())
	a.quickCursor = min(a.quickCursor, max(n-1, 0))
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible && a.ring != nil {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	header := a.renderHeader()
	status := a.ctrl.Status()

	var footer []string
	if a.err != nil {
		footer = append(footer, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss, m to retry)"))
	}
	footer = append(footer, renderStatusBar(status, a.spinner.View(), a.width))
	if a.mode == modeFacets {
		footer = append(footer, a.help.View(a.panelKeys))
	} else {
		footer = append(footer, a.help.View(a.keys))
	}
	foot := lipgloss.JoinVertical(lipgloss.Left, footer...)

	bodyHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(foot), 1)
	body := a.renderBody(status, bodyHeight)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, foot)
}

func (a App) renderHeader() string {
	switch a.mode {
	case modeSearch:
		return FilterBar.Width(a.width).Render(a.search.View())
	case modeTitle:
		return FilterBar.Width(a.width).Render(a.title.View())
	}

	parts := []string{
		HeaderTitle.Render("ARCADE"),
		CategoryPill.Render(string(a.ctrl.Category())),
	}
	if q := a.ctrl.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("%q", q))
	}
	f := a.ctrl.Filters()
	if f.MinRating > 0 {
		parts = append(parts, fmt.Sprintf("★ ≥ %.1f", f.MinRating))
	}
	if f.Title != "" {
		parts = append(parts, fmt.Sprintf("title ~ %q", f.Title))
	}
	return Header.Width(a.width).Render(strings.Join(parts, "  "))
}

func (a App) renderBody(status session.Status, height int) string {
	if a.mode == modeQuick {
		return a.renderQuick(height)
	}

	width := a.width
	var panel string
	if a.mode == modeFacets {
		panel = renderFacetPanel(a.ctrl.Facets(), a.ctrl.Filters(), a.facetCursor, panelWidth, height)
		width = max(a.width-lipgloss.Width(panel), 20)
	}

	items := a.ctrl.View()
	var results string
	switch {
	case status.State == session.StateLoading:
		results = HelpStyle.Render(a.spinner.View() + " Searching...")
	case len(items) == 0:
		results = HelpStyle.Render(emptyMessage(status, a.ctrl.Empty()))
	case a.view == ViewGrid:
		results = renderGrid(items, a.cursor, width, height)
	default:
		results = renderList(items, a.cursor, width, height)
	}

	if panel == "" {
		return results
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panel, results)
}

func (a App) renderQuick(height int) string {
	w := min(a.width, 72)
	return renderQuickOverlay(a.quickIn.View(), a.quick.Text(), a.quick.Results(), a.quickCursor, w, height)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the visible items (for testing).
func (a App) Items() []catalog.Item {
	return a.ctrl.View()
}

// Status returns the session status (for testing).
func (a App) Status() session.Status {
	return a.ctrl.Status()
}

// Filters returns the active filters (for testing).
func (a App) Filters() filter.Filters {
	return a.ctrl.Filters()
}

// Layout returns the current view mode.
func (a App) Layout() ViewMode {
	return a.view
}

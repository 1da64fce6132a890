package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/entities"
	"github.com/mmcdole/instrumenta/internal/instruments"
	"github.com/mmcdole/instrumenta/internal/notify"
	"github.com/mmcdole/instrumenta/internal/prefs"
	"github.com/mmcdole/instrumenta/internal/query"
	"github.com/mmcdole/instrumenta/internal/search"
	"github.com/mmcdole/instrumenta/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateDetail
	StateInspector
	StateConfirmDelete
)

const (
	toastLifetime = 4 * time.Second
	tickInterval  = 500 * time.Millisecond
)

// pageSizes are cycled by the page size key.
var pageSizes = []int{10, 20, 50}

// Options wires the browser to the data layer.
type Options struct {
	Instruments *instruments.Service
	Entities    *entities.Service
	Cache       *query.Cache
	Toasts      *notify.Queue
	Prefs       prefs.Prefs
	PrefsPath   string
	DevTools    bool
	Title       string
	Logger      *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	// Services
	instruments *instruments.Service
	entities    *entities.Service
	cache       *query.Cache
	toasts      *notify.Queue
	logger      *slog.Logger

	paginator *instruments.Paginator
	session   *instruments.SearchSession
	applied   chan string

	// UI Components
	SearchInput textinput.Model

	// Data
	Items     []domain.Instrument
	Matches   []search.Match
	Detail    *domain.InstrumentWithRelations
	Reference entities.Snapshot
	Toasts    []notify.Toast

	// UI state
	Cursor      int
	Width       int
	Height      int
	Loading     bool
	StatusMsg   string
	StatusIsErr bool

	title     string
	devTools  bool
	prefs     prefs.Prefs
	prefsPath string
	now       func() time.Time
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title := opts.Title
	if title == "" {
		title = "Instrumenta"
	}
	p := opts.Prefs
	if p.PageSize <= 0 {
		p = prefs.Defaults()
	}

	ti := textinput.New()
	ti.Placeholder = "Search instruments..."
	ti.CharLimit = 80
	ti.Prompt = styles.FilterPromptStyle.Render("/ ")
	ti.PlaceholderStyle = styles.DimStyle
	ti.SetValue(p.LastSearch)

	// Buffered so the debouncer never blocks on a busy UI; only the
	// latest term matters.
	applied := make(chan string, 1)
	session := instruments.NewSearchSession(opts.Instruments.Queries, nil, func(term string) {
		select {
		case <-applied:
		default:
		}
		applied <- term
	})

	paginator := instruments.NewPaginator(opts.Instruments.Queries, p.PageSize)
	if p.LastSearch != "" || p.Family != "" {
		filters := domain.SearchFilters{Family: p.Family}
		session.SetFilters(filters)
		paginator.SetQuery(p.LastSearch, filters)
		if p.LastSearch != "" {
			session.SetTerm(p.LastSearch)
		}
	}

	return Model{
		State:       StateBrowsing,
		instruments: opts.Instruments,
		entities:    opts.Entities,
		cache:       opts.Cache,
		toasts:      opts.Toasts,
		logger:      logger,
		paginator:   paginator,
		session:     session,
		applied:     applied,
		SearchInput: ti,
		Loading:     true,
		title:       title,
		devTools:    opts.DevTools,
		prefs:       p,
		prefsPath:   opts.PrefsPath,
		now:         time.Now,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadPageCmd(m.paginator),
		LoadReferenceCmd(m.entities),
		WaitForSearchCmd(m.applied),
		WaitForToastsCmd(m.toasts),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PageLoadedMsg:
		// A page for options we have since moved away from is ignored.
		if msg.Options != m.paginator.Options() {
			return m, nil
		}
		m.Loading = false
		m.Items = msg.Page.Items()
		m.refilter()
		return m, nil

	case DetailLoadedMsg:
		if m.State == StateDetail {
			detail := msg.Detail
			m.Detail = &detail
		}
		return m, nil

	case ReferenceLoadedMsg:
		m.Reference = msg.Snapshot
		return m, nil

	case RefetchedMsg:
		return m, LoadReferenceCmd(m.entities)

	case SearchAppliedMsg:
		m.paginator.SetQuery(msg.Term, m.session.Filters())
		m.prefs.LastSearch = msg.Term
		m.Loading = true
		return m, tea.Batch(LoadPageCmd(m.paginator), WaitForSearchCmd(m.applied))

	case ToastsReadyMsg:
		m.Toasts = append(m.Toasts, m.toasts.Drain()...)
		return m, WaitForToastsCmd(m.toasts)

	case DeletedMsg:
		if m.State == StateDetail || m.State == StateConfirmDelete {
			m.State = StateBrowsing
			m.Detail = nil
		}
		m.Loading = true
		return m, LoadPageCmd(m.paginator)

	case TickMsg:
		m.expireToasts()
		return m, TickCmd(tickInterval)

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		m.logger.Debug("tui error", "context", msg.Context, "error", msg.Err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.State {
	case StateSearching:
		return m.handleSearchKey(msg)
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateDetail, StateInspector:
		if key.Matches(msg, Keys.Back) {
			m.State = StateBrowsing
			m.Detail = nil
			return m, nil
		}
		if m.State == StateDetail && key.Matches(msg, Keys.Delete) {
			m.State = StateConfirmDelete
			return m, nil
		}
		if key.Matches(msg, Keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()
	case key.Matches(msg, Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.Cursor < len(m.Matches)-1 {
			m.Cursor++
		}
	case key.Matches(msg, Keys.NextPage):
		if m.paginator.Next() {
			m.Loading = true
			return m, LoadPageCmd(m.paginator)
		}
	case key.Matches(msg, Keys.PrevPage):
		if m.paginator.Prev() {
			m.Loading = true
			return m, LoadPageCmd(m.paginator)
		}
	case key.Matches(msg, Keys.Enter):
		if it, ok := m.Selected(); ok {
			m.State = StateDetail
			m.Detail = nil
			return m, LoadDetailCmd(m.instruments, it.ID)
		}
	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		return m, m.SearchInput.Focus()
	case key.Matches(msg, Keys.ClearSearch):
		m.SearchInput.SetValue("")
		m.session.ClearFilters()
		m.prefs.Family = ""
		m.session.SetTerm("")
		m.refilter()
		m.paginator.SetQuery(m.session.DebouncedTerm(), m.session.Filters())
		m.Loading = true
		return m, LoadPageCmd(m.paginator)
	case key.Matches(msg, Keys.Delete):
		if _, ok := m.Selected(); ok {
			m.State = StateConfirmDelete
		}
	case key.Matches(msg, Keys.Refresh):
		m.instruments.Refresh()
		m.Loading = true
		return m, LoadPageCmd(m.paginator)
	case key.Matches(msg, Keys.RefreshAll):
		m.instruments.Refresh()
		m.Loading = true
		return m, tea.Batch(LoadPageCmd(m.paginator), RefetchReferenceCmd(m.entities))
	case key.Matches(msg, Keys.PageSize):
		m.prefs.PageSize = nextPageSize(m.prefs.PageSize)
		m.paginator.SetLimit(m.prefs.PageSize)
		if m.paginator.Page() > m.paginator.TotalPages() {
			m.paginator.GoToPage(m.paginator.TotalPages())
		}
		m.Loading = true
		return m, LoadPageCmd(m.paginator)
	case key.Matches(msg, Keys.Family):
		m.prefs.Family = nextFamily(m.Reference.Families, m.prefs.Family)
		m.session.UpdateFilter(func(f *domain.SearchFilters) { f.Family = m.prefs.Family })
		m.paginator.SetQuery(m.session.DebouncedTerm(), m.session.Filters())
		m.Loading = true
		return m, LoadPageCmd(m.paginator)
	case key.Matches(msg, Keys.Inspector):
		if m.devTools && m.cache != nil {
			m.State = StateInspector
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.State = StateBrowsing
		m.SearchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	m.session.SetTerm(strings.TrimSpace(m.SearchInput.Value()))
	// Narrow the current page locally while the debounced request is pending.
	m.refilter()
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		id := m.targetID()
		m.State = StateBrowsing
		if id <= 0 {
			return m, nil
		}
		return m, DeleteCmd(m.instruments, id)
	case key.Matches(msg, Keys.Deny):
		if m.Detail != nil {
			m.State = StateDetail
		} else {
			m.State = StateBrowsing
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Close()
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("failed to save preferences", "error", err)
		}
	}
	return m, tea.Quit
}

// Selected returns the instrument under the cursor.
func (m Model) Selected() (domain.Instrument, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Matches) {
		return domain.Instrument{}, false
	}
	return m.Matches[m.Cursor].Instrument, true
}

func (m Model) targetID() int64 {
	if m.Detail != nil {
		return m.Detail.Instrument.ID
	}
	if it, ok := m.Selected(); ok {
		return it.ID
	}
	return 0
}

// refilter narrows the loaded page by the typed term while its request
// is still debounced. Applied terms are already filtered by the server.
func (m *Model) refilter() {
	term := ""
	if m.session.IsSearching() {
		term = m.SearchInput.Value()
	}
	m.Matches = search.FilterInstruments(m.Items, term)
	if m.Cursor >= len(m.Matches) {
		m.Cursor = max(len(m.Matches)-1, 0)
	}
}

func (m *Model) expireToasts() {
	now := m.now()
	kept := m.Toasts[:0]
	for _, t := range m.Toasts {
		if now.Sub(t.At) < toastLifetime {
			kept = append(kept, t)
		}
	}
	m.Toasts = kept
}

func nextPageSize(current int) int {
	for i, size := range pageSizes {
		if size == current {
			return pageSizes[(i+1)%len(pageSizes)]
		}
	}
	return pageSizes[0]
}

// nextFamily cycles through the known families, then back to no filter.
func nextFamily(families []domain.Family, current string) string {
	for i, f := range families {
		if string(f.Name) == current {
			if i+1 < len(families) {
				return string(families[i+1].Name)
			}
			return ""
		}
	}
	if len(families) == 0 {
		return ""
	}
	return string(families[0].Name)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.State {
	case StateDetail:
		body = m.renderDetail()
	case StateInspector:
		body = m.renderInspector()
	case StateConfirmDelete:
		body = m.renderConfirm()
	default:
		body = m.renderList()
	}

	parts := []string{m.renderHeader(), body}
	if toasts := m.renderToasts(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

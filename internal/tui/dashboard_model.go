package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/restcountries"
)

// DatasetSource provides the session dataset. *loader.Session satisfies it.
type DatasetSource interface {
	Get(ctx context.Context) loader.Result
	Refresh(ctx context.Context) loader.Result
}

// InfoResolver provides country metadata. *restcountries.Resolver satisfies it.
type InfoResolver interface {
	Resolve(ctx context.Context, name string) (*restcountries.CountryInfo, bool)
}

// DatasetLoadedMsg carries a finished load into the model.
type DatasetLoadedMsg struct {
	Result loader.Result
}

// CountryInfoMsg carries a finished metadata lookup into the model.
type CountryInfoMsg struct {
	Country string
	Info    *restcountries.CountryInfo
	Found   bool
}

// countryItem adapts a country label to list.DefaultItem.
type countryItem string

func (c countryItem) Title() string       { return string(c) }
func (c countryItem) Description() string { return "" }
func (c countryItem) FilterValue() string { return string(c) }

// DashboardModel is the Bubble Tea model for the interactive dashboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type DashboardModel struct {
	ctx      context.Context
	source   DatasetSource
	resolver InfoResolver

	state   ViewState
	result  loader.Result
	spinner spinner.Model
	list    list.Model

	selected    string
	info        *restcountries.CountryInfo
	infoLoading bool

	width  int
	height int
}

// NewDashboardModel creates the dashboard. Loading starts in Init.
func NewDashboardModel(ctx context.Context, source DatasetSource, resolver InfoResolver) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HeaderStyle

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, listWidth, defaultHeight-borderPadding)
	l.Title = "Countries"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	return DashboardModel{
		ctx:      ctx,
		source:   source,
		resolver: resolver,
		state:    ViewStateLoading,
		spinner:  sp,
		list:     l,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init starts the spinner and the initial load (Bubble Tea interface).
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(false))
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(listWidth, max(msg.Height-borderPadding*2, minChartHeight))
		return m, nil

	case spinner.TickMsg:
		if m.state != ViewStateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DatasetLoadedMsg:
		return m.handleDatasetLoaded(msg)

	case CountryInfoMsg:
		if msg.Country == m.selected {
			m.infoLoading = false
			m.info = nil
			if msg.Found {
				m.info = msg.Info
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateList(msg)
}

func (m DashboardModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if m.list.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch msg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyRefresh:
		if m.state == ViewStateLoading {
			return m, nil
		}
		m.state = ViewStateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadCmd(true))
	}
	return m.updateList(msg)
}

func (m DashboardModel) handleDatasetLoaded(msg DatasetLoadedMsg) (tea.Model, tea.Cmd) {
	m.state = ViewStateReady
	m.result = msg.Result

	countries := msg.Result.Dataset.Countries()
	items := make([]list.Item, len(countries))
	for i, c := range countries {
		items[i] = countryItem(c)
	}
	setCmd := m.list.SetItems(items)

	if len(items) == 0 {
		m.selected = ""
		m.info = nil
		m.infoLoading = false
		return m, setCmd
	}

	keep := 0
	for i, c := range countries {
		if c == m.selected {
			keep = i
			break
		}
	}
	m.list.Select(keep)
	m.selected = ""
	m, cmd := m.syncSelection()
	return m, tea.Batch(setCmd, cmd)
}

func (m DashboardModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != ViewStateReady || m.SelectionDisabled() {
		return m, nil
	}
	var listCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	m, infoCmd := m.syncSelection()
	return m, tea.Batch(listCmd, infoCmd)
}

// syncSelection starts a metadata lookup when the highlighted country changed.
func (m DashboardModel) syncSelection() (DashboardModel, tea.Cmd) {
	item, ok := m.list.SelectedItem().(countryItem)
	if !ok || string(item) == m.selected {
		return m, nil
	}
	m.selected = string(item)
	m.info = nil
	m.infoLoading = true
	return m, m.resolveCmd(m.selected)
}

func (m DashboardModel) loadCmd(refresh bool) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		if refresh {
			return DatasetLoadedMsg{Result: source.Refresh(ctx)}
		}
		return DatasetLoadedMsg{Result: source.Get(ctx)}
	}
}

func (m DashboardModel) resolveCmd(country string) tea.Cmd {
	ctx, resolver := m.ctx, m.resolver
	return func() tea.Msg {
		if resolver == nil {
			return CountryInfoMsg{Country: country}
		}
		info, found := resolver.Resolve(ctx, country)
		return CountryInfoMsg{Country: country, Info: info, Found: found}
	}
}

// SelectionDisabled reports whether the country selector is unusable because
// the dataset is empty.
func (m DashboardModel) SelectionDisabled() bool {
	return m.result.Dataset.IsEmpty()
}

// Selected returns the highlighted country, or "" when none.
func (m DashboardModel) Selected() string {
	return m.selected
}

// Result returns the last load result.
func (m DashboardModel) Result() loader.Result {
	return m.result
}

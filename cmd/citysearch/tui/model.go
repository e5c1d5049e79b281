package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/ruminaider/citysearch/internal/logger"
	"github.com/ruminaider/citysearch/internal/widget"
)

// Screen rows of the search column.
const (
	inputRow = 1
	listTop  = 3
)

// Options configures the interactive search.
type Options struct {
	Widget      widget.Options
	Placeholder string
	Debounce    time.Duration
	Source      catalog.Source
	Locator     geolocate.Locator // nil disables locate-me
	Logger      *logger.Logger
}

// Model is the bubbletea adapter around a widget.Widget. It translates key
// and mouse events into widget calls and renders the widget's state next to
// a map panel that serves as the widget's viewport.
type Model struct {
	opts Options
	log  *logger.Logger

	w        *widget.Widget
	mapPanel *MapPanel

	input  textinput.Model
	list   Suggestions
	status StatusBar
	keys   keyMap

	width, height int
	quitting      bool

	// Result -- the last committed location, read by the caller after exit.
	selected *catalog.LocationRecord
}

// NewModel builds the model. The catalog is loaded by Init.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Source == nil {
		opts.Source = catalog.EmbeddedSource{}
	}
	if opts.Locator == nil {
		opts.Widget.LocateEnabled = false
	}

	mp := NewMapPanel()
	w := widget.New(opts.Widget, mp, log)

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = ListWidth - 6
	ti.Focus()

	keys := newKeyMap(opts.Widget.LocateEnabled)
	return Model{
		opts:     opts,
		log:      log,
		w:        w,
		mapPanel: mp,
		input:    ti,
		list:     NewSuggestions(),
		status:   NewStatusBar(keys.shortHelp()),
		keys:     keys,
	}
}

// Selected returns the last committed location.
func (m Model) Selected() (catalog.LocationRecord, bool) {
	if m.selected == nil {
		return catalog.LocationRecord{}, false
	}
	return *m.selected, true
}

// Init starts the catalog load and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, LoadCatalog(m.opts.Source, m.log))
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.distributeSize()
		return m, nil

	case CatalogLoadedMsg:
		m.w.AttachCatalog(msg.Catalog)
		m.mapPanel.SetPoints(msg.Catalog)
		m.status.SetCatalog(msg.Catalog.Len(), msg.Err)
		m.list.Sync(m.w.Snapshot())
		return m, nil

	case debounceMsg:
		if m.w.Settle(msg.token) {
			m.list.Reset()
			m.list.Sync(m.w.Snapshot())
		}
		return m, nil

	case LocateResultMsg:
		return m.handleLocateResult(msg), nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			m.w.ArrowDown()
			m.list.Sync(m.w.Snapshot())
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.w.ArrowUp()
			m.list.Sync(m.w.Snapshot())
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if r, ok := m.w.Enter(); ok {
				m.afterCommit(r)
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			// Esc on an empty box leaves.
			if msg.String() == "esc" && m.input.Value() == "" {
				m.quitting = true
				return m, tea.Quit
			}
			m.clear()
			return m, nil
		case key.Matches(msg, m.keys.Locate):
			m.status.SetNotice("locating…")
			return m, locate(m.opts.Locator)
		}
	}

	return m.updateInput(msg)
}

// updateInput forwards msg to the text input and starts a debounce window
// when the text changed.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	token := m.w.Input(m.input.Value())
	m.list.Reset()
	m.status.SetNotice("")
	if !m.w.Pending() {
		return m, cmd
	}
	return m, tea.Batch(cmd, settleAfter(m.opts.Debounce, token))
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.X >= ListWidth {
		return m
	}
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	// The × at the end of the input row clears it.
	if press && msg.Y == inputRow && msg.X >= ListWidth-3 && m.input.Value() != "" {
		m.clear()
		return m
	}

	snap := m.w.Snapshot()
	i, ok := m.list.IndexAt(msg.Y-listTop, len(snap.Matches))
	if !ok {
		return m
	}
	switch {
	case press:
		if r, ok := m.w.Click(i); ok {
			m.afterCommit(r)
		}
	case msg.Action == tea.MouseActionMotion:
		m.w.Hover(i)
	}
	return m
}

func (m Model) handleLocateResult(msg LocateResultMsg) Model {
	if msg.Err != nil {
		m.log.LocateFailed(msg.Err)
		m.status.SetNotice(ErrorStyle.Background(colorSurface0).Render("unable to retrieve your location"))
		return m
	}
	if err := m.w.ShowLocation(msg.Pos); err != nil {
		m.log.LocateFailed(err)
		m.status.SetNotice(ErrorStyle.Background(colorSurface0).Render("unable to retrieve your location"))
		return m
	}
	m.status.SetNotice("showing your location")
	return m
}

// afterCommit mirrors the committed selection into the input box.
func (m *Model) afterCommit(r catalog.LocationRecord) {
	m.selected = &r
	m.input.SetValue(m.w.Snapshot().Input)
	m.input.CursorEnd()
	m.list.Reset()
	m.status.SetNotice("")
}

func (m *Model) clear() {
	m.w.Clear()
	m.input.SetValue("")
	m.list.Reset()
	m.status.SetNotice("")
}

// distributeSize hands the terminal dimensions to the children.
func (m *Model) distributeSize() {
	m.status.SetWidth(m.width)

	listHeight := m.height - listTop - 1 // status bar
	m.list.SetSize(ListWidth, listHeight)
	m.list.Sync(m.w.Snapshot())

	// Map: header line, frame, up to three popup lines.
	m.mapPanel.SetSize(m.width-ListWidth-3, m.height-1-1-2-3)
}

// View satisfies tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.w.Snapshot()

	inputLine := m.input.View()
	if m.input.Value() != "" {
		inputLine = padRight(inputLine, ListWidth-3) + ClearButtonStyle.Render("×")
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("City search"),
		InputStyle.Render(inputLine),
		"",
		m.list.View(snap),
	)
	left = lipgloss.NewStyle().Width(ListWidth).Render(left)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.mapPanel.View())
	return mainArea + "\n" + m.status.View()
}

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/repository"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/tui/components/daylist"
	"github.com/julianstephens/trackit/internal/tui/state"
	"github.com/julianstephens/trackit/internal/utils"
	"github.com/julianstephens/trackit/internal/view"
)

type sessionState int

const (
	stateDay sessionState = iota
	stateSearch
	stateStats
	stateForm
	stateConfirmDelete
)

// changedMsg reports that one of the repositories committed a change.
type changedMsg struct{}

// Options carries the values the model takes from config and settings.
type Options struct {
	Settings    models.Settings
	PinnedTitle string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	ctx         context.Context
	store       storage.Provider
	repos       *repository.Repositories
	now         func() time.Time
	pinnedTitle string
	settings    models.Settings

	state    sessionState
	keys     KeyMap
	help     help.Model
	search   textinput.Model
	dayList  daylist.Model
	day      time.Time
	filter   models.TrackerFilter
	form     *huh.Form
	formData *state.TrackerFormModel

	pendingDeleteID string
	status          string
	formError       string
	quitting        bool
	width           int
	height          int

	changes chan struct{}
	cancels []func()
}

func NewModel(ctx context.Context, store storage.Provider, repos *repository.Repositories, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	filter := opts.Settings.Filter
	if filter == "" {
		filter = models.FilterAll
	}

	search := textinput.New()
	search.Placeholder = "Search trackers"
	search.Prompt = "/ "
	search.CharLimit = constants.MaxNameLength

	changes := make(chan struct{}, 1)
	m := Model{
		ctx:         ctx,
		store:       store,
		repos:       repos,
		now:         now,
		pinnedTitle: opts.PinnedTitle,
		settings:    opts.Settings,
		state:       stateDay,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		search:      search,
		dayList:     daylist.New(),
		filter:      filter,
		changes:     changes,
	}
	m.day = m.today()

	notify := func(repository.Event) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	m.cancels = []func(){
		repos.Categories.Subscribe(notify),
		repos.Trackers.Subscribe(notify),
		repos.Records.Subscribe(notify),
	}

	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks until a repository notifies, then wakes the program.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (m *Model) unsubscribe() {
	for _, cancel := range m.cancels {
		cancel()
	}
	m.cancels = nil
}

func (m Model) today() time.Time {
	return utils.StartOfDay(m.now(), m.store.Location())
}

// viewDay is the day the list shows. The "today" filter pins it to today.
func (m Model) viewDay() time.Time {
	if m.filter == models.FilterToday {
		return m.today()
	}
	return m.day
}

func (m Model) snapshot() view.Snapshot {
	return view.Snapshot{
		Categories: m.repos.Categories.List(),
		Trackers:   m.repos.Trackers.List(),
		Records:    m.repos.Records.List(),
	}
}

// refresh recomputes the visible groups from the repository snapshots.
func (m *Model) refresh() {
	snap := m.snapshot()
	day := m.viewDay()
	groups := view.Compute(snap, view.Query{
		Date:        day,
		Search:      m.search.Value(),
		Filter:      m.filter,
		PinnedTitle: m.pinnedTitle,
	})

	switch {
	case len(snap.Trackers) == 0:
		m.dayList.SetEmptyMessage("What are we tracking? Press 'a' to add a habit.")
	default:
		m.dayList.SetEmptyMessage("Nothing found.")
	}
	m.dayList.SetGroups(groups, view.NewRecordIndex(snap.Records), day)
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

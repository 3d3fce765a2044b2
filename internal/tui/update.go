package tui

import (
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/tui/handlers"
	"github.com/julianstephens/trackit/internal/tui/state"
	"github.com/julianstephens/trackit/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	}

	switch m.state {
	case stateForm:
		return m.updateForm(msg)
	case stateConfirmDelete:
		return m.updateConfirmDelete(msg), nil
	case stateSearch:
		return m.updateSearch(msg)
	case stateStats:
		return m.updateStats(msg)
	}
	return m.updateDay(msg)
}

func (m Model) updateDay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		m.unsubscribe()
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		m.dayList.MoveUp()
	case key.Matches(keyMsg, m.keys.Down):
		m.dayList.MoveDown()
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.moveDay(-1)
	case key.Matches(keyMsg, m.keys.NextDay):
		m.moveDay(1)
	case key.Matches(keyMsg, m.keys.Today):
		m.day = m.today()
		m.refresh()
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(keyMsg, m.keys.Pin):
		if t, ok := m.dayList.Selected(); ok {
			if err := m.repos.Trackers.TogglePin(m.ctx, t.ID); err != nil {
				m.setError(err)
			} else {
				m.refresh()
			}
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if t, ok := m.dayList.Selected(); ok {
			m.pendingDeleteID = t.ID
			m.state = stateConfirmDelete
		}
	case key.Matches(keyMsg, m.keys.Add):
		return m.openForm(state.NewTrackerFormModel(models.KindHabit))
	case key.Matches(keyMsg, m.keys.AddEvt):
		return m.openForm(state.NewTrackerFormModel(models.KindEvent))
	case key.Matches(keyMsg, m.keys.Edit):
		if t, ok := m.dayList.Selected(); ok {
			title := ""
			if cat, ok := m.repos.Categories.Get(t.CategoryID); ok {
				title = cat.Title
			}
			return m.openForm(state.TrackerFormModelFrom(t, title))
		}
	case key.Matches(keyMsg, m.keys.Search):
		m.state = stateSearch
		return m, m.search.Focus()
	case key.Matches(keyMsg, m.keys.Filter):
		m.setFilter(m.filter.Next())
	case key.Matches(keyMsg, m.keys.Stats):
		m.state = stateStats
	}
	return m, nil
}

// moveDay steps the viewed day. Leaving today drops the "today" filter.
func (m *Model) moveDay(delta int) {
	if m.filter == models.FilterToday {
		m.day = m.today()
		m.setFilter(models.FilterAll)
	}
	m.day = utils.AddDays(m.day, delta)
	m.status = ""
	m.refresh()
}

// setFilter applies a filter and persists it as the default for next time.
func (m *Model) setFilter(f models.TrackerFilter) {
	m.filter = f
	if f == models.FilterToday {
		m.day = m.today()
	}
	m.settings.Filter = f
	if err := m.store.SaveSettings(m.ctx, m.settings); err != nil {
		logger.Error("Failed to save filter", "filter", f, "error", err)
	}
	m.refresh()
}

func (m *Model) toggleSelected() {
	t, ok := m.dayList.Selected()
	if !ok {
		return
	}
	day := m.viewDay()
	if day.After(m.today()) {
		m.setError(errors.ErrFutureDay)
		return
	}
	done, err := m.repos.Records.Toggle(m.ctx, t.ID, day)
	if err != nil {
		m.setError(err)
		return
	}
	if done {
		m.status = fmt.Sprintf("Marked %s %s", t.Emoji, t.Name)
	} else {
		m.status = fmt.Sprintf("Unmarked %s %s", t.Emoji, t.Name)
	}
	m.formError = ""
	m.refresh()
}

func (m *Model) setError(err error) {
	m.status = ""
	m.formError = err.Error()
}

func (m Model) updateConfirmDelete(msg tea.Msg) Model {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}
	switch keyMsg.String() {
	case "y", "Y":
		if t, ok := m.repos.Trackers.Get(m.pendingDeleteID); ok {
			if err := m.repos.Trackers.Delete(m.ctx, t.ID); err != nil {
				m.setError(err)
			} else {
				m.status = fmt.Sprintf("Deleted %s %s", t.Emoji, t.Name)
				m.refresh()
			}
		}
		m.pendingDeleteID = ""
		m.state = stateDay
	case "n", "N", "esc":
		m.pendingDeleteID = ""
		m.state = stateDay
	}
	return m
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.search.Blur()
			m.state = stateDay
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			m.search.Blur()
			m.state = stateDay
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		m.unsubscribe()
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Stats), keyMsg.Type == tea.KeyEsc:
		m.state = stateDay
	}
	return m, nil
}

func (m Model) categoryTitles() []string {
	cats := m.repos.Categories.List()
	titles := make([]string, 0, len(cats))
	for _, c := range cats {
		titles = append(titles, c.Title)
	}
	return titles
}

func (m Model) openForm(fm *state.TrackerFormModel) (tea.Model, tea.Cmd) {
	m.formData = fm
	m.form = handlers.NewTrackerForm(fm, m.categoryTitles())
	m.state = stateForm
	m.formError = ""
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = stateDay
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveForm(); err != nil {
			// rebuild the form so the user can correct the input
			m.formError = err.Error()
			m.form = handlers.NewTrackerForm(m.formData, m.categoryTitles())
			return m, m.form.Init()
		}
		m.formError = ""
		m.state = stateDay
		m.refresh()
	case huh.StateAborted:
		m.formError = ""
		m.state = stateDay
	}
	return m, cmd
}

// errDuplicateName is returned when a tracker name is already taken.
var errDuplicateName = stderrors.New("a tracker with this name already exists")

// saveForm creates or updates the tracker described by the form.
func (m *Model) saveForm() error {
	t, title, err := m.formData.Tracker()
	if err != nil {
		return err
	}
	if existing, ok := m.repos.Trackers.FindByName(t.Name); ok && existing.ID != t.ID {
		return errDuplicateName
	}

	cat, err := m.repos.Categories.GetOrCreate(m.ctx, title)
	if err != nil {
		return err
	}

	if t.ID == "" {
		added, err := m.repos.Trackers.Add(m.ctx, t, cat.ID)
		if err != nil {
			return err
		}
		m.status = fmt.Sprintf("Added %s %s", added.Emoji, added.Name)
		return nil
	}
	if err := m.repos.Trackers.Update(m.ctx, t, cat.ID); err != nil {
		return err
	}
	m.status = fmt.Sprintf("Saved %s %s", t.Emoji, t.Name)
	return nil
}

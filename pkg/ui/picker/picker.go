// Package picker provides the interactive group selection list.
package picker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gmdown/pkg/groupme"
)

// ErrNoSelection is returned when the user aborts without choosing.
var ErrNoSelection = errors.New("no group selected")

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type item struct {
	group groupme.Group
}

func (i item) Title() string {
	return fmt.Sprintf("%s (group id #%s)", i.group.Name, i.group.ID)
}

func (i item) Description() string {
	return fmt.Sprintf("%d members", len(i.group.Members))
}

func (i item) FilterValue() string {
	return i.group.Name
}

type model struct {
	list   list.Model
	choice *groupme.Group
}

func newModel(groups []groupme.Group) model {
	items := make([]list.Item, len(groups))
	for idx, g := range groups {
		items[idx] = item{group: g}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a group to download images from"
	l.SetShowStatusBar(false)

	return model{list: l}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				g := it.group
				m.choice = &g
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	return docStyle.Render(m.list.View())
}

// Choose runs the picker over the given groups and returns the selection.
func Choose(groups []groupme.Group) (groupme.Group, error) {
	if len(groups) == 0 {
		return groupme.Group{}, errors.New("no groups available")
	}

	final, err := tea.NewProgram(newModel(groups), tea.WithAltScreen()).Run()
	if err != nil {
		return groupme.Group{}, fmt.Errorf("group picker failed: %w", err)
	}

	m, ok := final.(model)
	if !ok || m.choice == nil {
		return groupme.Group{}, ErrNoSelection
	}
	return *m.choice, nil
}

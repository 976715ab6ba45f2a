// Package historytui is a bubbletea list/detail browser over the audit
// log, re-targeted from the reference corpus's chat-session history_tui.go
// onto dispatched-command entries.
package historytui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	markdown "github.com/vlanse/go-term-markdown"

	"github.com/coretermio/coreterm/audit"
)

type entryItem struct {
	entry audit.Entry
}

func (i entryItem) Title() string {
	return fmt.Sprintf("%s  %s", i.entry.Timestamp.Format("01/02 15:04:05"), i.entry.Command)
}

func (i entryItem) Description() string {
	if i.entry.Args == "" {
		return i.entry.Result
	}
	return fmt.Sprintf("%s — %s", i.entry.Args, i.entry.Result)
}

func (i entryItem) FilterValue() string {
	return i.entry.Command + " " + i.entry.Args
}

type mode int

const (
	modeList mode = iota
	modeDetail
)

// Model is the bubbletea model for the audit browser.
type Model struct {
	list      list.Model
	mode      mode
	detail    string
	statusMsg string
	quitting  bool
	Selected  *audit.Entry
}

// New builds a browser over entries, most-recent first (caller supplies
// order; Recent already returns reverse-chronological).
func New(entries []audit.Entry) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Command History"
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFF")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.mode == modeDetail {
				m.mode = modeList
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.mode == modeList {
				if it, ok := m.list.SelectedItem().(entryItem); ok {
					m.mode = modeDetail
					m.detail = renderDetail(it.entry)
					m.Selected = &it.entry
				}
				return m, nil
			}
		case "c":
			if m.mode == modeDetail && m.Selected != nil {
				if err := clipboard.WriteAll(m.Selected.Args); err != nil {
					m.statusMsg = "copy failed: " + err.Error()
				} else {
					m.statusMsg = "copied args to clipboard"
				}
				return m, nil
			}
		}
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	if m.mode == modeDetail {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeDetail {
		body := m.detail
		if m.statusMsg != "" {
			body += "\n" + m.statusMsg
		}
		return lipgloss.NewStyle().Margin(1, 2).Render(body)
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(m.list.View())
}

func renderDetail(e audit.Entry) string {
	src := fmt.Sprintf("# %s\n\n- **when**: %s\n- **args**: `%s`\n- **result**: %s\n\npress `c` to copy args, `q` to go back\n",
		e.Command, e.Timestamp.Format("2006-01-02 15:04:05"), e.Args, e.Result)
	return string(markdown.Render(src, 78, 2))
}

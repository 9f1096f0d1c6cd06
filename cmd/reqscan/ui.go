package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reqscan/internal/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type model struct {
	list       list.Model
	summary    app.Summary
	lastUpdate time.Time
}

type updateMsg struct {
	summary app.Summary
}

var (
	programMu sync.Mutex
	program   *tea.Program
)

// notifyUI pushes a fresh run summary into the running UI, if any.
func notifyUI(s app.Summary) {
	programMu.Lock()
	p := program
	programMu.Unlock()
	if p != nil {
		p.Send(updateMsg{summary: s})
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.summary = msg.summary
		m.lastUpdate = time.Now()
		m.list.SetItems(entriesToItems(msg.summary))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files scanned | %s",
		m.lastUpdate.Format("15:04:05"), m.summary.FilesScanned, m.summary.OutputPath))

	var problems string
	if m.summary.ParseFailures > 0 {
		problems = " | " + warnStyle.Render(fmt.Sprintf("%d files skipped", m.summary.ParseFailures))
	}

	header := fmt.Sprintf("%s\n%s%s\n", titleStyle("Dependency Manifest"), status, problems)
	return docStyle.Render(header + "\n" + m.list.View())
}

func entriesToItems(s app.Summary) []list.Item {
	items := make([]list.Item, 0, len(s.Entries))
	for _, e := range s.Entries {
		desc := e.Version
		if desc == "" {
			desc = "unresolved (no installed distribution)"
		}
		items = append(items, item{title: e.Name, desc: desc})
	}
	return items
}

func initialModel(s app.Summary) model {
	l := list.New(entriesToItems(s), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Pinned Dependencies"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		summary:    s,
		lastUpdate: time.Now(),
	}
}

func runUI(s app.Summary) error {
	p := tea.NewProgram(initialModel(s), tea.WithAltScreen())

	programMu.Lock()
	program = p
	programMu.Unlock()

	_, err := p.Run()

	programMu.Lock()
	program = nil
	programMu.Unlock()

	return err
}

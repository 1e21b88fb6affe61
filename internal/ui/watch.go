package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusFetcher returns the current state of the managed services.
type StatusFetcher func() []ServiceStatus

type tickMsg time.Time

type statusMsg []ServiceStatus

// WatchModel is a small refreshing view of the managed services, used by
// `nodeboot status --watch` while waiting for a node to settle.
type WatchModel struct {
	fetch    StatusFetcher
	interval time.Duration
	spinner  spinner.Model
	services []ServiceStatus
	lastPoll time.Time
	quitting bool
}

// NewWatchModel builds the watch view around a fetcher.
func NewWatchModel(fetch StatusFetcher, interval time.Duration) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if interval <= 0 {
		interval = time.Second
	}
	return WatchModel{fetch: fetch, interval: interval, spinner: sp}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(), m.tick())
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m WatchModel) poll() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		return statusMsg(fetch())
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())
	case statusMsg:
		m.services = msg
		m.lastPoll = time.Now()
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render("Node Status (watch)") + "\n\n"
	if m.services == nil {
		s += m.spinner.View() + " querying services...\n"
	} else {
		for _, svc := range m.services {
			s += "  " + renderServiceLine(svc) + "\n"
		}
		s += "\n" + dimStyle.Render("last poll: "+m.lastPoll.Format("15:04:05")) + "\n"
	}
	s += helpStyle.Render("q to quit")
	return s
}

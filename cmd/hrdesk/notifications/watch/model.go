package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hrdesk/internal/cli"
	"hrdesk/internal/notifications"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cli.AnsiBlue))
	unreadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cli.AnsiGreen))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(cli.AnsiGray))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(cli.AnsiRed))
)

// inboxChangedMsg signals that the inbox mutated outside the model's
// control (a pushed event landed).
type inboxChangedMsg struct{}

type markReadResultMsg struct {
	err error
}

type model struct {
	ctx   context.Context
	inbox *notifications.Inbox

	cursor int
	items  []notifications.Notification
	notice string
}

func getModel(ctx context.Context, inbox *notifications.Inbox) *model {
	return &model{
		ctx:   ctx,
		inbox: inbox,
		items: inbox.List(),
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inboxChangedMsg:
		m.refresh()
	case markReadResultMsg:
		m.refresh()
		if msg.err != nil {
			m.notice = errorStyle.Render(fmt.Sprintf("⚠ %s", msg.err))
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "r", "enter":
			if m.cursor >= len(m.items) {
				break
			}
			selected := m.items[m.cursor]
			if selected.Read {
				break
			}
			m.notice = ""
			return m, func() tea.Msg {
				return markReadResultMsg{err: m.inbox.MarkAsRead(m.ctx, selected.Id)}
			}
		}
	}
	return m, nil
}

func (m *model) refresh() {
	m.items = m.inbox.List()
	if m.cursor > len(m.items)-1 {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Notifications (%d unread)", m.inbox.UnreadCount())
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(title))

	if len(m.items) == 0 {
		b.WriteString(mutedStyle.Render("Nothing yet, new notifications appear here as they arrive"))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		badge := "  "
		if !item.Read {
			badge = unreadStyle.Render("● ")
		}
		line := fmt.Sprintf("%s%s%s: %s", cursor, badge, item.Kind, item.Message)
		if item.Read {
			line = mutedStyle.Render(line)
		}
		fmt.Fprintf(&b, "%s %s\n", line, mutedStyle.Render(item.TimeElapsed(now)))
	}

	if m.notice != "" {
		fmt.Fprintf(&b, "\n%s\n", m.notice)
	}
	fmt.Fprintf(&b, "\n%s\n", mutedStyle.Render("↑/↓ move · r marks as read · q quits"))
	return b.String()
}

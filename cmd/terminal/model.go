package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/feed"
)

// Application states.
const (
	StateConnecting = iota
	StateDashboard
	StateOffline
)

const statusPollInterval = 500 * time.Millisecond

// Model is the main Bubble Tea model for the terminal.
type Model struct {
	state        int
	marketsTable table.Model
	tradesTable  table.Model
	snapshot     types.Snapshot
	prevPrices   map[string]float64
	status       feed.Status
	err          error
	width        int
	height       int

	client *feed.Client
}

// NewModel creates a new Model with initial state. client may be nil when the
// model is driven purely by messages.
func NewModel(client *feed.Client) Model {
	return Model{
		state:        StateConnecting,
		marketsTable: NewMarketsTable(),
		tradesTable:  NewTradesTable(),
		snapshot:     types.NewSnapshot(),
		prevPrices:   make(map[string]float64),
		client:       client,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}

	return m.pollStatus()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// Manual reconnect only makes sense once automatic retries
			// have given up.
			if m.state == StateOffline && m.client != nil {
				m.client.Reconnect()
				m.state = StateConnecting

				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.marketsTable.SetWidth(msg.Width)
		m.tradesTable.SetWidth(msg.Width)

		return m, nil

	case SnapshotMsg:
		for symbol, market := range m.snapshot.Markets {
			m.prevPrices[symbol] = market.Price
		}

		m.snapshot = msg.Snapshot
		m.marketsTable = UpdateMarketRows(m.marketsTable, m.snapshot.Markets, m.prevPrices)
		m.tradesTable = UpdateTradeRows(m.tradesTable, m.snapshot.Trades)

		if m.state == StateConnecting {
			m.state = StateDashboard
		}

		return m, nil

	case FeedStatusMsg:
		m.status = msg.Status
		m.err = msg.Status.Err

		switch msg.Status.State {
		case feed.StateConnectionLost:
			m.state = StateOffline
		case feed.StateOpen:
			if m.state == StateOffline || m.state == StateConnecting {
				m.state = StateDashboard
			}
		}

		if m.client != nil {
			return m, m.pollStatus()
		}

		return m, nil

	case FeedClosedMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.marketsTable, cmd = m.marketsTable.Update(msg)

	return m, cmd
}

// pollStatus schedules the next connection status read.
func (m Model) pollStatus() tea.Cmd {
	client := m.client

	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return FeedStatusMsg{Status: client.Status()}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateConnecting:
		s.WriteString(TitleStyle.Render("Agora Terminal"))
		s.WriteString("\n\n")
		s.WriteString("Connecting to venue...\n")

		if m.status.Attempts > 0 {
			s.WriteString(fmt.Sprintf("Attempt %d\n", m.status.Attempts+1))
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit"))

	case StateDashboard:
		s.WriteString(TitleStyle.Render("Agora Terminal"))
		s.WriteString("\n\n")
		s.WriteString(m.marketsTable.View())
		s.WriteString("\n\n")
		s.WriteString(PaneTitleStyle.Render("Trades"))
		s.WriteString("\n")
		s.WriteString(m.tradesTable.View())
		s.WriteString("\n\n")
		s.WriteString(renderThoughts(m.snapshot.Thoughts))
		s.WriteString("\n")
		s.WriteString(renderChat(m.snapshot.Messages))
		s.WriteString("\n")
		s.WriteString(m.statusBar())

	case StateOffline:
		s.WriteString(TitleStyle.Render("Agora Terminal"))
		s.WriteString("\n\n")
		s.WriteString(ErrorStyle.Render("Connection lost"))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(fmt.Sprintf("Last error: %v\n\n", m.err))
		}

		s.WriteString(HelpStyle.Render("r: reconnect | q: quit"))
	}

	return s.String()
}

// statusBar renders the bottom line: connection state, online agents, pending
// requests.
func (m Model) statusBar() string {
	state := string(m.status.State)
	if state == "" {
		state = string(feed.StateConnecting)
	}

	return HelpStyle.Render(fmt.Sprintf(
		"%s | %d agents online | %d pending requests | q: quit",
		state,
		m.snapshot.OnlineAgents,
		len(m.snapshot.Requests),
	))
}

package main

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"

	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/feed"
)

func testSnapshot() types.Snapshot {
	snapshot := types.NewSnapshot()
	snapshot.Markets["BTC-PERP"] = types.Market{
		Symbol:    "BTC-PERP",
		Price:     45123.5,
		Change24h: optional.Some(2.34),
		Volume24h: 1200000,
		UpdatedAt: time.Now(),
	}
	snapshot.Trades = []types.Trade{
		{
			ID:        "t-1",
			Market:    "BTC-PERP",
			Side:      types.SideLong,
			SizeUSDC:  500,
			Price:     45120,
			AgentID:   "agent-1",
			Timestamp: time.Now(),
		},
	}
	snapshot.Thoughts = []types.Thought{
		{
			ID:        "th-1",
			AgentID:   "agent-1",
			AgentName: "Basis Hunter",
			Text:      "funding is stretched, fading the move",
			Timestamp: time.Now(),
		},
	}
	snapshot.Messages = []types.ChatMessage{
		{
			ID:        "m-1",
			Sender:    "venue",
			Channel:   "general",
			Type:      types.MessageTypeSystem,
			Content:   "Basis Hunter joined the venue",
			Timestamp: time.Now(),
		},
	}
	snapshot.OnlineAgents = 7

	return snapshot
}

func TestNewModel(t *testing.T) {
	m := NewModel(nil)

	assert.Equal(t, StateConnecting, m.state)
	assert.NotNil(t, m.snapshot.Markets)
	assert.NotNil(t, m.prevPrices)
}

func TestConnectingView(t *testing.T) {
	m := NewModel(nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Connecting to venue"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestSnapshotSwitchesToDashboard(t *testing.T) {
	m := NewModel(nil)

	newModel, _ := m.Update(SnapshotMsg{Snapshot: testSnapshot()})
	updated := newModel.(Model)

	assert.Equal(t, StateDashboard, updated.state)
	assert.Contains(t, updated.snapshot.Markets, "BTC-PERP")
}

func TestDashboardRendersFeedState(t *testing.T) {
	m := NewModel(nil)

	newModel, _ := m.Update(SnapshotMsg{Snapshot: testSnapshot()})
	m = newModel.(Model)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("BTC-PERP")) &&
			bytes.Contains(bts, []byte("Basis Hunter")) &&
			bytes.Contains(bts, []byte("7 agents online"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestConnectionLostSwitchesToOffline(t *testing.T) {
	m := NewModel(nil)
	m.state = StateDashboard

	newModel, _ := m.Update(FeedStatusMsg{Status: feed.Status{State: feed.StateConnectionLost}})
	updated := newModel.(Model)

	assert.Equal(t, StateOffline, updated.state)
}

func TestOfflineView(t *testing.T) {
	m := NewModel(nil)
	m.state = StateOffline

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Connection lost")) &&
			bytes.Contains(bts, []byte("r: reconnect"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestReopenedFeedLeavesOffline(t *testing.T) {
	m := NewModel(nil)
	m.state = StateOffline

	newModel, _ := m.Update(FeedStatusMsg{Status: feed.Status{State: feed.StateOpen}})
	updated := newModel.(Model)

	assert.Equal(t, StateDashboard, updated.state)
}

func TestFeedClosedQuits(t *testing.T) {
	m := NewModel(nil)

	_, cmd := m.Update(FeedClosedMsg{})

	assert.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestQuitBehavior(t *testing.T) {
	t.Run("ctrl+c quits from any state", func(t *testing.T) {
		m := NewModel(nil)
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	})

	t.Run("q quits from dashboard", func(t *testing.T) {
		m := NewModel(nil)
		m.state = StateDashboard

		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	})
}

func TestWindowResize(t *testing.T) {
	m := NewModel(nil)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := newModel.(Model)

	assert.Equal(t, 120, updated.width)
	assert.Equal(t, 40, updated.height)
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		name     string
		change   optional.Option[float64]
		expected string
	}{
		{
			name:     "positive change",
			change:   optional.Some(2.5),
			expected: "+2.50%",
		},
		{
			name:     "negative change",
			change:   optional.Some(-1.25),
			expected: "-1.25%",
		},
		{
			name:     "unknown change",
			change:   optional.None[float64](),
			expected: "—",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatChange(tt.change))
		})
	}
}

func TestFormatPriceWithColor(t *testing.T) {
	assert.Contains(t, FormatPriceWithColor(100, 90), "▲")
	assert.Contains(t, FormatPriceWithColor(90, 100), "▼")
	assert.Equal(t, "100.00", FormatPriceWithColor(100, 100))
	assert.Equal(t, "100.00", FormatPriceWithColor(100, 0))
}

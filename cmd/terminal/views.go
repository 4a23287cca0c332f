package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/agoralabs/agora-terminal/internal/types"
)

const (
	thoughtPaneSize = 5
	chatPaneSize    = 5
)

// NewMarketsTable creates the table for the market overview.
func NewMarketsTable() table.Model {
	columns := []table.Column{
		{Title: "Market", Width: 12},
		{Title: "Price", Width: 14},
		{Title: "24h", Width: 10},
		{Title: "Volume", Width: 14},
		{Title: "OI", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// NewTradesTable creates the table for the recent trade tape.
func NewTradesTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "Market", Width: 12},
		{Title: "Side", Width: 6},
		{Title: "Size", Width: 12},
		{Title: "Price", Width: 14},
		{Title: "Agent", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)

	t.SetStyles(s)

	return t
}

// UpdateMarketRows fills the market table from the snapshot, sorted by symbol.
func UpdateMarketRows(t table.Model, markets map[string]types.Market, prevPrices map[string]float64) table.Model {
	symbols := make([]string, 0, len(markets))
	for symbol := range markets {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	rows := make([]table.Row, 0, len(markets))

	for _, symbol := range symbols {
		market := markets[symbol]
		rows = append(rows, table.Row{
			symbol,
			FormatPriceWithColor(market.Price, prevPrices[symbol]),
			FormatChange(market.Change24h),
			fmt.Sprintf("%.0f", market.Volume24h),
			fmt.Sprintf("%.0f", market.OpenInterest),
		})
	}

	t.SetRows(rows)

	return t
}

// UpdateTradeRows fills the trade tape from the snapshot, newest first.
func UpdateTradeRows(t table.Model, trades []types.Trade) table.Model {
	rows := make([]table.Row, 0, len(trades))

	for _, trade := range trades {
		rows = append(rows, table.Row{
			trade.Timestamp.Format("15:04:05"),
			trade.Market,
			string(trade.Side),
			fmt.Sprintf("%.0f", trade.SizeUSDC),
			fmt.Sprintf("%.2f", trade.Price),
			trade.AgentID,
		})
	}

	t.SetRows(rows)

	return t
}

// renderThoughts renders the newest agent thoughts, one per line.
func renderThoughts(thoughts []types.Thought) string {
	var s strings.Builder

	s.WriteString(PaneTitleStyle.Render("Agent Thoughts"))
	s.WriteString("\n")

	if len(thoughts) == 0 {
		s.WriteString(HelpStyle.Render("no thoughts yet"))
		s.WriteString("\n")

		return s.String()
	}

	shown := thoughts
	if len(shown) > thoughtPaneSize {
		shown = shown[:thoughtPaneSize]
	}

	for _, thought := range shown {
		line := fmt.Sprintf("%s %s: %s",
			thought.Timestamp.Format("15:04:05"),
			thought.AgentName,
			thought.Text,
		)

		if meta, err := thought.Meta.Take(); err == nil {
			line += fmt.Sprintf(" [%s %s %.0f%%]", meta.Asset, meta.Direction, meta.Confidence*100)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	return s.String()
}

// renderChat renders the tail of the chat log, oldest first.
func renderChat(messages []types.ChatMessage) string {
	var s strings.Builder

	s.WriteString(PaneTitleStyle.Render("Chat"))
	s.WriteString("\n")

	if len(messages) == 0 {
		s.WriteString(HelpStyle.Render("no messages yet"))
		s.WriteString("\n")

		return s.String()
	}

	shown := messages
	if len(shown) > chatPaneSize {
		shown = shown[len(shown)-chatPaneSize:]
	}

	for _, message := range shown {
		s.WriteString(fmt.Sprintf("%s <%s> %s",
			message.Timestamp.Format("15:04:05"),
			message.Sender,
			message.Content,
		))
		s.WriteString("\n")
	}

	return s.String()
}

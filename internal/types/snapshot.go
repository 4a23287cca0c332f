package types

// Snapshot is the feed client's in-memory mirror of venue activity. It is a
// value type: the feed client hands out copies, so consumers can read it
// without coordination and never mutate the client's own state.
type Snapshot struct {
	// Markets is keyed by symbol, one entry per known market.
	Markets map[string]Market
	// Requests holds the most recent trade requests, newest first.
	Requests []TradeRequest
	// Trades holds the most recent fills, newest first.
	Trades []Trade
	// Thoughts holds the most recent agent thoughts, newest first.
	Thoughts []Thought
	// Messages holds chat messages in arrival order, oldest first.
	Messages []ChatMessage
	// OnlineAgents is the venue's last reported count of connected agents.
	OnlineAgents int
}

// NewSnapshot returns an empty snapshot with an allocated market map.
func NewSnapshot() Snapshot {
	return Snapshot{
		Markets:      make(map[string]Market),
		Requests:     nil,
		Trades:       nil,
		Thoughts:     nil,
		Messages:     nil,
		OnlineAgents: 0,
	}
}

// Clone returns a deep copy of the snapshot. Slices of value types are copied;
// chat metadata maps are shared, callers treat them as read-only.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Markets:      make(map[string]Market, len(s.Markets)),
		Requests:     append([]TradeRequest(nil), s.Requests...),
		Trades:       append([]Trade(nil), s.Trades...),
		Thoughts:     append([]Thought(nil), s.Thoughts...),
		Messages:     append([]ChatMessage(nil), s.Messages...),
		OnlineAgents: s.OnlineAgents,
	}
	for symbol, market := range s.Markets {
		out.Markets[symbol] = market
	}

	return out
}

package feed

import "encoding/json"

// Frame types pushed by the venue. Several operations have two spellings on
// the wire; both are listed here and dispatched identically.
const (
	frameMarkets       = "markets"
	frameMarketUpdate  = "market_update"
	frameRequests      = "requests"
	frameRequestUpdate = "request_update"
	frameNewRequest    = "new_request"
	frameTrade         = "trade"
	frameNewTrade      = "new_trade"
	frameThought       = "thought"
	frameNewThought    = "new_thought"
	frameChat          = "chat"
	frameChatMessage   = "chat_message"
	frameNewMessage    = "new_message"
	frameOnlineAgents  = "online_agents"
	frameStatsUpdate   = "stats_update"
	frameSnapshot      = "snapshot"
)

// envelope is the generic inbound frame shape: {"type": ..., "data": ...}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// outboundFrame is what the client writes to the venue.
type outboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// snapshotFrame is the distinguished full-state frame. Unlike the envelope it
// carries collections at the top level. A nil slice means the field was absent
// from the payload and the corresponding local state must be retained; a
// present-but-empty array replaces local state with empty.
type snapshotFrame struct {
	Markets     []json.RawMessage `json:"markets"`
	Requests    []json.RawMessage `json:"requests"`
	Trades      []json.RawMessage `json:"trades"`
	Thoughts    []json.RawMessage `json:"thoughts"`
	Messages    []json.RawMessage `json:"messages"`
	OnlineCount *int              `json:"online_count"`
}

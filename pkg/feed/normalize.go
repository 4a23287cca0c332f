package feed

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"

	"github.com/agoralabs/agora-terminal/internal/types"
)

// This file is the leniency layer between the venue's wire format and the
// typed snapshot. Venue payloads drift: the same value shows up under
// different field names depending on the backend code path, numbers are
// sometimes quoted, timestamps are sometimes epoch millis. Each normalize
// function coalesces every known alias and falls back to a documented default,
// so a record always normalizes to something renderable and the client never
// fails a commit over a missing optional field.

// Fallback values for absent wire fields.
const (
	defaultMarket   = "BTC-PERP"
	defaultAgentID  = "UNKNOWN"
	defaultLeverage = 1
)

// flexFloat unmarshals a JSON number, a quoted number, or null. Anything
// unparsable decodes to zero rather than failing the record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0

		return nil
	}

	s = strings.Trim(s, `"`)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0

		return nil
	}

	*f = flexFloat(v)

	return nil
}

// flexTime unmarshals an RFC3339 string, an epoch-seconds number, or an
// epoch-millis number (values above 1e12 are treated as millis). Anything
// else decodes to the zero time; callers substitute their own reference time.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*t = flexTime(time.Time{})

		return nil
	}

	if strings.HasPrefix(s, `"`) {
		parsed, err := time.Parse(time.RFC3339, strings.Trim(s, `"`))
		if err != nil {
			*t = flexTime(time.Time{})

			return nil
		}

		*t = flexTime(parsed)

		return nil
	}

	epoch, err := strconv.ParseFloat(s, 64)
	if err != nil || epoch <= 0 {
		*t = flexTime(time.Time{})

		return nil
	}

	if epoch > 1e12 {
		*t = flexTime(time.UnixMilli(int64(epoch)))
	} else {
		*t = flexTime(time.Unix(int64(epoch), 0))
	}

	return nil
}

func (t flexTime) orElse(fallback time.Time) time.Time {
	if time.Time(t).IsZero() {
		return fallback
	}

	return time.Time(t)
}

// firstString returns the first non-empty value, or fallback.
func firstString(fallback string, values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return fallback
}

// firstFloat returns the first non-zero value, or fallback.
func firstFloat(fallback float64, values ...flexFloat) float64 {
	for _, v := range values {
		if v != 0 {
			return float64(v)
		}
	}

	return fallback
}

// normalizeSide maps wire side spellings onto types.Side.
// Accepted: "long"/"buy"/"b" -> long, "short"/"sell"/"s" -> short.
// Default: long.
func normalizeSide(raw string) types.Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "short", "sell", "s":
		return types.SideShort
	default:
		return types.SideLong
	}
}

type rawMarket struct {
	Symbol       string     `json:"symbol"`
	Market       string     `json:"market"`
	Price        flexFloat  `json:"price"`
	LastPrice    flexFloat  `json:"last_price"`
	Change24h    *flexFloat `json:"change_24h"`
	PriceChange  *flexFloat `json:"price_change_24h"`
	Volume24h    flexFloat  `json:"volume_24h"`
	Volume       flexFloat  `json:"volume"`
	OpenInterest flexFloat  `json:"open_interest"`
	OI           flexFloat  `json:"oi"`
}

// NormalizeMarket maps one wire market record onto types.Market.
// Aliases: symbol|market (default "BTC-PERP"), price|last_price (default 0),
// volume_24h|volume (default 0), open_interest|oi (default 0),
// change_24h|price_change_24h (absent -> None, never invented).
func NormalizeMarket(data json.RawMessage, now time.Time) types.Market {
	var raw rawMarket
	// Field-level decoders never fail; a top-level failure leaves every
	// field at its default.
	_ = json.Unmarshal(data, &raw)

	change := optional.None[float64]()
	if raw.Change24h != nil {
		change = optional.Some(float64(*raw.Change24h))
	} else if raw.PriceChange != nil {
		change = optional.Some(float64(*raw.PriceChange))
	}

	return types.Market{
		Symbol:       firstString(defaultMarket, raw.Symbol, raw.Market),
		Price:        firstFloat(0, raw.Price, raw.LastPrice),
		Change24h:    change,
		Volume24h:    firstFloat(0, raw.Volume24h, raw.Volume),
		OpenInterest: firstFloat(0, raw.OpenInterest, raw.OI),
		UpdatedAt:    now,
	}
}

type rawRequest struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	AgentID   string    `json:"agent_id"`
	Agent     string    `json:"agent"`
	Market    string    `json:"market"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Direction string    `json:"direction"`
	SizeUSDC  flexFloat `json:"size_usdc"`
	Size      flexFloat `json:"size"`
	Leverage  flexFloat `json:"leverage"`
	Reason    string    `json:"reason"`
	CreatedAt flexTime  `json:"created_at"`
	Timestamp flexTime  `json:"timestamp"`
}

// NormalizeRequest maps one wire trade request onto types.TradeRequest.
// Aliases: id|request_id (default "UNKNOWN"), agent_id|agent (default
// "UNKNOWN"), market|symbol (default "BTC-PERP"), side|direction (default
// long), size_usdc|size (default 0), leverage (default 1), reason (absent ->
// None), created_at|timestamp (default: local receive time).
func NormalizeRequest(data json.RawMessage, now time.Time) types.TradeRequest {
	var raw rawRequest
	_ = json.Unmarshal(data, &raw)

	reason := optional.None[string]()
	if raw.Reason != "" {
		reason = optional.Some(raw.Reason)
	}

	return types.TradeRequest{
		ID:        firstString(defaultAgentID, raw.ID, raw.RequestID),
		AgentID:   firstString(defaultAgentID, raw.AgentID, raw.Agent),
		Market:    firstString(defaultMarket, raw.Market, raw.Symbol),
		Side:      normalizeSide(firstString("", raw.Side, raw.Direction)),
		SizeUSDC:  firstFloat(0, raw.SizeUSDC, raw.Size),
		Leverage:  firstFloat(defaultLeverage, raw.Leverage),
		Reason:    reason,
		CreatedAt: raw.CreatedAt.orElse(raw.Timestamp.orElse(now)),
	}
}

type rawTrade struct {
	ID        string    `json:"id"`
	TradeID   string    `json:"trade_id"`
	Market    string    `json:"market"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	SizeUSDC  flexFloat `json:"size_usdc"`
	Size      flexFloat `json:"size"`
	Price     flexFloat `json:"price"`
	AgentID   string    `json:"agent_id"`
	Agent     string    `json:"agent"`
	Timestamp flexTime  `json:"timestamp"`
	Time      flexTime  `json:"time"`
}

// NormalizeTrade maps one wire fill onto types.Trade.
// Aliases: id|trade_id (default "UNKNOWN"), market|symbol (default
// "BTC-PERP"), size_usdc|size (default 0), price (default 0), agent_id|agent
// (default "UNKNOWN"), timestamp|time (default: local receive time).
func NormalizeTrade(data json.RawMessage, now time.Time) types.Trade {
	var raw rawTrade
	_ = json.Unmarshal(data, &raw)

	return types.Trade{
		ID:        firstString(defaultAgentID, raw.ID, raw.TradeID),
		Market:    firstString(defaultMarket, raw.Market, raw.Symbol),
		Side:      normalizeSide(raw.Side),
		SizeUSDC:  firstFloat(0, raw.SizeUSDC, raw.Size),
		Price:     firstFloat(0, raw.Price),
		AgentID:   firstString(defaultAgentID, raw.AgentID, raw.Agent),
		Timestamp: raw.Timestamp.orElse(raw.Time.orElse(now)),
	}
}

type rawThought struct {
	ID         string     `json:"id"`
	AgentID    string     `json:"agent_id"`
	Agent      string     `json:"agent"`
	AgentName  string     `json:"agent_name"`
	Name       string     `json:"name"`
	Text       string     `json:"text"`
	Thought    string     `json:"thought"`
	Content    string     `json:"content"`
	Asset      string     `json:"asset"`
	Direction  string     `json:"direction"`
	Confidence *flexFloat `json:"confidence"`
	Meta       *struct {
		Asset      string     `json:"asset"`
		Direction  string     `json:"direction"`
		Confidence *flexFloat `json:"confidence"`
	} `json:"meta"`
	Timestamp flexTime `json:"timestamp"`
}

// NormalizeThought maps one wire thought onto types.Thought.
// Aliases: agent_id|agent (default "UNKNOWN"), agent_name|name (default: the
// agent id), text|thought|content (default ""), timestamp (default: local
// receive time). The structured view {asset, direction, confidence} is read
// from the top level or from a nested "meta" object, and becomes Some only
// when an asset is present.
func NormalizeThought(data json.RawMessage, now time.Time) types.Thought {
	var raw rawThought
	_ = json.Unmarshal(data, &raw)

	agentID := firstString(defaultAgentID, raw.AgentID, raw.Agent)

	asset, direction, confPtr := raw.Asset, raw.Direction, raw.Confidence
	if asset == "" && raw.Meta != nil {
		asset, direction, confPtr = raw.Meta.Asset, raw.Meta.Direction, raw.Meta.Confidence
	}

	meta := optional.None[types.ThoughtMeta]()
	if asset != "" {
		confidence := 0.0
		if confPtr != nil {
			confidence = float64(*confPtr)
		}

		meta = optional.Some(types.ThoughtMeta{
			Asset:      asset,
			Direction:  normalizeDirection(direction),
			Confidence: confidence,
		})
	}

	return types.Thought{
		ID:        firstString(defaultAgentID, raw.ID),
		AgentID:   agentID,
		AgentName: firstString(agentID, raw.AgentName, raw.Name),
		Text:      firstString("", raw.Text, raw.Thought, raw.Content),
		Meta:      meta,
		Timestamp: raw.Timestamp.orElse(now),
	}
}

// normalizeDirection maps wire direction spellings onto types.Direction.
// Accepted: "long"/"bullish"/"up" -> long, "short"/"bearish"/"down" -> short.
// Default: neutral.
func normalizeDirection(raw string) types.Direction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "long", "bullish", "up":
		return types.DirectionLong
	case "short", "bearish", "down":
		return types.DirectionShort
	default:
		return types.DirectionNeutral
	}
}

type rawChatMessage struct {
	ID        string         `json:"id"`
	MessageID string         `json:"message_id"`
	Sender    string         `json:"sender"`
	From      string         `json:"from"`
	AgentID   string         `json:"agent_id"`
	Channel   string         `json:"channel"`
	Type      string         `json:"message_type"`
	TypeAlt   string         `json:"type"`
	Content   string         `json:"content"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp flexTime       `json:"timestamp"`
}

// NormalizeChatMessage maps one wire chat message onto types.ChatMessage.
// Aliases: id|message_id (default "UNKNOWN"), sender|from|agent_id (default
// "UNKNOWN"), channel (default "general"), message_type|type (default
// "chat"), content|message (default ""), timestamp (default: local receive
// time). Metadata passes through untouched.
func NormalizeChatMessage(data json.RawMessage, now time.Time) types.ChatMessage {
	var raw rawChatMessage
	_ = json.Unmarshal(data, &raw)

	msgType := types.MessageType(firstString(string(types.MessageTypeChat), raw.Type, raw.TypeAlt))

	return types.ChatMessage{
		ID:        firstString(defaultAgentID, raw.ID, raw.MessageID),
		Sender:    firstString(defaultAgentID, raw.Sender, raw.From, raw.AgentID),
		Channel:   firstString("general", raw.Channel),
		Type:      msgType,
		Content:   firstString("", raw.Content, raw.Message),
		Metadata:  raw.Metadata,
		Timestamp: raw.Timestamp.orElse(now),
	}
}

type rawStats struct {
	OnlineAgents *int `json:"online_agents"`
	OnlineCount  *int `json:"online_count"`
	Count        *int `json:"count"`
	Online       *int `json:"online"`
}

// NormalizeOnlineCount extracts the online-agent count from a stats payload.
// The payload is either a bare number or an object carrying one of
// online_agents|online_count|count|online. Returns (0, false) when no count
// is present so the caller can keep the previous value.
func NormalizeOnlineCount(data json.RawMessage) (int, bool) {
	var direct int
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, true
	}

	var raw rawStats
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false
	}

	for _, v := range []*int{raw.OnlineAgents, raw.OnlineCount, raw.Count, raw.Online} {
		if v != nil {
			return *v, true
		}
	}

	return 0, false
}

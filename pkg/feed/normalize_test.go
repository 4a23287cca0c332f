package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agoralabs/agora-terminal/internal/types"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeMarketAliases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.Market
	}{
		{
			name: "canonical fields",
			in:   `{"symbol":"ETH-PERP","price":4000,"change_24h":-2.5,"volume_24h":1000000,"open_interest":500000}`,
			want: types.Market{Symbol: "ETH-PERP", Price: 4000, Volume24h: 1000000, OpenInterest: 500000},
		},
		{
			name: "alias fields",
			in:   `{"market":"SOL-PERP","last_price":150,"volume":2000,"oi":900}`,
			want: types.Market{Symbol: "SOL-PERP", Price: 150, Volume24h: 2000, OpenInterest: 900},
		},
		{
			name: "all absent falls back to defaults",
			in:   `{}`,
			want: types.Market{Symbol: "BTC-PERP", Price: 0, Volume24h: 0, OpenInterest: 0},
		},
		{
			name: "quoted numbers tolerated",
			in:   `{"symbol":"BTC-PERP","price":"65000"}`,
			want: types.Market{Symbol: "BTC-PERP", Price: 65000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMarket(json.RawMessage(tt.in), testNow)
			assert.Equal(t, tt.want.Symbol, got.Symbol)
			assert.Equal(t, tt.want.Price, got.Price)
			assert.Equal(t, tt.want.Volume24h, got.Volume24h)
			assert.Equal(t, tt.want.OpenInterest, got.OpenInterest)
			assert.Equal(t, testNow, got.UpdatedAt)
		})
	}
}

func TestNormalizeMarketUnknownChangeIsNone(t *testing.T) {
	// A missing 24h change is reported as unknown, never invented.
	got := NormalizeMarket(json.RawMessage(`{"symbol":"BTC-PERP","price":65000}`), testNow)
	assert.True(t, got.Change24h.IsNone())

	got = NormalizeMarket(json.RawMessage(`{"symbol":"BTC-PERP","change_24h":0}`), testNow)
	assert.True(t, got.Change24h.IsSome(), "an explicit zero is a real value")
	assert.Equal(t, 0.0, got.Change24h.TakeOr(99))

	got = NormalizeMarket(json.RawMessage(`{"symbol":"BTC-PERP","price_change_24h":1.25}`), testNow)
	assert.Equal(t, 1.25, got.Change24h.TakeOr(0))
}

func TestNormalizeRequestDefaults(t *testing.T) {
	got := NormalizeRequest(json.RawMessage(`{}`), testNow)

	assert.Equal(t, "UNKNOWN", got.ID)
	assert.Equal(t, "UNKNOWN", got.AgentID)
	assert.Equal(t, "BTC-PERP", got.Market)
	assert.Equal(t, types.SideLong, got.Side)
	assert.Equal(t, 0.0, got.SizeUSDC)
	assert.Equal(t, 1.0, got.Leverage)
	assert.True(t, got.Reason.IsNone())
	assert.Equal(t, testNow, got.CreatedAt)
}

func TestNormalizeRequestAliases(t *testing.T) {
	in := `{"request_id":"r-9","agent":"momentum-7","symbol":"ETH-PERP","direction":"sell","size":2500,"leverage":3,"reason":"funding skew"}`
	got := NormalizeRequest(json.RawMessage(in), testNow)

	assert.Equal(t, "r-9", got.ID)
	assert.Equal(t, "momentum-7", got.AgentID)
	assert.Equal(t, "ETH-PERP", got.Market)
	assert.Equal(t, types.SideShort, got.Side)
	assert.Equal(t, 2500.0, got.SizeUSDC)
	assert.Equal(t, 3.0, got.Leverage)
	assert.Equal(t, "funding skew", got.Reason.TakeOr(""))
}

func TestNormalizeTradeAliasesAndTimestamps(t *testing.T) {
	in := `{"trade_id":"t-1","symbol":"ETH-PERP","side":"short","size":100,"price":4000,"agent":"agent-2","time":"2026-08-01T10:30:00Z"}`
	got := NormalizeTrade(json.RawMessage(in), testNow)

	assert.Equal(t, "t-1", got.ID)
	assert.Equal(t, "ETH-PERP", got.Market)
	assert.Equal(t, types.SideShort, got.Side)
	assert.Equal(t, 100.0, got.SizeUSDC)
	assert.Equal(t, 4000.0, got.Price)
	assert.Equal(t, "agent-2", got.AgentID)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC), got.Timestamp)
}

func TestNormalizeTradeEpochTimestamps(t *testing.T) {
	// Epoch seconds.
	got := NormalizeTrade(json.RawMessage(`{"id":"t-1","timestamp":1754042400}`), testNow)
	assert.Equal(t, time.Unix(1754042400, 0), got.Timestamp)

	// Epoch millis.
	got = NormalizeTrade(json.RawMessage(`{"id":"t-1","timestamp":1754042400000}`), testNow)
	assert.Equal(t, time.UnixMilli(1754042400000), got.Timestamp)

	// Garbage falls back to the receive time.
	got = NormalizeTrade(json.RawMessage(`{"id":"t-1","timestamp":"yesterdayish"}`), testNow)
	assert.Equal(t, testNow, got.Timestamp)
}

func TestNormalizeThoughtMeta(t *testing.T) {
	in := `{"id":"th-1","agent_id":"agent-3","agent_name":"Basis Hunter","thought":"OI climbing into resistance","asset":"BTC","direction":"bearish","confidence":0.8}`
	got := NormalizeThought(json.RawMessage(in), testNow)

	assert.Equal(t, "Basis Hunter", got.AgentName)
	assert.Equal(t, "OI climbing into resistance", got.Text)

	meta, err := got.Meta.Take()
	assert.NoError(t, err)
	assert.Equal(t, "BTC", meta.Asset)
	assert.Equal(t, types.DirectionShort, meta.Direction)
	assert.Equal(t, 0.8, meta.Confidence)
}

func TestNormalizeThoughtNestedMeta(t *testing.T) {
	in := `{"id":"th-2","agent_id":"agent-3","text":"fading the spike","meta":{"asset":"ETH","direction":"up","confidence":0.4}}`
	got := NormalizeThought(json.RawMessage(in), testNow)

	meta, err := got.Meta.Take()
	assert.NoError(t, err)
	assert.Equal(t, "ETH", meta.Asset)
	assert.Equal(t, types.DirectionLong, meta.Direction)
	assert.Equal(t, 0.4, meta.Confidence)
}

func TestNormalizeThoughtWithoutMeta(t *testing.T) {
	got := NormalizeThought(json.RawMessage(`{"agent_id":"agent-3","text":"just watching"}`), testNow)

	assert.True(t, got.Meta.IsNone())
	assert.Equal(t, "agent-3", got.AgentName, "agent name falls back to the agent id")
}

func TestNormalizeChatMessageAliases(t *testing.T) {
	in := `{"message_id":"m-1","from":"agent-4","message":"anyone fading this?","type":"chat","metadata":{"signal_id":"s-1"}}`
	got := NormalizeChatMessage(json.RawMessage(in), testNow)

	assert.Equal(t, "m-1", got.ID)
	assert.Equal(t, "agent-4", got.Sender)
	assert.Equal(t, "general", got.Channel)
	assert.Equal(t, types.MessageTypeChat, got.Type)
	assert.Equal(t, "anyone fading this?", got.Content)
	assert.Equal(t, "s-1", got.Metadata["signal_id"])
}

func TestNormalizeOnlineCount(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantCount int
		wantOK    bool
	}{
		{name: "bare number", in: `17`, wantCount: 17, wantOK: true},
		{name: "online_agents field", in: `{"online_agents":9}`, wantCount: 9, wantOK: true},
		{name: "online_count field", in: `{"online_count":4}`, wantCount: 4, wantOK: true},
		{name: "count field", in: `{"count":2}`, wantCount: 2, wantOK: true},
		{name: "no recognized field", in: `{"agents":["a","b"]}`, wantCount: 0, wantOK: false},
		{name: "not an object", in: `"seven"`, wantCount: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, ok := NormalizeOnlineCount(json.RawMessage(tt.in))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestNormalizeSide(t *testing.T) {
	assert.Equal(t, types.SideLong, normalizeSide("long"))
	assert.Equal(t, types.SideLong, normalizeSide("BUY"))
	assert.Equal(t, types.SideShort, normalizeSide("short"))
	assert.Equal(t, types.SideShort, normalizeSide("Sell"))
	assert.Equal(t, types.SideLong, normalizeSide(""), "side defaults to long")
}

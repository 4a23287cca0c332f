package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTradeQuantity(t *testing.T) {
	trade := Trade{
		ID:        "t-1",
		Market:    "BTC-PERP",
		Side:      SideLong,
		SizeUSDC:  50000,
		Price:     100000,
		AgentID:   "agent-1",
		Timestamp: time.Now(),
	}

	assert.True(t, trade.Quantity().Equal(decimal.NewFromFloat(0.5)))
}

func TestTradeQuantityZeroPrice(t *testing.T) {
	trade := Trade{SizeUSDC: 1000, Price: 0}
	assert.True(t, trade.Quantity().IsZero())
}

func TestSnapshotClone(t *testing.T) {
	snap := NewSnapshot()
	snap.Markets["BTC-PERP"] = Market{Symbol: "BTC-PERP", Price: 100000}
	snap.Trades = []Trade{{ID: "t-1", Market: "BTC-PERP"}}
	snap.Requests = []TradeRequest{{ID: "r-1", Reason: optional.Some("funding skew")}}
	snap.OnlineAgents = 7

	clone := snap.Clone()

	// Mutating the clone must not leak into the original.
	clone.Markets["ETH-PERP"] = Market{Symbol: "ETH-PERP"}
	clone.Trades = append(clone.Trades, Trade{ID: "t-2"})
	clone.OnlineAgents = 0

	assert.Len(t, snap.Markets, 1)
	assert.Len(t, snap.Trades, 1)
	assert.Equal(t, 7, snap.OnlineAgents)
	assert.Equal(t, "funding skew", clone.Requests[0].Reason.TakeOr(""))
}

func TestNewSnapshotHasMarketMap(t *testing.T) {
	snap := NewSnapshot()
	assert.NotNil(t, snap.Markets)
	assert.Empty(t, snap.Markets)
}

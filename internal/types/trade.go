package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// TradeRequest is an agent's parsed trade intent awaiting execution.
type TradeRequest struct {
	ID      string `json:"id"`
	AgentID string `json:"agent_id"`
	Market  string `json:"market"`
	Side    Side   `json:"side"`
	// SizeUSDC is the requested notional in USDC.
	SizeUSDC float64 `json:"size_usdc"`
	Leverage float64 `json:"leverage"`
	// Reason is the agent's free-text justification, when it gave one.
	Reason    optional.Option[string] `json:"reason,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// Trade is an executed fill reported by the venue.
type Trade struct {
	ID      string `json:"id"`
	Market  string `json:"market"`
	Side    Side   `json:"side"`
	// SizeUSDC is the executed notional in USDC.
	SizeUSDC  float64   `json:"size_usdc"`
	Price     float64   `json:"price"`
	AgentID   string    `json:"agent_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Quantity returns the base-asset quantity implied by the trade's notional
// and execution price. Returns zero for a zero price.
func (t *Trade) Quantity() decimal.Decimal {
	if t.Price == 0 {
		return decimal.Zero
	}

	return decimal.NewFromFloat(t.SizeUSDC).Div(decimal.NewFromFloat(t.Price))
}

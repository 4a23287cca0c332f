package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Market is the latest known state of one perp market, keyed by symbol.
// Updates are last-write-wins; there is exactly one entry per symbol.
type Market struct {
	// Symbol is the venue market identifier, e.g. "BTC-PERP".
	Symbol string `json:"symbol"`
	// Price is the last mark price in USDC.
	Price float64 `json:"price"`
	// Change24h is the 24h price change in percent. None when the venue has
	// not reported it yet; renderers show an explicit unknown marker instead
	// of a made-up number.
	Change24h optional.Option[float64] `json:"change_24h,omitempty"`
	// Volume24h is the 24h traded volume in USDC.
	Volume24h float64 `json:"volume_24h"`
	// OpenInterest is the current open interest in USDC.
	OpenInterest float64 `json:"open_interest"`
	// UpdatedAt is when this entry was last committed locally.
	UpdatedAt time.Time `json:"updated_at"`
}

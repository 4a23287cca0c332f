package config

import (
	"github.com/shopspring/decimal"

	"github.com/agoralabs/agora-terminal/pkg/errors"
)

// CheckOrder verifies a proposed position against the configured limits
// before it is ever sent to the venue. sizeUSDC is the margin committed and
// leverage multiplies it into the position notional.
func (l TradingLimits) CheckOrder(sizeUSDC, leverage float64) error {
	if leverage < 1 {
		return errors.Newf(errors.ErrCodeInvalidLeverage, "leverage %v is below 1x", leverage)
	}

	if leverage > l.MaxLeverage {
		return errors.Newf(errors.ErrCodeInvalidLeverage, "leverage %v exceeds the %vx maximum", leverage, l.MaxLeverage)
	}

	notional := decimal.NewFromFloat(sizeUSDC).Mul(decimal.NewFromFloat(leverage))

	if notional.LessThan(decimal.NewFromFloat(l.MinPositionSize)) {
		return errors.Newf(errors.ErrCodePositionTooSmall, "position notional %s USDC is below the %v minimum", notional.String(), l.MinPositionSize)
	}

	if notional.GreaterThan(decimal.NewFromFloat(l.MaxPositionSize)) {
		return errors.Newf(errors.ErrCodePositionTooLarge, "position notional %s USDC exceeds the %v maximum", notional.String(), l.MaxPositionSize)
	}

	return nil
}

// CheckVaultAmount verifies a vault deposit or withdrawal amount.
func (l TradingLimits) CheckVaultAmount(amountUSDC float64) error {
	if amountUSDC <= 0 {
		return errors.Newf(errors.ErrCodeInvalidVaultAmount, "vault amount %v USDC must be positive", amountUSDC)
	}

	return nil
}

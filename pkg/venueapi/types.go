package venueapi

import (
	"time"

	"github.com/agoralabs/agora-terminal/internal/types"
)

// RegisterAgentRequest enrolls a new autonomous agent with the venue.
type RegisterAgentRequest struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
	// Persona is an optional free-text description of the agent's style,
	// shown on the leaderboard.
	Persona string `json:"persona,omitempty"`
}

// RegisterAgentResponse is the venue's acknowledgement of a registration.
type RegisterAgentResponse struct {
	AgentID string `json:"agent_id"`
	APIKey  string `json:"api_key"`
	// StartingBalance is the paper USDC the agent begins with.
	StartingBalance float64 `json:"starting_balance"`
}

// IntentRequest submits a trade intent. Intent is the agent's natural-language
// instruction; the venue parses it into a structured request. The structured
// fields, when set, override whatever the parser extracts.
type IntentRequest struct {
	// RequestID is a client-generated idempotency id. Filled automatically
	// when empty.
	RequestID string     `json:"request_id,omitempty"`
	AgentID   string     `json:"agent_id"`
	Intent    string     `json:"intent"`
	Market    string     `json:"market,omitempty"`
	Side      types.Side `json:"side,omitempty"`
	SizeUSDC  float64    `json:"size_usdc,omitempty"`
	Leverage  float64    `json:"leverage,omitempty"`
}

// IntentResponse reports how the venue parsed and queued an intent.
type IntentResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	// Parsed is the venue's structured reading of the intent.
	Parsed types.TradeRequest `json:"parsed"`
}

// CreateSignalRequest stakes a prediction other agents may fade.
type CreateSignalRequest struct {
	AgentID    string          `json:"agent_id"`
	Asset      string          `json:"asset"`
	Direction  types.Direction `json:"direction"`
	Confidence float64         `json:"confidence"`
	StakeUSDC  float64         `json:"stake_usdc"`
	// TTL is how long the signal stays open for fading.
	TTL time.Duration `json:"ttl_seconds,omitempty"`
}

// Signal is a staked prediction tracked by the venue.
type Signal struct {
	ID         string          `json:"id"`
	AgentID    string          `json:"agent_id"`
	Asset      string          `json:"asset"`
	Direction  types.Direction `json:"direction"`
	Confidence float64         `json:"confidence"`
	StakeUSDC  float64         `json:"stake_usdc"`
	FadeUSDC   float64         `json:"fade_usdc"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// FadeSignalRequest bets against an open signal.
type FadeSignalRequest struct {
	AgentID   string  `json:"agent_id"`
	StakeUSDC float64 `json:"stake_usdc"`
}

// BalanceMutation moves paper USDC in or out of an agent account.
type BalanceMutation struct {
	AgentID    string  `json:"agent_id"`
	AmountUSDC float64 `json:"amount_usdc"`
}

// Balance is an agent's account state after a mutation.
type Balance struct {
	AgentID       string  `json:"agent_id"`
	AvailableUSDC float64 `json:"available_usdc"`
	LockedUSDC    float64 `json:"locked_usdc"`
}

// CreateVaultRequest opens a managed vault other agents can deposit into.
type CreateVaultRequest struct {
	ManagerID string `json:"manager_id"`
	Name      string `json:"name"`
	// ManagementFeeBps is the manager's annual fee in basis points.
	ManagementFeeBps int `json:"management_fee_bps"`
}

// Vault is a managed pool of agent deposits.
type Vault struct {
	ID               string  `json:"id"`
	ManagerID        string  `json:"manager_id"`
	Name             string  `json:"name"`
	ManagementFeeBps int     `json:"management_fee_bps"`
	NavUSDC          float64 `json:"nav_usdc"`
	TotalShares      float64 `json:"total_shares"`
}

// VaultFlowRequest deposits into or withdraws from a vault.
type VaultFlowRequest struct {
	AgentID    string  `json:"agent_id"`
	AmountUSDC float64 `json:"amount_usdc"`
}

// VaultPosition is an agent's stake in a vault after a flow.
type VaultPosition struct {
	VaultID   string  `json:"vault_id"`
	AgentID   string  `json:"agent_id"`
	Shares    float64 `json:"shares"`
	ValueUSDC float64 `json:"value_usdc"`
}

// LeaderboardEntry ranks one agent by realized performance.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	AgentID    string  `json:"agent_id"`
	AgentName  string  `json:"agent_name"`
	EquityUSDC float64 `json:"equity_usdc"`
	PnlUSDC    float64 `json:"pnl_usdc"`
	WinRate    float64 `json:"win_rate"`
}

// Health is the venue's liveness report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type Direction string

const (
	DirectionLong    Direction = "long"
	DirectionShort   Direction = "short"
	DirectionNeutral Direction = "neutral"
)

// ThoughtMeta is the structured part of a thought, present when the agent
// attached a concrete view to its reasoning.
type ThoughtMeta struct {
	Asset     string    `json:"asset"`
	Direction Direction `json:"direction"`
	// Confidence is the agent's self-reported confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Thought is a free-text reasoning trace broadcast by an agent.
type Thought struct {
	ID        string                       `json:"id"`
	AgentID   string                       `json:"agent_id"`
	AgentName string                       `json:"agent_name"`
	Text      string                       `json:"text"`
	Meta      optional.Option[ThoughtMeta] `json:"meta,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

package types

import "time"

type MessageType string

const (
	MessageTypeChat   MessageType = "chat"
	MessageTypeSystem MessageType = "system"
	MessageTypeTrade  MessageType = "trade"
	MessageTypeSignal MessageType = "signal"
)

// ChatMessage is one entry in an agent chat channel. Unlike the other feed
// collections, chat is kept in append (oldest-first) order.
type ChatMessage struct {
	ID      string      `json:"id"`
	Sender  string      `json:"sender"`
	Channel string      `json:"channel"`
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
	// Metadata carries message-type specific extras the venue attaches,
	// rendered opaquely.
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

package feed

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const dialTimeout = 10 * time.Second

// Conn is the subset of a websocket connection the feed client needs.
// *websocket.Conn satisfies it directly.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a connection to the venue feed endpoint.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// NewWebsocketDialer returns a Dialer backed by gorilla/websocket.
func NewWebsocketDialer() Dialer {
	return websocketDialer{}
}

type websocketDialer struct{}

func (websocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

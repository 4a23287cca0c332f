// Package feed maintains a locally consistent, eventually fresh mirror of
// venue-pushed trading activity: markets, trade requests, fills, agent
// thoughts, chat, and the online-agent count. It hides transport instability
// from consumers behind a bounded linear-backoff reconnect loop and coalesces
// high-frequency bulk updates into one commit per throttle window, while
// discrete events (a new fill, a new thought) commit immediately.
//
// A Client owns its socket, snapshot, and timers exclusively; independent
// clients never share state. All mutation happens on a single run goroutine,
// so message handling needs no locking beyond the guard on the published
// snapshot copy.
package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agoralabs/agora-terminal/internal/logger"
	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/errors"
)

// frameEvent is what the reader goroutine hands to the run loop. A non-nil
// err means the connection is gone and this is the reader's last event.
type frameEvent struct {
	gen  int
	data []byte
	err  error
}

type commandKind int

const (
	cmdSend commandKind = iota
	cmdReconnect
)

type command struct {
	kind    commandKind
	msgType string
	data    any
}

// pendingPatch buffers throttled bulk replacements between flushes. Last
// write per collection wins.
type pendingPatch struct {
	markets      map[string]types.Market
	haveMarkets  bool
	requests     []types.TradeRequest
	haveRequests bool
}

func (p *pendingPatch) reset() {
	p.markets = nil
	p.haveMarkets = false
	p.requests = nil
	p.haveRequests = false
}

// loopState is the run goroutine's private state. Nothing outside the loop
// touches it.
type loopState struct {
	conn      Conn
	gen       int
	retries   int
	pending   pendingPatch
	throttle  Timer
	reconnect Timer
}

// Client is the live feed client. Construct with NewClient, call Start, and
// read the mirrored state via Snapshot and Updates. Close tears down the
// socket and all pending timers synchronously.
type Client struct {
	cfg    Config
	logger *logger.Logger
	dialer Dialer
	clock  Clock

	frames chan frameEvent
	cmds   chan command

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}

	mu     sync.RWMutex
	snap   types.Snapshot
	status Status

	updates chan types.Snapshot
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a production logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDialer overrides the websocket dialer. Used by tests.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithClock overrides the timer source. Used by tests.
func WithClock(clk Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// NewClient validates the config and creates a feed client. The client does
// not connect until Start is called.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid feed config", err)
	}

	c := &Client{
		cfg:     cfg.withDefaults(),
		dialer:  NewWebsocketDialer(),
		clock:   NewRealClock(),
		frames:  make(chan frameEvent, 64),
		cmds:    make(chan command, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		snap:    types.NewSnapshot(),
		status:  Status{State: StateDisconnected},
		updates: make(chan types.Snapshot, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		l, err := logger.NewLogger()
		if err != nil {
			return nil, err
		}

		c.logger = l
	}

	return c, nil
}

// Start begins connecting. A dial failure is not returned to the caller; it
// enters the reconnect path like any mid-stream disconnect. Calling Start
// more than once is a no-op.
func (c *Client) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

// Close tears the client down: pending reconnect and throttle timers are
// cancelled, the socket is closed, and the updates channel is closed. It
// returns once the run loop has exited; no timer or handler fires afterward.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	<-c.stopped
}

// Snapshot returns a copy of the current mirrored state.
func (c *Client) Snapshot() types.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snap.Clone()
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.status
}

// Updates returns a channel carrying the snapshot after each commit. The
// channel holds only the latest snapshot: a slow consumer observes the
// freshest state, not every intermediate one. It is closed by Close.
func (c *Client) Updates() <-chan types.Snapshot {
	return c.updates
}

// Send transmits {"type": msgType, "data": data} if the socket is open.
// Otherwise it is a no-op with a logged warning; it never queues and never
// returns an error.
func (c *Client) Send(msgType string, data any) {
	select {
	case c.cmds <- command{kind: cmdSend, msgType: msgType, data: data}:
	case <-c.done:
		c.logger.Warn("send ignored, feed client closed", zap.String("type", msgType))
	}
}

// Reconnect resets the retry counter and forces an immediate connection
// attempt. It is the only way out of the connection-lost state.
func (c *Client) Reconnect() {
	select {
	case c.cmds <- command{kind: cmdReconnect}:
	case <-c.done:
		c.logger.Warn("reconnect ignored, feed client closed")
	}
}

// run is the single event loop. Socket frames, timer fires, and commands all
// land here; it is the only goroutine that mutates the snapshot.
func (c *Client) run() {
	defer close(c.stopped)

	ls := &loopState{}
	c.connect(ls)

	for {
		var throttleC, reconnectC <-chan time.Time
		if ls.throttle != nil {
			throttleC = ls.throttle.C()
		}

		if ls.reconnect != nil {
			reconnectC = ls.reconnect.C()
		}

		select {
		case <-c.done:
			c.teardown(ls)

			return
		case ev := <-c.frames:
			// Stale events from a previous connection's reader.
			if ev.gen != ls.gen {
				continue
			}

			if ev.err != nil {
				c.logger.Warn("feed socket closed", zap.Error(ev.err))
				c.handleDisconnect(ls, ev.err)

				continue
			}

			c.dispatch(ls, ev.data)
		case <-throttleC:
			ls.throttle = nil
			c.flush(ls)
		case <-reconnectC:
			ls.reconnect = nil
			c.connect(ls)
		case cmd := <-c.cmds:
			c.handleCommand(ls, cmd)
		}
	}
}

func (c *Client) connect(ls *loopState) {
	ls.gen++
	c.setStatus(Status{State: StateConnecting, Attempts: ls.retries})

	conn, err := c.dialer.Dial(context.Background(), c.cfg.URL)
	if err != nil {
		c.logger.Warn("feed dial failed",
			zap.String("url", c.cfg.URL),
			zap.Int("attempt", ls.retries+1),
			zap.Error(err),
		)
		c.handleDisconnect(ls, errors.Wrap(errors.ErrCodeDialFailed, "failed to open socket", err))

		return
	}

	ls.conn = conn
	ls.retries = 0
	c.setStatus(Status{State: StateOpen})
	c.logger.Info("feed connected", zap.String("url", c.cfg.URL))

	go c.readLoop(conn, ls.gen)
}

// readLoop runs one per connection and forwards frames to the run loop. The
// generation tag lets the loop discard events from superseded connections.
func (c *Client) readLoop(conn Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()

		ev := frameEvent{gen: gen, data: data, err: err}
		select {
		case c.frames <- ev:
		case <-c.done:
			return
		}

		if err != nil {
			return
		}
	}
}

// handleDisconnect drives the retry state machine. Attempt n waits n times
// the base backoff (3s, 6s, 9s, 12s, 15s by default); once MaxRetries
// attempts have failed the client parks in the connection-lost state until
// Reconnect is called.
func (c *Client) handleDisconnect(ls *loopState, cause error) {
	if ls.conn != nil {
		_ = ls.conn.Close()
		ls.conn = nil
	}

	if ls.retries >= c.cfg.MaxRetries {
		c.setStatus(Status{
			State:    StateConnectionLost,
			Attempts: ls.retries,
			Err:      errors.Wrap(errors.ErrCodeRetriesExceeded, "connection lost, manual reconnect required", cause),
		})
		c.logger.Error("feed connection lost, no further automatic retries",
			zap.Int("attempts", ls.retries),
			zap.Error(cause),
		)

		return
	}

	delay := c.cfg.RetryBackoff * time.Duration(ls.retries+1)
	ls.retries++
	c.setStatus(Status{State: StateRetrying, Attempts: ls.retries, Err: cause})
	c.logger.Info("feed reconnect scheduled",
		zap.Duration("delay", delay),
		zap.Int("attempt", ls.retries),
	)

	if ls.reconnect != nil {
		ls.reconnect.Stop()
	}

	ls.reconnect = c.clock.NewTimer(delay)
}

func (c *Client) handleCommand(ls *loopState, cmd command) {
	switch cmd.kind {
	case cmdSend:
		c.write(ls, cmd.msgType, cmd.data)
	case cmdReconnect:
		ls.retries = 0

		if ls.reconnect != nil {
			ls.reconnect.Stop()
			ls.reconnect = nil
		}

		if ls.conn != nil {
			c.logger.Debug("reconnect requested while open, ignoring")

			return
		}

		c.connect(ls)
	}
}

func (c *Client) write(ls *loopState, msgType string, data any) {
	if ls.conn == nil {
		c.logger.Warn("send dropped, socket not open", zap.String("type", msgType))

		return
	}

	payload, err := json.Marshal(outboundFrame{Type: msgType, Data: data})
	if err != nil {
		c.logger.Warn("send dropped, payload not serializable",
			zap.String("type", msgType),
			zap.Error(err),
		)

		return
	}

	if err := ls.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		// The read loop will surface the close; the write itself stays
		// a non-event for the caller.
		c.logger.Warn("send failed", zap.String("type", msgType), zap.Error(err))
	}
}

func (c *Client) teardown(ls *loopState) {
	if ls.throttle != nil {
		ls.throttle.Stop()
		ls.throttle = nil
	}

	if ls.reconnect != nil {
		ls.reconnect.Stop()
		ls.reconnect = nil
	}

	if ls.conn != nil {
		_ = ls.conn.Close()
		ls.conn = nil
	}

	c.setStatus(Status{State: StateDisconnected})
	close(c.updates)
	c.logger.Info("feed client closed")
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// commit applies one mutation to the snapshot and publishes the result.
func (c *Client) commit(mutate func(*types.Snapshot)) {
	c.mu.Lock()
	mutate(&c.snap)
	published := c.snap.Clone()
	c.mu.Unlock()

	c.publish(published)
}

// publish delivers the latest snapshot, displacing an unconsumed older one.
// Only the run goroutine calls this, so the drain-then-send cannot race with
// another producer.
func (c *Client) publish(snap types.Snapshot) {
	for {
		select {
		case c.updates <- snap:
			return
		default:
			select {
			case <-c.updates:
			default:
			}
		}
	}
}

// armThrottle starts the flush timer if one is not already pending.
func (c *Client) armThrottle(ls *loopState) {
	if ls.throttle == nil {
		ls.throttle = c.clock.NewTimer(c.cfg.ThrottleWindow)
	}
}

// flush commits the pending bulk replacements and clears the buffer.
func (c *Client) flush(ls *loopState) {
	patch := ls.pending
	ls.pending.reset()

	if !patch.haveMarkets && !patch.haveRequests {
		return
	}

	c.commit(func(s *types.Snapshot) {
		if patch.haveMarkets {
			s.Markets = patch.markets
		}

		if patch.haveRequests {
			s.Requests = patch.requests
		}
	})
}

// dispatch routes one inbound frame. Malformed frames are logged and dropped
// without touching state or the connection; unknown types are ignored so new
// venue frame types do not break older clients.
func (c *Client) dispatch(ls *loopState, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("dropping malformed frame", zap.Error(err))

		return
	}

	now := time.Now()

	switch env.Type {
	case frameMarkets, frameMarketUpdate:
		items := decodeList(env.Data)
		markets := make(map[string]types.Market, len(items))

		for _, item := range items {
			market := NormalizeMarket(item, now)
			markets[market.Symbol] = market
		}

		ls.pending.markets = markets
		ls.pending.haveMarkets = true
		c.armThrottle(ls)

	case frameRequests, frameRequestUpdate:
		items := decodeList(env.Data)
		requests := make([]types.TradeRequest, 0, len(items))

		for _, item := range items {
			requests = append(requests, NormalizeRequest(item, now))
		}

		if len(requests) > MaxRequests {
			requests = requests[:MaxRequests]
		}

		ls.pending.requests = requests
		ls.pending.haveRequests = true
		c.armThrottle(ls)

	case frameNewRequest:
		request := NormalizeRequest(env.Data, now)
		c.commit(func(s *types.Snapshot) {
			s.Requests = prependBounded(s.Requests, request, MaxRequests)
		})

	case frameTrade, frameNewTrade:
		trade := NormalizeTrade(env.Data, now)
		c.commit(func(s *types.Snapshot) {
			s.Trades = prependBounded(s.Trades, trade, MaxTrades)
		})

	case frameThought, frameNewThought:
		thought := NormalizeThought(env.Data, now)
		c.commit(func(s *types.Snapshot) {
			s.Thoughts = prependBounded(s.Thoughts, thought, MaxThoughts)
		})

	case frameChat, frameChatMessage, frameNewMessage:
		message := NormalizeChatMessage(env.Data, now)
		c.commit(func(s *types.Snapshot) {
			s.Messages = appendBounded(s.Messages, message, MaxMessages)
		})

	case frameOnlineAgents, frameStatsUpdate:
		if count, ok := NormalizeOnlineCount(env.Data); ok {
			c.commit(func(s *types.Snapshot) {
				s.OnlineAgents = count
			})
		}

	case frameSnapshot:
		c.applySnapshot(raw, now)

	default:
		c.logger.Debug("ignoring unknown frame type", zap.String("type", env.Type))
	}
}

// applySnapshot replaces every collection present in the frame atomically in
// one commit. Absent collections keep their prior values.
func (c *Client) applySnapshot(raw []byte, now time.Time) {
	var frame snapshotFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Warn("dropping malformed snapshot frame", zap.Error(err))

		return
	}

	c.commit(func(s *types.Snapshot) {
		if frame.Markets != nil {
			markets := make(map[string]types.Market, len(frame.Markets))
			for _, item := range frame.Markets {
				market := NormalizeMarket(item, now)
				markets[market.Symbol] = market
			}

			s.Markets = markets
		}

		if frame.Requests != nil {
			s.Requests = normalizeBounded(frame.Requests, now, MaxRequests, NormalizeRequest)
		}

		if frame.Trades != nil {
			s.Trades = normalizeBounded(frame.Trades, now, MaxTrades, NormalizeTrade)
		}

		if frame.Thoughts != nil {
			s.Thoughts = normalizeBounded(frame.Thoughts, now, MaxThoughts, NormalizeThought)
		}

		if frame.Messages != nil {
			messages := normalizeBounded(frame.Messages, now, len(frame.Messages), NormalizeChatMessage)
			if len(messages) > MaxMessages {
				messages = messages[len(messages)-MaxMessages:]
			}

			s.Messages = messages
		}

		if frame.OnlineCount != nil {
			s.OnlineAgents = *frame.OnlineCount
		}
	})
}

// decodeList accepts either a JSON array or a bare object (treated as a
// one-element list).
func decodeList(data json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return items
	}

	trimmed := string(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return []json.RawMessage{data}
	}

	return nil
}

// prependBounded puts item first and truncates to limit.
func prependBounded[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	out = append(out, list...)

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

// appendBounded puts item last and keeps the trailing limit entries.
func appendBounded[T any](list []T, item T, limit int) []T {
	out := append(append([]T(nil), list...), item)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}

	return out
}

func normalizeBounded[T any](items []json.RawMessage, now time.Time, limit int, normalize func(json.RawMessage, time.Time) T) []T {
	out := make([]T, 0, min(len(items), limit))

	for _, item := range items {
		if len(out) == limit {
			break
		}

		out = append(out, normalize(item, now))
	}

	return out
}

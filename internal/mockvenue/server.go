// Package mockvenue provides an in-memory venue for testing.
// It implements both the live feed WebSocket and the REST API that the
// terminal talks to.
package mockvenue

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/venueapi"
)

const defaultStartingBalance = 10000.0

// Agent is one registered agent account.
type Agent struct {
	ID              string
	Name            string
	APIKey          string
	AvailableUSDC   float64
	LockedUSDC      float64
	StartingBalance float64
}

// vaultState tracks a vault and each depositor's shares.
type vaultState struct {
	vault  venueapi.Vault
	shares map[string]float64
}

// ServerConfig holds configuration for the mock venue.
type ServerConfig struct {
	// StartingBalance is the paper USDC granted on registration.
	StartingBalance float64
	// Markets seeds the market table sent in the connect snapshot.
	Markets []types.Market
}

// VenueServer is a mock venue backed by in-memory state.
type VenueServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	startingBalance float64

	agents   map[string]*Agent
	signals  map[string]*venueapi.Signal
	vaults   map[string]*vaultState
	markets  map[string]types.Market
	requests []types.TradeRequest
	trades   []types.Trade
	thoughts []types.Thought
	messages []types.ChatMessage

	wsMu          sync.RWMutex
	wsConnections map[*websocket.Conn]bool
	clientFrames  [][]byte
}

// NewVenueServer creates a mock venue with the given seed state.
func NewVenueServer(config ServerConfig) *VenueServer {
	server := &VenueServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		startingBalance: config.StartingBalance,
		agents:          make(map[string]*Agent),
		signals:         make(map[string]*venueapi.Signal),
		vaults:          make(map[string]*vaultState),
		markets:         make(map[string]types.Market),
		wsConnections:   make(map[*websocket.Conn]bool),
	}

	if server.startingBalance == 0 {
		server.startingBalance = defaultStartingBalance
	}

	for _, market := range config.Markets {
		server.markets[market.Symbol] = market
	}

	return server
}

// Start starts the mock venue on the given address.
// If address is empty or ":0", a random available port is used.
func (s *VenueServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	router := mux.NewRouter()

	router.HandleFunc("/api/agents/register", s.handleRegister).Methods("POST")
	router.HandleFunc("/api/intents", s.handleIntent).Methods("POST")
	router.HandleFunc("/api/signals", s.handleCreateSignal).Methods("POST")
	router.HandleFunc("/api/signals/{id}/fade", s.handleFadeSignal).Methods("POST")
	router.HandleFunc("/api/balance/deposit", s.handleDeposit).Methods("POST")
	router.HandleFunc("/api/balance/withdraw", s.handleWithdraw).Methods("POST")
	router.HandleFunc("/api/vaults", s.handleCreateVault).Methods("POST")
	router.HandleFunc("/api/vaults/{id}/deposit", s.handleVaultDeposit).Methods("POST")
	router.HandleFunc("/api/vaults/{id}/withdraw", s.handleVaultWithdraw).Methods("POST")
	router.HandleFunc("/api/leaderboard", s.handleLeaderboard).Methods("GET")
	router.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	router.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock venue.
func (s *VenueServer) Stop() error {
	s.DropConnections()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Address returns the address the venue is listening on.
func (s *VenueServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the REST base URL for the venue.
func (s *VenueServer) BaseURL() string {
	return "http://" + s.Address()
}

// WebSocketURL returns the live feed URL for the venue.
func (s *VenueServer) WebSocketURL() string {
	return "ws://" + s.Address() + "/ws"
}

// DropConnections force-closes every live feed connection. Tests use it to
// simulate the venue dropping clients.
func (s *VenueServer) DropConnections() {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for conn := range s.wsConnections {
		conn.Close()
	}

	s.wsConnections = make(map[*websocket.Conn]bool)
}

// OnlineCount returns the number of live feed connections.
func (s *VenueServer) OnlineCount() int {
	s.wsMu.RLock()
	defer s.wsMu.RUnlock()

	return len(s.wsConnections)
}

// ClientFrames returns every raw frame received from feed clients.
func (s *VenueServer) ClientFrames() [][]byte {
	s.wsMu.RLock()
	defer s.wsMu.RUnlock()

	frames := make([][]byte, len(s.clientFrames))
	copy(frames, s.clientFrames)

	return frames
}

// GetAgent returns a copy of a registered agent's account.
func (s *VenueServer) GetAgent(agentID string) *Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if agent, ok := s.agents[agentID]; ok {
		copied := *agent

		return &copied
	}

	return nil
}

// SetMarket updates a market and pushes the full market table to clients.
func (s *VenueServer) SetMarket(market types.Market) {
	s.mu.Lock()
	s.markets[market.Symbol] = market
	table := s.marketTable()
	s.mu.Unlock()

	s.broadcast("market_update", table)
}

// PushTrade appends a trade and announces it on the feed.
func (s *VenueServer) PushTrade(trade types.Trade) {
	s.mu.Lock()
	s.trades = append([]types.Trade{trade}, s.trades...)
	s.mu.Unlock()

	s.broadcast("new_trade", trade)
}

// PushThought appends an agent thought and announces it on the feed.
func (s *VenueServer) PushThought(thought types.Thought) {
	s.mu.Lock()
	s.thoughts = append([]types.Thought{thought}, s.thoughts...)
	s.mu.Unlock()

	s.broadcast("new_thought", thought)
}

// PushMessage appends a chat message and announces it on the feed.
func (s *VenueServer) PushMessage(message types.ChatMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()

	s.broadcast("new_message", message)
}

// handleWebSocket upgrades a feed connection, sends the connect snapshot and
// keeps reading until the client goes away.
func (s *VenueServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.wsMu.Lock()
	s.wsConnections[conn] = true
	online := len(s.wsConnections)
	s.wsMu.Unlock()

	s.sendSnapshot(conn, online)
	s.broadcast("online_agents", map[string]int{"count": online})

	defer func() {
		s.wsMu.Lock()
		if s.wsConnections[conn] {
			delete(s.wsConnections, conn)
		}
		online := len(s.wsConnections)
		s.wsMu.Unlock()

		conn.Close()
		s.broadcast("online_agents", map[string]int{"count": online})
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		s.wsMu.Lock()
		s.clientFrames = append(s.clientFrames, raw)
		s.wsMu.Unlock()
	}
}

// sendSnapshot writes the full-state frame. Collections live at the top level
// of the frame, next to the type tag.
func (s *VenueServer) sendSnapshot(conn *websocket.Conn, online int) {
	s.mu.RLock()
	snapshot := map[string]any{
		"type":         "snapshot",
		"markets":      s.marketTable(),
		"requests":     append([]types.TradeRequest{}, s.requests...),
		"trades":       append([]types.Trade{}, s.trades...),
		"thoughts":     append([]types.Thought{}, s.thoughts...),
		"messages":     append([]types.ChatMessage{}, s.messages...),
		"online_count": online,
	}
	s.mu.RUnlock()

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if err := conn.WriteJSON(snapshot); err != nil {
		conn.Close()
		delete(s.wsConnections, conn)
	}
}

// marketTable flattens the market map into a list. Callers hold s.mu.
func (s *VenueServer) marketTable() []types.Market {
	table := make([]types.Market, 0, len(s.markets))
	for _, market := range s.markets {
		table = append(table, market)
	}

	return table
}

// broadcast sends a typed frame to every live feed connection.
func (s *VenueServer) broadcast(frameType string, data any) {
	frame := map[string]any{"type": frameType, "data": data}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for conn := range s.wsConnections {
		if err := conn.WriteJSON(frame); err != nil {
			conn.Close()
			delete(s.wsConnections, conn)
		}
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

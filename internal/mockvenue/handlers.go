package mockvenue

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"

	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/internal/version"
	"github.com/agoralabs/agora-terminal/pkg/venueapi"
)

const defaultSignalTTL = 15 * time.Minute

// writeDetail writes the venue's error shape: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request body")

		return false
	}

	return true
}

// handleRegister handles POST /api/agents/register.
func (s *VenueServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req venueapi.RegisterAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "agent name is required")

		return
	}

	agent := &Agent{
		ID:              newID("agent"),
		Name:            req.Name,
		APIKey:          newID("key"),
		AvailableUSDC:   s.startingBalance,
		StartingBalance: s.startingBalance,
	}

	s.mu.Lock()
	s.agents[agent.ID] = agent
	s.mu.Unlock()

	s.PushMessage(types.ChatMessage{
		ID:        newID("msg"),
		Sender:    "venue",
		Channel:   "general",
		Type:      types.MessageTypeSystem,
		Content:   agent.Name + " joined the venue",
		Timestamp: time.Now(),
	})

	writeJSON(w, venueapi.RegisterAgentResponse{
		AgentID:         agent.ID,
		APIKey:          agent.APIKey,
		StartingBalance: agent.StartingBalance,
	})
}

// handleIntent handles POST /api/intents.
func (s *VenueServer) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req venueapi.IntentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	agent, ok := s.agents[req.AgentID]
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.Intent == "" && req.Market == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "intent text or a structured market is required")

		return
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = newID("req")
	}

	parsed := types.TradeRequest{
		ID:        requestID,
		AgentID:   agent.ID,
		Market:    req.Market,
		Side:      req.Side,
		SizeUSDC:  req.SizeUSDC,
		Leverage:  req.Leverage,
		CreatedAt: time.Now(),
	}

	if parsed.Market == "" {
		parsed.Market = "BTC-PERP"
	}

	if parsed.Side == "" {
		parsed.Side = types.SideLong
	}

	if parsed.Leverage == 0 {
		parsed.Leverage = 1
	}

	if req.Intent != "" {
		parsed.Reason = optional.Some(req.Intent)
	}

	s.mu.Lock()
	s.requests = append([]types.TradeRequest{parsed}, s.requests...)
	s.mu.Unlock()

	s.broadcast("new_request", parsed)

	writeJSON(w, venueapi.IntentResponse{
		RequestID: requestID,
		Status:    "queued",
		Parsed:    parsed,
	})
}

// handleCreateSignal handles POST /api/signals.
func (s *VenueServer) handleCreateSignal(w http.ResponseWriter, r *http.Request) {
	var req venueapi.CreateSignalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	agent, ok := s.agents[req.AgentID]
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.Confidence < 0 || req.Confidence > 1 {
		writeDetail(w, http.StatusUnprocessableEntity, "confidence must be between 0 and 1")

		return
	}

	ttl := req.TTL
	if ttl == 0 {
		ttl = defaultSignalTTL
	}

	now := time.Now()
	signal := &venueapi.Signal{
		ID:         newID("sig"),
		AgentID:    agent.ID,
		Asset:      req.Asset,
		Direction:  req.Direction,
		Confidence: req.Confidence,
		StakeUSDC:  req.StakeUSDC,
		Status:     "open",
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	s.mu.Lock()
	s.signals[signal.ID] = signal
	s.mu.Unlock()

	s.PushThought(types.Thought{
		ID:        newID("thought"),
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Text:      "staked a signal on " + req.Asset,
		Meta: optional.Some(types.ThoughtMeta{
			Asset:      req.Asset,
			Direction:  req.Direction,
			Confidence: req.Confidence,
		}),
		Timestamp: now,
	})

	writeJSON(w, *signal)
}

// handleFadeSignal handles POST /api/signals/{id}/fade.
func (s *VenueServer) handleFadeSignal(w http.ResponseWriter, r *http.Request) {
	var req venueapi.FadeSignalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	signalID := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	signal, ok := s.signals[signalID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "signal not found")

		return
	}

	if signal.Status != "open" || time.Now().After(signal.ExpiresAt) {
		writeDetail(w, http.StatusUnprocessableEntity, "signal is no longer open")

		return
	}

	if signal.AgentID == req.AgentID {
		writeDetail(w, http.StatusUnprocessableEntity, "cannot fade your own signal")

		return
	}

	signal.FadeUSDC += req.StakeUSDC

	writeJSON(w, *signal)
}

// handleDeposit handles POST /api/balance/deposit.
func (s *VenueServer) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req venueapi.BalanceMutation
	if !decodeBody(w, r, &req) {
		return
	}

	if req.AmountUSDC <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "amount must be positive")

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[req.AgentID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	agent.AvailableUSDC += req.AmountUSDC

	writeJSON(w, balanceOf(agent))
}

// handleWithdraw handles POST /api/balance/withdraw.
func (s *VenueServer) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req venueapi.BalanceMutation
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[req.AgentID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.AmountUSDC <= 0 || req.AmountUSDC > agent.AvailableUSDC {
		writeDetail(w, http.StatusUnprocessableEntity, "insufficient balance")

		return
	}

	agent.AvailableUSDC -= req.AmountUSDC

	writeJSON(w, balanceOf(agent))
}

// handleCreateVault handles POST /api/vaults.
func (s *VenueServer) handleCreateVault(w http.ResponseWriter, r *http.Request) {
	var req venueapi.CreateVaultRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[req.ManagerID]; !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "vault name is required")

		return
	}

	state := &vaultState{
		vault: venueapi.Vault{
			ID:               newID("vault"),
			ManagerID:        req.ManagerID,
			Name:             req.Name,
			ManagementFeeBps: req.ManagementFeeBps,
		},
		shares: make(map[string]float64),
	}
	s.vaults[state.vault.ID] = state

	writeJSON(w, state.vault)
}

// handleVaultDeposit handles POST /api/vaults/{id}/deposit.
// Shares are issued 1:1 with USDC while the vault NAV tracks deposits only.
func (s *VenueServer) handleVaultDeposit(w http.ResponseWriter, r *http.Request) {
	var req venueapi.VaultFlowRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vaultID := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.vaults[vaultID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "vault not found")

		return
	}

	agent, ok := s.agents[req.AgentID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.AmountUSDC <= 0 || req.AmountUSDC > agent.AvailableUSDC {
		writeDetail(w, http.StatusUnprocessableEntity, "insufficient balance")

		return
	}

	agent.AvailableUSDC -= req.AmountUSDC
	agent.LockedUSDC += req.AmountUSDC
	state.shares[req.AgentID] += req.AmountUSDC
	state.vault.NavUSDC += req.AmountUSDC
	state.vault.TotalShares += req.AmountUSDC

	writeJSON(w, venueapi.VaultPosition{
		VaultID:   vaultID,
		AgentID:   req.AgentID,
		Shares:    state.shares[req.AgentID],
		ValueUSDC: state.shares[req.AgentID],
	})
}

// handleVaultWithdraw handles POST /api/vaults/{id}/withdraw.
func (s *VenueServer) handleVaultWithdraw(w http.ResponseWriter, r *http.Request) {
	var req venueapi.VaultFlowRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vaultID := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.vaults[vaultID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "vault not found")

		return
	}

	agent, ok := s.agents[req.AgentID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "agent not found")

		return
	}

	if req.AmountUSDC <= 0 || req.AmountUSDC > state.shares[req.AgentID] {
		writeDetail(w, http.StatusUnprocessableEntity, "insufficient vault shares")

		return
	}

	agent.AvailableUSDC += req.AmountUSDC
	agent.LockedUSDC -= req.AmountUSDC
	state.shares[req.AgentID] -= req.AmountUSDC
	state.vault.NavUSDC -= req.AmountUSDC
	state.vault.TotalShares -= req.AmountUSDC

	writeJSON(w, venueapi.VaultPosition{
		VaultID:   vaultID,
		AgentID:   req.AgentID,
		Shares:    state.shares[req.AgentID],
		ValueUSDC: state.shares[req.AgentID],
	})
}

// handleLeaderboard handles GET /api/leaderboard. Agents are ranked by
// equity, deposits and withdrawals included.
func (s *VenueServer) handleLeaderboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()

	entries := make([]venueapi.LeaderboardEntry, 0, len(s.agents))
	for _, agent := range s.agents {
		equity := agent.AvailableUSDC + agent.LockedUSDC
		entries = append(entries, venueapi.LeaderboardEntry{
			AgentID:    agent.ID,
			AgentName:  agent.Name,
			EquityUSDC: equity,
			PnlUSDC:    equity - agent.StartingBalance,
		})
	}

	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EquityUSDC > entries[j].EquityUSDC
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	writeJSON(w, entries)
}

// handleHealth handles GET /api/health.
func (s *VenueServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, venueapi.Health{
		Status:  "ok",
		Version: version.GetVersion(),
	})
}

func balanceOf(agent *Agent) venueapi.Balance {
	return venueapi.Balance{
		AgentID:       agent.ID,
		AvailableUSDC: agent.AvailableUSDC,
		LockedUSDC:    agent.LockedUSDC,
	}
}

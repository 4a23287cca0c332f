package venueapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/agoralabs/agora-terminal/internal/logger"
	"github.com/agoralabs/agora-terminal/internal/version"
	"github.com/agoralabs/agora-terminal/pkg/errors"
)

type ClientTestSuite struct {
	suite.Suite

	mux    *http.ServeMux
	server *httptest.Server
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.mux = http.NewServeMux()
	suite.server = httptest.NewServer(suite.mux)

	client, err := NewClient(suite.server.URL, WithLogger(logger.NewNopLogger()))
	suite.Require().NoError(err)
	suite.client = client
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *ClientTestSuite) TestNewClientRequiresBaseURL() {
	_, err := NewClient("")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingEndpoint))
}

func (suite *ClientTestSuite) TestRegisterAgent() {
	suite.mux.HandleFunc("/api/agents/register", func(w http.ResponseWriter, r *http.Request) {
		suite.Equal(http.MethodPost, r.Method)

		var req RegisterAgentRequest
		suite.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		suite.Equal("Basis Hunter", req.Name)

		_ = json.NewEncoder(w).Encode(RegisterAgentResponse{
			AgentID:         "agent-1",
			APIKey:          "key-1",
			StartingBalance: 10000,
		})
	})

	resp, err := suite.client.RegisterAgent(context.Background(), RegisterAgentRequest{Name: "Basis Hunter"})
	suite.Require().NoError(err)
	suite.Equal("agent-1", resp.AgentID)
	suite.Equal(10000.0, resp.StartingBalance)
}

func (suite *ClientTestSuite) TestRegisterAgentRequiresName() {
	// Validation fails before any request is made.
	_, err := suite.client.RegisterAgent(context.Background(), RegisterAgentRequest{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *ClientTestSuite) TestRejectionCarriesDetail() {
	suite.mux.HandleFunc("/api/intents", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "leverage above venue maximum"})
	})

	_, err := suite.client.SubmitIntent(context.Background(), IntentRequest{
		AgentID: "agent-1",
		Intent:  "long 100x BTC",
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeAPIRejected))
	suite.True(errors.IsAPIError(err))
	suite.Contains(err.Error(), "leverage above venue maximum")
}

func (suite *ClientTestSuite) TestRejectionWithoutDetailBody() {
	suite.mux.HandleFunc("/api/balance/deposit", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := suite.client.Deposit(context.Background(), BalanceMutation{AgentID: "agent-1", AmountUSDC: 100})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "request failed")
}

func (suite *ClientTestSuite) TestSubmitIntentGeneratesRequestID() {
	var received IntentRequest

	suite.mux.HandleFunc("/api/intents", func(w http.ResponseWriter, r *http.Request) {
		suite.Require().NoError(json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(IntentResponse{RequestID: received.RequestID, Status: "queued"})
	})

	resp, err := suite.client.SubmitIntent(context.Background(), IntentRequest{
		AgentID: "agent-1",
		Intent:  "short 2x ETH against funding",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(received.RequestID, "a client-side idempotency id must be generated")
	suite.Equal(received.RequestID, resp.RequestID)
	suite.Equal("queued", resp.Status)
}

func (suite *ClientTestSuite) TestCreateSignalRejectsBadConfidence() {
	_, err := suite.client.CreateSignal(context.Background(), CreateSignalRequest{
		AgentID:    "agent-1",
		Asset:      "BTC",
		Confidence: 1.5,
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfidence))
}

func (suite *ClientTestSuite) TestFadeSignal() {
	suite.mux.HandleFunc("/api/signals/sig-1/fade", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Signal{ID: "sig-1", FadeUSDC: 250, Status: "open"})
	})

	signal, err := suite.client.FadeSignal(context.Background(), "sig-1", FadeSignalRequest{
		AgentID:   "agent-2",
		StakeUSDC: 250,
	})
	suite.Require().NoError(err)
	suite.Equal(250.0, signal.FadeUSDC)
}

func (suite *ClientTestSuite) TestVaultFlowsRequireVaultID() {
	_, err := suite.client.VaultDeposit(context.Background(), "", VaultFlowRequest{})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = suite.client.VaultWithdraw(context.Background(), "", VaultFlowRequest{})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *ClientTestSuite) TestLeaderboard() {
	suite.mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		suite.Equal(http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode([]LeaderboardEntry{
			{Rank: 1, AgentID: "agent-1", AgentName: "Basis Hunter", PnlUSDC: 1200},
			{Rank: 2, AgentID: "agent-2", AgentName: "Momentum 7", PnlUSDC: -300},
		})
	})

	entries, err := suite.client.Leaderboard(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal("Basis Hunter", entries[0].AgentName)
}

func (suite *ClientTestSuite) TestHealthOK() {
	suite.mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Health{Status: "ok", Version: version.GetVersion()})
	})

	health, err := suite.client.Health(context.Background())
	suite.Require().NoError(err)
	suite.Equal("ok", health.Status)
}

func (suite *ClientTestSuite) TestHealthUnhealthy() {
	suite.mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Health{Status: "degraded"})
	})

	_, err := suite.client.Health(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeVenueUnhealthy))
}

func (suite *ClientTestSuite) TestHealthIncompatibleVersion() {
	suite.mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Health{Status: "ok", Version: "99.0.0"})
	})

	_, err := suite.client.Health(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeVersionIncompatible))
}

func TestDecodeDetailFallback(t *testing.T) {
	require.Equal(t, "request failed", decodeDetail(http.NoBody))
}

// Package venueapi is the typed client for the venue's REST surface:
// registration, intents, signals, balances, vaults, leaderboard, and health.
// The venue is authoritative for everything; this client only shapes requests
// and decodes responses. Failures come back as coded errors carrying the
// venue's {"detail": ...} message, never as panics.
package venueapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agoralabs/agora-terminal/internal/logger"
	"github.com/agoralabs/agora-terminal/internal/version"
	"github.com/agoralabs/agora-terminal/pkg/errors"
)

const defaultRequestTimeout = 15 * time.Second

// Client calls the venue REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a production logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a venue API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeMissingEndpoint, "venue API base URL is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
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

// errorBody is the venue's error response shape.
type errorBody struct {
	Detail string `json:"detail"`
}

// do executes one JSON round-trip. A nil body sends no payload; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeAPIRequestFailed, err, "failed to encode request for %s", path)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeAPIRequestFailed, err, "failed to build request for %s", path)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeAPIRequestFailed, err, "request to %s failed", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		detail := decodeDetail(resp.Body)
		c.logger.Warn("venue api rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)

		return errors.Wrapf(errors.ErrCodeAPIRejected,
			errors.NewAPIError(resp.StatusCode, detail, path),
			"%s %s rejected", method, path)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(errors.ErrCodeAPIDecodeFailed, err, "failed to decode response from %s", path)
	}

	return nil
}

// decodeDetail extracts the venue's detail string, falling back to a generic
// message for bodies that are not the documented error shape.
func decodeDetail(body io.Reader) string {
	var eb errorBody
	if err := json.NewDecoder(body).Decode(&eb); err != nil || eb.Detail == "" {
		return "request failed"
	}

	return eb.Detail
}

// RegisterAgent enrolls a new agent with the venue.
func (c *Client) RegisterAgent(ctx context.Context, req RegisterAgentRequest) (RegisterAgentResponse, error) {
	var resp RegisterAgentResponse
	if req.Name == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "agent name is required")
	}

	err := c.do(ctx, http.MethodPost, "/api/agents/register", req, &resp)

	return resp, err
}

// SubmitIntent submits a trade intent. A missing RequestID is filled with a
// generated idempotency id before sending.
func (c *Client) SubmitIntent(ctx context.Context, req IntentRequest) (IntentResponse, error) {
	var resp IntentResponse
	if req.AgentID == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "agent id is required")
	}

	if req.Intent == "" && req.Market == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "intent text or a structured market is required")
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	err := c.do(ctx, http.MethodPost, "/api/intents", req, &resp)

	return resp, err
}

// CreateSignal stakes a prediction.
func (c *Client) CreateSignal(ctx context.Context, req CreateSignalRequest) (Signal, error) {
	var resp Signal
	if req.Confidence < 0 || req.Confidence > 1 {
		return resp, errors.Newf(errors.ErrCodeInvalidConfidence, "confidence %v outside [0, 1]", req.Confidence)
	}

	err := c.do(ctx, http.MethodPost, "/api/signals", req, &resp)

	return resp, err
}

// FadeSignal bets against an open signal.
func (c *Client) FadeSignal(ctx context.Context, signalID string, req FadeSignalRequest) (Signal, error) {
	var resp Signal
	if signalID == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "signal id is required")
	}

	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/signals/%s/fade", signalID), req, &resp)

	return resp, err
}

// Deposit credits paper USDC to an agent account.
func (c *Client) Deposit(ctx context.Context, req BalanceMutation) (Balance, error) {
	var resp Balance
	err := c.do(ctx, http.MethodPost, "/api/balance/deposit", req, &resp)

	return resp, err
}

// Withdraw debits paper USDC from an agent account.
func (c *Client) Withdraw(ctx context.Context, req BalanceMutation) (Balance, error) {
	var resp Balance
	err := c.do(ctx, http.MethodPost, "/api/balance/withdraw", req, &resp)

	return resp, err
}

// CreateVault opens a managed vault.
func (c *Client) CreateVault(ctx context.Context, req CreateVaultRequest) (Vault, error) {
	var resp Vault
	err := c.do(ctx, http.MethodPost, "/api/vaults", req, &resp)

	return resp, err
}

// VaultDeposit deposits into a vault.
func (c *Client) VaultDeposit(ctx context.Context, vaultID string, req VaultFlowRequest) (VaultPosition, error) {
	var resp VaultPosition
	if vaultID == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "vault id is required")
	}

	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/vaults/%s/deposit", vaultID), req, &resp)

	return resp, err
}

// VaultWithdraw withdraws from a vault.
func (c *Client) VaultWithdraw(ctx context.Context, vaultID string, req VaultFlowRequest) (VaultPosition, error) {
	var resp VaultPosition
	if vaultID == "" {
		return resp, errors.New(errors.ErrCodeMissingParameter, "vault id is required")
	}

	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/vaults/%s/withdraw", vaultID), req, &resp)

	return resp, err
}

// Leaderboard returns agents ranked by performance.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var resp []LeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &resp)

	return resp, err
}

// Health checks venue liveness and verifies the venue's API version is
// compatible with this client.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var resp Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return resp, err
	}

	if resp.Status != "ok" {
		return resp, errors.Newf(errors.ErrCodeVenueUnhealthy, "venue reports status %q", resp.Status)
	}

	if resp.Version != "" {
		if err := version.CheckVenueCompatibility(version.GetVersion(), resp.Version); err != nil {
			return resp, errors.Wrap(errors.ErrCodeVersionIncompatible, "venue version incompatible", err)
		}
	}

	return resp, nil
}

// agentctl is the collaborator-facing CLI for the venue's REST API. It covers
// agent registration, trade intents, signals, balances and vaults.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/agoralabs/agora-terminal/internal/config"
	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/feed"
	"github.com/agoralabs/agora-terminal/pkg/venueapi"
)

// newAPIClient loads config, applies flag overrides and builds a REST client.
func newAPIClient(cmd *cli.Command) (*venueapi.Client, config.Config, error) {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if api := cmd.String("api"); api != "" {
		cfg.APIBaseURL = api
	}

	client, err := venueapi.NewClient(cfg.APIBaseURL)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, cfg, nil
}

// printJSON writes any API response as indented JSON to stdout.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func registerAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.RegisterAgent(ctx, venueapi.RegisterAgentRequest{
		Name:    cmd.String("name"),
		Model:   cmd.String("model"),
		Persona: cmd.String("persona"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func intentAction(ctx context.Context, cmd *cli.Command) error {
	client, cfg, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	size := cmd.Float64("size")
	leverage := cmd.Float64("leverage")

	// Structured orders are checked against local limits before they leave
	// the machine. Pure natural-language intents are the venue's problem.
	if size > 0 {
		if leverage == 0 {
			leverage = 1
		}

		if err := cfg.Limits.CheckOrder(size, leverage); err != nil {
			return err
		}
	}

	resp, err := client.SubmitIntent(ctx, venueapi.IntentRequest{
		AgentID:  cmd.String("agent"),
		Intent:   cmd.String("text"),
		Market:   cmd.String("market"),
		Side:     types.Side(cmd.String("side")),
		SizeUSDC: size,
		Leverage: leverage,
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func signalCreateAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.CreateSignal(ctx, venueapi.CreateSignalRequest{
		AgentID:    cmd.String("agent"),
		Asset:      cmd.String("asset"),
		Direction:  types.Direction(cmd.String("direction")),
		Confidence: cmd.Float64("confidence"),
		StakeUSDC:  cmd.Float64("stake"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func signalFadeAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.FadeSignal(ctx, cmd.String("id"), venueapi.FadeSignalRequest{
		AgentID:   cmd.String("agent"),
		StakeUSDC: cmd.Float64("stake"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func depositAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.Deposit(ctx, venueapi.BalanceMutation{
		AgentID:    cmd.String("agent"),
		AmountUSDC: cmd.Float64("amount"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func withdrawAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.Withdraw(ctx, venueapi.BalanceMutation{
		AgentID:    cmd.String("agent"),
		AmountUSDC: cmd.Float64("amount"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func vaultCreateAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.CreateVault(ctx, venueapi.CreateVaultRequest{
		ManagerID:        cmd.String("agent"),
		Name:             cmd.String("name"),
		ManagementFeeBps: int(cmd.Int("fee-bps")),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func vaultFlowAction(deposit bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		client, cfg, err := newAPIClient(cmd)
		if err != nil {
			return err
		}

		amount := cmd.Float64("amount")
		if err := cfg.Limits.CheckVaultAmount(amount); err != nil {
			return err
		}

		req := venueapi.VaultFlowRequest{
			AgentID:    cmd.String("agent"),
			AmountUSDC: amount,
		}

		var resp venueapi.VaultPosition
		if deposit {
			resp, err = client.VaultDeposit(ctx, cmd.String("id"), req)
		} else {
			resp, err = client.VaultWithdraw(ctx, cmd.String("id"), req)
		}

		if err != nil {
			return err
		}

		return printJSON(resp)
	}
}

func leaderboardAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	entries, err := client.Leaderboard(ctx)
	if err != nil {
		return err
	}

	return printJSON(entries)
}

func healthAction(ctx context.Context, cmd *cli.Command) error {
	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	health, err := client.Health(ctx)
	if err != nil {
		return err
	}

	return printJSON(health)
}

func feedSchemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := feed.ConfigSchema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func agentFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "agent",
		Aliases:  []string{"a"},
		Usage:    "Agent id",
		Required: true,
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "agentctl",
		Usage: "Drive an agent account on the venue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "api",
				Usage: "Venue REST URL (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Register a new agent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Agent display name", Required: true},
					&cli.StringFlag{Name: "model", Usage: "Model powering the agent"},
					&cli.StringFlag{Name: "persona", Usage: "Free-text trading persona"},
				},
				Action: registerAction,
			},
			{
				Name:  "intent",
				Usage: "Submit a trade intent",
				Flags: []cli.Flag{
					agentFlag(),
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Natural-language intent"},
					&cli.StringFlag{Name: "market", Usage: "Market symbol, e.g. BTC-PERP"},
					&cli.StringFlag{Name: "side", Usage: "long or short"},
					&cli.Float64Flag{Name: "size", Usage: "Margin in USDC"},
					&cli.Float64Flag{Name: "leverage", Usage: "Position leverage"},
				},
				Action: intentAction,
			},
			{
				Name:  "signal",
				Usage: "Manage staked signals",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Stake a new signal",
						Flags: []cli.Flag{
							agentFlag(),
							&cli.StringFlag{Name: "asset", Usage: "Asset the signal is about", Required: true},
							&cli.StringFlag{Name: "direction", Usage: "long, short or neutral"},
							&cli.Float64Flag{Name: "confidence", Usage: "Confidence between 0 and 1"},
							&cli.Float64Flag{Name: "stake", Usage: "Stake in USDC"},
						},
						Action: signalCreateAction,
					},
					{
						Name:  "fade",
						Usage: "Bet against an open signal",
						Flags: []cli.Flag{
							agentFlag(),
							&cli.StringFlag{Name: "id", Usage: "Signal id", Required: true},
							&cli.Float64Flag{Name: "stake", Usage: "Stake in USDC"},
						},
						Action: signalFadeAction,
					},
				},
			},
			{
				Name:  "deposit",
				Usage: "Deposit paper USDC",
				Flags: []cli.Flag{
					agentFlag(),
					&cli.Float64Flag{Name: "amount", Usage: "Amount in USDC", Required: true},
				},
				Action: depositAction,
			},
			{
				Name:  "withdraw",
				Usage: "Withdraw paper USDC",
				Flags: []cli.Flag{
					agentFlag(),
					&cli.Float64Flag{Name: "amount", Usage: "Amount in USDC", Required: true},
				},
				Action: withdrawAction,
			},
			{
				Name:  "vault",
				Usage: "Manage vaults",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Open a managed vault",
						Flags: []cli.Flag{
							agentFlag(),
							&cli.StringFlag{Name: "name", Usage: "Vault name", Required: true},
							&cli.IntFlag{Name: "fee-bps", Usage: "Annual management fee in basis points"},
						},
						Action: vaultCreateAction,
					},
					{
						Name:  "deposit",
						Usage: "Deposit into a vault",
						Flags: []cli.Flag{
							agentFlag(),
							&cli.StringFlag{Name: "id", Usage: "Vault id", Required: true},
							&cli.Float64Flag{Name: "amount", Usage: "Amount in USDC", Required: true},
						},
						Action: vaultFlowAction(true),
					},
					{
						Name:  "withdraw",
						Usage: "Withdraw from a vault",
						Flags: []cli.Flag{
							agentFlag(),
							&cli.StringFlag{Name: "id", Usage: "Vault id", Required: true},
							&cli.Float64Flag{Name: "amount", Usage: "Amount in USDC", Required: true},
						},
						Action: vaultFlowAction(false),
					},
				},
			},
			{
				Name:   "leaderboard",
				Usage:  "Show the venue leaderboard",
				Action: leaderboardAction,
			},
			{
				Name:   "health",
				Usage:  "Check venue health and version compatibility",
				Action: healthAction,
			},
			{
				Name:  "feed",
				Usage: "Feed client utilities",
				Commands: []*cli.Command{
					{
						Name:   "schema",
						Usage:  "Print the feed config JSON schema",
						Action: feedSchemaAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

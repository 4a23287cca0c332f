package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/agoralabs/agora-terminal/internal/config"
	"github.com/agoralabs/agora-terminal/internal/logger"
	"github.com/agoralabs/agora-terminal/pkg/feed"
)

// terminalAction wires the feed client to the TUI and runs it until quit.
func terminalAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if ws := cmd.String("ws"); ws != "" {
		cfg.WebSocketURL = ws
	}

	if cmd.Bool("debug") {
		cfg.Debug = true
	}

	var log *logger.Logger
	if cfg.Debug {
		log, err = logger.NewDebugLogger()
	} else {
		log, err = logger.NewLogger()
	}

	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	client, err := feed.NewClient(feed.Config{URL: cfg.WebSocketURL}, feed.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create feed client: %w", err)
	}

	client.Start()
	defer client.Close()

	program := tea.NewProgram(NewModel(client), tea.WithAltScreen())

	// Forward feed snapshots into the program. The updates channel closes
	// when the client shuts down.
	go func() {
		for snapshot := range client.Updates() {
			program.Send(SnapshotMsg{Snapshot: snapshot})
		}

		program.Send(FeedClosedMsg{})
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal exited with error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "terminal",
		Usage: "Watch the venue's live feed from your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "ws",
				Usage: "Live feed WebSocket URL (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: terminalAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

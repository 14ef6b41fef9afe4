package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	id         string
	balance    float64
	guest      bool
	invite     string
	bet        float64
	rounds     int
	accept     string
	jsonOutput bool
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Join the game connection and stream events",
		Long: `Open the game connection and print every event the server sends.

With --id or --guest the connection registers first, so the roster,
invites and game frames addressed to that player are shown. --invite and
--accept send one matchmaking request after registering.

Events include:
  - players: Roster changed
  - invites: Pending invites for this player changed
  - game: Per-viewer game frame
  - close: The opponent left the game
  - error: A request was rejected

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.invite != "" && opts.accept != "" {
				return errors.New("--invite and --accept are mutually exclusive")
			}
			if (opts.invite != "" || opts.accept != "") && opts.id == "" && !opts.guest {
				return errors.New("--id or --guest is required to invite or accept")
			}
			opts.jsonOutput = opts.jsonOutput || cfg.Output == "json"
			return watch(opts)
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "Player identity to register as")
	cmd.Flags().Float64Var(&opts.balance, "balance", 0, "Balance to report when registering")
	cmd.Flags().BoolVar(&opts.guest, "guest", false, "Register as a guest")
	cmd.Flags().StringVar(&opts.invite, "invite", "", "Invite this player after registering")
	cmd.Flags().Float64Var(&opts.bet, "bet", 0, "Stake offered with --invite")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 5, "Rounds to play with --invite")
	cmd.Flags().StringVar(&opts.accept, "accept", "", "Accept an invite from this host after registering")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// WatchEvent is a received event as printed in JSON mode
type WatchEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

func watch(opts watchOptions) error {
	wsURL, err := cfg.WebSocketURL()
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
		case <-ctx.Done():
		}
	}()

	if err := sendRequests(conn, opts); err != nil {
		return err
	}

	if !opts.jsonOutput {
		fmt.Printf("Connected to %s\n", wsURL)
	}

	for {
		var msg WatchEvent
		if err := conn.ReadJSON(&msg); err != nil {
			// Interrupt or a normal close is expected
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				if !opts.jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		msg.Time = time.Now()
		printEvent(msg, opts.jsonOutput)
	}
}

func sendRequests(conn *websocket.Conn, opts watchOptions) error {
	var requests []envelope

	if opts.id != "" || opts.guest {
		requests = append(requests, envelope{Event: "register", Data: map[string]any{
			"id":      opts.id,
			"balance": opts.balance,
			"guest":   opts.guest,
		}})
	}
	if opts.invite != "" {
		requests = append(requests, envelope{Event: "invite", Data: map[string]any{
			"id":     opts.invite,
			"bet":    opts.bet,
			"rounds": opts.rounds,
		}})
	}
	if opts.accept != "" {
		requests = append(requests, envelope{Event: "accept", Data: map[string]any{
			"id": opts.accept,
		}})
	}

	for _, req := range requests {
		if err := conn.WriteJSON(req); err != nil {
			return fmt.Errorf("failed to send %s: %w", req.Event, err)
		}
	}
	return nil
}

func printEvent(evt WatchEvent, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
		return
	}

	timestamp := evt.Time.Format("2006-01-02 15:04:05")
	// Truncate data if it's too long for display
	displayData := string(evt.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	fmt.Printf("[%s] %s: %s\n", timestamp, evt.Event, displayData)
}

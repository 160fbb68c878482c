package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/tilewm/internal/ipc"
	"github.com/mj1618/tilewm/internal/output"
	"github.com/mj1618/tilewm/internal/wm"
)

var subCmd = &cobra.Command{
	Use:     "sub -e <event>...",
	Aliases: []string{"subscribe"},
	Short:   "Stream events from the running window manager",
	Long: `Subscribe to window manager events and print each one as it arrives,
until interrupted or the subscription is closed with unsub.

Events: ` + eventList() + `

Examples:
  tilewm sub -e window_managed -e focus_changed
  tilewm sub -e all --format json`,
	Args: cobra.NoArgs,
	RunE: runSub,
}

func init() {
	rootCmd.AddCommand(subCmd)
	subCmd.Flags().StringSliceP("events", "e", nil, "Events to subscribe to")
	_ = subCmd.MarkFlagRequired("events")
}

func eventList() string {
	names := make([]string, len(wm.EventTypes))
	for i, t := range wm.EventTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runSub(cmd *cobra.Command, args []string) error {
	events, _ := cmd.Flags().GetStringSlice("events")
	for _, e := range events {
		if _, err := wm.ParseEventType(e); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	client, err := dialWM(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.Request(ctx, "sub -e "+strings.Join(events, ","))
	if err != nil {
		return err
	}
	var sub ipc.SubscribeResult
	if err := json.Unmarshal(resp.Data, &sub); err != nil {
		return fmt.Errorf("decode subscribe response: %w", err)
	}
	fmt.Fprintf(os.Stderr, "subscription %s\n", sub.SubscriptionID)
	return streamEvents(ctx, client, sub)
}

// streamEvents prints the subscription's events until the end-of-stream
// marker arrives or ctx ends.
func streamEvents(ctx context.Context, client *ipc.Client, sub ipc.SubscribeResult) error {
	for {
		m, err := client.Next(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}
		if m.MessageType != ipc.TypeEventSubscription || m.SubscriptionID == nil || *m.SubscriptionID != sub.SubscriptionID {
			continue
		}
		if m.IsEndOfStream() {
			return nil
		}
		if err := output.PrintStreamItem(m.Data); err != nil {
			return err
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/notify"
	"github.com/fieldops/fieldops/internal/repo"
	"github.com/fieldops/fieldops/internal/session"
	"github.com/fieldops/fieldops/internal/stream"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live notification stream",
	Long: `Follows the backend's notification stream, printing each
notification as it arrives and re-fetching the calendar when a
notification changes it. Reconnects automatically with backoff.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch session.Bootstrap(cmd.Context(), tokens, client) {
		case session.Unauthenticated:
			return fmt.Errorf("not logged in: run `fieldops login` first")
		case session.AuthenticatedOffline:
			fmt.Println("Backend unreachable; will keep retrying the stream")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The token is re-read per attempt so reconnects after a
		// refresh carry the current access token.
		open := func(ctx context.Context) (*stream.Stream, error) {
			access, ok := tokens.AccessToken()
			if !ok {
				return nil, fmt.Errorf("no access token stored")
			}
			return stream.Open(ctx, client.StreamURL(access), cfg.Stream.Buffer)
		}

		inbox := notify.NewInbox()
		consumer := notify.NewConsumer(inbox, notify.Options{
			Grace:       time.Duration(cfg.Stream.GracePeriodSec) * time.Second,
			AlertExpiry: time.Duration(cfg.Stream.AlertExpirySec) * time.Second,
			Sound:       terminalBell,
			OnNew:       printNotification,
		})

		redialer := stream.NewRedialer(open, cfg.Stream.Buffer)

		go func() {
			cal := repo.NewCalendar(client, store, msgs)
			for range consumer.Refresh() {
				result := repo.Await(cal.Events(ctx, api.CalendarFilter{}))
				if result.Kind == repo.Success {
					fmt.Printf("calendar refreshed: %d event(s)\n", result.Data.TotalEvents)
				}
			}
		}()

		fmt.Println("Watching for notifications (Ctrl-C to stop)...")

		done := make(chan error, 1)
		go func() { done <- redialer.Run(ctx) }()

		err := consumer.Run(ctx, redialer.Events())
		<-done

		if ctx.Err() != nil {
			fmt.Println("\nStopped")
			return nil
		}
		return err
	},
}

// terminalBell is the closest a terminal gets to a notification sound.
func terminalBell() {
	fmt.Print("\a")
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

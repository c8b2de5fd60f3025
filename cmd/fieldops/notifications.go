package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/repo"
)

var notificationsPage int

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "List and manage notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		notif := repo.NewNotifications(client, store, msgs)

		count := repo.Await(notif.UnreadCount(cmd.Context()))
		if count.Kind == repo.Success && count.Data > 0 {
			fmt.Printf("%d unread\n", count.Data)
		}

		result := repo.Await(notif.List(cmd.Context(), notificationsPage))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		for _, n := range result.Data {
			printNotification(n)
		}
		return nil
	},
}

var markReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}

		notif := repo.NewNotifications(client, store, msgs)
		if err := notif.MarkRead(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Notification %d marked read\n", id)
		return nil
	},
}

var markAllReadCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		notif := repo.NewNotifications(client, store, msgs)
		if err := notif.MarkAllRead(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All notifications marked read")
		return nil
	},
}

func printNotification(n model.Notification) {
	read := " "
	if n.IsRead {
		read = "✓"
	}
	fmt.Printf("[%s] #%d %-8s %s\n", read, n.ID, n.Priority, n.Title)
	if n.Message != "" {
		fmt.Printf("       %s\n", n.Message)
	}
	if project := n.ProjectLabel(); project != "" {
		fmt.Printf("       project: %s\n", project)
	}
}

func init() {
	notificationsCmd.Flags().IntVar(&notificationsPage, "page", 1, "result page")
	notificationsCmd.AddCommand(markReadCmd, markAllReadCmd)
	rootCmd.AddCommand(notificationsCmd)
}

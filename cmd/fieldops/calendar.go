package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/repo"
)

var (
	calendarType string
	calendarFrom string
	calendarTo   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the assignment calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		cal := repo.NewCalendar(client, store, msgs)
		result := repo.Await(cal.Events(cmd.Context(), api.CalendarFilter{
			EventType: calendarType,
			StartDate: calendarFrom,
			EndDate:   calendarTo,
		}))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		printCalendar(result.Data, result.Stale)
		return nil
	},
}

func printCalendar(cal *model.CalendarResponse, fromCache bool) {
	if fromCache {
		fmt.Println("(offline: showing cached calendar)")
	}
	fmt.Printf("%s — %d event(s)\n", cal.UserName, cal.TotalEvents)

	for _, ev := range cal.Events {
		marker := "•"
		if ev.Type == model.EventTypeMaintenance && ev.IsOverdue != nil && *ev.IsOverdue {
			marker = "!"
		}
		fmt.Printf("%s [%s] %s  %s → %s\n", marker, ev.Type, ev.Title, ev.Start, ev.End)
		fmt.Printf("    %s — %s, %s\n", ev.ClientName, ev.ClientAddress.City, ev.ClientAddress.Province)
		if ev.Type == model.EventTypeProject && ev.ProgressPercentage != nil {
			fmt.Printf("    progress: %.0f%%\n", *ev.ProgressPercentage)
		}
	}
}

func init() {
	calendarCmd.Flags().StringVar(&calendarType, "type", "", "filter by event type (project, maintenance)")
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "start date (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "end date (YYYY-MM-DD)")
	rootCmd.AddCommand(calendarCmd)
}

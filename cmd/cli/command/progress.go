package command

import (
	"fmt"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track reading progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <book-id>",
	Short: "Show your progress on a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := authedClient()
		if err != nil {
			return err
		}
		p, err := c.GetProgress(cmd.Context(), bookID)
		if err != nil {
			return err
		}
		printProgress(cmd.OutOrStdout(), *p)
		return nil
	},
}

var progressUpdateCmd = &cobra.Command{
	Use:   "update <book-id>",
	Short: "Record progress on a book",
	Long: `Record progress on a book. Status is one of not_started, in_progress or completed.
Marking a book completed moves it to its last page. Without --status the stored
status is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.UpdateProgressRequest
		req.Status = optionalString(cmd, "status")
		if cmd.Flags().Changed("page") {
			page, _ := cmd.Flags().GetInt("page")
			req.CurrentPage = &page
		}
		if cmd.Flags().Changed("minutes") {
			minutes, _ := cmd.Flags().GetInt("minutes")
			req.ReadingTimeMinutes = &minutes
		}
		req.Notes = optionalString(cmd, "notes")

		p, err := c.UpdateProgress(cmd.Context(), bookID, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Progress saved"))
		printProgress(cmd.OutOrStdout(), *p)
		return nil
	},
}

var progressStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your reading statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		s, err := c.Statistics(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, heading("Reading statistics"))
		fmt.Fprintf(w, "  books tracked      %d\n", s.TotalBooks)
		fmt.Fprintf(w, "  completed          %d\n", s.CompletedBooks)
		fmt.Fprintf(w, "  in progress        %d\n", s.InProgressBooks)
		fmt.Fprintf(w, "  pages read         %d\n", s.TotalPagesRead)
		fmt.Fprintf(w, "  minutes reading    %d\n", s.TotalReadingTime)
		fmt.Fprintf(w, "  streak             %d days\n", s.ReadingStreakDays)
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressShowCmd, progressUpdateCmd, progressStatsCmd)

	progressUpdateCmd.Flags().StringP("status", "s", "", "not_started, in_progress or completed (default: unchanged)")
	progressUpdateCmd.Flags().IntP("page", "p", 0, "current page")
	progressUpdateCmd.Flags().Int("minutes", 0, "total reading time in minutes")
	progressUpdateCmd.Flags().String("notes", "", "notes")
}

package command

import (
	"fmt"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Yearly reading goals",
}

var goalsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show this year's goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		g, err := c.CurrentGoal(cmd.Context())
		if err != nil {
			return err
		}
		printGoal(cmd.OutOrStdout(), *g)
		return nil
	},
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create a goal for a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		var req dto.CreateGoalRequest
		req.Year, _ = cmd.Flags().GetInt("year")
		req.TargetBooks, _ = cmd.Flags().GetInt("books")
		req.TargetPages, _ = cmd.Flags().GetInt("pages")
		if req.Year == 0 {
			req.Year = now().Year()
		}

		g, err := c.CreateGoal(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Goal created"))
		printGoal(cmd.OutOrStdout(), *g)
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "What the people you follow have been reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		res, err := c.Feed(cmd.Context(), page)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(res.Data) == 0 {
			fmt.Fprintln(w, muted("nothing yet, follow someone with the API or web app"))
			return nil
		}
		for _, a := range res.Data {
			who := "someone"
			if a.User != nil {
				who = a.User.Name
			}
			line := fmt.Sprintf("%s %s", heading(who), a.Description)
			if a.Subject != nil && a.Subject.Title != "" {
				line += ": " + a.Subject.Title
			}
			fmt.Fprintf(w, "%s %s\n", muted(a.CreatedAt.Local().Format("Jan 02 15:04")), line)
		}
		printPageFooter(w, res.Meta)
		return nil
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Reading challenges",
}

var challengesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List public challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		page, _ := cmd.Flags().GetInt("page")
		res, err := publicClient().ListChallenges(cmd.Context(), active, page)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, ch := range res.Data {
			fmt.Fprintf(w, "%s %s %s\n", heading(fmt.Sprintf("#%d", ch.ID)), ch.Title, muted("("+ch.Status+")"))
			fmt.Fprintf(w, "  %s to %s, %d participants\n", ch.StartDate, ch.EndDate, ch.ParticipantsCount)
			for key, target := range ch.Requirements {
				fmt.Fprintf(w, "  - %s: %d\n", key, target)
			}
		}
		printPageFooter(w, res.Meta)
		return nil
	},
}

var challengesJoinCmd = &cobra.Command{
	Use:   "join <challenge-id>",
	Short: "Join an active challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.JoinChallenge(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Joined challenge"), id)
		return nil
	},
}

var challengesAddBookCmd = &cobra.Command{
	Use:   "add-book <challenge-id> <book-id>",
	Short: "Count a book toward one of a challenge's requirements",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		challengeID, err := parseID(args[0])
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1])
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("requirement")

		c, err := authedClient()
		if err != nil {
			return err
		}
		res, err := c.AddChallengeBook(cmd.Context(), challengeID, bookID, key)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, success("✓ "+res.Message))
		for k, n := range res.Progress {
			fmt.Fprintf(w, "  %s: %d\n", k, n)
		}
		if res.IsCompleted {
			fmt.Fprintln(w, success("Challenge completed!"))
		}
		return nil
	},
}

func init() {
	goalsCmd.AddCommand(goalsCurrentCmd, goalsSetCmd)
	goalsSetCmd.Flags().Int("year", 0, "goal year (default this year)")
	goalsSetCmd.Flags().Int("books", 0, "books to finish")
	goalsSetCmd.Flags().Int("pages", 0, "pages to read")
	_ = goalsSetCmd.MarkFlagRequired("books")
	_ = goalsSetCmd.MarkFlagRequired("pages")

	feedCmd.Flags().Int("page", 1, "page number")

	challengesCmd.AddCommand(challengesListCmd, challengesJoinCmd, challengesAddBookCmd)
	challengesListCmd.Flags().Bool("active", false, "only challenges running today")
	challengesListCmd.Flags().Int("page", 1, "page number")
	challengesAddBookCmd.Flags().StringP("requirement", "r", "", "requirement key the book counts toward")
	_ = challengesAddBookCmd.MarkFlagRequired("requirement")
}

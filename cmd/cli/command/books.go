package command

import (
	"fmt"
	"net/url"
	"strconv"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse and add books",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		res, err := publicClient().ListBooks(cmd.Context(), page)
		if err != nil {
			return err
		}
		for _, b := range res.Data {
			printBook(cmd.OutOrStdout(), b)
		}
		printPageFooter(cmd.OutOrStdout(), res.Meta)
		return nil
	},
}

var booksSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the catalog with filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := url.Values{}
		if len(args) == 1 {
			filters.Set("search", args[0])
		}
		for _, name := range []string{"categories", "language", "publisher", "sort_by", "sort_direction"} {
			if val, _ := cmd.Flags().GetString(name); val != "" {
				filters.Set(name, val)
			}
		}
		recommended, _ := cmd.Flags().GetBool("recommended")
		page, _ := cmd.Flags().GetInt("page")

		c := publicClient()
		if recommended {
			authed, err := authedClient()
			if err != nil {
				return err
			}
			c = authed
			filters.Set("recommended", "true")
		}

		res, err := c.SearchBooks(cmd.Context(), filters, page)
		if err != nil {
			return err
		}
		if len(res.Data) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), muted("no books match"))
			return nil
		}
		for _, b := range res.Data {
			printBook(cmd.OutOrStdout(), b)
		}
		printPageFooter(cmd.OutOrStdout(), res.Meta)
		return nil
	},
}

var booksShowCmd = &cobra.Command{
	Use:   "show <book-id>",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		b, err := publicClient().GetBook(cmd.Context(), id)
		if err != nil {
			return err
		}
		printBook(cmd.OutOrStdout(), *b)
		if b.Description != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "\n"+*b.Description)
		}
		return nil
	},
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.CreateBookRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Author, _ = cmd.Flags().GetString("author")
		req.TotalPages, _ = cmd.Flags().GetInt("pages")
		req.Language, _ = cmd.Flags().GetString("language")
		req.ISBN = optionalString(cmd, "isbn")
		req.Publisher = optionalString(cmd, "publisher")
		req.PublicationDate = optionalString(cmd, "published")

		b, err := c.CreateBook(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Added"))
		printBook(cmd.OutOrStdout(), *b)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// optionalString returns nil for flags the user did not set.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	val, _ := cmd.Flags().GetString(name)
	return &val
}

func init() {
	booksCmd.AddCommand(booksListCmd, booksSearchCmd, booksShowCmd, booksAddCmd)

	booksListCmd.Flags().Int("page", 1, "page number")

	booksSearchCmd.Flags().String("categories", "", "comma-separated category ids")
	booksSearchCmd.Flags().String("language", "", "two-letter language code")
	booksSearchCmd.Flags().String("publisher", "", "publisher name contains")
	booksSearchCmd.Flags().String("sort_by", "", "title, author, publication_date, created_at, reviews_count, shelves_count or reviews_avg_rating")
	booksSearchCmd.Flags().String("sort_direction", "", "asc or desc")
	booksSearchCmd.Flags().Bool("recommended", false, "only books recommended for you")
	booksSearchCmd.Flags().Int("page", 1, "page number")

	booksAddCmd.Flags().String("title", "", "book title")
	booksAddCmd.Flags().String("author", "", "author")
	booksAddCmd.Flags().Int("pages", 0, "total pages")
	booksAddCmd.Flags().String("isbn", "", "ISBN-10 or ISBN-13")
	booksAddCmd.Flags().String("publisher", "", "publisher")
	booksAddCmd.Flags().String("language", "", "two-letter language code (default en)")
	booksAddCmd.Flags().String("published", "", "publication date YYYY-MM-DD")
	_ = booksAddCmd.MarkFlagRequired("title")
	_ = booksAddCmd.MarkFlagRequired("author")
	_ = booksAddCmd.MarkFlagRequired("pages")
}

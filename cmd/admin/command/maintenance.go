package command

import (
	"fmt"
	"time"

	"bookhub/database"
	"bookhub/internal/ingestion/googlebooks"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data",
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Insert the default book categories that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := database.SeedCategories(cmd.Context(), current.db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories\n", created)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import books from external catalogs",
}

var importGoogleBooksCmd = &cobra.Command{
	Use:   "google-books",
	Short: "Import books from the Google Books volumes API",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, _ := cmd.Flags().GetStringSlice("query")
		limit, _ := cmd.Flags().GetInt("limit")
		workers, _ := cmd.Flags().GetInt("workers")
		noCovers, _ := cmd.Flags().GetBool("no-covers")
		if len(queries) == 0 {
			queries = googlebooks.DefaultQueries
		}

		im := current.importer(workers, !noCovers)
		var total googlebooks.ImportResult
		for _, q := range queries {
			res, err := im.Import(cmd.Context(), q, limit)
			total.Added += res.Added
			total.Skipped += res.Skipped
			total.Failed += res.Failed
			if err != nil {
				current.log.Error("import query failed", "query", q, "error", err)
				total.Failed++
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Google Books import completed:\n- Added: %d\n- Skipped: %d\n- Errors: %d\n",
			total.Added, total.Skipped, total.Failed)
		return nil
	},
}

var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "Maintain stored book covers",
}

var coversNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite absolute cover URLs to relative covers/ paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.normalizeCovers(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Update completed:\n- Updated: %d\n- Skipped (already relative): %d\n- Errors: %d\n",
			res.Updated, res.Skipped, res.Failed)
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage API sessions",
}

var tokensPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions that expired or were revoked before the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		retention, _ := cmd.Flags().GetDuration("retention")
		n, err := current.pruneSessions(cmd.Context(), retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d sessions\n", n)
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedCategoriesCmd)

	importCmd.AddCommand(importGoogleBooksCmd)
	importGoogleBooksCmd.Flags().StringSliceP("query", "q", nil, "search query, repeatable (default: a genre mix)")
	importGoogleBooksCmd.Flags().IntP("limit", "l", 20, "maximum volumes fetched per query")
	importGoogleBooksCmd.Flags().Int("workers", 4, "concurrent import workers")
	importGoogleBooksCmd.Flags().Bool("no-covers", false, "skip downloading cover images")

	coversCmd.AddCommand(coversNormalizeCmd)

	tokensCmd.AddCommand(tokensPruneCmd)
	tokensPruneCmd.Flags().Duration("retention", 7*24*time.Hour, "keep dead sessions this long")
}

package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// job is one scheduled maintenance task.
type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run session pruning and cover normalization on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		pruneSpec, _ := cmd.Flags().GetString("prune")
		coversSpec, _ := cmd.Flags().GetString("covers")
		retention, _ := cmd.Flags().GetDuration("retention")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		jobs := []job{
			{name: "prune-sessions", schedule: pruneSpec, run: func(ctx context.Context) error {
				n, err := current.pruneSessions(ctx, retention)
				if err == nil {
					current.log.Info("sessions pruned", "count", n)
				}
				return err
			}},
			{name: "normalize-covers", schedule: coversSpec, run: func(ctx context.Context) error {
				res, err := current.normalizeCovers(ctx)
				if err == nil {
					current.log.Info("covers normalized", "updated", res.Updated, "skipped", res.Skipped, "failed", res.Failed)
				}
				return err
			}},
		}

		c, err := newScheduler(ctx, jobs, current.log)
		if err != nil {
			return err
		}
		c.Start()
		for _, e := range c.Entries() {
			current.log.Info("job scheduled", "entry", e.ID, "next_run", e.Next)
		}

		<-ctx.Done()
		<-c.Stop().Done()
		current.log.Info("scheduler stopped")
		return nil
	},
}

// newScheduler registers jobs on a five-field cron; a job still running when its next tick fires is skipped.
func newScheduler(ctx context.Context, jobs []job, log *slog.Logger) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC))

	for _, j := range jobs {
		if j.schedule == "" {
			continue
		}
		wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
			start := time.Now()
			if err := j.run(ctx); err != nil {
				log.Error("scheduled job failed", "job", j.name, "error", err)
				return
			}
			log.Info("scheduled job finished", "job", j.name, "took", time.Since(start))
		}))
		if _, err := c.AddJob(j.schedule, wrapped); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", j.schedule, j.name, err)
		}
	}
	return c, nil
}

func init() {
	scheduleCmd.Flags().String("prune", "0 3 * * *", "cron expression for session pruning, empty disables")
	scheduleCmd.Flags().String("covers", "30 3 * * 0", "cron expression for cover normalization, empty disables")
	scheduleCmd.Flags().Duration("retention", 7*24*time.Hour, "keep dead sessions this long")
}

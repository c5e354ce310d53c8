package command

import (
	"fmt"
	"io"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen, color.Bold).SprintFunc()
	failure = color.New(color.FgRed, color.Bold).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	muted   = color.New(color.FgHiBlack).SprintFunc()

	now = time.Now
)

func printBook(w io.Writer, b dto.BookResponse) {
	fmt.Fprintf(w, "%s %s\n", heading(fmt.Sprintf("#%d", b.ID)), b.Title)
	fmt.Fprintf(w, "  by %s, %d pages\n", b.Author, b.TotalPages)
	if b.ISBN != nil {
		fmt.Fprintf(w, "  ISBN %s\n", *b.ISBN)
	}
	if b.AverageRating != nil {
		fmt.Fprintf(w, "  rated %.2f from %d reviews\n", *b.AverageRating, b.ReviewsCount)
	}
	if len(b.Categories) > 0 {
		names := make([]string, 0, len(b.Categories))
		for _, c := range b.Categories {
			names = append(names, c.Name)
		}
		fmt.Fprintf(w, "  %s\n", muted(strings.Join(names, ", ")))
	}
}

func printPageFooter(w io.Writer, m dto.PageMeta) {
	fmt.Fprintln(w, muted(fmt.Sprintf("page %d of %d, %d total", m.CurrentPage, m.LastPage, m.Total)))
}

// bar renders pct (0-100) as a fixed-width progress bar.
func bar(pct float64) string {
	const width = 20
	filled := int(pct / 100 * width)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func printProgress(w io.Writer, p dto.ProgressResponse) {
	title := fmt.Sprintf("book #%d", p.BookID)
	if p.Book != nil {
		title = p.Book.Title
	}
	fmt.Fprintf(w, "%s\n  %s %s %.2f%% (page %d)\n", heading(title), p.Status, bar(p.ProgressPercentage), p.ProgressPercentage, p.CurrentPage)
	if p.ReadingTimeMinutes > 0 {
		fmt.Fprintf(w, "  reading time %s\n", p.ReadingTimeFormatted)
	}
}

func printGoal(w io.Writer, g dto.GoalResponse) {
	state := warning("in progress")
	if g.IsCompleted {
		state = success("completed")
	}
	fmt.Fprintf(w, "%s %s\n", heading(fmt.Sprintf("%d reading goal", g.Year)), state)
	fmt.Fprintf(w, "  books %s %d/%d\n", bar(g.BooksProgress), g.BooksRead, g.TargetBooks)
	fmt.Fprintf(w, "  pages %s %d/%d\n", bar(g.PagesProgress), g.PagesRead, g.TargetPages)
}

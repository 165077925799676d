package tracker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tally-cli/tally/internal/domain"
)

// Summary is the time tracked on one day.
type Summary struct {
	Day   string
	Total time.Duration
	Rows  []SummaryRow
}

// SummaryRow is one task's share of the day.
type SummaryRow struct {
	Name     string
	Status   domain.TaskStatus
	Duration time.Duration
}

// List aggregates the intervals that started on date (date format, default
// today) and prints the daily table. Tasks without intervals that day are
// left out.
func (t *TimeTracker) List(ctx context.Context, date string) (sum Summary, err error) {
	defer func() { t.metrics.Operation("list", err) }()

	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	if len(tasks) == 0 {
		return Summary{}, domain.ErrNoTasks
	}

	format := t.settings.DateOnly()
	now := t.now()
	day := format.Format(now)
	if date != "" {
		d, err := format.Parse(date, time.Local)
		if err != nil {
			return Summary{}, err
		}
		day = format.Format(d)
	}

	sum = Summarize(tasks, day, format, now)
	RenderSummary(t.out, sum)
	return sum, nil
}

// Summarize builds the summary of day from tasks. Open intervals count up
// to now.
func Summarize(tasks domain.TaskList, day string, format domain.DateFormat, now time.Time) Summary {
	sum := Summary{Day: day}
	for i := range tasks {
		d, ok := tasks[i].DurationOn(day, format, now)
		if !ok {
			continue
		}
		sum.Rows = append(sum.Rows, SummaryRow{
			Name:     tasks[i].Name,
			Status:   tasks[i].Status,
			Duration: d,
		})
		sum.Total += d
	}
	return sum
}

const statusWidth = 11

// RenderSummary writes the daily table. Colors are applied only when w is a
// terminal that supports them.
func RenderSummary(w io.Writer, sum Summary) {
	r := lipgloss.NewRenderer(w)
	totalStyle := r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#04B575")).
		Padding(0, 1)
	dateStyle := r.NewStyle().Reverse(true).Padding(0, 3, 0, 1)
	headerStyle := r.NewStyle().Bold(true)
	rowStyle := r.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n",
		totalStyle.Render(domain.ClockDuration(sum.Total)),
		dateStyle.Render("DATE: "+sum.Day))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("   %-6s | %-*s | %s", "TIME", statusWidth, "STATUS", "TASK")))

	if len(sum.Rows) == 0 {
		fmt.Fprintln(w, rowStyle.Render(fmt.Sprintf("   %-6s | %-*s | %s", "---", statusWidth, "---", "---")))
		return
	}
	for _, row := range sum.Rows {
		line := fmt.Sprintf("   %-6s | %-*s | %s",
			domain.ClockDuration(row.Duration), statusWidth, row.Status.Label(), row.Name)
		fmt.Fprintln(w, rowStyle.Render(strings.TrimRight(line, " ")))
	}
}

package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/tally-cli/tally/internal/domain"
)

// Status prints every task whose tail interval is open and returns them.
func (t *TimeTracker) Status(ctx context.Context) (running []domain.Task, err error) {
	defer func() { t.metrics.Operation("status", err) }()

	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasks
	}

	for _, task := range tasks {
		if task.IsRunning() {
			running = append(running, task)
		}
	}
	if len(running) == 0 {
		t.printf("No tasks in progress.\n")
		return nil, nil
	}

	now := t.now()
	format := t.settings.DateTime()
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTARTED\tSINCE\tDESCRIPTION")
	for _, task := range running {
		last, _ := task.LastInterval()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			task.Name,
			format.Format(last.Start),
			humanize.RelTime(last.Start, now, "ago", "from now"),
			task.Description,
		)
	}
	return running, w.Flush()
}

// Export formats.
const (
	ExportJSON = "json"
	ExportYAML = "yaml"
)

// Document is the exported shape of the store.
type Document struct {
	Config domain.Settings `json:"config" yaml:"config"`
	Tasks  domain.TaskList `json:"tasks" yaml:"tasks"`
}

// CheckExportFormat reports whether format is one Export can write. An empty
// format means JSON.
func CheckExportFormat(format string) error {
	switch format {
	case ExportJSON, ExportYAML, "":
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}

// Export writes the settings and every task to w as JSON or YAML.
func (t *TimeTracker) Export(ctx context.Context, w io.Writer, format string) (err error) {
	defer func() { t.metrics.Operation("export", err) }()

	if err := CheckExportFormat(format); err != nil {
		return err
	}
	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	doc := Document{Config: t.settings, Tasks: tasks}

	if format == ExportYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

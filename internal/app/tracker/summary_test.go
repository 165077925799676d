package tracker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tally-cli/tally/internal/domain"
	"github.com/tally-cli/tally/internal/infra/sqlite"
)

func closedInterval(start time.Time, d time.Duration) domain.Interval {
	stop := start.Add(d)
	return domain.Interval{ID: start.String(), Start: start, Stop: &stop}
}

// ─── List ───────────────────────────────────────────────────────────────────

func TestList_NoTasks(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	if _, err := tr.List(context.Background(), ""); !errors.Is(err, domain.ErrNoTasks) {
		t.Errorf("List() error = %v, want ErrNoTasks", err)
	}
}

func TestList_AggregatesOneDay(t *testing.T) {
	tr, repo, clk, out := newTestTracker(t)
	repo.tasks = domain.TaskList{
		{Name: "a", Status: domain.StatusPaused, Log: []domain.Interval{
			closedInterval(day1, time.Hour),
			closedInterval(day1.Add(3*time.Hour), 30*time.Minute),
			closedInterval(day1.Add(-24*time.Hour), 5*time.Hour), // previous day
		}},
		{Name: "b", Status: domain.StatusFinished, Log: []domain.Interval{
			closedInterval(day1.Add(-48*time.Hour), time.Hour),
		}},
		{Name: "c", Status: domain.StatusInProgress, Log: []domain.Interval{
			{ID: "open", Start: day1.Add(5 * time.Hour)},
		}},
	}
	clk.t = day1.Add(5*time.Hour + 45*time.Minute)

	sum, err := tr.List(context.Background(), "06/01/2024")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if sum.Day != "06/01/2024" {
		t.Errorf("Day = %q", sum.Day)
	}
	if len(sum.Rows) != 2 {
		t.Fatalf("rows = %+v, want a and c", sum.Rows)
	}
	if sum.Rows[0].Name != "a" || sum.Rows[0].Duration != 90*time.Minute {
		t.Errorf("row a = %+v, want 1h30m", sum.Rows[0])
	}
	if sum.Rows[1].Name != "c" || sum.Rows[1].Duration != 45*time.Minute {
		t.Errorf("row c = %+v, want 45m", sum.Rows[1])
	}
	if sum.Total != sum.Rows[0].Duration+sum.Rows[1].Duration {
		t.Errorf("Total = %v, want sum of rows", sum.Total)
	}

	text := out.String()
	for _, want := range []string{"02:15", "DATE: 06/01/2024", "01:30", "Paused", "In Progress"} {
		if !strings.Contains(text, want) {
			t.Errorf("table missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "| b") {
		t.Errorf("task b should not be listed:\n%s", text)
	}
}

func TestList_DefaultsToToday(t *testing.T) {
	tr, repo, _, _ := newTestTracker(t)
	repo.tasks = domain.TaskList{{Name: "a", Status: domain.StatusPaused, Log: []domain.Interval{closedInterval(day1, time.Hour)}}}

	sum, err := tr.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if sum.Day != "06/01/2024" || sum.Total != time.Hour {
		t.Errorf("summary = %+v", sum)
	}
}

func TestList_EmptyDay(t *testing.T) {
	tr, repo, _, out := newTestTracker(t)
	repo.tasks = domain.TaskList{{Name: "a", Status: domain.StatusPaused, Log: []domain.Interval{closedInterval(day1, time.Hour)}}}

	sum, err := tr.List(context.Background(), "1/15/2024")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sum.Rows) != 0 || sum.Total != 0 {
		t.Errorf("summary = %+v, want empty", sum)
	}
	if !strings.Contains(out.String(), "DATE: 01/15/2024") || !strings.Contains(out.String(), "---") {
		t.Errorf("placeholder table missing:\n%s", out.String())
	}
}

func TestList_InvalidDate(t *testing.T) {
	tr, repo, _, _ := newTestTracker(t)
	repo.tasks = domain.TaskList{{Name: "a"}}
	if _, err := tr.List(context.Background(), "2024-06-01"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("List() error = %v, want ErrInvalidDate", err)
	}
}

func TestList_CustomFormat(t *testing.T) {
	repo := &memRepo{tasks: domain.TaskList{
		{Name: "a", Status: domain.StatusPaused, Log: []domain.Interval{closedInterval(day1, 2*time.Hour)}},
	}}
	settings := domain.Settings{DateFormat: "DD.MM.YYYY"}
	var out bytes.Buffer
	tr := New(repo, settings, WithOutput(&out), WithClock(func() time.Time { return day1 }))

	sum, err := tr.List(context.Background(), "1.6.2024")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if sum.Day != "01.06.2024" || sum.Total != 2*time.Hour {
		t.Errorf("summary = %+v", sum)
	}
}

// ─── Status & Export ────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	tr, _, clk, out := newTestTracker(t)
	ctx := context.Background()

	tr.Start(ctx, "writing", "chapter 3", false)
	tr.Start(ctx, "idle", "", false)
	tr.Stop(ctx, "idle", domain.StatusPaused, "")
	clk.Advance(12 * time.Minute)
	out.Reset()

	running, err := tr.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if len(running) != 1 || running[0].Name != "writing" {
		t.Fatalf("running = %+v", running)
	}
	text := out.String()
	if !strings.Contains(text, "12 minutes ago") || !strings.Contains(text, "chapter 3") {
		t.Errorf("status output:\n%s", text)
	}
}

func TestStatus_NoneRunning(t *testing.T) {
	tr, _, _, out := newTestTracker(t)
	ctx := context.Background()
	tr.Add(ctx, "t1", "1h", "")
	out.Reset()

	if _, err := tr.Status(ctx); err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !strings.Contains(out.String(), "No tasks in progress.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestExport_YAMLFromSQLite(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewStoreRepository(db, domain.DefaultSettings())
	tr := New(repo, domain.DefaultSettings(), WithOutput(&bytes.Buffer{}), WithClock(func() time.Time { return day1 }))
	ctx := context.Background()
	tr.Add(ctx, "t1", "2:30", "06/01/2024 9:00")

	var buf bytes.Buffer
	if err := tr.Export(ctx, &buf, ExportYAML); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v\n%s", err, buf.String())
	}
	if doc.Config.DateFormat != "MM/DD/YYYY" || len(doc.Tasks) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	iv := doc.Tasks[0].Log[0]
	if iv.Stop == nil || iv.Stop.Sub(iv.Start) != 150*time.Minute {
		t.Errorf("exported interval = %+v", iv)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	if err := tr.Export(context.Background(), &bytes.Buffer{}, "csv"); err == nil {
		t.Error("Export(csv) should fail")
	}
}

// ─── Settings repository ────────────────────────────────────────────────────

func TestStoreRepository_Settings(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	fallback := domain.Settings{DateFormat: "DD/MM/YYYY", PauseOthersOnStart: true}
	repo := NewStoreRepository(db, fallback)

	got, err := repo.LoadSettings(ctx)
	if err != nil || got != fallback {
		t.Fatalf("LoadSettings() = %+v, %v; want fallback", got, err)
	}

	saved := domain.Settings{DateFormat: "YYYY-MM-DD"}
	if err := repo.SaveSettings(ctx, saved); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}
	got, _ = repo.LoadSettings(ctx)
	if got != saved {
		t.Errorf("LoadSettings() = %+v, want %+v", got, saved)
	}

	tasks, err := repo.Load(ctx)
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Errorf("Load() on empty store = %v, %v", tasks, err)
	}
}

func TestStoreRepository_CancelledContext(t *testing.T) {
	db, _ := sqlite.Open(t.TempDir())
	t.Cleanup(func() { db.Close() })
	repo := NewStoreRepository(db, domain.DefaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Save(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/tally-cli/tally/internal/app/tracker"
	"github.com/tally-cli/tally/internal/domain"
	"github.com/tally-cli/tally/internal/health"
	"github.com/tally-cli/tally/internal/infra/jsonstore"
	"github.com/tally-cli/tally/internal/infra/metrics"
	"github.com/tally-cli/tally/internal/infra/sqlite"
)

// Workspace is one opened tally home: the store, the repository over it and
// a tracker configured from the stored settings.
type Workspace struct {
	Config  Config
	Store   domain.Store
	Repo    *tracker.StoreRepository
	Tracker *tracker.TimeTracker
	Metrics *metrics.Recorder

	logs io.Closer
}

// Open loads the runtime config and opens the workspace it describes.
func Open(ctx context.Context, opts ...tracker.Option) (*Workspace, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return OpenWithConfig(ctx, cfg, opts...)
}

// OpenWithConfig opens the workspace described by cfg. opts are applied to
// the tracker after the workspace's own options.
func OpenWithConfig(ctx context.Context, cfg Config, opts ...tracker.Option) (*Workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs, err := setupLogging(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Printf("[workspace] DEBUG: %s store in %s", cfg.Storage.Backend, cfg.Storage.Dir)

	ws := &Workspace{
		Config: cfg,
		Store:  store,
		Repo:   tracker.NewStoreRepository(store, cfg.Tracking),
		logs:   logs,
	}

	settings, err := ws.seedSettings(ctx)
	if err != nil {
		ws.Close()
		return nil, err
	}

	var trackerOpts []tracker.Option
	if cfg.Telemetry.Textfile != "" {
		ws.Metrics = metrics.NewRecorder()
		trackerOpts = append(trackerOpts, tracker.WithMetrics(ws.Metrics))
	}
	ws.Tracker = tracker.New(ws.Repo, settings, append(trackerOpts, opts...)...)

	return ws, nil
}

// seedSettings writes cfg.Tracking as the config record when the store has
// none, then returns the stored settings.
func (w *Workspace) seedSettings(ctx context.Context) (domain.Settings, error) {
	_, ok, err := w.Store.Get(tracker.KeyConfig)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load config record: %w", err)
	}
	if !ok {
		if err := w.Repo.SaveSettings(ctx, w.Config.Tracking); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrPersist, err)
		}
		log.Printf("[workspace] INFO: seeded settings from %s", ConfigFile)
	}
	return w.Repo.LoadSettings(ctx)
}

// SetSetting validates and stores one tracking setting, returning the
// updated settings.
func (w *Workspace) SetSetting(ctx context.Context, key, value string) (domain.Settings, error) {
	settings, err := w.Repo.LoadSettings(ctx)
	if err != nil {
		return settings, err
	}
	if err := settings.Set(key, value); err != nil {
		return settings, err
	}
	if err := w.Repo.SaveSettings(ctx, settings); err != nil {
		return settings, fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}
	return settings, nil
}

// Checker returns a store checker for this workspace.
func (w *Workspace) Checker(repair bool) *health.Checker {
	return health.NewChecker(w.Store, w.Config.Storage.Dir, w.Config.Tracking, repair)
}

// LastWrite returns when key was last saved, zero when never or when the
// backend does not track it.
func (w *Workspace) LastWrite(key string) (time.Time, error) {
	ts, ok := w.Store.(domain.Timestamped)
	if !ok {
		return time.Time{}, nil
	}
	return ts.UpdatedAt(key)
}

// Close flushes the metrics textfile and releases the store.
func (w *Workspace) Close() error {
	var errs []error
	if w.Metrics != nil {
		if err := w.Metrics.WriteTextfile(w.Config.Telemetry.Textfile); err != nil {
			log.Printf("[metrics] WARNING: write textfile: %v", err)
		}
	}
	if w.Store != nil {
		errs = append(errs, w.Store.Close())
	}
	if w.logs != nil {
		errs = append(errs, w.logs.Close())
	}
	return errors.Join(errs...)
}

func openStore(cfg StorageConfig) (domain.Store, error) {
	switch cfg.Backend {
	case BackendJSON:
		return jsonstore.Open(cfg.Dir)
	case BackendSQLite, "":
		return sqlite.Open(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

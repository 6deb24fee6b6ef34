package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/metrics"
	"github.com/nerrad567/gray-logic-sensorsim/internal/journal"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sink"
	"github.com/nerrad567/gray-logic-sensorsim/migrations"
)

// app holds the components wired for one process.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	runID   string
	db      *database.DB       // nil when the journal is disabled
	journal journal.Repository // nil when the journal is disabled
	metrics *metrics.Metrics
	sink    *sink.Fanout
	emitter *emitter.Emitter
}

// loadConfig loads configuration from configPath and builds the configured
// logger.
func loadConfig(configPath string) (*config.Config, *logging.Logger, error) {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting sensor simulator",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"primary", cfg.Sink.Primary,
		"interval", cfg.GetInterval().String(),
	)
	return cfg, log, nil
}

// newApp loads configuration and wires the journal, sinks and emitter.
// Nothing connects to a store here; the emitter does that when it runs.
//
// Callers must call close once done.
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	a := &app{
		cfg:     cfg,
		log:     log.With("run_id", runID),
		runID:   runID,
		metrics: metrics.New(version),
	}

	if cfg.Database.Enabled {
		if err := a.openJournal(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	primary, err := buildPrimary(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.sink = sink.NewFanout(
		sink.NewObserved(primary, a.metrics),
		a.buildMirrors(),
		a.log.Component("sink"),
	)

	a.emitter = emitter.New(emitter.Config{
		Interval:            cfg.GetInterval(),
		StartupDelay:        cfg.GetStartupDelay(),
		ConnectAttempts:     cfg.Emitter.Connect.MaxAttempts,
		ConnectInitialDelay: cfg.GetConnectInitialDelay(),
		ConnectMaxDelay:     cfg.GetConnectMaxDelay(),
	}, sensor.NewModel(sensor.NewRandNoiseFromTime()))
	a.emitter.SetLogger(a.log.Component("emitter").With("sink", a.sink.Name()))

	return a, nil
}

// openJournal opens and migrates the SQLite journal.
func (a *app) openJournal(ctx context.Context) error {
	db, err := openDatabase(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	a.db = db
	a.journal = journal.NewSQLiteRepository(db.DB)
	if err := a.metrics.RegisterDatabase(db.DB, "journal"); err != nil {
		return err
	}
	a.log.Info("journal ready", "path", a.cfg.Database.Path)
	return nil
}

// openDatabase opens the database and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// close releases what newApp opened.
func (a *app) close() {
	if a.db == nil {
		return
	}
	a.log.Info("closing database")
	if err := a.db.Close(); err != nil {
		a.log.Error("error closing database", "error", err)
	}
}

// buildPrimary returns the configured primary store.
func buildPrimary(cfg *config.Config) (sink.Named, error) {
	switch cfg.Sink.Primary {
	case config.PrimaryInfluxDB:
		return sink.NewInflux(cfg.InfluxDB), nil
	case config.PrimaryTSDB:
		return sink.NewVictoriaMetrics(cfg.TSDB), nil
	default:
		return nil, fmt.Errorf("unknown primary sink %q", cfg.Sink.Primary)
	}
}

// buildMirrors returns the enabled mirrors in a fixed order, each reporting
// write latency to the metrics registry.
func (a *app) buildMirrors() []sink.Named {
	var mirrors []sink.Named
	if a.journal != nil {
		mirrors = append(mirrors, sink.NewJournal(a.journal, a.runID))
	}
	if a.cfg.MQTT.Enabled {
		mirrors = append(mirrors, sink.NewMQTT(a.cfg.MQTT, a.log.Component("mqtt")))
	}
	if a.cfg.Kafka.Enabled {
		mirrors = append(mirrors, sink.NewKafka(a.cfg.Kafka))
	}
	for i, m := range mirrors {
		a.log.Info("mirror enabled", "mirror", m.Name())
		mirrors[i] = sink.NewObserved(m, a.metrics)
	}
	return mirrors
}

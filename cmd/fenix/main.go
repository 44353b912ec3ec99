package main

import (
	"net/http"
	"os"
	"time"

	"github.com/SanteonNL/queryfilter/cmd/fenix/api"
	"github.com/SanteonNL/queryfilter/cmd/fenix/config"
	"github.com/SanteonNL/queryfilter/cmd/fenix/datasource"
	"github.com/SanteonNL/queryfilter/cmd/fenix/metrics"
	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/schema"
	"github.com/SanteonNL/queryfilter/models/sim"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Caller().Logger()
	log.Debug().Msg("Starting fenix")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = log.Level(cfg.LogLevel)

	db, err := sqlx.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if cfg.DatabaseDriver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	var gdb *gorm.DB
	if cfg.Backend == config.BackendGorm || cfg.Seed {
		gdb, err = datasource.OpenGorm(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open gorm")
		}
	}

	if cfg.Seed {
		if err := sim.Seed(gdb, sim.DemoPatients()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		log.Info().Msg("Seeded demo patients")
	}

	inspector, err := newInspector(cfg, db, gdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema inspector")
	}

	targets := func(table string) queryfilter.Target {
		if gdb != nil && cfg.Backend == config.BackendGorm {
			return datasource.NewGormQuery(gdb, table, log)
		}
		return datasource.NewQuery(db, table, log)
	}

	observer := metrics.NewObserver(prometheus.DefaultRegisterer)
	router := api.NewRouter(cfg, targets, inspector, observer, prometheus.DefaultGatherer, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", cfg.Addr).
		Strs("tables", cfg.Tables).
		Str("backend", cfg.Backend).
		Msg("Listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newInspector(cfg *config.Config, db *sqlx.DB, gdb *gorm.DB, log zerolog.Logger) (queryfilter.SchemaInspector, error) {
	switch {
	case cfg.SchemaFile != "":
		repo := schema.NewRepository(log)
		if err := repo.LoadFromFile(cfg.SchemaFile); err != nil {
			return nil, err
		}
		return repo, nil
	case cfg.SchemaAPIURL != "":
		return schema.NewClient(cfg.SchemaAPIURL, cfg.SchemaAPIRetries, log), nil
	case cfg.Backend == config.BackendGorm:
		return datasource.NewGormInspector(gdb, log, &sim.Patient{}), nil
	}
	return datasource.NewInspector(db, log)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SanteonNL/queryfilter/cmd/fenix/bundle"
	"github.com/SanteonNL/queryfilter/cmd/fenix/config"
	"github.com/SanteonNL/queryfilter/cmd/fenix/metrics"
	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/schema"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// TargetFactory returns a fresh, unfiltered target for table.
type TargetFactory func(table string) queryfilter.Target

type Router struct {
	cfg           *config.Config
	targets       TargetFactory
	inspector     queryfilter.SchemaInspector
	bundleService *bundle.Service
	metrics       *metrics.Observer
	gatherer      prometheus.Gatherer
	log           zerolog.Logger
}

// NewRouter creates the HTTP surface. inspector may be nil when the targets
// describe their own columns; m and gatherer may be nil to disable metrics.
func NewRouter(
	cfg *config.Config,
	targets TargetFactory,
	inspector queryfilter.SchemaInspector,
	m *metrics.Observer,
	gatherer prometheus.Gatherer,
	log zerolog.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		targets:       targets,
		inspector:     inspector,
		bundleService: bundle.NewService(log),
		metrics:       m,
		gatherer:      gatherer,
		log:           log,
	}
}

func (ar *Router) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(ar.logRequests)

	r.HandleFunc("/api/{table}", ar.handleTable).Methods(http.MethodGet)
	r.HandleFunc("/schema/{table}/{column}", ar.handleSchema).Methods(http.MethodGet)
	if ar.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(ar.gatherer)).Methods(http.MethodGet)
	}

	return r
}

func (ar *Router) handleTable(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]

	if !ar.cfg.AllowsTable(table) {
		ar.countRequest(table, http.StatusNotFound)
		respondWithJSON(w, http.StatusNotFound, bundle.Response{
			Table:  table,
			Issues: []bundle.Issue{bundle.NewNotFoundIssue("", fmt.Sprintf("table %s is not available", table))},
		})
		return
	}

	issues := bundle.NewIssueCollector()
	fc := ar.cfg.FilterConfig(ar.log)
	fc.Inspector = ar.inspector
	fc.Observers = []queryfilter.Observer{queryfilter.NewLogObserver(ar.log), issues}
	if ar.metrics != nil {
		fc.Observers = append(fc.Observers, ar.metrics)
	}

	filters := queryfilter.FromQuery(r.URL.RawQuery, fc)
	if err := filters.Apply(r.Context(), ar.targets(table)); err != nil {
		ar.respondWithError(w, table, err)
		return
	}

	resp, err := ar.bundleService.CreateResponse(r.Context(), filters, getBaseURL(r, table), issues.Issues())
	if err != nil {
		ar.respondWithError(w, table, err)
		return
	}

	ar.countRequest(table, http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := ar.bundleService.Encode(w, resp); err != nil {
		ar.log.Error().Err(err).Msg("Failed to write response")
	}
}

func (ar *Router) handleSchema(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	info := schema.ColumnInfo{Table: vars["table"], Column: vars["column"]}

	if ar.inspector == nil || !ar.cfg.AllowsTable(info.Table) {
		respondWithJSON(w, http.StatusNotFound, info)
		return
	}

	exists, err := ar.inspector.HasColumn(r.Context(), info.Table, info.Column)
	if err != nil {
		ar.log.Error().Err(err).Str("table", info.Table).Str("column", info.Column).Msg("Schema lookup failed")
		http.Error(w, "schema lookup failed", http.StatusInternalServerError)
		return
	}
	if !exists {
		respondWithJSON(w, http.StatusNotFound, info)
		return
	}

	info.Exists = true
	info.Cast, err = ar.inspector.ColumnCast(r.Context(), info.Table, info.Column)
	if err != nil {
		ar.log.Error().Err(err).Str("table", info.Table).Str("column", info.Column).Msg("Schema lookup failed")
		http.Error(w, "schema lookup failed", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}

func (ar *Router) respondWithError(w http.ResponseWriter, table string, err error) {
	ar.log.Error().Err(err).Str("table", table).Msg("Failed to filter table")
	ar.countRequest(table, http.StatusInternalServerError)
	respondWithJSON(w, http.StatusInternalServerError, bundle.Response{
		Table:  table,
		Issues: []bundle.Issue{bundle.NewProcessingError(err.Error())},
	})
}

func (ar *Router) countRequest(table string, status int) {
	if ar.metrics != nil {
		ar.metrics.IncRequests(table, fmt.Sprintf("%d", status))
	}
}

func (ar *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		ar.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

// Helper functions

func getBaseURL(r *http.Request, table string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/api/%s", scheme, r.Host, table)
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

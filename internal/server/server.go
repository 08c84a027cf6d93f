// internal/server/server.go

// Package server exposes the monitoring dashboard over a JSON HTTP API. It is
// the boundary the browser frontend talks to: listing CRUD and selection,
// filters and counts, location updates, and the enrichment operations backed
// by the external generative-AI service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listing-monitor/internal/common/config"
	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/common/logger"
	"listing-monitor/internal/common/metrics"
	"listing-monitor/internal/common/observability"
	"listing-monitor/internal/enrichment"
	"listing-monitor/internal/models"
	"listing-monitor/internal/state"
	"listing-monitor/internal/store"
)

type Server struct {
	cfg     *config.Config
	store   *store.Store
	reviews []models.Review
	stats   models.MonitoringStats
	gateway *enrichment.Gateway
	state   state.Store
	log     logger.Logger
	obs     *observability.Observability
	mux     *http.ServeMux
}

func New(
	cfg *config.Config,
	st *store.Store,
	reviews []models.Review,
	stats models.MonitoringStats,
	gateway *enrichment.Gateway,
	stateStore state.Store,
	log logger.Logger,
	obs *observability.Observability,
) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		reviews: reviews,
		stats:   stats,
		gateway: gateway,
		state:   stateStore,
		log:     log,
		obs:     obs,
		mux:     http.NewServeMux(),
	}
	s.routes()
	metrics.MonitoredListings.Set(float64(st.Len()))
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/listings", s.handleListListings)
	s.mux.HandleFunc("POST /api/listings", s.handleAddListing)
	s.mux.HandleFunc("DELETE /api/listings/{id}", s.handleRemoveListing)
	s.mux.HandleFunc("POST /api/listings/{id}/select", s.handleSelectListing)
	s.mux.HandleFunc("GET /api/listings/counts", s.handleCounts)

	s.mux.HandleFunc("PUT /api/filters", s.handleSetFilters)
	s.mux.HandleFunc("POST /api/location", s.handleSetLocation)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/reviews", s.handleReviews)

	s.mux.HandleFunc("POST /api/listings/{id}/analysis", s.handleAnalysis)
	s.mux.HandleFunc("POST /api/reviews/{reviewID}/reply", s.handleReviewReply)
	s.mux.HandleFunc("POST /api/listings/{id}/sentiment", s.handleSentiment)
	s.mux.HandleFunc("GET /api/listings/{id}/enrichment", s.handleEnrichmentState)

	s.mux.HandleFunc("POST /api/discover", s.handleDiscover)
	s.mux.HandleFunc("POST /api/discover/accept", s.handleDiscoverAccept)
	s.mux.HandleFunc("POST /api/lookup", s.handleLookup)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rec, r)

	route := routeLabel(r)
	if s.obs != nil {
		s.obs.RecordRequest(r.Context(), route, http.StatusText(rec.status))
		s.obs.RecordRequestDuration(r.Context(), route, time.Since(start))
	}
	s.log.Debug("request handled", map[string]interface{}{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   rec.status,
		"duration": time.Since(start).String(),
	})
}

// routeLabel returns the matched mux pattern so metric labels stay bounded;
// per-ID request paths must never become attribute values. Unmatched requests
// collapse into a single label per method.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method + " unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

type errorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details string           `json:"details,omitempty"`
	Hint    string           `json:"hint,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, serr *errors.StandardError) {
	s.writeJSON(w, status, map[string]errorBody{"error": {
		Code:    serr.Code,
		Message: serr.Message,
		Details: serr.Details,
	}})
}

// writeQuotaError maps a quota-classified enrichment failure to 429 with a
// hint that the AI credential needs attention; the client surfaces this
// verbatim instead of a generic failure banner.
func (s *Server) writeQuotaError(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusTooManyRequests, map[string]errorBody{"error": {
		Code:    errors.ErrCodeQuotaExceeded,
		Message: "AI quota exceeded",
		Details: err.Error(),
		Hint:    "reconfigure the API credential and retry",
	}})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError("malformed request body: "+err.Error()))
		return false
	}
	return true
}

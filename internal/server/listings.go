// internal/server/listings.go
package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/common/metrics"
	"listing-monitor/internal/common/validation"
	"listing-monitor/internal/models"
	"listing-monitor/internal/store"
)

type listingsResponse struct {
	Listings   []models.BusinessListing `json:"listings"`
	SelectedID string                   `json:"selectedId,omitempty"`
}

// handleListListings returns the filtered view, optionally sorted. Sorting is
// a view-level concern; store order is untouched.
func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings := s.store.FilteredView()

	if raw := r.URL.Query().Get("sort"); raw != "" {
		mode := store.SortMode(raw)
		if !store.ValidSortMode(mode) {
			s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError("unknown sort mode: "+raw))
			return
		}
		store.SortListings(listings, mode)
	}

	s.writeJSON(w, http.StatusOK, listingsResponse{
		Listings:   listings,
		SelectedID: s.store.SelectedID(),
	})
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// listingFromInput converts the schema-validated payload into the model via a
// JSON round trip so field coercion matches the wire format exactly.
func listingFromInput(raw map[string]interface{}) (models.BusinessListing, error) {
	var listing models.BusinessListing

	buf, err := json.Marshal(raw)
	if err != nil {
		return listing, err
	}
	if err := json.Unmarshal(buf, &listing); err != nil {
		return listing, err
	}
	return listing, nil
}

var listingInputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"id":          {Type: "string"},
		"name":        {Type: "string", MinLength: intPtr(1)},
		"address":     {Type: "string", MinLength: intPtr(1)},
		"phone":       {Type: "string"},
		"rating":      {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(5)},
		"reviewCount": {Type: "number", Minimum: floatPtr(0)},
		"status":      {Type: "string", Enum: []string{"synced", "changed", "alert"}},
		"coordinates": {
			Type: "object",
			Properties: map[string]validation.Property{
				"lat": {Type: "number", Minimum: floatPtr(-90), Maximum: floatPtr(90)},
				"lng": {Type: "number", Minimum: floatPtr(-180), Maximum: floatPtr(180)},
			},
			Required: []string{"lat", "lng"},
		},
		"history": {
			Type: "array",
			Items: &validation.Property{
				Type: "object",
				Properties: map[string]validation.Property{
					"month":   {Type: "string", MinLength: intPtr(1)},
					"rating":  {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(5)},
					"reviews": {Type: "number", Minimum: floatPtr(0)},
				},
				Required: []string{"month", "rating", "reviews"},
			},
		},
	},
	Required:             []string{"name", "address", "rating", "status", "coordinates"},
	AdditionalProperties: true,
}

// handleAddListing validates the payload against the input schema before
// decoding it into the model. The server mints an ID when none is supplied.
func (s *Server) handleAddListing(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if !s.decodeBody(w, r, &raw) {
		return
	}

	if result := validation.ValidateInput(raw, listingInputSchema); !result.Valid {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError(validationDetails(result)))
		return
	}

	listing, err := listingFromInput(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError(err.Error()))
		return
	}

	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.LastUpdated.IsZero() {
		listing.LastUpdated = time.Now().UTC()
	}
	if listing.Changes == nil {
		listing.Changes = []string{}
	}
	if listing.History == nil {
		listing.History = []models.TrendPoint{}
	}

	if err := s.store.Add(listing); err != nil {
		s.writeError(w, http.StatusConflict, errors.NewDuplicateListingError(listing.ID))
		return
	}

	metrics.MonitoredListings.Set(float64(s.store.Len()))
	s.log.Info("listing added", map[string]interface{}{
		"listingId": listing.ID,
		"name":      listing.Name,
	})
	s.writeJSON(w, http.StatusCreated, listing)
}

func (s *Server) handleRemoveListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !s.store.Remove(id) {
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(id))
		return
	}

	// Transient enrichment results for a removed listing are discarded.
	if err := s.state.Purge(r.Context(), id); err != nil {
		s.log.Warn("state purge failed", map[string]interface{}{
			"listingId": id,
			"error":     err.Error(),
		})
	}

	metrics.MonitoredListings.Set(float64(s.store.Len()))
	s.log.Info("listing removed", map[string]interface{}{"listingId": id})
	s.writeJSON(w, http.StatusOK, map[string]string{
		"removed":    id,
		"selectedId": s.store.SelectedID(),
	})
}

func (s *Server) handleSelectListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.Select(id); err != nil {
		var serr *errors.StandardError
		if stderrors.As(err, &serr) {
			s.writeError(w, http.StatusNotFound, serr)
			return
		}
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(id))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"selectedId": id})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Counts())
}

type filtersRequest struct {
	Search *string `json:"search"`
	Status *string `json:"status"`
}

// handleSetFilters updates the search query and/or status filter. Absent
// fields are left unchanged so the two can be adjusted independently.
func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Status != nil {
		filter := store.StatusFilter(*req.Status)
		if !store.ValidStatusFilter(filter) {
			s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError("unknown status filter: "+*req.Status))
			return
		}
		s.store.SetStatusFilter(filter)
	}
	if req.Search != nil {
		s.store.SetSearchQuery(*req.Search)
	}

	s.writeJSON(w, http.StatusOK, listingsResponse{
		Listings:   s.store.FilteredView(),
		SelectedID: s.store.SelectedID(),
	})
}

// handleSetLocation recomputes listing distances from the supplied location.
// The response reports whether any distance actually changed so the client can
// skip a re-render on repeated identical updates.
func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var loc models.Coordinates
	if !s.decodeBody(w, r, &loc) {
		return
	}

	changed := s.store.RecomputeDistances(loc)
	s.writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

// handleStats serves the dashboard aggregate. Counts derivable from the store
// are recomputed on every read; the review trend history is served as seeded.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats
	stats.TotalBusinesses = s.store.Len()
	stats.ActiveAlerts = s.store.Counts().Alert

	if listings := s.store.All(); len(listings) > 0 {
		var sum float64
		for _, l := range listings {
			sum += l.Rating
		}
		stats.AvgRating = sum / float64(len(listings))
	} else {
		stats.AvgRating = 0
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]models.Review{"reviews": s.reviews})
}

func validationDetails(result *validation.ValidationResult) string {
	details := ""
	for i, e := range result.Errors {
		if i > 0 {
			details += "; "
		}
		details += e.Field + ": " + e.Message
	}
	return details
}

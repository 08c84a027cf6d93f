// internal/server/enrichment.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/common/metrics"
	"listing-monitor/internal/common/validation"
	"listing-monitor/internal/models"
	"listing-monitor/internal/state"
)

// handleAnalysis runs an AI performance analysis for one listing. The result
// is stored in transient state and returned; a quota failure is surfaced as
// 429 while any other failure yields the safe fallback text with 200.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	listing, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(id))
		return
	}

	s.setLoading(r, id, state.KindAnalysis)

	text, err := s.gateway.AnalyzeBusinessPerformance(r.Context(), listing)
	if err != nil {
		s.recordFailure(r, id, state.KindAnalysis, err)
		s.writeQuotaError(w, err)
		return
	}

	s.storeValue(r, id, state.KindAnalysis, text)
	s.writeJSON(w, http.StatusOK, map[string]string{"analysis": text})
}

type replyRequest struct {
	ListingID string `json:"listingId"`
}

// handleReviewReply drafts a reply for one review. The draft is keyed under
// the listing the review is being answered for; when the body names no
// listing, the current selection is used.
func (s *Server) handleReviewReply(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("reviewID")

	review, ok := s.findReview(reviewID)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.NewReviewNotFoundError(reviewID))
		return
	}

	// The body is optional; an empty body means "the selected listing".
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError("malformed request body: "+err.Error()))
		return
	}

	listingID := req.ListingID
	if listingID == "" {
		listingID = s.store.SelectedID()
	}
	listing, ok := s.store.Get(listingID)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(listingID))
		return
	}

	kind := state.KindReply(reviewID)
	s.setLoading(r, listingID, kind)

	text, err := s.gateway.SuggestReviewReply(r.Context(), review, listing.Name)
	if err != nil {
		s.recordFailure(r, listingID, kind, err)
		s.writeQuotaError(w, err)
		return
	}

	s.storeValue(r, listingID, kind, text)
	s.writeJSON(w, http.StatusOK, map[string]string{"reply": text})
}

// handleSentiment aggregates sentiment across the review set for a listing.
// An empty review set short-circuits with a null report and no AI request.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, ok := s.store.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(id))
		return
	}

	if len(s.reviews) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]*models.SentimentReport{"report": nil})
		return
	}

	s.setLoading(r, id, state.KindSentiment)

	report, err := s.gateway.AnalyzeReviewSentiment(r.Context(), s.reviews)
	if err != nil {
		s.recordFailure(r, id, state.KindSentiment, err)
		s.writeQuotaError(w, err)
		return
	}
	if report == nil {
		// Generic failure: the gateway swallowed the error and returned no
		// report. Record it so the client can show a degraded state.
		if serr := s.state.SetFailure(r.Context(), id, state.KindSentiment, errors.FailureGeneric); serr != nil {
			s.log.Warn("state write failed", map[string]interface{}{"listingId": id, "error": serr.Error()})
		}
		s.writeJSON(w, http.StatusOK, map[string]*models.SentimentReport{"report": nil})
		return
	}

	s.storeValue(r, id, state.KindSentiment, report)
	s.writeJSON(w, http.StatusOK, map[string]*models.SentimentReport{"report": report})
}

// handleEnrichmentState returns every transient enrichment entry for a
// listing, keyed by kind.
func (s *Server) handleEnrichmentState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, ok := s.store.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, errors.NewListingNotFoundError(id))
		return
	}

	snapshot, err := s.state.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.NewEnrichmentFailedError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]map[string]state.Entry{"enrichment": snapshot})
}

type discoverRequest struct {
	Location *models.Coordinates `json:"location"`
	Focus    string              `json:"focus"`
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	candidates, err := s.gateway.DiscoverNearbyBusinesses(r.Context(), req.Location, req.Focus)
	if err != nil {
		s.writeQuotaError(w, err)
		return
	}
	if candidates == nil {
		candidates = []models.DiscoveredBusiness{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.DiscoveredBusiness{"candidates": candidates})
}

// candidateInputSchema re-checks an accepted discovery candidate before it is
// promoted into the store. The body comes back from the client, not straight
// from the gateway, so the discovery constraints are enforced again here.
var candidateInputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
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
	},
	Required:             []string{"name", "address", "rating", "status", "coordinates"},
	AdditionalProperties: true,
}

// handleDiscoverAccept promotes a discovery candidate into a monitored
// listing with a freshly minted ID.
func (s *Server) handleDiscoverAccept(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if !s.decodeBody(w, r, &raw) {
		return
	}

	if result := validation.ValidateInput(raw, candidateInputSchema); !result.Valid {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError(validationDetails(result)))
		return
	}

	candidate, err := candidateFromInput(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError(err.Error()))
		return
	}

	listing := candidate.ToListing(uuid.NewString(), time.Now().UTC())
	if err := s.store.Add(listing); err != nil {
		s.writeError(w, http.StatusConflict, errors.NewDuplicateListingError(listing.ID))
		return
	}

	metrics.MonitoredListings.Set(float64(s.store.Len()))
	s.log.Info("discovery candidate accepted", map[string]interface{}{
		"listingId": listing.ID,
		"name":      listing.Name,
	})
	s.writeJSON(w, http.StatusCreated, listing)
}

type lookupRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, errors.NewInvalidListingError("lookup query is required"))
		return
	}

	match, err := s.gateway.LookupBusiness(r.Context(), req.Query)
	if err != nil {
		s.writeQuotaError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]*models.BusinessMatch{"match": match})
}

// candidateFromInput converts the schema-validated payload into the model via
// a JSON round trip, mirroring listingFromInput.
func candidateFromInput(raw map[string]interface{}) (models.DiscoveredBusiness, error) {
	var candidate models.DiscoveredBusiness

	buf, err := json.Marshal(raw)
	if err != nil {
		return candidate, err
	}
	if err := json.Unmarshal(buf, &candidate); err != nil {
		return candidate, err
	}
	return candidate, nil
}

func (s *Server) findReview(id string) (models.Review, bool) {
	for _, rv := range s.reviews {
		if rv.ID == id {
			return rv, true
		}
	}
	return models.Review{}, false
}

func (s *Server) setLoading(r *http.Request, listingID, kind string) {
	if err := s.state.SetLoading(r.Context(), listingID, kind); err != nil {
		s.log.Warn("state write failed", map[string]interface{}{"listingId": listingID, "kind": kind, "error": err.Error()})
	}
}

// storeValue persists a completed enrichment result unless the listing was
// removed while the request was in flight; late results for deleted listings
// are discarded.
func (s *Server) storeValue(r *http.Request, listingID, kind string, value interface{}) {
	if _, ok := s.store.Get(listingID); !ok {
		s.log.Debug("discarding result for removed listing", map[string]interface{}{"listingId": listingID, "kind": kind})
		return
	}
	if err := s.state.SetValue(r.Context(), listingID, kind, value); err != nil {
		s.log.Warn("state write failed", map[string]interface{}{"listingId": listingID, "kind": kind, "error": err.Error()})
	}
}

func (s *Server) recordFailure(r *http.Request, listingID, kind string, err error) {
	if serr := s.state.SetFailure(r.Context(), listingID, kind, errors.Classify(err)); serr != nil {
		s.log.Warn("state write failed", map[string]interface{}{"listingId": listingID, "kind": kind, "error": serr.Error()})
	}
}

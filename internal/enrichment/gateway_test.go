// internal/enrichment/gateway_test.go
package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/common/logger"
	"listing-monitor/internal/models"
)

// fakeAI stands in for the external generative-AI service.
type fakeAI struct {
	server   *httptest.Server
	requests atomic.Int64

	// Set one of these before the call.
	responseText string
	statusCode   int
	errorBody    string
}

func newFakeAI(t *testing.T) *fakeAI {
	t.Helper()
	f := &fakeAI{statusCode: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)

		if f.statusCode != http.StatusOK {
			w.WriteHeader(f.statusCode)
			if f.errorBody != "" {
				w.Write([]byte(f.errorBody))
			}
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": f.responseText})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestGateway(t *testing.T, f *fakeAI) *Gateway {
	t.Helper()
	client := NewClient(Config{
		BaseURL:     f.server.URL,
		APIKey:      "test-key",
		Model:       "gemini-3-flash-preview",
		ProModel:    "gemini-3-pro-preview",
		Timeout:     5 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.4,
	})
	return NewGateway(client, logger.NewTestLogger(t))
}

func testBusiness() models.BusinessListing {
	return models.BusinessListing{
		ID:      "1",
		Name:    "Gourmet Garden Bistro",
		Rating:  4.8,
		Status:  models.StatusSynced,
		Changes: []string{},
	}
}

func TestAnalyzeBusinessPerformance_Success(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = "Listing is healthy. No action needed."
	g := newTestGateway(t, f)

	text, err := g.AnalyzeBusinessPerformance(context.Background(), testBusiness())
	require.NoError(t, err)
	assert.Equal(t, "Listing is healthy. No action needed.", text)
	assert.Equal(t, int64(1), f.requests.Load())
}

func TestAnalyzeBusinessPerformance_GenericFailureFallsBack(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusInternalServerError
	g := newTestGateway(t, f)

	text, err := g.AnalyzeBusinessPerformance(context.Background(), testBusiness())
	require.NoError(t, err)
	assert.Equal(t, AnalysisFallback, text)
}

func TestAnalyzeBusinessPerformance_QuotaPropagates(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusTooManyRequests
	f.errorBody = `{"error":{"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED","code":429}}`
	g := newTestGateway(t, f)

	_, err := g.AnalyzeBusinessPerformance(context.Background(), testBusiness())
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceeded(err))
}

func TestAnalyzeBusinessPerformance_NetworkFailureFallsBack(t *testing.T) {
	f := newFakeAI(t)
	g := newTestGateway(t, f)
	f.server.Close()

	text, err := g.AnalyzeBusinessPerformance(context.Background(), testBusiness())
	require.NoError(t, err)
	assert.Equal(t, AnalysisFallback, text)
}

func TestSuggestReviewReply_Success(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = "Thank you Sarah, we can't wait to welcome you back!"
	g := newTestGateway(t, f)

	review := models.Review{ID: "r1", Author: "Sarah Jenkins", Rating: 5, Text: "Loved it."}
	text, err := g.SuggestReviewReply(context.Background(), review, "Gourmet Garden Bistro")
	require.NoError(t, err)
	assert.Equal(t, "Thank you Sarah, we can't wait to welcome you back!", text)
}

func TestSuggestReviewReply_GenericFailureFallsBack(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusBadGateway
	g := newTestGateway(t, f)

	review := models.Review{ID: "r2", Author: "Michael Chen", Rating: 2, Text: "No one picked up."}
	text, err := g.SuggestReviewReply(context.Background(), review, "Gourmet Garden Bistro")
	require.NoError(t, err)
	assert.Equal(t, ReplyFallback, text)
}

func TestAnalyzeReviewSentiment_EmptyInputSkipsRequest(t *testing.T) {
	f := newFakeAI(t)
	g := newTestGateway(t, f)

	report, err := g.AnalyzeReviewSentiment(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Equal(t, int64(0), f.requests.Load())
}

func TestAnalyzeReviewSentiment_Success(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = `{"overallSentiment":"mixed","keyPainPoints":["unreachable by phone"],"positiveHighlights":["fresh food"]}`
	g := newTestGateway(t, f)

	report, err := g.AnalyzeReviewSentiment(context.Background(), []models.Review{
		{Rating: 5, Text: "Fresh food."},
		{Rating: 2, Text: "No one picked up the phone."},
	})
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "mixed", report.OverallSentiment)
	assert.Equal(t, []string{"unreachable by phone"}, report.KeyPainPoints)
	assert.Equal(t, []string{"fresh food"}, report.PositiveHighlights)
}

func TestAnalyzeReviewSentiment_MalformedJSONIsGeneric(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = `{"overallSentiment": "positive"` // truncated
	g := newTestGateway(t, f)

	report, err := g.AnalyzeReviewSentiment(context.Background(), []models.Review{{Rating: 4, Text: "ok"}})
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestAnalyzeReviewSentiment_MissingRequiredFieldIsGeneric(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = `{"overallSentiment":"positive","keyPainPoints":[]}`
	g := newTestGateway(t, f)

	report, err := g.AnalyzeReviewSentiment(context.Background(), []models.Review{{Rating: 4, Text: "ok"}})
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestAnalyzeReviewSentiment_QuotaPropagates(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusTooManyRequests
	f.errorBody = `{"error":{"message":"rate limited","code":429}}`
	g := newTestGateway(t, f)

	report, err := g.AnalyzeReviewSentiment(context.Background(), []models.Review{{Rating: 4, Text: "ok"}})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.IsQuotaExceeded(err))
}

func validDiscoveryItem(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"address":     "1 Main St, San Francisco, CA",
		"phone":       "(415) 555-0000",
		"rating":      4.5,
		"reviewCount": 120,
		"status":      "synced",
		"coordinates": map[string]float64{"lat": 37.78, "lng": -122.41},
		"hours": map[string]string{
			"monday": "09:00 - 17:00", "tuesday": "09:00 - 17:00", "wednesday": "09:00 - 17:00",
			"thursday": "09:00 - 17:00", "friday": "09:00 - 17:00", "saturday": "Closed", "sunday": "Closed",
		},
	}
}

func TestDiscoverNearbyBusinesses_Success(t *testing.T) {
	f := newFakeAI(t)
	items, _ := json.Marshal([]interface{}{validDiscoveryItem("Blue Door Cafe"), validDiscoveryItem("Harbor Books")})
	f.responseText = string(items)
	g := newTestGateway(t, f)

	candidates, err := g.DiscoverNearbyBusinesses(context.Background(), nil, "coffee")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Blue Door Cafe", candidates[0].Name)
	assert.Equal(t, models.StatusSynced, candidates[0].Status)
	assert.Equal(t, "09:00 - 17:00", candidates[0].Hours.Monday)
}

func TestDiscoverNearbyBusinesses_CapsToThree(t *testing.T) {
	f := newFakeAI(t)
	items, _ := json.Marshal([]interface{}{
		validDiscoveryItem("A"), validDiscoveryItem("B"),
		validDiscoveryItem("C"), validDiscoveryItem("D"),
	})
	f.responseText = string(items)
	g := newTestGateway(t, f)

	candidates, err := g.DiscoverNearbyBusinesses(context.Background(), &models.Coordinates{Lat: 37.8, Lng: -122.4}, "")
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestDiscoverNearbyBusinesses_OffSchemaItemIsGenericEmpty(t *testing.T) {
	f := newFakeAI(t)
	bad := validDiscoveryItem("Too Low")
	bad["rating"] = 2.0 // below the schema minimum of 3.0
	items, _ := json.Marshal([]interface{}{bad})
	f.responseText = string(items)
	g := newTestGateway(t, f)

	candidates, err := g.DiscoverNearbyBusinesses(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDiscoverNearbyBusinesses_QuotaPropagates(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusTooManyRequests
	f.errorBody = `{"error":{"message":"quota exhausted","code":429}}`
	g := newTestGateway(t, f)

	_, err := g.DiscoverNearbyBusinesses(context.Background(), nil, "")
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceeded(err))
}

func TestLookupBusiness_Success(t *testing.T) {
	f := newFakeAI(t)
	f.responseText = `{"name":"Tartine Bakery","address":"600 Guerrero St, San Francisco, CA","phone":"(415) 487-2600","rating":4.6,"reviewCount":8900,"coordinates":{"lat":37.7614,"lng":-122.4241}}`
	g := newTestGateway(t, f)

	match, err := g.LookupBusiness(context.Background(), "Tartine Bakery")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Tartine Bakery", match.Name)
	assert.InDelta(t, 37.7614, match.Coordinates.Lat, 1e-9)
}

func TestLookupBusiness_GenericFailureYieldsNoMatch(t *testing.T) {
	f := newFakeAI(t)
	f.statusCode = http.StatusServiceUnavailable
	g := newTestGateway(t, f)

	match, err := g.LookupBusiness(context.Background(), "Nowhere Cafe")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestDiscoveredBusiness_ToListing(t *testing.T) {
	f := newFakeAI(t)
	items, _ := json.Marshal([]interface{}{validDiscoveryItem("Blue Door Cafe")})
	f.responseText = string(items)
	g := newTestGateway(t, f)

	candidates, err := g.DiscoverNearbyBusinesses(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	now := time.Now().UTC()
	listing := candidates[0].ToListing("new-id", now)
	assert.Equal(t, "new-id", listing.ID)
	assert.Equal(t, "Blue Door Cafe", listing.Name)
	assert.Equal(t, models.StatusSynced, listing.Status)
	assert.Empty(t, listing.Changes)
	assert.Empty(t, listing.History)
	assert.Equal(t, now, listing.LastUpdated)
}

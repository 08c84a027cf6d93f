// internal/enrichment/gateway.go

// Package enrichment is the sole boundary to the external generative-AI
// service. It issues the five enrichment request kinds, validates structured
// responses against their schemas, and classifies every failure as either a
// quota rejection or a generic error.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/common/logger"
	"listing-monitor/internal/common/metrics"
	"listing-monitor/internal/models"
)

// Fallback texts surfaced to callers on generic failures. Quota failures are
// never masked by a fallback; they propagate so the caller can prompt for
// credential reconfiguration.
const (
	AnalysisFallback = "Unable to perform AI analysis at this time."
	ReplyFallback    = "Thank you for your feedback. We appreciate your input."
)

// DefaultDiscoveryLocation is used when discovery is requested without a user
// location.
var DefaultDiscoveryLocation = models.Coordinates{Lat: 37.77, Lng: -122.41}

const maxDiscoveryResults = 3

type Gateway struct {
	client *Client
	logger logger.Logger
}

func NewGateway(client *Client, log logger.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: log.With(map[string]interface{}{
			"component": "enrichment-gateway",
		}),
	}
}

// AnalyzeBusinessPerformance summarizes a listing's status and recommended
// actions as free text. A generic failure yields the fallback text; a quota
// failure propagates.
func (g *Gateway) AnalyzeBusinessPerformance(ctx context.Context, business models.BusinessListing) (string, error) {
	const op = "analyze_performance"
	defer g.observe(op, time.Now())

	changes := strings.Join(business.Changes, ", ")
	if changes == "" {
		changes = "None"
	}

	prompt := fmt.Sprintf(`Analyze this business listing data and provide a concise summary of its status and any recommended actions.
Business Name: %s
Current Rating: %g
Recent Changes: %s
Status: %s`, business.Name, business.Rating, changes, business.Status)

	text, err := g.client.Generate(ctx, g.client.config.Model, prompt, nil)
	if err != nil {
		return g.textFallback(op, AnalysisFallback, err)
	}
	return text, nil
}

// SuggestReviewReply drafts a short, personalized reply to a customer review.
func (g *Gateway) SuggestReviewReply(ctx context.Context, review models.Review, businessName string) (string, error) {
	const op = "suggest_reply"
	defer g.observe(op, time.Now())

	prompt := fmt.Sprintf(`Write a professional, empathetic, and personalized response to this review for %q.
Review Author: %s
Rating: %d stars
Review Text: %q

Response requirements:
- If negative, apologize and offer a way to make it right.
- If positive, express gratitude and invite them back.
- Keep it under 100 words.`, businessName, review.Author, review.Rating, review.Text)

	text, err := g.client.Generate(ctx, g.client.config.Model, prompt, nil)
	if err != nil {
		return g.textFallback(op, ReplyFallback, err)
	}
	return text, nil
}

// AnalyzeReviewSentiment aggregates sentiment across a set of reviews. An
// empty review list issues no request and yields no result. A generic failure
// yields no result rather than a fabricated report; a quota failure
// propagates.
func (g *Gateway) AnalyzeReviewSentiment(ctx context.Context, reviews []models.Review) (*models.SentimentReport, error) {
	const op = "analyze_sentiment"

	if len(reviews) == 0 {
		return nil, nil
	}
	defer g.observe(op, time.Now())

	samples := make([]string, 0, len(reviews))
	for _, r := range reviews {
		samples = append(samples, fmt.Sprintf("[%d stars: %s]", r.Rating, r.Text))
	}

	prompt := fmt.Sprintf(`Analyze the sentiment and key themes from these business reviews: %s.
Return a JSON object with:
- overallSentiment: string (one word)
- keyPainPoints: string[]
- positiveHighlights: string[]`, strings.Join(samples, "; "))

	raw, err := g.client.Generate(ctx, g.client.config.Model, prompt, json.RawMessage(sentimentSchema))
	if err != nil {
		return nil, g.structuredFailure(op, err)
	}

	var report models.SentimentReport
	if err := decodeValidated(raw, sentimentSchema, &report); err != nil {
		g.warnGeneric(op, err)
		return nil, nil
	}
	return &report, nil
}

// DiscoverNearbyBusinesses asks the service for up to three candidate
// listings near the given location (or the default when location is nil).
// Every candidate is validated against the discovery schema; a generic
// failure yields an empty result, a quota failure propagates.
func (g *Gateway) DiscoverNearbyBusinesses(ctx context.Context, location *models.Coordinates, focus string) ([]models.DiscoveredBusiness, error) {
	const op = "discover_nearby"
	defer g.observe(op, time.Now())

	loc := DefaultDiscoveryLocation
	if location != nil {
		loc = *location
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Act as a local business scout. Discover %d potential businesses to monitor near lat: %g, lng: %g. ",
		maxDiscoveryResults, loc.Lat, loc.Lng)
	if focus != "" {
		fmt.Fprintf(&b, "Focus on businesses related to %q. ", focus)
	}
	b.WriteString(`
Return an array of business objects in JSON format.

Requirements:
- name: string
- address: string
- phone: string
- rating: number (between 3.0 and 5.0)
- reviewCount: number
- status: 'synced'
- coordinates: { lat: number, lng: number }
- hours: { monday: string, tuesday: string, ... } (standard 9-5 style)`)

	raw, err := g.client.Generate(ctx, g.client.config.Model, b.String(), json.RawMessage(discoverySchema))
	if err != nil {
		if errors.IsQuotaExceeded(err) {
			g.countFailure(op, errors.FailureQuotaExceeded)
			return nil, errors.NewQuotaExceededError(err.Error())
		}
		g.warnGeneric(op, err)
		return []models.DiscoveredBusiness{}, nil
	}

	var candidates []models.DiscoveredBusiness
	if err := decodeValidated(raw, discoverySchema, &candidates); err != nil {
		g.warnGeneric(op, err)
		return []models.DiscoveredBusiness{}, nil
	}

	if len(candidates) > maxDiscoveryResults {
		candidates = candidates[:maxDiscoveryResults]
	}
	return candidates, nil
}

// LookupBusiness resolves a free-text query to the most prominent matching
// business, or no result when nothing matches or a generic failure occurs.
func (g *Gateway) LookupBusiness(ctx context.Context, query string) (*models.BusinessMatch, error) {
	const op = "lookup_business"
	defer g.observe(op, time.Now())

	prompt := fmt.Sprintf(`Search for the business %q. Return its official details. If multiple found, return the most prominent one.
Return as JSON with:
- name: string
- address: string
- phone: string
- rating: number
- reviewCount: number
- coordinates: {lat: number, lng: number}`, query)

	raw, err := g.client.Generate(ctx, g.client.config.ProModel, prompt, json.RawMessage(lookupSchema))
	if err != nil {
		return nil, g.structuredFailure(op, err)
	}

	var match models.BusinessMatch
	if err := decodeValidated(raw, lookupSchema, &match); err != nil {
		g.warnGeneric(op, err)
		return nil, nil
	}
	return &match, nil
}

// textFallback resolves a failed free-text operation: quota propagates,
// anything else degrades to the safe fallback string.
func (g *Gateway) textFallback(op, fallback string, err error) (string, error) {
	if errors.IsQuotaExceeded(err) {
		g.countFailure(op, errors.FailureQuotaExceeded)
		return "", errors.NewQuotaExceededError(err.Error())
	}
	g.warnGeneric(op, err)
	return fallback, nil
}

// structuredFailure resolves a failed structured operation: quota propagates,
// anything else yields no result.
func (g *Gateway) structuredFailure(op string, err error) error {
	if errors.IsQuotaExceeded(err) {
		g.countFailure(op, errors.FailureQuotaExceeded)
		return errors.NewQuotaExceededError(err.Error())
	}
	g.warnGeneric(op, err)
	return nil
}

func (g *Gateway) warnGeneric(op string, err error) {
	g.countFailure(op, errors.FailureGeneric)
	g.logger.Warn("enrichment request failed", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
}

func (g *Gateway) countFailure(op string, kind errors.FailureKind) {
	metrics.EnrichmentFailuresTotal.WithLabelValues(op, string(kind)).Inc()
}

func (g *Gateway) observe(op string, start time.Time) {
	metrics.EnrichmentRequestsTotal.WithLabelValues(op).Inc()
	metrics.EnrichmentDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

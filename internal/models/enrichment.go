// internal/models/enrichment.go
package models

import "time"

// SentimentReport is the structured result of aggregate review sentiment
// analysis. All three fields are required by the response schema; the arrays
// may be empty.
type SentimentReport struct {
	OverallSentiment   string   `json:"overallSentiment"`
	KeyPainPoints      []string `json:"keyPainPoints"`
	PositiveHighlights []string `json:"positiveHighlights"`
}

// DiscoveredBusiness is one candidate from nearby-business discovery,
// pending user acceptance into the store.
type DiscoveredBusiness struct {
	Name        string        `json:"name"`
	Address     string        `json:"address"`
	Phone       string        `json:"phone"`
	Rating      float64       `json:"rating"`
	ReviewCount int           `json:"reviewCount"`
	Status      ListingStatus `json:"status"`
	Coordinates Coordinates   `json:"coordinates"`
	Hours       BusinessHours `json:"hours"`
}

// ToListing converts an accepted discovery candidate into a full listing.
// The caller supplies the ID; changes and history start empty.
func (d DiscoveredBusiness) ToListing(id string, now time.Time) BusinessListing {
	return BusinessListing{
		ID:          id,
		Name:        d.Name,
		Address:     d.Address,
		Phone:       d.Phone,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Hours:       d.Hours,
		LastUpdated: now,
		Status:      d.Status,
		Changes:     []string{},
		Coordinates: d.Coordinates,
		History:     []TrendPoint{},
	}
}

// BusinessMatch is the best-match result of a free-text business lookup.
type BusinessMatch struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"reviewCount"`
	Coordinates Coordinates `json:"coordinates"`
}

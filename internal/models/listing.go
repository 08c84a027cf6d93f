// internal/models/listing.go
package models

import "time"

// ListingStatus classifies the health of a monitored listing.
// Status is assigned by the caller when a listing is created or replaced;
// there is no derivation rule from rating deltas.
type ListingStatus string

const (
	StatusSynced  ListingStatus = "synced"
	StatusChanged ListingStatus = "changed"
	StatusAlert   ListingStatus = "alert"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BusinessHours holds a free-text hours string per weekday,
// e.g. "09:00 - 17:00", "24 hours" or "Closed".
type BusinessHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// TrendPoint is one month of rating/review history, oldest first.
type TrendPoint struct {
	Month   string  `json:"month"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// BusinessListing is a monitored business record. A listing is only ever
// replaced wholesale; enrichment output never mutates it.
type BusinessListing struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Address     string        `json:"address"`
	Phone       string        `json:"phone"`
	Rating      float64       `json:"rating"`
	ReviewCount int           `json:"reviewCount"`
	Hours       BusinessHours `json:"hours"`
	LastUpdated time.Time     `json:"lastUpdated"`
	Status      ListingStatus `json:"status"`
	Changes     []string      `json:"changes"`
	Coordinates Coordinates   `json:"coordinates"`
	// Distance from the user's location in km; nil until computed.
	Distance *float64     `json:"distance,omitempty"`
	History  []TrendPoint `json:"history"`
}

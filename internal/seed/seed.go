// internal/seed/seed.go

// Package seed provides the demo dataset loaded when app.seed_demo_data is
// enabled.
package seed

import (
	"time"

	"listing-monitor/internal/models"
)

// Listings returns the three sample businesses with their trend history.
func Listings() []models.BusinessListing {
	return []models.BusinessListing{
		{
			ID:          "1",
			Name:        "Gourmet Garden Bistro",
			Address:     "123 Culinary Ave, San Francisco, CA",
			Phone:       "(415) 555-0123",
			Rating:      4.8,
			ReviewCount: 1240,
			Status:      models.StatusSynced,
			LastUpdated: time.Date(2023, 10, 25, 10, 0, 0, 0, time.UTC),
			Changes:     []string{},
			Coordinates: models.Coordinates{Lat: 37.7749, Lng: -122.4194},
			History: []models.TrendPoint{
				{Month: "May", Rating: 4.6, Reviews: 1020},
				{Month: "Jun", Rating: 4.7, Reviews: 1050},
				{Month: "Jul", Rating: 4.7, Reviews: 1100},
				{Month: "Aug", Rating: 4.8, Reviews: 1150},
				{Month: "Sep", Rating: 4.8, Reviews: 1200},
				{Month: "Oct", Rating: 4.8, Reviews: 1240},
			},
			Hours: models.BusinessHours{
				Monday:    "09:00 - 21:00",
				Tuesday:   "09:00 - 21:00",
				Wednesday: "09:00 - 21:00",
				Thursday:  "09:00 - 21:00",
				Friday:    "09:00 - 22:00",
				Saturday:  "10:00 - 22:00",
				Sunday:    "10:00 - 20:00",
			},
		},
		{
			ID:          "2",
			Name:        "FitPulse Gym & Wellness",
			Address:     "456 Kinetic Blvd, San Francisco, CA",
			Phone:       "(415) 555-9876",
			Rating:      4.2,
			ReviewCount: 856,
			Status:      models.StatusChanged,
			LastUpdated: time.Date(2023, 10, 24, 15, 30, 0, 0, time.UTC),
			Changes:     []string{"Hours updated for Saturday", "Phone number changed"},
			Coordinates: models.Coordinates{Lat: 37.7833, Lng: -122.4167},
			History: []models.TrendPoint{
				{Month: "May", Rating: 4.0, Reviews: 750},
				{Month: "Jun", Rating: 4.1, Reviews: 780},
				{Month: "Jul", Rating: 4.1, Reviews: 800},
				{Month: "Aug", Rating: 4.2, Reviews: 820},
				{Month: "Sep", Rating: 4.2, Reviews: 840},
				{Month: "Oct", Rating: 4.2, Reviews: 856},
			},
			Hours: models.BusinessHours{
				Monday:    "05:00 - 23:00",
				Tuesday:   "05:00 - 23:00",
				Wednesday: "05:00 - 23:00",
				Thursday:  "05:00 - 23:00",
				Friday:    "05:00 - 23:00",
				Saturday:  "07:00 - 20:00",
				Sunday:    "08:00 - 18:00",
			},
		},
		{
			ID:          "3",
			Name:        "TechHub Coworking",
			Address:     "789 Silicon Rd, San Francisco, CA",
			Phone:       "(415) 555-4433",
			Rating:      3.5,
			ReviewCount: 420,
			Status:      models.StatusAlert,
			LastUpdated: time.Date(2023, 10, 25, 8, 15, 0, 0, time.UTC),
			Changes:     []string{"Rating dropped from 3.7 to 3.5"},
			Coordinates: models.Coordinates{Lat: 37.7510, Lng: -122.4476},
			History: []models.TrendPoint{
				{Month: "May", Rating: 3.8, Reviews: 380},
				{Month: "Jun", Rating: 3.8, Reviews: 390},
				{Month: "Jul", Rating: 3.7, Reviews: 400},
				{Month: "Aug", Rating: 3.7, Reviews: 410},
				{Month: "Sep", Rating: 3.6, Reviews: 415},
				{Month: "Oct", Rating: 3.5, Reviews: 420},
			},
			Hours: models.BusinessHours{
				Monday:    "24 hours",
				Tuesday:   "24 hours",
				Wednesday: "24 hours",
				Thursday:  "24 hours",
				Friday:    "24 hours",
				Saturday:  "Closed",
				Sunday:    "Closed",
			},
		},
	}
}

// Reviews returns the sample customer reviews.
func Reviews() []models.Review {
	return []models.Review{
		{
			ID:        "r1",
			Author:    "Sarah Jenkins",
			Rating:    5,
			Text:      "Absolutely loved the atmosphere here! The food was fresh and the service was impeccable.",
			Date:      "2 hours ago",
			Sentiment: models.SentimentPositive,
		},
		{
			ID:        "r2",
			Author:    "Michael Chen",
			Rating:    2,
			Text:      "I called three times and no one picked up. When I arrived, they told me the hours changed but Google said something else.",
			Date:      "1 day ago",
			Sentiment: models.SentimentNegative,
		},
		{
			ID:        "r3",
			Author:    "Emma Wilson",
			Rating:    4,
			Text:      "Great spot for coworking, but the coffee machine was broken today.",
			Date:      "3 days ago",
			Sentiment: models.SentimentNeutral,
		},
	}
}

// Stats returns the initial aggregate dashboard stats.
func Stats() models.MonitoringStats {
	return models.MonitoringStats{
		TotalBusinesses:  12,
		ActiveAlerts:     2,
		AvgRating:        4.4,
		ReviewsThisMonth: 145,
		History: []models.TrendPoint{
			{Month: "May", Rating: 4.1, Reviews: 85},
			{Month: "Jun", Rating: 4.2, Reviews: 92},
			{Month: "Jul", Rating: 4.3, Reviews: 110},
			{Month: "Aug", Rating: 4.3, Reviews: 125},
			{Month: "Sep", Rating: 4.4, Reviews: 140},
			{Month: "Oct", Rating: 4.4, Reviews: 145},
		},
	}
}

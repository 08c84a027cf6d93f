// internal/store/sort.go
package store

import (
	"sort"

	"listing-monitor/internal/models"
)

// SortMode selects the view-level ordering of a filtered listing slice.
type SortMode string

const (
	SortByName     SortMode = "name"
	SortByRating   SortMode = "rating"
	SortByDistance SortMode = "distance"
)

// ValidSortMode reports whether m is one of the known sort modes.
func ValidSortMode(m SortMode) bool {
	switch m {
	case SortByName, SortByRating, SortByDistance:
		return true
	}
	return false
}

// SortListings orders the slice in place: name lexicographic, rating
// descending, or distance ascending with undefined-distance entries last.
// An unknown mode leaves the slice untouched.
func SortListings(listings []models.BusinessListing, mode SortMode) {
	switch mode {
	case SortByName:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Name < listings[j].Name
		})
	case SortByRating:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Rating > listings[j].Rating
		})
	case SortByDistance:
		sort.SliceStable(listings, func(i, j int) bool {
			di, dj := listings[i].Distance, listings[j].Distance
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}
}

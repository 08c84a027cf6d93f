// internal/store/store.go

// Package store holds the in-memory collection of monitored business listings
// together with the view state layered on top of it: the current selection,
// the free-text search query and the status filter.
package store

import (
	"strings"
	"sync"

	"listing-monitor/internal/common/errors"
	"listing-monitor/internal/geo"
	"listing-monitor/internal/models"
)

// StatusFilter narrows the filtered view to a single listing status.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterSynced  StatusFilter = "synced"
	FilterChanged StatusFilter = "changed"
	FilterAlert   StatusFilter = "alert"
)

// ValidStatusFilter reports whether f is one of the four known filters.
func ValidStatusFilter(f StatusFilter) bool {
	switch f {
	case FilterAll, FilterSynced, FilterChanged, FilterAlert:
		return true
	}
	return false
}

// Counts annotates the filter controls with per-status listing counts.
type Counts struct {
	All     int `json:"all"`
	Synced  int `json:"synced"`
	Changed int `json:"changed"`
	Alert   int `json:"alert"`
}

// Store is the monitoring store. Every operation takes the lock, so each
// mutation is atomic with respect to the single listing collection even though
// enrichment requests may be in flight concurrently.
type Store struct {
	mu           sync.RWMutex
	listings     []models.BusinessListing
	selectedID   string
	searchQuery  string
	statusFilter StatusFilter
}

func New() *Store {
	return &Store{
		statusFilter: FilterAll,
	}
}

// Add appends the listing and makes it the current selection.
// IDs must be unique within the store.
func (s *Store) Add(listing models.BusinessListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listings {
		if l.ID == listing.ID {
			return errors.NewDuplicateListingError(listing.ID)
		}
	}

	s.listings = append(s.listings, listing)
	s.selectedID = listing.ID
	return nil
}

// Remove deletes the listing with the given ID and reports whether it existed.
// If the removed listing was selected, selection moves to the first remaining
// listing in store order, or becomes empty.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, l := range s.listings {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.listings = append(s.listings[:idx], s.listings[idx+1:]...)

	if s.selectedID == id {
		if len(s.listings) > 0 {
			s.selectedID = s.listings[0].ID
		} else {
			s.selectedID = ""
		}
	}
	return true
}

// Select sets the selection to an existing listing. Selecting an unknown ID is
// a caller error and is rejected.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listings {
		if l.ID == id {
			s.selectedID = id
			return nil
		}
	}
	return errors.NewListingNotFoundError(id)
}

// Selected returns the currently selected listing, if any.
func (s *Store) Selected() (models.BusinessListing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == s.selectedID {
			return l, true
		}
	}
	return models.BusinessListing{}, false
}

// SelectedID returns the ID of the current selection, empty if none.
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

func (s *Store) SetStatusFilter(filter StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusFilter = filter
}

// RecomputeDistances replaces each listing's distance with the great-circle
// distance from the given location. It reports whether any distance actually
// changed, so callers can skip redundant downstream recomputation.
func (s *Store) RecomputeDistances(location models.Coordinates) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.listings {
		d := geo.DistanceKm(location.Lat, location.Lng,
			s.listings[i].Coordinates.Lat, s.listings[i].Coordinates.Lng)
		if s.listings[i].Distance == nil || *s.listings[i].Distance != d {
			dist := d
			s.listings[i].Distance = &dist
			changed = true
		}
	}
	return changed
}

// FilteredView returns the listings whose name case-insensitively contains the
// search query and whose status matches the status filter, in store order.
// Sorting is a view-level concern layered on top (see SortListings).
func (s *Store) FilteredView() []models.BusinessListing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(s.searchQuery)
	view := make([]models.BusinessListing, 0, len(s.listings))
	for _, l := range s.listings {
		if query != "" && !strings.Contains(strings.ToLower(l.Name), query) {
			continue
		}
		if s.statusFilter != FilterAll && string(l.Status) != string(s.statusFilter) {
			continue
		}
		view = append(view, l)
	}
	return view
}

// Counts recomputes the per-status listing counts from current store contents.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Counts{All: len(s.listings)}
	for _, l := range s.listings {
		switch l.Status {
		case models.StatusSynced:
			c.Synced++
		case models.StatusChanged:
			c.Changed++
		case models.StatusAlert:
			c.Alert++
		}
	}
	return c
}

// Get returns the listing with the given ID.
func (s *Store) Get(id string) (models.BusinessListing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.BusinessListing{}, false
}

// All returns a copy of the full listing collection in store order.
func (s *Store) All() []models.BusinessListing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BusinessListing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Len returns the number of listings in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

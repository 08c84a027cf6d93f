// internal/geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(37.7749, -122.4194, 37.7749, -122.4194))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{37.7749, -122.4194, 37.7833, -122.4167},
		{37.7749, -122.4194, 40.7128, -74.0060},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}

	for _, p := range pairs {
		forward := DistanceKm(p.lat1, p.lon1, p.lat2, p.lon2)
		backward := DistanceKm(p.lat2, p.lon2, p.lat1, p.lon1)
		assert.InDelta(t, forward, backward, 1e-9)
		assert.GreaterOrEqual(t, forward, 0.0)
	}
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111 km anywhere on the globe.
	d := DistanceKm(37.7749, -122.4194, 38.7749, -122.4194)
	assert.InDelta(t, 111.0, d, 1.0)
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	// San Francisco to Los Angeles is about 559 km great-circle.
	d := DistanceKm(37.7749, -122.4194, 34.0522, -118.2437)
	assert.InDelta(t, 559.0, d, 5.0)
}

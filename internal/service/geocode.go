package service

import (
	"context"
	"strings"

	"saferide/internal/domain"
)

// Geocoder resolves free-text queries to locations. The core treats it as an
// opaque collaborator used only to populate pickup and dropoff fields.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]domain.Location, error)
}

// StaticGeocoder serves suggestions from a fixed location list.
type StaticGeocoder struct {
	locations []domain.Location
}

// NewStaticGeocoder creates a geocoder over the given locations. With none
// given, a built-in demo set is used.
func NewStaticGeocoder(locations []domain.Location) *StaticGeocoder {
	if len(locations) == 0 {
		locations = defaultLocations()
	}
	return &StaticGeocoder{locations: locations}
}

// Search returns locations whose address contains the query,
// case-insensitively. An empty query returns the full list.
func (g *StaticGeocoder) Search(ctx context.Context, query string) ([]domain.Location, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	var result []domain.Location
	for _, loc := range g.locations {
		if needle == "" || strings.Contains(strings.ToLower(loc.Address), needle) {
			result = append(result, loc)
		}
	}
	return result, nil
}

// Ensure interface compliance.
var _ Geocoder = (*StaticGeocoder)(nil)

func defaultLocations() []domain.Location {
	return []domain.Location{
		{Latitude: 37.7749, Longitude: -122.4194, Address: "San Francisco, CA"},
		{Latitude: 37.8044, Longitude: -122.2712, Address: "Oakland, CA"},
		{Latitude: 37.3382, Longitude: -121.8863, Address: "San Jose, CA"},
		{Latitude: 37.8716, Longitude: -122.2727, Address: "Berkeley, CA"},
		{Latitude: 37.5630, Longitude: -122.3255, Address: "San Mateo, CA"},
		{Latitude: 37.4419, Longitude: -122.1430, Address: "Palo Alto, CA"},
	}
}

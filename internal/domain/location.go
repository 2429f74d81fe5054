package domain

import "math"

// Location is an immutable geographic point with a display address.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Valid reports whether the coordinates are finite and within range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) {
		return false
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// Equal reports structural equality of two locations.
func (l Location) Equal(other Location) bool {
	return l.Latitude == other.Latitude &&
		l.Longitude == other.Longitude &&
		l.Address == other.Address
}

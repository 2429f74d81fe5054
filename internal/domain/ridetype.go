package domain

// RideType is a priced service tier. The catalog is static and read-only
// during a session.
type RideType struct {
	ID          string
	Name        string
	Description string
	BasePrice   float64
	PricePerKm  float64
	Icon        string
}

// DefaultRideTypes returns the built-in service tier catalog.
func DefaultRideTypes() []*RideType {
	return []*RideType{
		{
			ID:          "economy",
			Name:        "Economy",
			Description: "Affordable rides",
			BasePrice:   5,
			PricePerKm:  1.5,
			Icon:        "🚖",
		},
		{
			ID:          "premium",
			Name:        "Premium",
			Description: "Comfortable rides",
			BasePrice:   10,
			PricePerKm:  2.5,
			Icon:        "🚕",
		},
		{
			ID:          "xl",
			Name:        "XL",
			Description: "Spacious rides",
			BasePrice:   15,
			PricePerKm:  3.5,
			Icon:        "🚙",
		},
	}
}

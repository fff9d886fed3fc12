package seed

import (
	"context"
	"log/slog"

	"realty_gateway/internal/gateway"
	"realty_gateway/internal/model"
)

// Listings is the part of the gateway the seeder writes through.
type Listings interface {
	FetchAllProperties(ctx context.Context) []model.Property
	AddProperty(ctx context.Context, data model.NewPropertyData) gateway.Outcome
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// SampleProperties are the listings a fresh development backend starts with.
func SampleProperties() []model.NewPropertyData {
	return []model.NewPropertyData{
		{
			Price:            "$450,000",
			Location:         "Roundhay, Leeds",
			Type:             "House",
			Bedrooms:         3,
			Bathrooms:        2,
			Sqft:             1450,
			YearBuilt:        intPtr(1998),
			Description:      strPtr("Semi-detached family home close to the park."),
			Features:         []string{"Garden", "Driveway"},
			Amenities:        []string{"Schools nearby", "Bus route"},
			NeighborhoodInfo: []byte(`{"schools":3,"walk_score":72}`),
		},
		{
			Price:     "$285,000",
			Location:  "City Centre, Leeds",
			Type:      "Apartment",
			Bedrooms:  2,
			Bathrooms: 1,
			Sqft:      780,
			Features:  []string{"Balcony", "Concierge"},
			Amenities: []string{"Gym"},
		},
		{
			Price:       "$1,150,000",
			Location:    "Harrogate",
			Type:        "Villa",
			Bedrooms:    5,
			Bathrooms:   4,
			Sqft:        4100,
			YearBuilt:   intPtr(2015),
			Description: strPtr("Detached villa with a heated pool."),
			Features:    []string{"Pool", "Double garage", "Home office"},
		},
	}
}

// SeedSampleProperties adds the sample listings when the backend has none.
// It returns the number of listings created.
func SeedSampleProperties(ctx context.Context, listings Listings, log *slog.Logger) int {
	if existing := listings.FetchAllProperties(ctx); len(existing) > 0 {
		log.Debug("Listings already present, skipping seed", "count", len(existing))
		return 0
	}

	created := 0
	for _, p := range SampleProperties() {
		if out := listings.AddProperty(ctx, p); !out.OK {
			log.Error("Error creating sample listing", "location", p.Location)
			continue
		}
		created++
	}

	log.Info("Sample listings seeded successfully", "count", created)
	return created
}

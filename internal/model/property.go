package model

import (
	"bytes"
	"encoding/json"
	"sort"

	"gorm.io/datatypes"
)

// PropertyStatus governs whether a listing is visible to public queries.
type PropertyStatus string

const (
	PropertyStatusActive  PropertyStatus = "active"
	PropertyStatusSold    PropertyStatus = "sold"
	PropertyStatusPending PropertyStatus = "pending"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusActive, PropertyStatusSold, PropertyStatusPending:
		return true
	}
	return false
}

// Property is a listing as the application sees it. The gorm tags describe
// the hosted table and are only used for migrations.
type Property struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Image            *string        `json:"image"`
	Images           []string       `json:"images" gorm:"type:jsonb;serializer:json;default:'[]'"`
	Price            string         `json:"price" gorm:"not null"`
	Location         string         `json:"location" gorm:"not null"`
	Type             string         `json:"type" gorm:"not null"`
	Bedrooms         int            `json:"bedrooms" gorm:"not null;default:0"`
	Bathrooms        int            `json:"bathrooms" gorm:"not null;default:0"`
	Sqft             int            `json:"sqft" gorm:"not null;default:0"`
	YearBuilt        *int           `json:"year_built,omitempty"`
	Description      *string        `json:"description,omitempty" gorm:"type:text"`
	Features         []string       `json:"features" gorm:"type:jsonb;serializer:json;default:'[]'"`
	Amenities        []string       `json:"amenities" gorm:"type:jsonb;serializer:json;default:'[]'"`
	NeighborhoodInfo datatypes.JSON `json:"neighborhood_info" gorm:"default:'{}'"`
	Status           PropertyStatus `json:"status" gorm:"index;not null;default:'active'"`
	ViewsCount       int64          `json:"views_count" gorm:"not null;default:0"`
	EnquiriesCount   int64          `json:"enquiries_count" gorm:"not null;default:0"`
	CreatedAt        string         `json:"created_at" gorm:"type:timestamptz;index;default:now()"`
	UpdatedAt        string         `json:"updated_at" gorm:"type:timestamptz;default:now()"`
}

// NewPropertyData is the write shape for a new listing. Status is accepted so
// callers can pass a full record, but creation always stores "active".
type NewPropertyData struct {
	Price            string         `json:"price"`
	Location         string         `json:"location"`
	Type             string         `json:"type"`
	Bedrooms         int            `json:"bedrooms"`
	Bathrooms        int            `json:"bathrooms"`
	Sqft             int            `json:"sqft"`
	YearBuilt        *int           `json:"year_built,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Features         []string       `json:"features"`
	Amenities        []string       `json:"amenities,omitempty"`
	NeighborhoodInfo datatypes.JSON `json:"neighborhood_info,omitempty"`
	Image            *string        `json:"image,omitempty"`
	Images           []string       `json:"images,omitempty"`
	Status           PropertyStatus `json:"status,omitempty"`
}

// clearableColumns are the optional columns an update may reset to null.
var clearableColumns = map[string]bool{
	"year_built":        true,
	"description":       true,
	"features":          true,
	"amenities":         true,
	"neighborhood_info": true,
	"image":             true,
	"images":            true,
}

// IsClearable reports whether column may be set to null by an update.
func IsClearable(column string) bool {
	return clearableColumns[column]
}

// PropertyUpdate is a partial NewPropertyData. Nil fields are left untouched
// unless their column is listed in Cleared, which sets it to null.
type PropertyUpdate struct {
	Price            *string         `json:"price,omitempty"`
	Location         *string         `json:"location,omitempty"`
	Type             *string         `json:"type,omitempty"`
	Bedrooms         *int            `json:"bedrooms,omitempty"`
	Bathrooms        *int            `json:"bathrooms,omitempty"`
	Sqft             *int            `json:"sqft,omitempty"`
	YearBuilt        *int            `json:"year_built,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Features         *[]string       `json:"features,omitempty"`
	Amenities        *[]string       `json:"amenities,omitempty"`
	NeighborhoodInfo *datatypes.JSON `json:"neighborhood_info,omitempty"`
	Image            *string         `json:"image,omitempty"`
	Images           *[]string       `json:"images,omitempty"`
	Status           *PropertyStatus `json:"status,omitempty"`

	// Cleared holds the columns sent as an explicit JSON null.
	Cleared []string `json:"-"`
}

// UnmarshalJSON tells an explicit null apart from an absent key.
func (u *PropertyUpdate) UnmarshalJSON(data []byte) error {
	type plain PropertyUpdate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if clearableColumns[key] && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			p.Cleared = append(p.Cleared, key)
		}
	}
	sort.Strings(p.Cleared)

	*u = PropertyUpdate(p)
	return nil
}

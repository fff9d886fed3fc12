package model

import (
	"gorm.io/datatypes"
)

// EnquiryData is a contact request as submitted by a visitor. Property is a
// human-readable label; it is stored inside property_details.
type EnquiryData struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Message    *string `json:"message,omitempty"`
	Property   *string `json:"property,omitempty"`
	PropertyID *string `json:"property_id,omitempty"`
}

// Enquiry is the stored enquiry row.
type Enquiry struct {
	ID              string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name            string            `json:"name" gorm:"not null"`
	Email           string            `json:"email" gorm:"not null"`
	Phone           string            `json:"phone" gorm:"not null"`
	Message         *string           `json:"message" gorm:"type:text"`
	PropertyID      *string           `json:"property_id" gorm:"type:uuid;index"`
	PropertyDetails datatypes.JSONMap `json:"property_details" gorm:"default:'{}'"`
	CreatedAt       string            `json:"created_at" gorm:"type:timestamptz;index;default:now()"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

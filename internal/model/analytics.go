package model

// EventTypeView marks a property page view.
const EventTypeView = "view"

// PropertyAnalyticsEvent is one tracked interaction with a listing.
type PropertyAnalyticsEvent struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PropertyID string  `json:"property_id" gorm:"type:uuid;index"`
	EventType  string  `json:"event_type" gorm:"index;not null"`
	UserIP     *string `json:"user_ip"`
	UserAgent  string  `json:"user_agent"`
	CreatedAt  string  `json:"created_at" gorm:"type:timestamptz;index;default:now()"`
}

func (PropertyAnalyticsEvent) TableName() string {
	return "property_analytics"
}

// AllModels lists every table the gateway touches, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Property{},
		&Enquiry{},
		&NewsletterSubscription{},
		&PropertyAnalyticsEvent{},
	}
}

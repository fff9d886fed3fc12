package model

type NewsletterSubscription struct {
	ID           string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	Name         *string `json:"name" gorm:"size:255"`
	IsActive     bool    `json:"is_active" gorm:"index;not null;default:true"`
	SubscribedAt string  `json:"subscribed_at" gorm:"type:timestamptz;index;default:now()"`
}

func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}

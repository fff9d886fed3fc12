package gateway

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"realty_gateway/internal/backend"
)

// SubscribeToNewsletter stores an active subscription. The email is trimmed
// and lower-cased; an empty name is stored as null.
func (g *Gateway) SubscribeToNewsletter(ctx context.Context, email string, name *string) (out Outcome) {
	defer g.recoverOp("subscribe_to_newsletter", func() { out = Outcome{} })
	log := g.log.With("op", "subscribe_to_newsletter", "table", backend.TableNewsletterSubscriptions)

	row := backend.Row{
		"email":     strings.ToLower(strings.TrimSpace(email)),
		"name":      nilIfEmpty(name),
		"is_active": true,
	}
	if err := g.tables.Insert(ctx, backend.TableNewsletterSubscriptions, row); err != nil {
		log.Error("Could not subscribe to newsletter", "error", err)
		return Outcome{}
	}

	log.Info("Newsletter subscription added")
	return Outcome{OK: true}
}

// FetchNewsletterSubscriptions returns active subscriptions, most recently
// subscribed first.
func (g *Gateway) FetchNewsletterSubscriptions(ctx context.Context) (records []datatypes.JSONMap) {
	defer g.recoverOp("fetch_newsletter_subscriptions", func() { records = []datatypes.JSONMap{} })
	return g.fetchRecords(ctx, "fetch_newsletter_subscriptions", backend.Query{
		Table:   backend.TableNewsletterSubscriptions,
		Filters: []backend.Filter{backend.Eq("is_active", true)},
		Order:   &backend.Order{Column: "subscribed_at", Descending: true},
	})
}

// Package backend describes the managed backend the gateway talks to: a set of
// tables addressed by name and a set of storage buckets.
package backend

import (
	"context"
	"errors"
	"io"
)

// Table names.
const (
	TableProperties              = "properties"
	TableEnquiries               = "enquiries"
	TableNewsletterSubscriptions = "newsletter_subscriptions"
	TablePropertyAnalytics       = "property_analytics"
)

// BucketPropertyImages holds uploaded listing photos.
const BucketPropertyImages = "property-images"

// ErrNotFound is returned by SelectOne when no row matches.
var ErrNotFound = errors.New("backend: row not found")

// Row is one record as the backend returns it. Values keep whatever shape the
// backend produced; the gateway is responsible for coercing them.
type Row map[string]interface{}

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  interface{}
}

// Eq builds an equality filter.
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a selection by one column.
type Order struct {
	Column     string
	Descending bool
}

// Query selects rows from a table. An empty Columns list selects every column.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   *Order
}

// Tables is the tabular half of the backend.
type Tables interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	// SelectOne returns exactly one row or ErrNotFound.
	SelectOne(ctx context.Context, q Query) (Row, error)
	Insert(ctx context.Context, table string, rows ...Row) error
	Update(ctx context.Context, table string, values Row, filters ...Filter) error
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// Incrementer is implemented by backends that can bump an integer column in a
// single statement.
type Incrementer interface {
	Increment(ctx context.Context, table, column string, filters ...Filter) error
}

// Storage is the object-storage half of the backend.
type Storage interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Remove(ctx context.Context, bucket string, keys ...string) error
	PublicURL(bucket, key string) string
}

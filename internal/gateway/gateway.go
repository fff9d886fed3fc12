// Package gateway maps listing-application intents onto the managed backend.
//
// No operation returns an error. Reads collapse failures to an empty slice or
// nil, writes report an Outcome whose OK flag covers the primary step only.
// Failures of best-effort steps are collected in Outcome.Secondary and logged.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
	"realty_gateway/pkg/logger"
)

// Best-effort step names reported in Outcome.Secondary.
const (
	StepIncrementEnquiries = "increment_enquiries_count"
	StepNotifyAgent        = "notify_agent"
	StepReadImages         = "read_images"
	StepRemoveImage        = "remove_image"
	StepIncrementViews     = "increment_views_count"
	StepInsertAnalytics    = "insert_analytics"
)

// DefaultUploadFolder is used when UploadImage gets an empty folder.
const DefaultUploadFolder = "properties"

// EnquiryNotifier is told about every stored enquiry.
type EnquiryNotifier interface {
	NotifyEnquiry(ctx context.Context, enquiry model.EnquiryData) error
}

// StepError is the failure of one best-effort step.
type StepError struct {
	Step string
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}

// Outcome is the result of a write. OK reflects the primary step; Secondary
// lists best-effort steps that failed without affecting OK.
type Outcome struct {
	OK        bool
	Secondary []StepError
}

func (o *Outcome) addSecondary(step string, err error) {
	o.Secondary = append(o.Secondary, StepError{Step: step, Err: err})
}

type Gateway struct {
	tables         backend.Tables
	storage        backend.Storage
	log            *slog.Logger
	now            func() time.Time
	atomicCounters bool
	notifier       EnquiryNotifier
}

type Option func(*Gateway)

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// WithClock replaces time.Now for upload key generation.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// WithAtomicCounters makes counter increments a single atomic update when the
// tables backend implements backend.Incrementer. Without it counters use
// read-then-write, which can lose increments under concurrent callers.
func WithAtomicCounters(enabled bool) Option {
	return func(g *Gateway) {
		g.atomicCounters = enabled
	}
}

func WithNotifier(n EnquiryNotifier) Option {
	return func(g *Gateway) {
		g.notifier = n
	}
}

func New(tables backend.Tables, storage backend.Storage, opts ...Option) *Gateway {
	g := &Gateway{
		tables:  tables,
		storage: storage,
		log:     logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// recoverOp turns a panic inside an operation into its fallback.
func (g *Gateway) recoverOp(op string, fallback func()) {
	if r := recover(); r != nil {
		g.log.Error("Operation panicked", "op", op, "panic", fmt.Sprint(r))
		fallback()
	}
}

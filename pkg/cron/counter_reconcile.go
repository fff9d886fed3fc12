package cron

import (
	"context"
	"fmt"
	"log/slog"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
)

// CounterReconciler raises views_count to the number of recorded view events.
// Read-then-write increments can lose updates under concurrent views; the
// analytics rows are inserted independently and keep the true count.
type CounterReconciler struct {
	tables backend.Tables
	log    *slog.Logger
}

func NewCounterReconciler(tables backend.Tables, log *slog.Logger) *CounterReconciler {
	return &CounterReconciler{tables: tables, log: log}
}

func (r *CounterReconciler) Name() string {
	return "reconcile_view_counts"
}

func (r *CounterReconciler) Run(ctx context.Context) error {
	_, err := r.Reconcile(ctx)
	return err
}

// Reconcile returns how many properties were corrected. Counts are never
// lowered.
func (r *CounterReconciler) Reconcile(ctx context.Context) (int, error) {
	events, err := r.tables.Select(ctx, backend.Query{
		Table:   backend.TablePropertyAnalytics,
		Columns: []string{"property_id"},
		Filters: []backend.Filter{backend.Eq("event_type", model.EventTypeView)},
	})
	if err != nil {
		return 0, fmt.Errorf("read view events: %w", err)
	}

	views := make(map[string]int64)
	for _, e := range events {
		if id := fmt.Sprint(e["property_id"]); e["property_id"] != nil && id != "" {
			views[id]++
		}
	}

	props, err := r.tables.Select(ctx, backend.Query{
		Table:   backend.TableProperties,
		Columns: []string{"id", "views_count"},
	})
	if err != nil {
		return 0, fmt.Errorf("read properties: %w", err)
	}

	fixed := 0
	for _, p := range props {
		id := fmt.Sprint(p["id"])
		want, ok := views[id]
		if !ok {
			continue
		}
		have := toInt64(p["views_count"])
		if have >= want {
			continue
		}
		err := r.tables.Update(ctx, backend.TableProperties, backend.Row{"views_count": want}, backend.Eq("id", id))
		if err != nil {
			r.log.Warn("Could not correct view count", "property_id", id, "error", err)
			continue
		}
		r.log.Info("Corrected view count", "property_id", id, "from", have, "to", want)
		fixed++
	}
	return fixed, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

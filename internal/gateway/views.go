package gateway

import (
	"context"
	"fmt"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
)

// TrackPropertyView bumps views_count and records an analytics event. Both
// steps are best-effort, so OK is always true.
func (g *Gateway) TrackPropertyView(ctx context.Context, id, userAgent string) (out Outcome) {
	defer g.recoverOp("track_property_view", func() { out.OK = true })
	log := g.log.With("op", "track_property_view", "property_id", id)
	out.OK = true

	if err := g.incrementCounter(ctx, id, "views_count"); err != nil {
		log.Warn("Could not increment view count", "error", err)
		out.addSecondary(StepIncrementViews, err)
	}

	event := backend.Row{
		"property_id": id,
		"event_type":  model.EventTypeView,
		"user_ip":     nil,
		"user_agent":  userAgent,
	}
	if err := g.tables.Insert(ctx, backend.TablePropertyAnalytics, event); err != nil {
		log.Warn("Could not record view event", "error", err)
		out.addSecondary(StepInsertAnalytics, err)
	}

	log.Debug("Property view tracked", "failed_steps", len(out.Secondary))
	return out
}

// incrementCounter adds one to an integer column of a property. By default it
// reads the current value and writes value+1, so two concurrent callers can
// both write the same value.
func (g *Gateway) incrementCounter(ctx context.Context, propertyID, column string) error {
	byID := backend.Eq("id", propertyID)

	if g.atomicCounters {
		if inc, ok := g.tables.(backend.Incrementer); ok {
			if err := inc.Increment(ctx, backend.TableProperties, column, byID); err != nil {
				return fmt.Errorf("increment %s: %w", column, err)
			}
			return nil
		}
	}

	row, err := g.tables.SelectOne(ctx, backend.Query{
		Table:   backend.TableProperties,
		Columns: []string{column},
		Filters: []backend.Filter{byID},
	})
	if err != nil {
		return fmt.Errorf("read %s: %w", column, err)
	}

	next := asInt(row[column]) + 1
	if err := g.tables.Update(ctx, backend.TableProperties, backend.Row{column: next}, byID); err != nil {
		return fmt.Errorf("write %s: %w", column, err)
	}
	return nil
}

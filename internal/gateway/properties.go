package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
)

// imageKeyFolder is the folder DeleteProperty assumes every stored image
// lives in.
const imageKeyFolder = "properties"

var newestFirst = &backend.Order{Column: "created_at", Descending: true}

// FetchActiveProperties lists publicly visible properties, newest first.
func (g *Gateway) FetchActiveProperties(ctx context.Context) (props []model.Property) {
	defer g.recoverOp("fetch_active_properties", func() { props = []model.Property{} })
	return g.fetchProperties(ctx, "fetch_active_properties", backend.Eq("status", string(model.PropertyStatusActive)))
}

// FetchAllProperties lists every property regardless of status, newest first.
func (g *Gateway) FetchAllProperties(ctx context.Context) (props []model.Property) {
	defer g.recoverOp("fetch_all_properties", func() { props = []model.Property{} })
	return g.fetchProperties(ctx, "fetch_all_properties")
}

func (g *Gateway) fetchProperties(ctx context.Context, op string, filters ...backend.Filter) []model.Property {
	log := g.log.With("op", op, "table", backend.TableProperties)
	log.Debug("Fetching properties")

	rows, err := g.tables.Select(ctx, backend.Query{
		Table:   backend.TableProperties,
		Filters: filters,
		Order:   newestFirst,
	})
	if err != nil {
		log.Error("Could not fetch properties", "error", err)
		return []model.Property{}
	}

	props := make([]model.Property, 0, len(rows))
	for _, r := range rows {
		props = append(props, propertyFromRow(r))
	}
	log.Info("Fetched properties", "count", len(props))
	return props
}

// FetchPropertyByID returns nil when the property does not exist or cannot
// be read.
func (g *Gateway) FetchPropertyByID(ctx context.Context, id string) (prop *model.Property) {
	defer g.recoverOp("fetch_property_by_id", func() { prop = nil })
	log := g.log.With("op", "fetch_property_by_id", "property_id", id)

	row, err := g.tables.SelectOne(ctx, backend.Query{
		Table:   backend.TableProperties,
		Filters: []backend.Filter{backend.Eq("id", id)},
	})
	if errors.Is(err, backend.ErrNotFound) {
		log.Info("Property not found")
		return nil
	}
	if err != nil {
		log.Error("Could not fetch property", "error", err)
		return nil
	}

	p := propertyFromRow(row)
	log.Debug("Fetched property", "location", p.Location)
	return &p
}

// AddProperty stores a new listing. Status is always "active".
func (g *Gateway) AddProperty(ctx context.Context, data model.NewPropertyData) (out Outcome) {
	defer g.recoverOp("add_property", func() { out = Outcome{} })
	log := g.log.With("op", "add_property", "table", backend.TableProperties)

	if err := g.tables.Insert(ctx, backend.TableProperties, newPropertyRow(data)); err != nil {
		log.Error("Could not add property", "error", err)
		return Outcome{}
	}

	log.Info("Property added", "location", data.Location)
	return Outcome{OK: true}
}

// UpdateProperty overwrites only the fields set in data and nulls the
// columns listed in data.Cleared.
func (g *Gateway) UpdateProperty(ctx context.Context, id string, data model.PropertyUpdate) (out Outcome) {
	defer g.recoverOp("update_property", func() { out = Outcome{} })
	log := g.log.With("op", "update_property", "property_id", id)

	if data.Status != nil && !data.Status.IsValid() {
		log.Error("Could not update property", "error", fmt.Errorf("invalid status %q", *data.Status))
		return Outcome{}
	}

	values := updateRow(data)
	if len(values) == 0 {
		log.Debug("Nothing to update")
		return Outcome{OK: true}
	}

	if err := g.tables.Update(ctx, backend.TableProperties, values, backend.Eq("id", id)); err != nil {
		log.Error("Could not update property", "error", err)
		return Outcome{}
	}

	log.Info("Property updated", "fields", len(values))
	return Outcome{OK: true}
}

// DeleteProperty removes the property's stored images, each on a best-effort
// basis, then deletes the record. Only the record delete decides OK.
func (g *Gateway) DeleteProperty(ctx context.Context, id string) (out Outcome) {
	defer g.recoverOp("delete_property", func() { out.OK = false })
	log := g.log.With("op", "delete_property", "property_id", id)

	row, err := g.tables.SelectOne(ctx, backend.Query{
		Table:   backend.TableProperties,
		Columns: []string{"images"},
		Filters: []backend.Filter{backend.Eq("id", id)},
	})
	if err != nil {
		log.Warn("Could not read property images", "error", err)
		out.addSecondary(StepReadImages, err)
	} else if images, ok := asList(row["images"]); ok {
		for _, img := range images {
			url, ok := img.(string)
			if !ok {
				continue
			}
			key, ok := imageKeyFromURL(url)
			if !ok {
				continue
			}
			if err := g.storage.Remove(ctx, backend.BucketPropertyImages, key); err != nil {
				log.Warn("Could not delete image", "key", key, "error", err)
				out.addSecondary(StepRemoveImage, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	if err := g.tables.Delete(ctx, backend.TableProperties, backend.Eq("id", id)); err != nil {
		log.Error("Could not delete property", "error", err)
		return out
	}

	log.Info("Property deleted", "failed_steps", len(out.Secondary))
	out.OK = true
	return out
}

// imageKeyFromURL keeps only the URL's final path segment. Query strings and
// fragments are not stripped.
func imageKeyFromURL(url string) (string, bool) {
	name := url[strings.LastIndex(url, "/")+1:]
	if name == "" {
		return "", false
	}
	return imageKeyFolder + "/" + name, true
}

func newPropertyRow(data model.NewPropertyData) backend.Row {
	row := backend.Row{
		"image":     nil,
		"images":    nonNil(data.Images),
		"price":     data.Price,
		"location":  data.Location,
		"type":      data.Type,
		"bedrooms":  data.Bedrooms,
		"bathrooms": data.Bathrooms,
		"sqft":      data.Sqft,
		"features":  nonNil(data.Features),
		"amenities": nonNil(data.Amenities),
		"status":    string(model.PropertyStatusActive),
	}
	if data.Image != nil && *data.Image != "" {
		row["image"] = *data.Image
	}
	if data.YearBuilt != nil {
		row["year_built"] = *data.YearBuilt
	}
	if data.Description != nil {
		row["description"] = *data.Description
	}
	if len(data.NeighborhoodInfo) > 0 {
		row["neighborhood_info"] = data.NeighborhoodInfo
	}
	return row
}

func updateRow(data model.PropertyUpdate) backend.Row {
	row := backend.Row{}
	if data.Price != nil {
		row["price"] = *data.Price
	}
	if data.Location != nil {
		row["location"] = *data.Location
	}
	if data.Type != nil {
		row["type"] = *data.Type
	}
	if data.Bedrooms != nil {
		row["bedrooms"] = *data.Bedrooms
	}
	if data.Bathrooms != nil {
		row["bathrooms"] = *data.Bathrooms
	}
	if data.Sqft != nil {
		row["sqft"] = *data.Sqft
	}
	if data.YearBuilt != nil {
		row["year_built"] = *data.YearBuilt
	}
	if data.Description != nil {
		row["description"] = *data.Description
	}
	if data.Features != nil {
		row["features"] = nonNil(*data.Features)
	}
	if data.Amenities != nil {
		row["amenities"] = nonNil(*data.Amenities)
	}
	if data.NeighborhoodInfo != nil {
		row["neighborhood_info"] = *data.NeighborhoodInfo
	}
	if data.Image != nil {
		row["image"] = *data.Image
	}
	if data.Images != nil {
		row["images"] = nonNil(*data.Images)
	}
	if data.Status != nil {
		row["status"] = string(*data.Status)
	}
	for _, col := range data.Cleared {
		if _, set := row[col]; !set && model.IsClearable(col) {
			row[col] = nil
		}
	}
	return row
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

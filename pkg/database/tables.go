package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realty_gateway/internal/backend"
)

var errMultipleRows = errors.New("query returned more than one row")

// jsonColumns are stored as jsonb and come back from the driver as text.
var jsonColumns = map[string]bool{
	"images":            true,
	"features":          true,
	"amenities":         true,
	"neighborhood_info": true,
	"property_details":  true,
}

// Tables implements backend.Tables and backend.Incrementer on gorm.
type Tables struct {
	db *gorm.DB
}

func NewTables(db *gorm.DB) *Tables {
	return &Tables{db: db}
}

func (t *Tables) scoped(ctx context.Context, table string, filters []backend.Filter) *gorm.DB {
	tx := t.db.WithContext(ctx).Table(table)
	for _, f := range filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return tx
}

func (t *Tables) selectQuery(ctx context.Context, q backend.Query) *gorm.DB {
	tx := t.scoped(ctx, q.Table, q.Filters)
	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.Order.Column},
			Desc:   q.Order.Descending,
		})
	}
	return tx
}

func (t *Tables) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	var found []map[string]interface{}
	if err := t.selectQuery(ctx, q).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}

	rows := make([]backend.Row, 0, len(found))
	for _, r := range found {
		rows = append(rows, decodeRow(r))
	}
	return rows, nil
}

func (t *Tables) SelectOne(ctx context.Context, q backend.Query) (backend.Row, error) {
	var found []map[string]interface{}
	if err := t.selectQuery(ctx, q).Limit(2).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	switch len(found) {
	case 0:
		return nil, backend.ErrNotFound
	case 1:
		return decodeRow(found[0]), nil
	default:
		return nil, fmt.Errorf("select %s: %w", q.Table, errMultipleRows)
	}
}

func (t *Tables) Insert(ctx context.Context, table string, rows ...backend.Row) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, encodeRow(r))
	}
	if err := t.db.WithContext(ctx).Table(table).Create(&values).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (t *Tables) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) error {
	set := encodeRow(values)
	if table == backend.TableProperties {
		if _, ok := set["updated_at"]; !ok {
			set["updated_at"] = gorm.Expr("now()")
		}
	}
	if err := t.scoped(ctx, table, filters).Updates(set).Error; err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func (t *Tables) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	if err := t.scoped(ctx, table, filters).Delete(map[string]interface{}{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// Increment runs a single UPDATE ... SET col = col + 1.
func (t *Tables) Increment(ctx context.Context, table, column string, filters ...backend.Filter) error {
	res := t.scoped(ctx, table, filters).
		UpdateColumn(column, gorm.Expr("? + 1", clause.Column{Name: column}))
	if res.Error != nil {
		return fmt.Errorf("increment %s.%s: %w", table, column, res.Error)
	}
	if res.RowsAffected == 0 && !res.DryRun {
		return backend.ErrNotFound
	}
	return nil
}

// encodeRow turns slices and maps into JSON so they fit jsonb columns.
func encodeRow(r backend.Row) map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for k, v := range r {
		switch v.(type) {
		case []string, []interface{}, map[string]interface{}, datatypes.JSONMap:
			b, err := json.Marshal(v)
			if err != nil {
				out[k] = v
				continue
			}
			out[k] = datatypes.JSON(b)
		default:
			out[k] = v
		}
	}
	return out
}

// decodeRow parses jsonb columns back into Go values. Text that is not valid
// JSON is left as it is.
func decodeRow(r map[string]interface{}) backend.Row {
	out := make(backend.Row, len(r))
	for k, v := range r {
		if !jsonColumns[k] {
			out[k] = v
			continue
		}
		var raw []byte
		switch x := v.(type) {
		case string:
			raw = []byte(x)
		case []byte:
			raw = x
		default:
			out[k] = v
			continue
		}
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			out[k] = v
			continue
		}
		out[k] = decoded
	}
	return out
}

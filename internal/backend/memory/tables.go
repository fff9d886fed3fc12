// Package memory is a process-local backend used in development mode and by
// tests. It mimics the column defaults the hosted database applies.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"realty_gateway/internal/backend"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var errMultipleRows = errors.New("memory: query returned more than one row")

// Tables keeps rows per table name.
type Tables struct {
	mu     sync.Mutex
	tables map[string][]backend.Row
	now    func() time.Time
	lastTS time.Time
}

func NewTables() *Tables {
	return &Tables{
		tables: make(map[string][]backend.Row),
		now:    time.Now,
	}
}

// Seed stores rows verbatim, bypassing defaults. Tests use it to plant
// malformed records.
func (t *Tables) Seed(table string, rows ...backend.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range rows {
		t.tables[table] = append(t.tables[table], copyRow(r))
	}
}

// Rows returns a copy of every row in a table.
func (t *Tables) Rows(table string) []backend.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]backend.Row, 0, len(t.tables[table]))
	for _, r := range t.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

func (t *Tables) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var found []backend.Row
	for _, r := range t.tables[q.Table] {
		if matches(r, q.Filters) {
			found = append(found, r)
		}
	}
	// Order on full rows; the order column need not be projected.
	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Descending
		sort.SliceStable(found, func(i, j int) bool {
			c := compareValues(found[i][col], found[j][col])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]backend.Row, 0, len(found))
	for _, r := range found {
		out = append(out, project(r, q.Columns))
	}
	return out, nil
}

func (t *Tables) SelectOne(ctx context.Context, q backend.Query) (backend.Row, error) {
	rows, err := t.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, backend.ErrNotFound
	case 1:
		return rows[0], nil
	default:
		return nil, errMultipleRows
	}
}

func (t *Tables) Insert(ctx context.Context, table string, rows ...backend.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range rows {
		row := copyRow(r)
		t.applyDefaults(table, row)
		t.tables[table] = append(t.tables[table], row)
	}
	return nil
}

func (t *Tables) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range t.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		if _, ok := r["updated_at"]; ok {
			r["updated_at"] = t.timestamp()
		}
	}
	return nil
}

func (t *Tables) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.tables[table][:0]
	for _, r := range t.tables[table] {
		if !matches(r, filters) {
			kept = append(kept, r)
		}
	}
	t.tables[table] = kept
	return nil
}

// Increment bumps an integer column under the table lock.
func (t *Tables) Increment(ctx context.Context, table, column string, filters ...backend.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	found := false
	for _, r := range t.tables[table] {
		if matches(r, filters) {
			r[column] = toInt64(r[column]) + 1
			found = true
		}
	}
	if !found {
		return backend.ErrNotFound
	}
	return nil
}

func (t *Tables) applyDefaults(table string, row backend.Row) {
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	ts := t.timestamp()
	switch table {
	case backend.TableProperties:
		setDefault(row, "views_count", int64(0))
		setDefault(row, "enquiries_count", int64(0))
		setDefault(row, "created_at", ts)
		setDefault(row, "updated_at", ts)
	case backend.TableNewsletterSubscriptions:
		setDefault(row, "is_active", true)
		setDefault(row, "subscribed_at", ts)
	default:
		setDefault(row, "created_at", ts)
	}
}

// timestamp returns strictly increasing fixed-width timestamps so that string
// ordering matches insertion order.
func (t *Tables) timestamp() string {
	now := t.now().UTC()
	if !now.After(t.lastTS) {
		now = t.lastTS.Add(time.Microsecond)
	}
	t.lastTS = now
	return now.Format(timestampLayout)
}

func setDefault(row backend.Row, key string, v interface{}) {
	if cur, ok := row[key]; !ok || cur == nil {
		row[key] = v
	}
}

func matches(r backend.Row, filters []backend.Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || !equalValues(v, f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b interface{}) int {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	sa, sb := "", ""
	if a != nil {
		sa = fmt.Sprint(a)
	}
	if b != nil {
		sb = fmt.Sprint(b)
	}
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
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
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

func project(r backend.Row, columns []string) backend.Row {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		return copyRow(r)
	}
	out := make(backend.Row, len(columns))
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = copyValue(v)
		}
	}
	return out
}

func copyRow(r backend.Row) backend.Row {
	out := make(backend.Row, len(r))
	for k, v := range r {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = copyValue(x[i])
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, vv := range x {
			out[k] = copyValue(vv)
		}
		return out
	case []byte:
		return append([]byte(nil), x...)
	}
	return v
}

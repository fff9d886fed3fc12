package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
)

var emptyObject = datatypes.JSON(`{}`)

// propertyFromRow coerces a stored row into a Property. Malformed fields
// degrade to empty values; this never fails.
func propertyFromRow(r backend.Row) model.Property {
	images := imageList(r["images"])

	p := model.Property{
		ID:               asString(r["id"]),
		Image:            primaryImage(r["image"], images),
		Images:           images,
		Price:            asString(r["price"]),
		Location:         asString(r["location"]),
		Type:             asString(r["type"]),
		Bedrooms:         asInt(r["bedrooms"]),
		Bathrooms:        asInt(r["bathrooms"]),
		Sqft:             asInt(r["sqft"]),
		YearBuilt:        optionalInt(r["year_built"]),
		Description:      optionalString(r["description"]),
		Features:         stringList(r["features"]),
		Amenities:        stringList(r["amenities"]),
		NeighborhoodInfo: jsonValue(r["neighborhood_info"]),
		Status:           model.PropertyStatus(asString(r["status"])),
		ViewsCount:       int64(asInt(r["views_count"])),
		EnquiriesCount:   int64(asInt(r["enquiries_count"])),
		CreatedAt:        asTimestamp(r["created_at"]),
		UpdatedAt:        asTimestamp(r["updated_at"]),
	}
	return p
}

// recordFromRow exposes a row as an opaque JSON object.
func recordFromRow(r backend.Row) datatypes.JSONMap {
	m := make(datatypes.JSONMap, len(r))
	for k, v := range r {
		if t, ok := v.(time.Time); ok {
			m[k] = t.UTC().Format(time.RFC3339Nano)
			continue
		}
		m[k] = decodeRaw(v)
	}
	return m
}

// primaryImage keeps a non-empty string image, otherwise falls back to the
// first normalized image.
func primaryImage(image interface{}, images []string) *string {
	if s, ok := decodeRaw(image).(string); ok && s != "" {
		return &s
	}
	if len(images) > 0 {
		s := images[0]
		return &s
	}
	return nil
}

// imageList accepts an array or a single truthy scalar.
func imageList(v interface{}) []string {
	v = decodeRaw(v)
	if list, ok := asList(v); ok {
		return stringify(list)
	}
	if truthy(v) {
		return []string{jsString(v)}
	}
	return []string{}
}

// stringList accepts only arrays; anything else is empty.
func stringList(v interface{}) []string {
	if list, ok := asList(v); ok {
		return stringify(list)
	}
	return []string{}
}

func stringify(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, jsString(e))
	}
	return out
}

// asList reports whether v is an array, decoding raw JSON first.
func asList(v interface{}) ([]interface{}, bool) {
	switch x := decodeRaw(v).(type) {
	case []interface{}:
		return x, true
	case []string:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	}
	return nil, false
}

// decodeRaw turns raw JSON bytes into a Go value. Bytes that are not JSON are
// treated as text.
func decodeRaw(v interface{}) interface{} {
	var raw []byte
	switch x := v.(type) {
	case datatypes.JSON:
		raw = x
	case json.RawMessage:
		raw = x
	case []byte:
		raw = x
	default:
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}

// jsonValue passes an opaque JSON value through, defaulting falsy values to {}.
func jsonValue(v interface{}) datatypes.JSON {
	decoded := decodeRaw(v)
	if !truthy(decoded) {
		return emptyObject
	}
	switch x := v.(type) {
	case datatypes.JSON:
		return x
	case json.RawMessage:
		return datatypes.JSON(x)
	}
	b, err := json.Marshal(decoded)
	if err != nil {
		return emptyObject
	}
	return datatypes.JSON(b)
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}

func asString(v interface{}) string {
	v = decodeRaw(v)
	if v == nil {
		return ""
	}
	return jsString(v)
}

func optionalString(v interface{}) *string {
	v = decodeRaw(v)
	if v == nil {
		return nil
	}
	s := jsString(v)
	return &s
}

func asInt(v interface{}) int {
	n, _ := toInt(decodeRaw(v))
	return n
}

func optionalInt(v interface{}) *int {
	n, ok := toInt(decodeRaw(v))
	if !ok {
		return nil
	}
	return &n
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		return int(x), true
	case float32:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil {
			return int(f), true
		}
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func asTimestamp(v interface{}) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(time.RFC3339Nano)
	}
	return asString(v)
}

// jsString renders a value the way JavaScript's String() does.
func jsString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case []string:
		return strings.Join(x, ",")
	case []interface{}:
		parts := make([]string, len(x))
		for i, e := range x {
			if e != nil {
				parts[i] = jsString(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}, datatypes.JSONMap:
		return "[object Object]"
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case datatypes.JSON, json.RawMessage, []byte:
		return jsString(decodeRaw(x))
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads the exponent to two digits; JavaScript does not.
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

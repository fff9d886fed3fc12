package gateway

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestJSString(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, "null"},
		{"x", "x"},
		{true, "true"},
		{3.0, "3"},
		{1.5, "1.5"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
		{int64(7), "7"},
		{[]interface{}{1.0, nil, "a"}, "1,,a"},
		{map[string]interface{}{"a": 1}, "[object Object]"},
		{json.Number("12"), "12"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, jsString(c.in), "%#v", c.in)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []interface{}{nil, false, "", 0.0, 0, int64(0), math.NaN()} {
		assert.False(t, truthy(v), "%#v", v)
	}
	for _, v := range []interface{}{true, "0", 1.0, []interface{}{}, map[string]interface{}{}} {
		assert.True(t, truthy(v), "%#v", v)
	}
}

func TestImageList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, imageList([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "2"}, imageList(datatypes.JSON(`["a", 2]`)))
	assert.Equal(t, []string{"solo.jpg"}, imageList("solo.jpg"))
	assert.Equal(t, []string{}, imageList(""))
	assert.Equal(t, []string{}, imageList(nil))
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"x"}, stringList([]interface{}{"x"}))
	assert.Equal(t, []string{}, stringList("x"))
	assert.Equal(t, []string{}, stringList(map[string]interface{}{"a": "b"}))
	assert.Equal(t, []string{"1", "true"}, stringList(json.RawMessage(`[1, true]`)))
}

func TestPrimaryImage(t *testing.T) {
	got := primaryImage("main.jpg", []string{"other.jpg"})
	assert.Equal(t, "main.jpg", *got)

	got = primaryImage("", []string{"other.jpg"})
	assert.Equal(t, "other.jpg", *got)

	assert.Nil(t, primaryImage(nil, []string{}))
}

func TestJSONValue(t *testing.T) {
	assert.JSONEq(t, `{}`, string(jsonValue(nil)))
	assert.JSONEq(t, `{}`, string(jsonValue(datatypes.JSON(`null`))))
	assert.JSONEq(t, `{"schools":["A"]}`, string(jsonValue(datatypes.JSON(`{"schools":["A"]}`))))
	assert.JSONEq(t, `{"walk":9}`, string(jsonValue(map[string]interface{}{"walk": 9})))
	assert.JSONEq(t, `[1]`, string(jsonValue([]interface{}{1})))
}

func TestToInt(t *testing.T) {
	n, ok := toInt(" 4 ")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = toInt("2.9")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = toInt("many")
	assert.False(t, ok)

	assert.Nil(t, optionalInt(nil))
	assert.Equal(t, 0, asInt(map[string]interface{}{}))
}

func TestRecordFromRow(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := recordFromRow(map[string]interface{}{
		"created_at":       ts,
		"property_details": datatypes.JSON(`{"property":"Flat 2"}`),
		"email":            "a@b.c",
	})
	assert.Equal(t, "2024-05-01T12:00:00Z", rec["created_at"])
	assert.Equal(t, map[string]interface{}{"property": "Flat 2"}, rec["property_details"])
	assert.Equal(t, "a@b.c", rec["email"])
}

func TestImageKeyFromURL(t *testing.T) {
	key, ok := imageKeyFromURL("https://x.supabase.co/storage/v1/object/public/property-images/properties/17.jpg")
	assert.True(t, ok)
	assert.Equal(t, "properties/17.jpg", key)

	_, ok = imageKeyFromURL("https://cdn/dir/")
	assert.False(t, ok)
}

func TestFileExtensionAndFolder(t *testing.T) {
	assert.Equal(t, "jpeg", fileExtension("house.front.jpeg"))
	assert.Equal(t, "README", fileExtension("README"))
	assert.Equal(t, DefaultUploadFolder, cleanFolder(""))
	assert.Equal(t, DefaultUploadFolder, cleanFolder("//"))
	assert.Equal(t, "agents/jo-smith", cleanFolder("Agents/Jo Smith"))
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func TestValidate_Property(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(Property, []byte(`{
		"price": "$450,000", "location": "Leeds", "type": "House",
		"bedrooms": 3, "bathrooms": 2, "sqft": 1800,
		"features": ["Garden"], "neighborhood_info": {"schools": 3}
	}`))
	assert.NoError(t, err)

	err = v.Validate(Property, []byte(`{"price": "", "location": "Leeds", "type": "House", "bedrooms": 2.5, "bathrooms": 2, "sqft": 1800}`))
	require.Error(t, err)
	details := Details(err)
	assert.NotEmpty(t, details)
	assert.Contains(t, joined(details), "/bedrooms")
	assert.Contains(t, joined(details), "/price")

	err = v.Validate(Property, []byte(`{"location": "Leeds"}`))
	assert.Error(t, err)
}

func TestValidate_PropertyUpdate(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(PropertyUpdate, []byte(`{"bedrooms": 4}`)))
	assert.NoError(t, v.Validate(PropertyUpdate, []byte(`{}`)))
	assert.NoError(t, v.Validate(PropertyUpdate, []byte(`{"status": "sold", "images": ["a.jpg"]}`)))
	assert.Error(t, v.Validate(PropertyUpdate, []byte(`{"status": "archived"}`)))
	assert.Error(t, v.Validate(PropertyUpdate, []byte(`{"features": [1, 2]}`)))
}

func TestValidate_Enquiry(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(Enquiry, []byte(`{"name": "Ada", "email": "ada@example.com", "phone": "0113", "property_id": null}`)))
	assert.Error(t, v.Validate(Enquiry, []byte(`{"name": "Ada", "email": "not-an-email", "phone": "0113"}`)))
	assert.Error(t, v.Validate(Enquiry, []byte(`{"name": "Ada"}`)))
}

func TestValidate_Newsletter(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(Newsletter, []byte(`{"email": "ada@example.com"}`)))
	assert.Error(t, v.Validate(Newsletter, []byte(`{"name": "Ada"}`)))
}

func TestValidate_BadInput(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(Enquiry, []byte(`{not json`))
	require.Error(t, err)
	assert.Equal(t, []string{err.Error()}, Details(err))

	assert.Error(t, v.Validate("missing", []byte(`{}`)))
}

func joined(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func TestValidate_DecodesNumbersAndRejectsTrailingData(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(PropertyUpdate, []byte(`{"bedrooms": 4.0}`)))
	assert.Error(t, v.Validate(PropertyUpdate, []byte(`{"bedrooms": 4.5}`)))
	assert.Error(t, v.Validate(PropertyUpdate, []byte(`{"bedrooms": 4} {"bedrooms": 5}`)))
}

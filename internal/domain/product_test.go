package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		raw  string
		want ProductID
	}{
		{"42", "42"},
		{" 42 ", "42"},
		{"42.0", "42"},
		{"042", "42"},
		{"-7", "-7"},
		{"sku-42", "sku-42"},
		{"4.5", "4.5"},
		{"", ""},
		{"   ", ""},
		{"9007199254740993", "9007199254740993"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.raw), "raw=%q", tt.raw)
	}
}

func TestProductIDUnmarshal_StringAndNumberMatch(t *testing.T) {
	var fromNumber, fromString ProductID
	require.NoError(t, json.Unmarshal([]byte(`101`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"101"`), &fromString))
	assert.Equal(t, fromNumber, fromString)

	var fromNull ProductID
	require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))
	assert.True(t, fromNull.IsZero())

	var bad ProductID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &bad))
}

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want  Price
	}{
		{`19.99`, NewPrice(19.99)},
		{`"19.99"`, NewPrice(19.99)},
		{`""`, Price{}},
		{`null`, Price{}},
		{`"abc"`, Price{}},
		{`true`, Price{}},
	}
	for _, tt := range tests {
		var p Price
		require.NoError(t, json.Unmarshal([]byte(tt.in), &p), tt.in)
		assert.Equal(t, tt.want, p, tt.in)
	}
}

func TestPriceMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		Set   Price `json:"set"`
		Unset Price `json:"unset"`
	}{Set: NewPrice(10), Unset: Price{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":10,"unset":null}`, string(b))
}

func TestProductDecode_MixedCatalog(t *testing.T) {
	raw := `[
		{"id": 1, "name": "Mug", "category": "kitchen", "price": 12, "currency": "EUR"},
		{"id": "2", "name": "Kettle", "category": "kitchen", "price": "30.50", "currency": "EUR"},
		{"id": 3, "name": "Broken"}
	]`
	var catalog []Product
	require.NoError(t, json.Unmarshal([]byte(raw), &catalog))
	require.Len(t, catalog, 3)
	assert.Equal(t, ProductID("2"), catalog[1].ID)
	assert.Equal(t, NewPrice(30.5), catalog[1].Price)
	assert.False(t, catalog[2].Price.Valid)
	assert.True(t, catalog[2].IsEnabled())
}

func TestExcludeProduct(t *testing.T) {
	catalog := []Product{{ID: "1"}, {ID: "2"}, {ID: "1"}, {ID: "3"}}
	out := ExcludeProduct(catalog, "1")
	assert.Equal(t, []Product{{ID: "2"}, {ID: "3"}}, out)
}

func TestIndexCatalog_KeepsFirstEntry(t *testing.T) {
	catalog := []Product{{ID: "1", Name: "first"}, {ID: "1", Name: "second"}, {ID: ""}}
	idx := IndexCatalog(catalog)
	assert.Len(t, idx, 1)
	assert.Equal(t, "first", idx["1"].Name)
}

package checksum_test

import (
	"encoding/json"
	"testing"

	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/models/modelstesting"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitComputeDeterministic(t *testing.T) {
	product := modelstesting.FakeProductSnapshot()
	mappings := modelstesting.FakeCategoryMappings()

	first, err := checksum.Compute(models.TargetShop, product, mappings)
	require.NoError(t, err, "shouldn't return any error")

	second, err := checksum.Compute(models.TargetShop, product, mappings)
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, first, second, "should return same checksum for same input")
	assert.Len(t, first, 64, "should return hex encoded SHA-256")
}

func TestUnitComputeDetectsChange(t *testing.T) {
	product := modelstesting.FakeProductSnapshot()

	before, err := checksum.Compute(models.TargetShop, product, nil)
	require.NoError(t, err, "shouldn't return any error")

	product.Name += " changed"
	after, err := checksum.Compute(models.TargetShop, product, nil)
	require.NoError(t, err, "shouldn't return any error")

	assert.NotEqual(t, before, after, "should change checksum when relevant field changes")
}

func TestUnitComputeIgnoresIrrelevantFields(t *testing.T) {
	product := modelstesting.FakeProductSnapshot()

	before, err := checksum.Compute(models.TargetShop, product, nil)
	require.NoError(t, err, "shouldn't return any error")

	// stock and warehouses are not part of shop projection
	product.Stock = lo.ToPtr(*product.Stock + 7)
	product.Warehouses = map[string]int64{"main": 1}
	product.UpdatedAt = product.UpdatedAt.AddDate(0, 0, 1)

	after, err := checksum.Compute(models.TargetShop, product, nil)
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, before, after, "shouldn't change checksum for fields outside projection")

	erpBefore, err := checksum.Compute(models.TargetERP, product, nil)
	require.NoError(t, err, "shouldn't return any error")
	product.Stock = lo.ToPtr(*product.Stock + 1)
	erpAfter, err := checksum.Compute(models.TargetERP, product, nil)
	require.NoError(t, err, "shouldn't return any error")

	assert.NotEqual(t, erpBefore, erpAfter, "should change ERP checksum when stock changes")
}

func TestUnitSumMatchesExternalRepresentation(t *testing.T) {
	product := models.ProductSnapshot{
		SKU:        "SKU-1",
		Name:       "Chair",
		Weight:     lo.ToPtr(2.5),
		Stock:      lo.ToPtr(int64(4)),
		Price:      lo.ToPtr(100.0),
		IsActive:   true,
		Attributes: map[string]string{"color": "red", "size": "L"},
	}
	mappings := &models.CategoryMappings{
		Selected: []int64{1, 2},
		Primary:  lo.ToPtr(int64(1)),
		Mappings: map[int64]int64{1: 11, 2: 12},
	}

	local, err := checksum.Compute(models.TargetERP, product, mappings)
	require.NoError(t, err, "shouldn't return any error")

	// payload decoded from target JSON response: numbers are float64, categories unordered
	var payload models.FieldSet
	require.NoError(t, json.Unmarshal([]byte(`{
		"sku": "SKU-1",
		"name": "Chair",
		"weight": 2.5,
		"stock": 4.0,
		"price": 100,
		"is_active": true,
		"ean": "",
		"attributes": {"size": "L", "color": "red"},
		"categories": [12, 11],
		"primary_category": 11,
		"unknown_field": "ignored"
	}`), &payload))

	external, err := checksum.Sum(models.TargetERP, payload)
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, local, external, "should compute equal checksums for equal data in different representation")
}

func TestUnitSumIgnoresSetOrder(t *testing.T) {
	permutations := [][]string{
		{"2", "10", "1a"},
		{"2", "1a", "10"},
		{"10", "2", "1a"},
		{"10", "1a", "2"},
		{"1a", "2", "10"},
		{"1a", "10", "2"},
	}

	sums := lo.Map(permutations, func(values []string, _ int) string {
		sum, err := checksum.Sum(models.TargetShop, models.FieldSet{checksum.FieldEAN: values})
		require.NoError(t, err, "shouldn't return any error")
		return sum
	})

	assert.Len(t, lo.Uniq(sums), 1, "should compute same checksum for every order of mixed set")
}

func TestUnitSumEmptyValues(t *testing.T) {
	missing, err := checksum.Sum(models.TargetShop, models.FieldSet{})
	require.NoError(t, err, "shouldn't return any error")

	tests := map[string]any{
		"empty string": "",
		"empty slice":  []string{},
		"empty map":    map[string]any{},
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			sum, err := checksum.Sum(models.TargetShop, models.FieldSet{checksum.FieldName: value})

			require.NoError(t, err, "shouldn't return any error")
			assert.Equal(t, missing, sum, "should hash cleared value as missing field")
		})
	}
}

func TestUnitSumUnknownKind(t *testing.T) {
	_, err := checksum.Sum("warehouse", models.FieldSet{})

	require.ErrorContains(t, err, "unknown target kind", "should reject unknown target kind")
}

func TestUnitEqual(t *testing.T) {
	tests := map[string]struct {
		a, b any
		want bool
	}{
		"int and float":          {a: 4, b: 4.0, want: true},
		"pointer and value":      {a: lo.ToPtr("x"), b: "x", want: true},
		"empty string and nil":   {a: "", b: nil, want: true},
		"unordered string slice": {a: []string{"b", "a"}, b: []any{"a", "b"}, want: true},
		"numeric slice order":    {a: []int64{10, 9}, b: []float64{9, 10}, want: true},
		"mixed slice order":      {a: []string{"10", "1a", "2"}, b: []string{"2", "10", "1a"}, want: true},
		"different values":       {a: "x", b: "y", want: false},
		"bool and string":        {a: true, b: "true", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, checksum.Equal(tt.a, tt.b))
		})
	}
}

func TestUnitFields(t *testing.T) {
	shop := checksum.Fields(models.TargetShop)

	assert.Contains(t, shop, checksum.FieldSlug, "should include shop specific field")
	assert.NotContains(t, shop, checksum.FieldStock, "shouldn't include ERP specific field")
	assert.IsNonDecreasing(t, shop, "should return sorted fields")

	shop[0] = "mutated"
	assert.NotEqual(t, "mutated", checksum.Fields(models.TargetShop)[0], "should return copy of fields")
}

package checksum

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/samber/lo"
)

// Canonical field names used in projections.
const (
	FieldSKU              = "sku"
	FieldName             = "name"
	FieldSlug             = "slug"
	FieldEAN              = "ean"
	FieldManufacturer     = "manufacturer"
	FieldSupplierCode     = "supplier_code"
	FieldShortDescription = "short_description"
	FieldLongDescription  = "long_description"
	FieldMetaTitle        = "meta_title"
	FieldMetaDescription  = "meta_description"
	FieldProductTypeID    = "product_type_id"
	FieldWeight           = "weight"
	FieldHeight           = "height"
	FieldWidth            = "width"
	FieldLength           = "length"
	FieldTaxRate          = "tax_rate"
	FieldPrice            = "price"
	FieldStock            = "stock"
	FieldIsActive         = "is_active"
	FieldIsPublished      = "is_published"
	FieldSortOrder        = "sort_order"
	FieldAttributes       = "attributes"
	FieldWarehouses       = "warehouses"
	FieldCategories       = "categories"
	FieldPrimaryCategory  = "primary_category"
)

// fields common for every target kind.
var commonFields = []string{
	FieldSKU,
	FieldName,
	FieldEAN,
	FieldManufacturer,
	FieldSupplierCode,
	FieldShortDescription,
	FieldLongDescription,
	FieldMetaTitle,
	FieldMetaDescription,
	FieldWeight,
	FieldHeight,
	FieldWidth,
	FieldLength,
	FieldTaxRate,
	FieldIsActive,
	FieldAttributes,
	FieldCategories,
	FieldPrimaryCategory,
}

var projections = map[models.TargetKind][]string{
	models.TargetShop: sorted(append(slices.Clone(commonFields),
		FieldSlug,
		FieldProductTypeID,
		FieldSortOrder,
		FieldIsPublished,
	)),
	models.TargetERP: sorted(append(slices.Clone(commonFields),
		FieldPrice,
		FieldStock,
		FieldWarehouses,
	)),
}

// Fields returns sorted canonical field names relevant for target kind.
func Fields(kind models.TargetKind) []string {
	return slices.Clone(projections[kind])
}

// Project returns target-relevant field subset of product.
// Housekeeping data (timestamps, sync metadata) is never part of projection.
func Project(kind models.TargetKind, product models.ProductSnapshot, mappings *models.CategoryMappings) (models.FieldSet, error) {
	fieldNames, ok := projections[kind]
	if !ok {
		return nil, fmt.Errorf("can't project product %d: unknown target kind %q", product.ProductID, kind)
	}

	all := models.FieldSet{
		FieldSKU:              product.SKU,
		FieldName:             product.Name,
		FieldSlug:             product.Slug,
		FieldEAN:              product.EAN,
		FieldManufacturer:     product.Manufacturer,
		FieldSupplierCode:     product.SupplierCode,
		FieldShortDescription: product.ShortDescription,
		FieldLongDescription:  product.LongDescription,
		FieldMetaTitle:        product.MetaTitle,
		FieldMetaDescription:  product.MetaDescription,
		FieldProductTypeID:    product.ProductTypeID,
		FieldWeight:           product.Weight,
		FieldHeight:           product.Height,
		FieldWidth:            product.Width,
		FieldLength:           product.Length,
		FieldTaxRate:          product.TaxRate,
		FieldPrice:            product.Price,
		FieldStock:            product.Stock,
		FieldIsActive:         product.IsActive,
		FieldIsPublished:      product.IsPublished,
		FieldSortOrder:        product.SortOrder,
		FieldAttributes:       product.Attributes,
		FieldWarehouses:       product.Warehouses,
		FieldCategories:       mapping.TargetIDs(mappings),
		FieldPrimaryCategory:  mapping.PrimaryTargetID(mappings),
	}

	projected := make(models.FieldSet, len(fieldNames))
	for _, name := range fieldNames {
		projected[name] = Normalize(all[name])
	}

	return projected, nil
}

// Sum returns hex encoded SHA-256 of canonical serialization of fields from kind's projection.
// Fields missing in set are hashed as null, fields outside projection are ignored.
// Empty string, empty slice and empty map hash the same as missing field, since targets
// don't distinguish cleared value from absent one.
func Sum(kind models.TargetKind, fields models.FieldSet) (string, error) {
	fieldNames, ok := projections[kind]
	if !ok {
		return "", fmt.Errorf("can't compute checksum: unknown target kind %q", kind)
	}

	canonical := make(map[string]any, len(fieldNames))
	for _, name := range fieldNames {
		canonical[name] = Normalize(fields[name])
	}

	// encoding/json writes map keys in sorted order.
	serialized, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("can't serialize fields: %w", err)
	}

	hash := sha256.Sum256(serialized)

	return hex.EncodeToString(hash[:]), nil
}

// Compute projects product for target kind and returns checksum of projection.
func Compute(kind models.TargetKind, product models.ProductSnapshot, mappings *models.CategoryMappings) (string, error) {
	fields, err := Project(kind, product, mappings)
	if err != nil {
		return "", err
	}

	return Sum(kind, fields)
}

// Equal reports whether two values have identical canonical form.
func Equal(a, b any) bool {
	aJSON, aErr := json.Marshal(Normalize(a))
	bJSON, bErr := json.Marshal(Normalize(b))
	if aErr != nil || bErr != nil {
		return false
	}

	return bytes.Equal(aJSON, bJSON)
}

// Normalize converts value into canonical form: numbers become decimal strings,
// pointers are dereferenced, empty values become nil, maps get string keys
// and slices of scalars get sorted.
func Normalize(value any) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return v
	case bool:
		return v
	case json.Number:
		return normalizeNumberString(v.String())
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() || rv.Len() == 0 {
			return nil
		}
		normalized := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, _ := Normalize(iter.Key().Interface()).(string)
			normalized[key] = Normalize(iter.Value().Interface())
		}
		return normalized
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() || rv.Len() == 0 {
			return nil
		}
		items := make([]any, 0, rv.Len())
		for ix := range rv.Len() {
			items = append(items, Normalize(rv.Index(ix).Interface()))
		}
		return sortScalars(items)
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	default:
		return fmt.Sprint(value)
	}
}

func normalizeNumberString(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// sortScalars sorts slice when all its items are strings, so sets compare equal regardless of order.
// Sets of numbers are ordered by value, any other set lexically.
func sortScalars(items []any) []any {
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return items
		}
		strs = append(strs, s)
	}

	values := make([]float64, len(strs))
	numeric := true
	for ix, s := range strs {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			numeric = false
			break
		}
		values[ix] = f
	}

	if numeric {
		byValue := lo.Zip2(values, strs)
		slices.SortFunc(byValue, func(a, b lo.Tuple2[float64, string]) int {
			return cmp.Or(cmp.Compare(a.A, b.A), strings.Compare(a.B, b.B))
		})
		strs = lo.Map(byValue, func(t lo.Tuple2[float64, string], _ int) string { return t.B })
	} else {
		slices.Sort(strs)
	}

	return lo.Map(strs, func(s string, _ int) any { return s })
}

func sorted(names []string) []string {
	slices.Sort(names)
	return names
}

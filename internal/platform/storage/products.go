package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// ProductSnapshot returns read-only view of product fields.
func (p Postgres) ProductSnapshot(ctx context.Context, productID int64) (*models.ProductSnapshot, error) {
	product, err := getProduct(ctx, p.conn(), productID, false)
	if err != nil {
		return nil, err
	}

	return FromDBProduct(product)
}

// ApplyProductFields overwrites product fields with values pulled from target.
// Category fields are not stored on product and are ignored.
func (p Postgres) ApplyProductFields(ctx context.Context, productID int64, fields models.FieldSet) error {
	return p.inTransaction(ctx, func(db qrm.DB) error {
		stored, err := getProduct(ctx, db, productID, true)
		if err != nil {
			return err
		}

		product, err := FromDBProduct(stored)
		if err != nil {
			return err
		}

		if err := applyFields(product, fields); err != nil {
			return fmt.Errorf("can't apply fields to product %d: %w", productID, err)
		}
		product.UpdatedAt = time.Now().UTC()

		updated, err := ToDBProduct(product)
		if err != nil {
			return err
		}

		_, err = table.Product.UPDATE(table.Product.MutableColumns.Except(table.Product.CreatedAt)).
			MODEL(updated).
			WHERE(table.Product.ID.EQ(pg.Int64(productID))).
			ExecContext(ctx, db)
		if err != nil {
			return fmt.Errorf("can't update product %d: %w", productID, err)
		}

		return nil
	})
}

func getProduct(ctx context.Context, db qrm.DB, productID int64, lock bool) (*pgmodels.Product, error) {
	stmt := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.EQ(pg.Int64(productID)))
	if lock {
		stmt = stmt.FOR(pg.UPDATE())
	}

	var product pgmodels.Product
	err := stmt.QueryContext(ctx, db, &product)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", platform.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product %d: %w", productID, err)
	}

	return &product, nil
}

func applyFields(product *models.ProductSnapshot, fields models.FieldSet) error {
	for name, value := range fields {
		var err error
		switch name {
		case checksum.FieldSKU:
			product.SKU = toString(value)
		case checksum.FieldName:
			product.Name = toString(value)
		case checksum.FieldSlug:
			product.Slug = toString(value)
		case checksum.FieldEAN:
			product.EAN = toStringPtr(value)
		case checksum.FieldManufacturer:
			product.Manufacturer = toStringPtr(value)
		case checksum.FieldSupplierCode:
			product.SupplierCode = toStringPtr(value)
		case checksum.FieldShortDescription:
			product.ShortDescription = toString(value)
		case checksum.FieldLongDescription:
			product.LongDescription = toString(value)
		case checksum.FieldMetaTitle:
			product.MetaTitle = toString(value)
		case checksum.FieldMetaDescription:
			product.MetaDescription = toString(value)
		case checksum.FieldProductTypeID:
			product.ProductTypeID, err = toInt64Ptr(value)
		case checksum.FieldWeight:
			product.Weight, err = toFloatPtr(value)
		case checksum.FieldHeight:
			product.Height, err = toFloatPtr(value)
		case checksum.FieldWidth:
			product.Width, err = toFloatPtr(value)
		case checksum.FieldLength:
			product.Length, err = toFloatPtr(value)
		case checksum.FieldTaxRate:
			product.TaxRate, err = toFloatPtr(value)
		case checksum.FieldPrice:
			product.Price, err = toFloatPtr(value)
		case checksum.FieldStock:
			product.Stock, err = toInt64Ptr(value)
		case checksum.FieldIsActive:
			product.IsActive = toBool(value)
		case checksum.FieldIsPublished:
			product.IsPublished = toBool(value)
		case checksum.FieldSortOrder:
			var order *int64
			order, err = toInt64Ptr(value)
			product.SortOrder = int(lo.FromPtr(order))
		case checksum.FieldAttributes:
			product.Attributes, err = toStringMap(value)
		case checksum.FieldWarehouses:
			product.Warehouses, err = toInt64Map(value)
		}
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		return lo.FromPtr(v)
	default:
		return fmt.Sprint(v)
	}
}

func toStringPtr(value any) *string {
	s := toString(value)
	if s == "" {
		return nil
	}

	return &s
}

func toFloatPtr(value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case *float64:
		return v, nil
	case int:
		return lo.ToPtr(float64(v)), nil
	case int64:
		return lo.ToPtr(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		return &f, err
	case string:
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		return &f, err
	default:
		return nil, fmt.Errorf("unsupported number %T", value)
	}
}

func toInt64Ptr(value any) (*int64, error) {
	f, err := toFloatPtr(value)
	if err != nil || f == nil {
		if i, ok := value.(*int64); ok {
			return i, nil
		}
		return nil, err
	}

	return lo.ToPtr(int64(*f)), nil
}

func toBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	default:
		return false
	}
}

func toStringMap(value any) (map[string]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		return lo.MapValues(v, func(item any, _ string) string {
			return toString(item)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported map %T", value)
	}
}

func toInt64Map(value any) (map[string]int64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]int64:
		return v, nil
	case map[string]any:
		result := make(map[string]int64, len(v))
		for key, item := range v {
			i, err := toInt64Ptr(item)
			if err != nil {
				return nil, fmt.Errorf("warehouse %s: %w", key, err)
			}
			result[key] = lo.FromPtr(i)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported map %T", value)
	}
}

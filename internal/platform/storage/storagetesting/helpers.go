package storagetesting

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertProducts is a helper test function to insert products. It returns products with assigned IDs.
func InsertProducts(t *testing.T, db qrm.DB, products ...pgmodels.Product) []pgmodels.Product {
	t.Helper()

	if len(products) == 0 {
		return nil
	}

	inserted := []pgmodels.Product{}
	err := table.Product.INSERT(table.Product.MutableColumns).
		MODELS(products).
		RETURNING(table.Product.AllColumns).
		Query(db, &inserted)
	if err != nil {
		t.Fatal("can't insert products", err)
	}

	return inserted
}

// InsertCategoryMappings is a helper test function to insert category mappings.
func InsertCategoryMappings(t *testing.T, exc qrm.Executable, mappings ...pgmodels.CategoryMapping) {
	t.Helper()

	if len(mappings) == 0 {
		return
	}

	_, err := table.CategoryMapping.INSERT(table.CategoryMapping.MutableColumns).MODELS(mappings).Exec(exc)
	if err != nil {
		t.Fatal("can't insert category mappings", err)
	}
}

// InsertSyncRecords is a helper test function to insert sync records. It returns records with assigned IDs.
func InsertSyncRecords(t *testing.T, db qrm.DB, records ...pgmodels.SyncRecord) []pgmodels.SyncRecord {
	t.Helper()

	if len(records) == 0 {
		return nil
	}

	inserted := []pgmodels.SyncRecord{}
	err := table.SyncRecord.INSERT(table.SyncRecord.MutableColumns).
		MODELS(records).
		RETURNING(table.SyncRecord.AllColumns).
		Query(db, &inserted)
	if err != nil {
		t.Fatal("can't insert sync records", err)
	}

	return inserted
}

// GetSyncRecord is a helper test function to get sync record by ID.
func GetSyncRecord(t *testing.T, queryable qrm.Queryable, id int64) pgmodels.SyncRecord {
	t.Helper()

	var record pgmodels.SyncRecord
	err := table.SyncRecord.SELECT(table.SyncRecord.AllColumns).
		WHERE(table.SyncRecord.ID.EQ(pg.Int64(id))).
		Query(queryable, &record)
	if err != nil {
		t.Fatal("can't get sync record", err)
	}

	return record
}

// GetSyncRecords is a helper test function to get all sync records ordered by ID.
func GetSyncRecords(t *testing.T, queryable qrm.Queryable) []pgmodels.SyncRecord {
	t.Helper()

	records := []pgmodels.SyncRecord{}
	err := table.SyncRecord.SELECT(table.SyncRecord.AllColumns).
		WHERE(table.SyncRecord.ID.IS_NOT_NULL()).
		ORDER_BY(table.SyncRecord.ID.ASC()).
		Query(queryable, &records)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		t.Fatal("can't get sync records", err)
	}

	return records
}

// GetProduct is a helper test function to get product by ID.
func GetProduct(t *testing.T, queryable qrm.Queryable, id int64) pgmodels.Product {
	t.Helper()

	var product pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.EQ(pg.Int64(id))).
		Query(queryable, &product)
	if err != nil {
		t.Fatal("can't get product", err)
	}

	return product
}

// GetSyncJobs is a helper test function to get all sync jobs.
func GetSyncJobs(t *testing.T, queryable qrm.Queryable) []pgmodels.SyncJob {
	t.Helper()

	jobs := []pgmodels.SyncJob{}
	err := table.SyncJob.SELECT(table.SyncJob.AllColumns).
		WHERE(table.SyncJob.ID.IS_NOT_NULL()).
		ORDER_BY(table.SyncJob.CreatedAt.ASC()).
		Query(queryable, &jobs)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		t.Fatal("can't get sync jobs", err)
	}

	return jobs
}

// CleanupData is a helper test function to delete all data.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.SyncRecord.DELETE().WHERE(table.SyncRecord.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete sync records data", err)
	}

	_, err = table.SyncJob.UPDATE().
		SET(table.SyncJob.ParentJobID.SET(pg.StringExp(pg.NULL))).
		WHERE(table.SyncJob.ParentJobID.IS_NOT_NULL()).
		Exec(exc)
	if err != nil {
		t.Fatal("can't detach sync jobs", err)
	}

	_, err = table.SyncJob.DELETE().WHERE(table.SyncJob.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete sync jobs data", err)
	}

	_, err = table.CategoryMapping.DELETE().WHERE(table.CategoryMapping.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete category mappings data", err)
	}

	_, err = table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete products data", err)
	}
}

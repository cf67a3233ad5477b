package modelstesting

import (
	"math/rand"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// FakeProductSnapshot returns models.ProductSnapshot with fake data and random number of fake attributes.
func FakeProductSnapshot(ops ...func(p *models.ProductSnapshot)) models.ProductSnapshot {
	product := models.ProductSnapshot{
		ProductID:        rand.Int63n(1_000_000) + 1,
		SKU:              faker.Word(),
		Name:             faker.Word(),
		Slug:             faker.Word(),
		EAN:              lo.ToPtr(faker.Word()),
		Manufacturer:     lo.ToPtr(faker.Word()),
		SupplierCode:     lo.ToPtr(faker.Word()),
		ShortDescription: faker.Sentence(),
		LongDescription:  faker.Paragraph(),
		MetaTitle:        faker.Word(),
		MetaDescription:  faker.Sentence(),
		ProductTypeID:    lo.ToPtr(rand.Int63n(100) + 1),
		Weight:           lo.ToPtr(float64(rand.Intn(10_000)) / 100),
		Height:           lo.ToPtr(float64(rand.Intn(10_000)) / 100),
		Width:            lo.ToPtr(float64(rand.Intn(10_000)) / 100),
		Length:           lo.ToPtr(float64(rand.Intn(10_000)) / 100),
		TaxRate:          lo.ToPtr(23.0),
		Price:            lo.ToPtr(float64(rand.Intn(100_000)) / 100),
		Stock:            lo.ToPtr(rand.Int63n(1_000)),
		IsActive:         true,
		IsPublished:      rand.Intn(2) == 1,
		SortOrder:        rand.Intn(100),
		Attributes:       fakeAttributes(),
		UpdatedAt:        time.Now().UTC().Truncate(time.Second),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeCategoryMappings returns fully mapped models.CategoryMappings with random number of categories.
func FakeCategoryMappings(ops ...func(m *models.CategoryMappings)) *models.CategoryMappings {
	count := rand.Intn(4) + 1
	selected := make([]int64, 0, count)
	mappings := make(map[int64]int64, count)
	for ix := range count {
		localID := int64(ix+1)*100 + rand.Int63n(100)
		selected = append(selected, localID)
		mappings[localID] = localID + 1_000
	}

	m := &models.CategoryMappings{
		SchemaVersion: models.MappingsSchemaVersion,
		Selected:      selected,
		Primary:       lo.ToPtr(selected[0]),
		Mappings:      mappings,
		Metadata: models.MappingsMetadata{
			Source:      models.SourceManual,
			LastUpdated: time.Now().UTC().Truncate(time.Second),
		},
	}

	for _, op := range ops {
		op(m)
	}

	return m
}

// FakeSyncRecord returns pending bidirectional models.SyncRecord with fake data.
func FakeSyncRecord(ops ...func(r *models.SyncRecord)) models.SyncRecord {
	createdAt := time.Now().UTC().Truncate(time.Second)
	record := models.SyncRecord{
		ID:            rand.Int63n(1_000_000) + 1,
		ProductID:     rand.Int63n(1_000_000) + 1,
		Target:        models.ShopTarget(rand.Int63n(100) + 1),
		Status:        models.RecordPending,
		Direction:     models.DirectionBidirectional,
		Priority:      rand.Intn(10),
		LocalChecksum: lo.ToPtr(faker.UUIDDigit()),
		MaxRetries:    5,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	for _, op := range ops {
		op(&record)
	}

	return record
}

// FakeSyncJob returns pending models.SyncJob with fake data.
func FakeSyncJob(ops ...func(j *models.SyncJob)) models.SyncJob {
	createdAt := time.Now().UTC().Truncate(time.Second)
	job := models.SyncJob{
		ID:      uuid.NewString(),
		Type:    models.JobProductSync,
		Name:    faker.Word(),
		Source:  models.SourceRef{Kind: "catalog"},
		Target:  models.ShopTarget(rand.Int63n(100) + 1),
		Status:  models.JobPending,
		Trigger: models.TriggerManual,
		Config: models.JobConfig{
			Parallelism: 2,
		},
		TimeoutSeconds: 3600,
		MaxRetries:     3,
		RetryDelay:     time.Minute,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	for _, op := range ops {
		op(&job)
	}

	return job
}

func fakeAttributes() map[string]string {
	attributesLen := rand.Intn(5)
	attributes := make(map[string]string, attributesLen)
	for range attributesLen {
		attributes[faker.Word()] = faker.Word()
	}

	return attributes
}

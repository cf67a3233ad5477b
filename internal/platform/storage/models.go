package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/google/uuid"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

// ToDBSyncRecord converts models.SyncRecord into postgres sync record model.
func ToDBSyncRecord(record *models.SyncRecord) (*pgmodels.SyncRecord, error) {
	pendingFields, err := marshalJSON(lo.Ternary(record.PendingFields == nil, []string{}, record.PendingFields))
	if err != nil {
		return nil, fmt.Errorf("can't encode pending fields: %w", err)
	}

	conflictData, err := marshalOptionalJSON(record.ConflictData)
	if err != nil {
		return nil, fmt.Errorf("can't encode conflict data: %w", err)
	}

	categoryMappings, err := marshalOptionalJSON(record.CategoryMappings)
	if err != nil {
		return nil, fmt.Errorf("can't encode category mappings: %w", err)
	}

	return &pgmodels.SyncRecord{
		ID:                 record.ID,
		ProductID:          record.ProductID,
		TargetKind:         string(record.Target.Kind),
		TargetID:           record.Target.ID,
		Status:             string(record.Status),
		Direction:          string(record.Direction),
		Priority:           int32(record.Priority),
		ExternalID:         record.ExternalID,
		LocalChecksum:      record.LocalChecksum,
		LastSyncedChecksum: record.LastSyncedChecksum,
		ExternalUpdatedAt:  record.ExternalUpdatedAt,
		LastSyncAt:         record.LastSyncAt,
		LastPushAt:         record.LastPushAt,
		LastPullAt:         record.LastPullAt,
		PendingFields:      pendingFields,
		ErrorMessage:       record.ErrorMessage,
		ErrorReason:        (*string)(record.ErrorReason),
		RetryCount:         int32(record.RetryCount),
		MaxRetries:         int32(record.MaxRetries),
		NextRetryAt:        record.NextRetryAt,
		ConflictData:       conflictData,
		ConflictDetectedAt: record.ConflictDetectedAt,
		ForcedAction:       (*string)(record.ForcedAction),
		CategoryMappings:   categoryMappings,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
		Version:            record.Version,
	}, nil
}

// FromDBSyncRecord converts postgres sync record model into models.SyncRecord.
func FromDBSyncRecord(record *pgmodels.SyncRecord) (*models.SyncRecord, error) {
	result := &models.SyncRecord{
		ID:                 record.ID,
		ProductID:          record.ProductID,
		Target:             models.TargetRef{Kind: models.TargetKind(record.TargetKind), ID: record.TargetID},
		Status:             models.RecordStatus(record.Status),
		Direction:          models.Direction(record.Direction),
		Priority:           int(record.Priority),
		ExternalID:         record.ExternalID,
		LocalChecksum:      record.LocalChecksum,
		LastSyncedChecksum: record.LastSyncedChecksum,
		ExternalUpdatedAt:  utc(record.ExternalUpdatedAt),
		LastSyncAt:         utc(record.LastSyncAt),
		LastPushAt:         utc(record.LastPushAt),
		LastPullAt:         utc(record.LastPullAt),
		ErrorMessage:       record.ErrorMessage,
		ErrorReason:        (*models.ReasonCode)(record.ErrorReason),
		RetryCount:         int(record.RetryCount),
		MaxRetries:         int(record.MaxRetries),
		NextRetryAt:        utc(record.NextRetryAt),
		ConflictDetectedAt: utc(record.ConflictDetectedAt),
		ForcedAction:       (*models.Action)(record.ForcedAction),
		CreatedAt:          record.CreatedAt.UTC(),
		UpdatedAt:          record.UpdatedAt.UTC(),
		Version:            record.Version,
	}

	if err := json.Unmarshal([]byte(record.PendingFields), &result.PendingFields); err != nil {
		return nil, fmt.Errorf("can't decode pending fields of record %d: %w", record.ID, err)
	}
	if len(result.PendingFields) == 0 {
		result.PendingFields = nil
	}

	if record.ConflictData != nil {
		result.ConflictData = &models.ConflictData{}
		if err := json.Unmarshal([]byte(*record.ConflictData), result.ConflictData); err != nil {
			return nil, fmt.Errorf("can't decode conflict data of record %d: %w", record.ID, err)
		}
	}

	if record.CategoryMappings != nil {
		result.CategoryMappings = &models.CategoryMappings{}
		if err := json.Unmarshal([]byte(*record.CategoryMappings), result.CategoryMappings); err != nil {
			return nil, fmt.Errorf("can't decode category mappings of record %d: %w", record.ID, err)
		}
	}

	return result, nil
}

// ToDBSyncJob converts models.SyncJob into postgres sync job model.
func ToDBSyncJob(job *models.SyncJob) (*pgmodels.SyncJob, error) {
	id, err := uuid.Parse(job.ID)
	if err != nil {
		return nil, fmt.Errorf("can't parse job ID %q: %w", job.ID, err)
	}

	var parentID *uuid.UUID
	if job.ParentJobID != nil {
		parsed, err := uuid.Parse(*job.ParentJobID)
		if err != nil {
			return nil, fmt.Errorf("can't parse parent job ID %q: %w", *job.ParentJobID, err)
		}
		parentID = &parsed
	}

	config, err := marshalJSON(job.Config)
	if err != nil {
		return nil, fmt.Errorf("can't encode job config: %w", err)
	}

	dependentJobs, err := marshalJSON(lo.Ternary(job.DependentJobs == nil, []string{}, job.DependentJobs))
	if err != nil {
		return nil, fmt.Errorf("can't encode dependent jobs: %w", err)
	}

	summary, err := marshalJSON(job.ResultSummary)
	if err != nil {
		return nil, fmt.Errorf("can't encode result summary: %w", err)
	}

	var validationErrors *string
	if len(job.ValidationErrors) > 0 {
		if validationErrors, err = marshalOptionalJSON(&job.ValidationErrors); err != nil {
			return nil, fmt.Errorf("can't encode validation errors: %w", err)
		}
	}

	warnings, err := marshalJSON(lo.Ternary(job.Warnings == nil, []models.Warning{}, job.Warnings))
	if err != nil {
		return nil, fmt.Errorf("can't encode warnings: %w", err)
	}

	return &pgmodels.SyncJob{
		ID:                    id,
		Type:                  string(job.Type),
		Name:                  job.Name,
		SourceKind:            job.Source.Kind,
		SourceID:              job.Source.ID,
		TargetKind:            string(job.Target.Kind),
		TargetID:              job.Target.ID,
		Status:                string(job.Status),
		TriggerType:           string(job.Trigger),
		Config:                config,
		TotalItems:            int32(job.TotalItems),
		ProcessedItems:        int32(job.ProcessedItems),
		SuccessfulItems:       int32(job.SuccessfulItems),
		FailedItems:           int32(job.FailedItems),
		SkippedItems:          int32(job.SkippedItems),
		ProgressPercentage:    job.ProgressPercentage,
		ScheduledAt:           job.ScheduledAt,
		StartedAt:             job.StartedAt,
		CompletedAt:           job.CompletedAt,
		DurationSeconds:       job.DurationSeconds,
		TimeoutSeconds:        int32(job.TimeoutSeconds),
		RetryCount:            int32(job.RetryCount),
		MaxRetries:            int32(job.MaxRetries),
		RetryDelaySeconds:     int32(job.RetryDelay / time.Second),
		NextRetryAt:           job.NextRetryAt,
		ErrorMessage:          job.ErrorMessage,
		ErrorDetails:          job.ErrorDetails,
		StackTrace:            job.StackTrace,
		MemoryPeakMb:          int32(job.MemoryPeakMB),
		CPUTimeSeconds:        job.CPUTimeSeconds,
		APICallsMade:          int32(job.APICallsMade),
		DbQueries:             int32(job.DBQueries),
		AvgItemProcessingTime: job.AvgItemProcessingTime,
		ParentJobID:           parentID,
		DependentJobs:         dependentJobs,
		ResultSummary:         summary,
		ValidationErrors:      validationErrors,
		Warnings:              warnings,
		CreatedAt:             job.CreatedAt,
		UpdatedAt:             job.UpdatedAt,
	}, nil
}

// FromDBSyncJob converts postgres sync job model into models.SyncJob.
func FromDBSyncJob(job *pgmodels.SyncJob) (*models.SyncJob, error) {
	result := &models.SyncJob{
		ID:                    job.ID.String(),
		Type:                  models.JobType(job.Type),
		Name:                  job.Name,
		Source:                models.SourceRef{Kind: job.SourceKind, ID: job.SourceID},
		Target:                models.TargetRef{Kind: models.TargetKind(job.TargetKind), ID: job.TargetID},
		Status:                models.JobStatus(job.Status),
		Trigger:               models.TriggerType(job.TriggerType),
		TotalItems:            int(job.TotalItems),
		ProcessedItems:        int(job.ProcessedItems),
		SuccessfulItems:       int(job.SuccessfulItems),
		FailedItems:           int(job.FailedItems),
		SkippedItems:          int(job.SkippedItems),
		ProgressPercentage:    job.ProgressPercentage,
		ScheduledAt:           utc(job.ScheduledAt),
		StartedAt:             utc(job.StartedAt),
		CompletedAt:           utc(job.CompletedAt),
		DurationSeconds:       job.DurationSeconds,
		TimeoutSeconds:        int(job.TimeoutSeconds),
		RetryCount:            int(job.RetryCount),
		MaxRetries:            int(job.MaxRetries),
		RetryDelay:            time.Duration(job.RetryDelaySeconds) * time.Second,
		NextRetryAt:           utc(job.NextRetryAt),
		ErrorMessage:          job.ErrorMessage,
		ErrorDetails:          job.ErrorDetails,
		StackTrace:            job.StackTrace,
		MemoryPeakMB:          int(job.MemoryPeakMb),
		CPUTimeSeconds:        job.CPUTimeSeconds,
		APICallsMade:          int(job.APICallsMade),
		DBQueries:             int(job.DbQueries),
		AvgItemProcessingTime: job.AvgItemProcessingTime,
		CreatedAt:             job.CreatedAt.UTC(),
		UpdatedAt:             job.UpdatedAt.UTC(),
	}

	if job.ParentJobID != nil {
		result.ParentJobID = lo.ToPtr(job.ParentJobID.String())
	}

	if err := unmarshalJSON(job.Config, &result.Config); err != nil {
		return nil, fmt.Errorf("can't decode config of job %s: %w", result.ID, err)
	}
	if err := unmarshalJSON(job.DependentJobs, &result.DependentJobs); err != nil {
		return nil, fmt.Errorf("can't decode dependent jobs of job %s: %w", result.ID, err)
	}
	if err := unmarshalJSON(job.ResultSummary, &result.ResultSummary); err != nil {
		return nil, fmt.Errorf("can't decode result summary of job %s: %w", result.ID, err)
	}
	if job.ValidationErrors != nil {
		if err := unmarshalJSON(*job.ValidationErrors, &result.ValidationErrors); err != nil {
			return nil, fmt.Errorf("can't decode validation errors of job %s: %w", result.ID, err)
		}
	}
	if err := unmarshalJSON(job.Warnings, &result.Warnings); err != nil {
		return nil, fmt.Errorf("can't decode warnings of job %s: %w", result.ID, err)
	}
	if len(result.DependentJobs) == 0 {
		result.DependentJobs = nil
	}
	if len(result.Warnings) == 0 {
		result.Warnings = nil
	}

	return result, nil
}

// ToDBProduct converts models.ProductSnapshot into postgres product model.
func ToDBProduct(product *models.ProductSnapshot) (*pgmodels.Product, error) {
	attributes, err := marshalJSON(lo.Ternary(product.Attributes == nil, map[string]string{}, product.Attributes))
	if err != nil {
		return nil, fmt.Errorf("can't encode attributes: %w", err)
	}

	warehouses, err := marshalJSON(lo.Ternary(product.Warehouses == nil, map[string]int64{}, product.Warehouses))
	if err != nil {
		return nil, fmt.Errorf("can't encode warehouses: %w", err)
	}

	return &pgmodels.Product{
		ID:               product.ProductID,
		Sku:              product.SKU,
		Name:             product.Name,
		Slug:             product.Slug,
		Ean:              product.EAN,
		Manufacturer:     product.Manufacturer,
		SupplierCode:     product.SupplierCode,
		ShortDescription: product.ShortDescription,
		LongDescription:  product.LongDescription,
		MetaTitle:        product.MetaTitle,
		MetaDescription:  product.MetaDescription,
		ProductTypeID:    product.ProductTypeID,
		Weight:           product.Weight,
		Height:           product.Height,
		Width:            product.Width,
		Length:           product.Length,
		TaxRate:          product.TaxRate,
		Price:            product.Price,
		Stock:            product.Stock,
		IsActive:         product.IsActive,
		IsPublished:      product.IsPublished,
		SortOrder:        int32(product.SortOrder),
		Attributes:       attributes,
		Warehouses:       warehouses,
		UpdatedAt:        product.UpdatedAt,
	}, nil
}

// FromDBProduct converts postgres product model into models.ProductSnapshot.
func FromDBProduct(product *pgmodels.Product) (*models.ProductSnapshot, error) {
	result := &models.ProductSnapshot{
		ProductID:        product.ID,
		SKU:              product.Sku,
		Name:             product.Name,
		Slug:             product.Slug,
		EAN:              product.Ean,
		Manufacturer:     product.Manufacturer,
		SupplierCode:     product.SupplierCode,
		ShortDescription: product.ShortDescription,
		LongDescription:  product.LongDescription,
		MetaTitle:        product.MetaTitle,
		MetaDescription:  product.MetaDescription,
		ProductTypeID:    product.ProductTypeID,
		Weight:           product.Weight,
		Height:           product.Height,
		Width:            product.Width,
		Length:           product.Length,
		TaxRate:          product.TaxRate,
		Price:            product.Price,
		Stock:            product.Stock,
		IsActive:         product.IsActive,
		IsPublished:      product.IsPublished,
		SortOrder:        int(product.SortOrder),
		UpdatedAt:        product.UpdatedAt.UTC(),
	}

	if err := unmarshalJSON(product.Attributes, &result.Attributes); err != nil {
		return nil, fmt.Errorf("can't decode attributes of product %d: %w", product.ID, err)
	}
	if err := unmarshalJSON(product.Warehouses, &result.Warehouses); err != nil {
		return nil, fmt.Errorf("can't decode warehouses of product %d: %w", product.ID, err)
	}
	if len(result.Attributes) == 0 {
		result.Attributes = nil
	}
	if len(result.Warehouses) == 0 {
		result.Warehouses = nil
	}

	return result, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func marshalOptionalJSON[T any](v *T) (*string, error) {
	if v == nil {
		return nil, nil
	}

	s, err := marshalJSON(v)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func unmarshalJSON(s string, v any) error {
	if s == "" {
		return nil
	}

	return json.Unmarshal([]byte(s), v)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	return lo.ToPtr(t.UTC())
}

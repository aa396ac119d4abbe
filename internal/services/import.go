package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/excel"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/storage"
)

// BulkCreator inserts validated inputs on behalf of a user. Implemented
// by SalesService.
type BulkCreator interface {
	BulkCreate(ctx context.Context, inputs []models.SaleInput, userID primitive.ObjectID) (BulkResult, error)
}

// ImportResult reports a completed spreadsheet import.
type ImportResult struct {
	ImportedCount int `json:"importedCount"`
	TotalRows     int `json:"totalRows"`
	FailedRows    int `json:"failedRows"`
}

// ImportService runs the spreadsheet import pipeline: parse and validate
// the workbook, then bulk-insert the validated rows.
type ImportService struct {
	sales   BulkCreator
	archive storage.Archiver
	logger  *zap.Logger
}

// NewImportService creates an ImportService.
func NewImportService(sales BulkCreator, archive storage.Archiver, logger *zap.Logger) *ImportService {
	return &ImportService{
		sales:   sales,
		archive: archive,
		logger:  logger,
	}
}

// ImportFile parses the workbook at path and inserts every validated
// row attributed to userID. Validation is all-or-nothing: if any row is
// invalid, nothing is inserted and the full per-row report is returned
// as a validation error. The file artifact is removed by the parse step
// whether or not the import succeeds.
func (s *ImportService) ImportFile(ctx context.Context, path, objectName string, userID primitive.ObjectID) (ImportResult, error) {
	// Archiving is best effort; a broken archive must not block imports.
	if err := s.archive.Archive(ctx, path, objectName); err != nil {
		s.logger.Warn("failed to archive upload", zap.String("object", objectName), zap.Error(err))
	}

	inputs, rowErrors, err := excel.ParseFile(path)
	if err == excel.ErrEmptySheet {
		return ImportResult{}, apperr.Validation("Excel file is empty")
	}
	if err != nil {
		return ImportResult{}, apperr.Validation("Invalid Excel file structure")
	}
	if len(rowErrors) > 0 {
		s.logger.Warn("spreadsheet validation failed", zap.Int("rows", len(rowErrors)))
		return ImportResult{}, apperr.ValidationDetails("Excel file contains errors", rowErrors)
	}

	result, err := s.sales.BulkCreate(ctx, inputs, userID)
	if err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("spreadsheet imported",
		zap.Int("imported", result.CreatedCount),
		zap.Int("total", len(inputs)),
	)

	return ImportResult{
		ImportedCount: result.CreatedCount,
		TotalRows:     len(inputs),
		FailedRows:    len(inputs) - result.CreatedCount,
	}, nil
}

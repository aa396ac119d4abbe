package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/storage"
)

type stubBulkCreator struct {
	result BulkResult
	err    error
	got    []models.SaleInput
}

func (s *stubBulkCreator) BulkCreate(ctx context.Context, inputs []models.SaleInput, userID primitive.ObjectID) (BulkResult, error) {
	s.got = inputs
	if s.err != nil {
		return BulkResult{}, s.err
	}
	if s.result.CreatedCount == 0 && s.result.Errors == nil {
		return BulkResult{CreatedCount: len(inputs)}, nil
	}
	return s.result, nil
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range rows {
		row := rows[i]
		cell := fmt.Sprintf("A%d", i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportFileSuccess(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"},
		{"Laptop", "Electronics", 15, 120000, "2025-10-05"},
		{"Headphones", "Accessories", 40, 40000, "2025-10-08"},
	})

	creator := &stubBulkCreator{}
	svc := NewImportService(creator, storage.NopArchive{}, zap.NewNop())

	result, err := svc.ImportFile(context.Background(), path, "upload.xlsx", primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, ImportResult{ImportedCount: 2, TotalRows: 2, FailedRows: 0}, result)
	require.Len(t, creator.got, 2)
	assert.Equal(t, "Laptop", creator.got[0].ProductName)

	// Upload artifact is cleaned up after parsing.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportFileValidationFailure(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"},
		{"Laptop", "Electronics", -5, 120000, "2025-10-05"},
	})

	creator := &stubBulkCreator{}
	svc := NewImportService(creator, storage.NopArchive{}, zap.NewNop())

	_, err := svc.ImportFile(context.Background(), path, "upload.xlsx", primitive.NewObjectID())
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.NotNil(t, appErr.Details)

	// Nothing was inserted, and the artifact is still cleaned up.
	assert.Nil(t, creator.got)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportFileEmptySheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"},
	})

	svc := NewImportService(&stubBulkCreator{}, storage.NopArchive{}, zap.NewNop())

	_, err := svc.ImportFile(context.Background(), path, "upload.xlsx", primitive.NewObjectID())
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "Excel file is empty", appErr.Message)
}

func TestImportFilePartialBulkFailure(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"},
		{"Laptop", "Electronics", 15, 120000, "2025-10-05"},
		{"Headphones", "Accessories", 40, 40000, "2025-10-08"},
	})

	creator := &stubBulkCreator{result: BulkResult{
		CreatedCount: 1,
		Errors:       []BulkError{{Index: 1, Message: "write error"}},
	}}
	svc := NewImportService(creator, storage.NopArchive{}, zap.NewNop())

	result, err := svc.ImportFile(context.Background(), path, "upload.xlsx", primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{ImportedCount: 1, TotalRows: 2, FailedRows: 1}, result)
}

func TestImportFileStoreError(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"},
		{"Laptop", "Electronics", 15, 120000, "2025-10-05"},
	})

	creator := &stubBulkCreator{err: errors.New("connection reset")}
	svc := NewImportService(creator, storage.NopArchive{}, zap.NewNop())

	_, err := svc.ImportFile(context.Background(), path, "upload.xlsx", primitive.NewObjectID())
	assert.Error(t, err)
}

package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/config"
	"github.com/salesboard/salesboard/internal/excel"
	"github.com/salesboard/salesboard/internal/httpx"
	"github.com/salesboard/salesboard/internal/middleware"
	"github.com/salesboard/salesboard/internal/services"
)

// UploadHandler exposes spreadsheet import and template download.
type UploadHandler struct {
	imports *services.ImportService
	cfg     config.Upload
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(imports *services.ImportService, cfg config.Upload) *UploadHandler {
	return &UploadHandler{imports: imports, cfg: cfg}
}

// Import accepts a multipart spreadsheet upload (field "file"), saves it
// to the temporary upload directory and runs the import pipeline. The
// saved artifact is removed by the pipeline regardless of outcome.
func (h *UploadHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return apperr.Validation("Only Excel files (.xlsx, .xls) are allowed")
	}

	if fileHeader.Size > h.cfg.MaxBytes {
		return apperr.Validation(fmt.Sprintf("File exceeds the %d byte upload limit", h.cfg.MaxBytes))
	}

	userID, ok := c.Locals(middleware.LocalUserID).(primitive.ObjectID)
	if !ok {
		return apperr.Authentication("Authentication required")
	}

	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	objectName := fmt.Sprintf("%s_%s", uuid.NewString(), fileHeader.Filename)
	path := filepath.Join(h.cfg.Dir, objectName)
	if err := c.SaveFile(fileHeader, path); err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	result, err := h.imports.ImportFile(c.Context(), path, objectName, userID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Successfully imported %d records", result.ImportedCount)
	return httpx.Success(c, fiber.StatusCreated, message, result)
}

// Template serves a generated spreadsheet with the canonical columns and
// sample rows, ready to fill in and upload.
func (h *UploadHandler) Template(c *fiber.Ctx) error {
	buf, err := excel.BuildTemplate()
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", excel.TemplateFilename))
	return c.Send(buf.Bytes())
}

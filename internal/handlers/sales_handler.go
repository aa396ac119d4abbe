package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/dates"
	"github.com/salesboard/salesboard/internal/httpx"
	"github.com/salesboard/salesboard/internal/middleware"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/services"
)

// SalesHandler exposes sale CRUD and chart endpoints.
type SalesHandler struct {
	sales  *services.SalesService
	charts *services.ChartService
}

// NewSalesHandler creates a SalesHandler.
func NewSalesHandler(sales *services.SalesService, charts *services.ChartService) *SalesHandler {
	return &SalesHandler{sales: sales, charts: charts}
}

type saleRequest struct {
	ProductName  string   `json:"productName" validate:"required,max=100"`
	Category     string   `json:"category" validate:"required,max=50"`
	QuantitySold *float64 `json:"quantitySold" validate:"required,gte=0"`
	Revenue      *float64 `json:"revenue" validate:"required,gte=0"`
	SalesDate    string   `json:"salesDate" validate:"required"`
}

func (r saleRequest) toInput() (models.SaleInput, error) {
	salesDate, err := dates.Parse(r.SalesDate)
	if err != nil {
		return models.SaleInput{}, apperr.Validation(fmt.Sprintf("Invalid date: %s", r.SalesDate))
	}

	return models.SaleInput{
		ProductName:  strings.TrimSpace(r.ProductName),
		Category:     strings.TrimSpace(r.Category),
		QuantitySold: *r.QuantitySold,
		Revenue:      *r.Revenue,
		SalesDate:    salesDate,
	}, nil
}

func parseSaleRequest(c *fiber.Ctx) (models.SaleInput, error) {
	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.SaleInput{}, apperr.Validation("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return models.SaleInput{}, apperr.Validation(err.Error())
	}
	return req.toInput()
}

func (h *SalesHandler) Create(c *fiber.Ctx) error {
	input, err := parseSaleRequest(c)
	if err != nil {
		return err
	}

	userID, ok := c.Locals(middleware.LocalUserID).(primitive.ObjectID)
	if !ok {
		return apperr.Authentication("Authentication required")
	}

	sale, err := h.sales.Create(c.Context(), input, userID)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusCreated, "Sale created successfully", sale)
}

func (h *SalesHandler) List(c *fiber.Ctx) error {
	filter := services.ListFilter{Category: c.Query("category")}

	if raw := c.Query("startDate"); raw != "" {
		start, err := dates.Parse(raw)
		if err != nil {
			return apperr.Validation("Invalid startDate")
		}
		filter.StartDate = start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := dates.Parse(raw)
		if err != nil {
			return apperr.Validation("Invalid endDate")
		}
		filter.EndDate = end
	}

	sales, err := h.sales.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Sales retrieved successfully", fiber.Map{
		"count": len(sales),
		"sales": sales,
	})
}

func (h *SalesHandler) Get(c *fiber.Ctx) error {
	sale, err := h.sales.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Sale retrieved successfully", sale)
}

func (h *SalesHandler) Update(c *fiber.Ctx) error {
	input, err := parseSaleRequest(c)
	if err != nil {
		return err
	}

	sale, err := h.sales.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Sale updated successfully", sale)
}

func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.sales.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Sale deleted successfully", nil)
}

func (h *SalesHandler) ChartData(c *fiber.Ctx) error {
	data, err := h.charts.All(c.Context())
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Chart data retrieved successfully", data)
}

func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.charts.Summary(c.Context())
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Summary retrieved successfully", summary)
}

func (h *SalesHandler) Timeline(c *fiber.Ctx) error {
	points, err := h.charts.Timeline(c.Context(), c.Query("groupBy"))
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Timeline retrieved successfully", points)
}

func (h *SalesHandler) DeleteAll(c *fiber.Ctx) error {
	count, err := h.sales.DeleteAll(c.Context())
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, fmt.Sprintf("Deleted %d sales", count), fiber.Map{
		"deletedCount": count,
	})
}

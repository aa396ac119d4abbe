package services

import (
	"context"
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/utils"
)

// DefaultTopProducts is the bar chart size when no limit is given.
const DefaultTopProducts = 10

// ChartService computes chart-ready aggregations over the record store.
// Each view is a single-pass grouping over one fetched snapshot, so a
// combined fetch sees a consistent picture of the data.
type ChartService struct {
	sales  *mongo.Collection
	logger *zap.Logger
}

// NewChartService creates a ChartService over the sales collection.
func NewChartService(database *mongo.Database, logger *zap.Logger) *ChartService {
	return &ChartService{
		sales:  database.Collection("sales"),
		logger: logger,
	}
}

func (s *ChartService) snapshot(ctx context.Context) ([]models.Sale, error) {
	cursor, err := s.sales.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}

	return sales, nil
}

// CategoryRevenue returns revenue and record count per category, highest
// revenue first.
func (s *ChartService) CategoryRevenue(ctx context.Context) ([]models.CategoryRevenue, error) {
	sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateCategoryRevenue(sales), nil
}

// TopProducts returns quantity and revenue per product, highest quantity
// first, truncated to limit.
func (s *ChartService) TopProducts(ctx context.Context, limit int) ([]models.ProductQuantity, error) {
	sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateTopProducts(sales, limit), nil
}

// Summary returns the dashboard totals.
func (s *ChartService) Summary(ctx context.Context) (models.DashboardSummary, error) {
	sales, err := s.snapshot(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return Summarize(sales), nil
}

// Timeline groups sales by calendar period, earliest first. groupBy is
// one of "day", "month" or "year"; empty defaults to day.
func (s *ChartService) Timeline(ctx context.Context, groupBy string) ([]models.TimelinePoint, error) {
	layout, err := timelineLayout(groupBy)
	if err != nil {
		return nil, err
	}

	sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateTimeline(sales, layout), nil
}

// All computes the combined dashboard payload. The three views run
// concurrently over one snapshot.
func (s *ChartService) All(ctx context.Context) (models.ChartData, error) {
	sales, err := s.snapshot(ctx)
	if err != nil {
		return models.ChartData{}, err
	}

	var data models.ChartData
	errs := utils.RunParallel(
		func() error {
			data.PieChart = AggregateCategoryRevenue(sales)
			return nil
		},
		func() error {
			data.BarChart = AggregateTopProducts(sales, DefaultTopProducts)
			return nil
		},
		func() error {
			data.Summary = Summarize(sales)
			return nil
		},
	)
	if err := utils.FirstError(errs); err != nil {
		return models.ChartData{}, err
	}

	s.logger.Debug("chart data computed", zap.Int("records", len(sales)))
	return data, nil
}

func timelineLayout(groupBy string) (string, error) {
	switch groupBy {
	case "", "day":
		return "2006-01-02", nil
	case "month":
		return "2006-01", nil
	case "year":
		return "2006", nil
	default:
		return "", apperr.Validation("groupBy must be day, month or year")
	}
}

// AggregateCategoryRevenue groups sales by category, summing revenue and
// counting records, sorted by revenue descending.
func AggregateCategoryRevenue(sales []models.Sale) []models.CategoryRevenue {
	byCategory := make(map[string]*models.CategoryRevenue)
	for _, sale := range sales {
		entry, ok := byCategory[sale.Category]
		if !ok {
			entry = &models.CategoryRevenue{Category: sale.Category}
			byCategory[sale.Category] = entry
		}
		entry.Revenue += sale.Revenue
		entry.Count++
	}

	result := make([]models.CategoryRevenue, 0, len(byCategory))
	for _, entry := range byCategory {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Revenue > result[j].Revenue
	})

	return result
}

// AggregateTopProducts groups sales by product name, summing quantity
// and revenue, sorted by quantity descending and truncated to limit.
func AggregateTopProducts(sales []models.Sale, limit int) []models.ProductQuantity {
	if limit <= 0 {
		limit = DefaultTopProducts
	}

	byProduct := make(map[string]*models.ProductQuantity)
	for _, sale := range sales {
		entry, ok := byProduct[sale.ProductName]
		if !ok {
			entry = &models.ProductQuantity{Product: sale.ProductName}
			byProduct[sale.ProductName] = entry
		}
		entry.Quantity += sale.QuantitySold
		entry.Revenue += sale.Revenue
	}

	result := make([]models.ProductQuantity, 0, len(byProduct))
	for _, entry := range byProduct {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Quantity > result[j].Quantity
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}

// Summarize reduces the whole record set to dashboard totals. An empty
// set yields all zeros, including the average.
func Summarize(sales []models.Sale) models.DashboardSummary {
	summary := models.DashboardSummary{}
	categories := make(map[string]struct{})

	for _, sale := range sales {
		summary.TotalRevenue += sale.Revenue
		summary.TotalQuantity += sale.QuantitySold
		summary.TotalSales++
		categories[sale.Category] = struct{}{}
	}

	summary.CategoryCount = len(categories)
	if summary.TotalSales > 0 {
		summary.AvgRevenue = math.Round(summary.TotalRevenue/float64(summary.TotalSales)*100) / 100
	}

	return summary
}

// AggregateTimeline groups sales by the salesDate formatted with layout,
// sorted by period ascending.
func AggregateTimeline(sales []models.Sale, layout string) []models.TimelinePoint {
	byPeriod := make(map[string]*models.TimelinePoint)
	for _, sale := range sales {
		key := sale.SalesDate.Format(layout)
		entry, ok := byPeriod[key]
		if !ok {
			entry = &models.TimelinePoint{Date: key}
			byPeriod[key] = entry
		}
		entry.Revenue += sale.Revenue
		entry.Quantity += sale.QuantitySold
		entry.SalesCount++
	}

	result := make([]models.TimelinePoint, 0, len(byPeriod))
	for _, entry := range byPeriod {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/models"
)

// ListFilter narrows the sales listing. Zero values mean no filtering.
type ListFilter struct {
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

// BulkError describes one rejected row of a bulk insert.
type BulkError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BulkResult reports a bulk insert. CreatedCount can be lower than the
// number of inputs when the store rejects individual rows.
type BulkResult struct {
	CreatedCount int           `json:"createdCount"`
	Sales        []models.Sale `json:"sales"`
	Errors       []BulkError   `json:"errors,omitempty"`
}

// SalesService manages the sale record store.
type SalesService struct {
	sales  *mongo.Collection
	logger *zap.Logger
}

// NewSalesService creates a SalesService over the sales collection.
func NewSalesService(database *mongo.Database, logger *zap.Logger) *SalesService {
	return &SalesService{
		sales:  database.Collection("sales"),
		logger: logger,
	}
}

// newSale stamps a validated input into a full record attributed to the
// acting user.
func newSale(input models.SaleInput, userID primitive.ObjectID) models.Sale {
	now := time.Now()
	return models.Sale{
		ID:           primitive.NewObjectID(),
		ProductName:  input.ProductName,
		Category:     input.Category,
		QuantitySold: input.QuantitySold,
		Revenue:      input.Revenue,
		SalesDate:    input.SalesDate,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Create inserts a single sale record.
func (s *SalesService) Create(ctx context.Context, input models.SaleInput, userID primitive.ObjectID) (models.Sale, error) {
	sale := newSale(input, userID)

	if _, err := s.sales.InsertOne(ctx, sale); err != nil {
		return models.Sale{}, err
	}

	s.logger.Info("sale created", zap.String("product", sale.ProductName))
	return sale, nil
}

// List returns sales matching the filter, newest sales date first.
func (s *SalesService) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	dateRange := bson.M{}
	if !filter.StartDate.IsZero() {
		dateRange["$gte"] = filter.StartDate
	}
	if !filter.EndDate.IsZero() {
		dateRange["$lte"] = filter.EndDate
	}
	if len(dateRange) > 0 {
		query["sales_date"] = dateRange
	}

	cursor, err := s.sales.Find(ctx, query, options.Find().SetSort(bson.M{"sales_date": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}

	return sales, nil
}

// GetByID returns a single sale record.
func (s *SalesService) GetByID(ctx context.Context, id string) (models.Sale, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Sale{}, apperr.Validation("Invalid sale id")
	}

	var sale models.Sale
	err = s.sales.FindOne(ctx, bson.M{"_id": objID}).Decode(&sale)
	if err == mongo.ErrNoDocuments {
		return models.Sale{}, apperr.NotFound("Sale not found")
	}
	if err != nil {
		return models.Sale{}, err
	}

	return sale, nil
}

// Update replaces the business fields of a record with the full input.
// Attribution and creation time are preserved.
func (s *SalesService) Update(ctx context.Context, id string, input models.SaleInput) (models.Sale, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Sale{}, apperr.Validation("Invalid sale id")
	}

	update := bson.M{"$set": bson.M{
		"product_name":  input.ProductName,
		"category":      input.Category,
		"quantity_sold": input.QuantitySold,
		"revenue":       input.Revenue,
		"sales_date":    input.SalesDate,
		"updated_at":    time.Now(),
	}}

	var sale models.Sale
	err = s.sales.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&sale)
	if err == mongo.ErrNoDocuments {
		return models.Sale{}, apperr.NotFound("Sale not found")
	}
	if err != nil {
		return models.Sale{}, err
	}

	s.logger.Info("sale updated", zap.String("id", id))
	return sale, nil
}

// Delete removes a single sale record.
func (s *SalesService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("Invalid sale id")
	}

	result, err := s.sales.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Sale not found")
	}

	s.logger.Info("sale deleted", zap.String("id", id))
	return nil
}

// BulkCreate inserts validated inputs unordered, so one rejected row
// does not abort the rest of the batch. Partial failure is reported
// through the result, not as an error.
func (s *SalesService) BulkCreate(ctx context.Context, inputs []models.SaleInput, userID primitive.ObjectID) (BulkResult, error) {
	sales := make([]models.Sale, len(inputs))
	docs := make([]interface{}, len(inputs))
	for i, input := range inputs {
		sales[i] = newSale(input, userID)
		docs[i] = sales[i]
	}

	_, err := s.sales.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return BulkResult{}, err
		}

		failed := make(map[int]string, len(bulkErr.WriteErrors))
		for _, we := range bulkErr.WriteErrors {
			failed[we.Index] = we.Message
		}

		result := BulkResult{Sales: []models.Sale{}}
		for i, sale := range sales {
			if msg, ok := failed[i]; ok {
				result.Errors = append(result.Errors, BulkError{Index: i, Message: msg})
				continue
			}
			result.Sales = append(result.Sales, sale)
		}
		result.CreatedCount = len(result.Sales)

		s.logger.Warn("partial bulk insert",
			zap.Int("created", result.CreatedCount),
			zap.Int("failed", len(result.Errors)),
		)
		return result, nil
	}

	s.logger.Info("bulk created sales", zap.Int("count", len(sales)))
	return BulkResult{CreatedCount: len(sales), Sales: sales}, nil
}

// DeleteAll wipes the record store and returns the removed count. The
// HTTP layer restricts this to admins outside production.
func (s *SalesService) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.sales.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}

	s.logger.Info("deleted all sales", zap.Int64("count", result.DeletedCount))
	return result.DeletedCount, nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale is a persisted sales record. Every record is attributed to the
// user that created it, but reads and aggregations span all records.
type Sale struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName  string             `bson:"product_name" json:"productName"`
	Category     string             `bson:"category" json:"category"`
	QuantitySold float64            `bson:"quantity_sold" json:"quantitySold"`
	Revenue      float64            `bson:"revenue" json:"revenue"`
	SalesDate    time.Time          `bson:"sales_date" json:"salesDate"`
	CreatedBy    primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// SaleInput is a validated sale payload before attribution and insert.
// Both single submissions and spreadsheet imports produce this shape.
type SaleInput struct {
	ProductName  string    `json:"productName"`
	Category     string    `json:"category"`
	QuantitySold float64   `json:"quantitySold"`
	Revenue      float64   `json:"revenue"`
	SalesDate    time.Time `json:"salesDate"`
}

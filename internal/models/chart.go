package models

// CategoryRevenue is one pie chart slice: revenue and record count for a
// single category.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Count    int     `json:"count"`
}

// ProductQuantity is one bar chart entry: total quantity and revenue for
// a single product.
type ProductQuantity struct {
	Product  string  `json:"product"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DashboardSummary aggregates the whole record store. All fields are
// zero when there are no records, including AvgRevenue.
type DashboardSummary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalSales    int     `json:"totalSales"`
	AvgRevenue    float64 `json:"avgRevenue"`
	CategoryCount int     `json:"categoryCount"`
}

// TimelinePoint is one period in the sales-over-time series.
type TimelinePoint struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	Quantity   float64 `json:"quantity"`
	SalesCount int     `json:"salesCount"`
}

// ChartData bundles all dashboard views for a single fetch.
type ChartData struct {
	PieChart []CategoryRevenue `json:"pieChart"`
	BarChart []ProductQuantity `json:"barChart"`
	Summary  DashboardSummary  `json:"summary"`
}

package models

// StatusCount is one row of a per-status booking aggregation.
type StatusCount struct {
	Status string  `bson:"_id" json:"status"`
	Count  int     `bson:"count" json:"count"`
	Amount float64 `bson:"amount" json:"amount"`
}

// WorkerAnalytics is the worker dashboard summary.
type WorkerAnalytics struct {
	TotalBookings  int            `json:"totalBookings"`
	ByStatus       map[string]int `json:"byStatus"`
	Earnings       float64        `json:"earnings"`
	PendingPayout  float64        `json:"pendingPayout"`
	CompletionRate float64        `json:"completionRate"`
	AverageRating  float64        `json:"averageRating"`
	ReviewCount    int            `json:"reviewCount"`
}

// UserAnalytics is the client dashboard summary.
type UserAnalytics struct {
	TotalBookings  int            `json:"totalBookings"`
	ByStatus       map[string]int `json:"byStatus"`
	TotalSpent     float64        `json:"totalSpent"`
	ReviewsWritten int            `json:"reviewsWritten"`
}

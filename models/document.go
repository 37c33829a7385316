package models

import "time"

// CarDocument is the typed projection of a cleaned listing indexed into
// Elasticsearch. The URL doubles as the document id; it is also stored in the
// body so search results carry it without an extra metadata lookup.
//
// The classification fields are placeholders for the downstream price
// classification stage; they serialize with defaults so every indexed
// document has the full field set from day one.
type CarDocument struct {
	URL          string  `json:"url"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	Odometer     int     `json:"odometer"`
	Transmission string  `json:"transmission"`
	Condition    string  `json:"condition"`
	Fuel         string  `json:"fuel"`
	Type         string  `json:"type"`

	Region      string     `json:"region,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Vin         string     `json:"vin,omitempty"`
	PaintColor  string     `json:"paint_color,omitempty"`
	PostingDate *time.Time `json:"posting_date,omitempty"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	PriceClassification    string    `json:"price_classification"`
	PredictedPrice         float64   `json:"predicted_price"`
	PriceDifferencePercent float64   `json:"price_difference_percent"`
	ClassificationDate     time.Time `json:"classification_date"`
}

// RunResult summarizes one cleanup run. Returned by the orchestrator and
// serialized as-is by the manual trigger endpoint.
type RunResult struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	RowsRead    int64         `json:"rows_read"`
	RowsWritten int64         `json:"rows_written"`
	RowsDropped int64         `json:"rows_dropped"`
	Errors      int64         `json:"errors"`
	Inserted    int64         `json:"inserted"`
	BlobName    string        `json:"blob_name,omitempty"`
	Duration    time.Duration `json:"duration"`
}

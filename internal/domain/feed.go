package domain

// Provenance tags where feed records came from.
type Provenance string

const (
	ProvenanceLive Provenance = "live"
	ProvenanceMock Provenance = "mock"
)

// FeedItem is one scored and classified pair.
type FeedItem struct {
	SignalRecord
	Score   int         `json:"riskScore"`
	Tier    Tier        `json:"riskLevel"`
	Anomaly AnomalyType `json:"anomalyType"`
}

// Feed is the ordered dashboard data source.
type Feed struct {
	Source    Provenance `json:"source"`
	Count     int        `json:"count"`
	Timestamp int64      `json:"timestamp"`
	Items     []FeedItem `json:"data"`
}

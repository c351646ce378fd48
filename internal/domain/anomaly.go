package domain

// AnomalyType labels the kind of unusual activity detected on a pair.
type AnomalyType string

const (
	AnomalyNewPool        AnomalyType = "NEW_POOL"
	AnomalyLiquiditySpike AnomalyType = "LIQUIDITY_SPIKE"
	AnomalyUnusualVolume  AnomalyType = "UNUSUAL_VOLUME"
	AnomalyNewToken       AnomalyType = "NEW_TOKEN"
	AnomalyWhaleEntry     AnomalyType = "WHALE_ENTRY"
	AnomalyRapidMint      AnomalyType = "RAPID_MINT"
)

var anomalyLabels = map[AnomalyType]string{
	AnomalyNewPool:        "New Pool",
	AnomalyLiquiditySpike: "Liquidity Spike",
	AnomalyUnusualVolume:  "Unusual Volume",
	AnomalyNewToken:       "New Token",
	AnomalyWhaleEntry:     "Whale Entry",
	AnomalyRapidMint:      "Rapid Mint",
}

// String returns the string representation of AnomalyType.
func (a AnomalyType) String() string {
	return string(a)
}

// Label returns the human readable label, or the raw value if unknown.
func (a AnomalyType) Label() string {
	if l, ok := anomalyLabels[a]; ok {
		return l
	}
	return string(a)
}

// IsValid checks if the anomaly type is a valid value.
func (a AnomalyType) IsValid() bool {
	_, ok := anomalyLabels[a]
	return ok
}

// AnomalyTypes returns all anomaly types.
func AnomalyTypes() []AnomalyType {
	return []AnomalyType{
		AnomalyNewPool,
		AnomalyLiquiditySpike,
		AnomalyUnusualVolume,
		AnomalyNewToken,
		AnomalyWhaleEntry,
		AnomalyRapidMint,
	}
}

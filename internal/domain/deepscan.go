package domain

// DeepScanRequest identifies the contract to scan.
type DeepScanRequest struct {
	ContractAddress string `json:"contractAddress"`
	PairLabel       string `json:"pair"`
}

// DeepScanResult is the transient outcome of one deep scan.
// It is never cached; a repeated query re-fetches everything.
type DeepScanResult struct {
	Flags         []string       `json:"flags"`
	Positives     []string       `json:"positives"`
	AuxScore      int            `json:"riskScore"`
	Tier          Tier           `json:"riskLevel"`
	RawDetails    map[string]any `json:"details"`
	Partial       bool           `json:"partial"`
	FailedLookups []string       `json:"failedLookups,omitempty"`
}

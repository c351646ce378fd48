package ingestion

import (
	"errors"
	"sort"
	"strings"

	"base-signal-radar/internal/evm"
)

// ErrInvalidOrdering is returned when logs are not properly ordered.
var ErrInvalidOrdering = errors.New("logs are not in deterministic order")

// SortLogs orders logs by (block ASC, tx_hash ASC, log_index ASC).
// This provides deterministic ordering based on chain order.
func SortLogs(logs []evm.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		return compareLogs(logs[i], logs[j]) < 0
	})
}

// ValidateLogOrdering checks that logs are strictly ordered.
func ValidateLogOrdering(logs []evm.Log) error {
	for i := 1; i < len(logs); i++ {
		if compareLogs(logs[i-1], logs[i]) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// newest returns the last n logs in chain order.
func newest(logs []evm.Log, n int) []evm.Log {
	if n <= 0 || len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}

// compareLogs returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
//
// Order: (block ASC, tx_hash ASC, log_index ASC)
func compareLogs(a, b evm.Log) int {
	if a.BlockNumber != b.BlockNumber {
		if a.BlockNumber < b.BlockNumber {
			return -1
		}
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.TxHash), strings.ToLower(b.TxHash)); c != 0 {
		return c
	}
	if a.LogIndex != b.LogIndex {
		if a.LogIndex < b.LogIndex {
			return -1
		}
		return 1
	}
	return 0
}

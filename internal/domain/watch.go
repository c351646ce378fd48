package domain

// WatchEntry holds the tracking and alert toggles for a pair.
// PairID is opaque to the scoring core.
type WatchEntry struct {
	PairID    string `json:"pairId"`
	Tracked   bool   `json:"tracked"`
	Alert     bool   `json:"alert"`
	UpdatedAt int64  `json:"updatedAt"` // Unix ms
}

// WatchPatch is a partial update to a WatchEntry. Nil flags keep their
// stored value, or false for a new entry.
type WatchPatch struct {
	Tracked   *bool
	Alert     *bool
	UpdatedAt int64 // Unix ms
}

// Empty reports whether the patch changes no flag.
func (p WatchPatch) Empty() bool {
	return p.Tracked == nil && p.Alert == nil
}

// internal/events/history.go
package events

import (
	"github.com/Halcyonic/VoidTrader/internal/models"
)

// HistoryLog is the append-only record of fired events. Records are never
// mutated or removed; retention is the caller's concern.
type HistoryLog struct {
	records []models.HistoryRecord
}

// NewHistoryLog creates an empty history log.
func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

// Record appends one entry.
func (h *HistoryLog) Record(rec models.HistoryRecord) {
	h.records = append(h.records, rec)
}

// Recent returns the last limit records in chronological order. A non-positive
// limit returns an empty slice.
func (h *HistoryLog) Recent(limit int) []models.HistoryRecord {
	if limit <= 0 {
		return nil
	}
	start := len(h.records) - limit
	if start < 0 {
		start = 0
	}
	out := make([]models.HistoryRecord, len(h.records)-start)
	copy(out, h.records[start:])
	return out
}

// Len returns the number of recorded entries.
func (h *HistoryLog) Len() int {
	return len(h.records)
}

// All returns a copy of the full history in chronological order.
func (h *HistoryLog) All() []models.HistoryRecord {
	out := make([]models.HistoryRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Counts aggregates fired events per event id.
func (h *HistoryLog) Counts() map[string]int {
	counts := make(map[string]int)
	for _, rec := range h.records {
		counts[rec.EventID]++
	}
	return counts
}

// mostCommon returns the event id with the highest count. Ties resolve to
// the id whose first record appears earliest in the history.
func (h *HistoryLog) mostCommon() (string, int) {
	counts := make(map[string]int)
	var best string
	bestCount := 0
	for _, rec := range h.records {
		counts[rec.EventID]++
	}
	seen := make(map[string]bool)
	for _, rec := range h.records {
		if seen[rec.EventID] {
			continue
		}
		seen[rec.EventID] = true
		if counts[rec.EventID] > bestCount {
			best = rec.EventID
			bestCount = counts[rec.EventID]
		}
	}
	return best, bestCount
}

// Package nutrition loads the food lookup table and joins detections against it.
package nutrition

import (
	"sort"

	"github.com/timmy/foodlens/internal/domain"
)

// Table is the read-only id -> FoodRecord mapping built once at startup.
// A nil *Table behaves as an empty table.
type Table struct {
	records map[int]domain.FoodRecord
	skipped int
}

// NewTable builds a table from records. Later records win on duplicate ids.
func NewTable(records []domain.FoodRecord) *Table {
	t := &Table{records: make(map[int]domain.FoodRecord, len(records))}
	for _, r := range records {
		t.records[r.ID] = r
	}
	return t
}

// Empty returns a table with no records.
func Empty() *Table {
	return &Table{records: map[int]domain.FoodRecord{}}
}

// Lookup returns the record for id, if any.
func (t *Table) Lookup(id int) (domain.FoodRecord, bool) {
	if t == nil {
		return domain.FoodRecord{}, false
	}
	r, ok := t.records[id]
	return r, ok
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Skipped returns how many source rows were dropped while loading.
func (t *Table) Skipped() int {
	if t == nil {
		return 0
	}
	return t.skipped
}

// Records returns a copy of all records ordered by id.
func (t *Table) Records() []domain.FoodRecord {
	if t == nil {
		return []domain.FoodRecord{}
	}
	out := make([]domain.FoodRecord, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

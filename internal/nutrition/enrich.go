package nutrition

import (
	"fmt"

	"github.com/timmy/foodlens/internal/domain"
)

// ContainerClassID is the class the model uses for dishes and tableware.
// It is excluded from nutrition totals.
const ContainerClassID = 0

// UnknownName is the display name for a class id missing from the table.
func UnknownName(classID int) string {
	return fmt.Sprintf("Unknown (ID: %d)", classID)
}

// Enrich joins one detection against the table by exact class id.
// Either every nutrition field and the solution are set, or neither is.
func Enrich(det domain.DetectionRecord, table *Table) domain.EnrichedResult {
	result := domain.EnrichedResult{
		ClassID:    det.ClassID,
		Confidence: det.Confidence,
		Box:        det.Box,
	}

	food, ok := table.Lookup(det.ClassID)
	if !ok {
		result.Name = UnknownName(det.ClassID)
		return result
	}

	nutrition := food.Nutrition()
	result.Name = food.Name
	result.Nutrition = &nutrition
	result.Solution = &domain.Solution{Supplements: food.Supplements}
	return result
}

// EnrichAll enriches every detection, preserving order. The result is never nil.
func EnrichAll(dets []domain.DetectionRecord, table *Table) []domain.EnrichedResult {
	results := make([]domain.EnrichedResult, 0, len(dets))
	for _, det := range dets {
		results = append(results, Enrich(det, table))
	}
	return results
}

// Summarize totals nutrition over known results, skipping the container class.
func Summarize(results []domain.EnrichedResult) domain.Nutrition {
	var total domain.Nutrition
	for _, r := range results {
		if r.ClassID == ContainerClassID || !r.Known() {
			continue
		}
		total = total.Add(*r.Nutrition)
	}
	return total
}

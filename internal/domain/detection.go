package domain

// Box is a bounding box in pixel coordinates: x1, y1, x2, y2.
type Box [4]float64

// DetectionRecord is one object reported by a detection backend.
type DetectionRecord struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// EnrichedResult is a detection joined against the lookup table.
// Nutrition and Solution are both nil when the class id is not in the table.
type EnrichedResult struct {
	ClassID    int        `json:"class_id"`
	Name       string     `json:"name"`
	Confidence float64    `json:"confidence"`
	Box        Box        `json:"box"`
	Nutrition  *Nutrition `json:"nutrition"`
	Solution   *Solution  `json:"solution"`
}

// Known reports whether the result was matched against the lookup table.
func (r EnrichedResult) Known() bool {
	return r.Nutrition != nil
}

// AnalysisResult is the body of a successful analyze response.
type AnalysisResult struct {
	Success        bool             `json:"success"`
	Count          int              `json:"count"`
	Detections     []EnrichedResult `json:"detections"`
	ImagePath      string           `json:"image_path"`
	TotalNutrition *Nutrition       `json:"total_nutrition,omitempty"`
}

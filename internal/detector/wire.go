package detector

import (
	"fmt"

	"github.com/timmy/foodlens/internal/domain"
)

// predictResponse is the JSON document produced by the remote inference server and by
// detector commands. It matches the detection fields of the Python YOLO server.
type predictResponse struct {
	Success    *bool          `json:"success,omitempty"`
	Detections []rawDetection `json:"detections"`
	Error      string         `json:"error,omitempty"`
}

type rawDetection struct {
	ClassID    int       `json:"class_id"`
	Confidence float64   `json:"confidence"`
	Box        []float64 `json:"box"`
}

// records converts the raw payload, rejecting malformed boxes.
func (p *predictResponse) records() ([]domain.DetectionRecord, error) {
	if p.Success != nil && !*p.Success {
		return nil, fmt.Errorf("backend reported failure: %s", p.Error)
	}

	out := make([]domain.DetectionRecord, 0, len(p.Detections))
	for i, d := range p.Detections {
		if len(d.Box) != 4 {
			return nil, fmt.Errorf("detection %d: box has %d coordinates, want 4", i, len(d.Box))
		}
		out = append(out, domain.DetectionRecord{
			ClassID:    d.ClassID,
			Confidence: d.Confidence,
			Box:        domain.Box{d.Box[0], d.Box[1], d.Box[2], d.Box[3]},
		})
	}
	return out, nil
}

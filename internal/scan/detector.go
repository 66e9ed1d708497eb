package scan

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable means the inference service could not complete
	// a required stage; the scan fails without any ledger mutation.
	ErrModelUnavailable = errors.New("vision model unavailable")
	// ErrTimeout means the caller-supplied deadline expired mid-pipeline.
	ErrTimeout = errors.New("analysis timed out")
)

// Detection is one object-detection hit.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classification is one whole-image classification label.
type Classification struct {
	Label string `json:"label"`
}

// Detector is the external object-detection/classification model service.
// Implementations are swappable; the pipeline only depends on this surface.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) ([]Detection, error)
	Classify(ctx context.Context, imageData []byte) ([]Classification, error)
}

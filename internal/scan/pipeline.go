package scan

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Pipeline runs the room-image analysis stages in order: downscale,
// palette extraction, object detection, room-type inference, rule-based
// category/tag/vibe/avoid derivation, summary composition. Stages that
// have inputs are never skipped; a text-only scan is valid and yields an
// analysis with empty image-derived fields.
type Pipeline struct {
	detector    Detector
	maxSide     int
	sampleStep  int
	paletteSize int
	confidence  float64
}

func NewPipeline(detector Detector, confidence float64) *Pipeline {
	if confidence == 0 {
		confidence = 0.45
	}
	return &Pipeline{
		detector:    detector,
		maxSide:     640,
		sampleStep:  16,
		paletteSize: 5,
		confidence:  confidence,
	}
}

// Analyze produces a room analysis for an optional image and optional
// free-text description. The caller bounds the run with a context
// deadline; an expired deadline surfaces as ErrTimeout. Detection failure
// fails the scan (ErrModelUnavailable); classification failure degrades
// to an empty label list.
func (p *Pipeline) Analyze(ctx context.Context, imageData []byte, text string) (*Analysis, error) {
	a := &Analysis{}
	lower := strings.ToLower(text)
	a.AvoidTags = avoidTagsFromText(lower)

	if len(imageData) > 0 {
		img, err := decodeAndDownscale(imageData, p.maxSide)
		if err != nil {
			return nil, err
		}
		a.Palette = extractPalette(img, p.sampleStep, p.paletteSize)

		encoded, err := encodeJPEG(img)
		if err != nil {
			return nil, err
		}

		if p.detector == nil {
			return nil, fmt.Errorf("%w: no detector configured", ErrModelUnavailable)
		}

		detections, err := p.detector.Detect(ctx, encoded)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("%w: detect: %v", ErrModelUnavailable, err)
		}
		a.Objects = distinctLabels(detections, p.confidence)

		labels, err := p.detector.Classify(ctx, encoded)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
			log.Printf("[SCAN] classify failed (continuing without it): %v", err)
		} else {
			for i, l := range labels {
				if i == 3 {
					break
				}
				a.ClassifierLabels = append(a.ClassifierLabels, l.Label)
			}
		}

		a.VibeTags = vibesFromPalette(a.Palette)
	}

	a.RoomType = inferRoomType(a.Objects)
	objCats, objTags := applyObjectRules(a.Objects)
	textCats, textTags := applyTextRules(lower)

	var cats []string
	if a.RoomType != "" {
		cats = append(cats, a.RoomType)
	}
	cats = append(cats, objCats...)
	cats = append(cats, textCats...)
	a.RecommendedCategories = dedupStrings(cats)

	var tags []string
	tags = append(tags, a.VibeTags...)
	tags = append(tags, objTags...)
	tags = append(tags, textTags...)
	a.RecommendedTags = dedupStrings(tags)

	a.Summary = composeSummary(a)
	a.ProductIdeas = buildProductIdeas(a.Objects, a.Palette, a.RecommendedCategories, a.RecommendedTags, a.RoomType)

	log.Printf("[SCAN] analysis: room=%q objects=%d vibes=%v cats=%v",
		a.RoomType, len(a.Objects), a.VibeTags, a.RecommendedCategories)
	return a, nil
}

func composeSummary(a *Analysis) string {
	room := a.RoomType
	if room == "" {
		room = "a room"
	}
	vibe := "a flexible"
	if len(a.VibeTags) > 0 {
		vibe = strings.Join(a.VibeTags, ", ")
	}
	cats := joinTop(a.RecommendedCategories, 3, "core decor")
	tags := joinTop(a.RecommendedTags, 3, "cozy upgrades")
	return fmt.Sprintf("Detected %s with %s vibe. Recommend %s and %s.", room, vibe, cats, tags)
}

func joinTop(items []string, n int, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func distinctLabels(detections []Detection, minConfidence float64) []string {
	seen := make(map[string]struct{}, len(detections))
	var out []string
	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		out = append(out, d.Label)
	}
	return out
}

package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

type fakeDetector struct {
	detections  []Detection
	labels      []Classification
	detectErr   error
	classifyErr error
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	return f.detections, nil
}

func (f *fakeDetector) Classify(ctx context.Context, imageData []byte) ([]Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	return f.labels, nil
}

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestAnalyzeBedroomScan(t *testing.T) {
	det := &fakeDetector{
		detections: []Detection{
			{Label: "bed", Confidence: 0.92},
			{Label: "lamp", Confidence: 0.51},
			{Label: "rug", Confidence: 0.30},
			{Label: "bed", Confidence: 0.88},
		},
		labels: []Classification{{Label: "bedroom"}, {Label: "interior"}},
	}
	p := NewPipeline(det, 0.45)

	teal := solidPNG(t, 64, 64, color.RGBA{R: 0, G: 128, B: 128, A: 255})
	a, err := p.Analyze(context.Background(), teal, "")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Low-confidence rug is dropped and the duplicate bed collapses.
	if len(a.Objects) != 2 || !a.HasObject("bed") || !a.HasObject("lamp") {
		t.Errorf("objects = %v", a.Objects)
	}
	if a.RoomType != "bedroom" {
		t.Errorf("room type = %q", a.RoomType)
	}
	if len(a.Palette) != 1 || a.Palette[0] != "#008080" {
		t.Errorf("palette = %v", a.Palette)
	}
	if !containsString(a.VibeTags, "teal") || !containsString(a.VibeTags, "modern") {
		t.Errorf("vibe tags = %v", a.VibeTags)
	}
	if !containsString(a.RecommendedCategories, "bedroom") || !containsString(a.RecommendedCategories, "bedding") {
		t.Errorf("categories = %v", a.RecommendedCategories)
	}
	if !strings.HasPrefix(a.Summary, "Detected bedroom with ") {
		t.Errorf("summary = %q", a.Summary)
	}

	// Lamp was detected, so the only structural ideas left are the rug and
	// the teal-balancing accent.
	var ideaCats []string
	for _, idea := range a.ProductIdeas {
		ideaCats = append(ideaCats, idea.Category)
	}
	if containsString(ideaCats, "lighting") {
		t.Errorf("lamp idea should be suppressed: %v", ideaCats)
	}
	if !containsString(ideaCats, "rugs") || !containsString(ideaCats, "decor") {
		t.Errorf("idea categories = %v", ideaCats)
	}
}

func TestAnalyzeTextOnly(t *testing.T) {
	p := NewPipeline(nil, 0)

	a, err := p.Analyze(context.Background(), nil, "Cozy storage ideas, NO CLUTTER please")
	if err != nil {
		t.Fatalf("text-only scan failed: %v", err)
	}

	if len(a.Palette) != 0 || len(a.Objects) != 0 || len(a.VibeTags) != 0 {
		t.Errorf("image-derived fields should be empty: palette=%v objects=%v vibes=%v",
			a.Palette, a.Objects, a.VibeTags)
	}
	if a.RoomType != "" {
		t.Errorf("room type = %q, expected none", a.RoomType)
	}
	if !containsString(a.RecommendedCategories, "storage") {
		t.Errorf("categories = %v", a.RecommendedCategories)
	}
	if !containsString(a.RecommendedTags, "cozy") {
		t.Errorf("tags = %v", a.RecommendedTags)
	}
	if len(a.AvoidTags) != 1 || a.AvoidTags[0] != "cluttered" {
		t.Errorf("avoid tags = %v", a.AvoidTags)
	}
}

func TestAnalyzeImageWithoutDetector(t *testing.T) {
	p := NewPipeline(nil, 0)
	img := solidPNG(t, 16, 16, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	_, err := p.Analyze(context.Background(), img, "")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestAnalyzeDetectFailure(t *testing.T) {
	det := &fakeDetector{detectErr: errors.New("connection refused")}
	p := NewPipeline(det, 0)
	img := solidPNG(t, 16, 16, color.RGBA{A: 255})

	_, err := p.Analyze(context.Background(), img, "")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	det := &fakeDetector{}
	p := NewPipeline(det, 0)
	img := solidPNG(t, 16, 16, color.RGBA{A: 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, img, "")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestAnalyzeClassifyFailureDegrades(t *testing.T) {
	det := &fakeDetector{
		detections:  []Detection{{Label: "couch", Confidence: 0.8}},
		classifyErr: errors.New("model overloaded"),
	}
	p := NewPipeline(det, 0)
	img := solidPNG(t, 16, 16, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	a, err := p.Analyze(context.Background(), img, "")
	if err != nil {
		t.Fatalf("classification failure should not fail the scan: %v", err)
	}
	if len(a.ClassifierLabels) != 0 {
		t.Errorf("classifier labels = %v", a.ClassifierLabels)
	}
	if a.RoomType != "living room" {
		t.Errorf("room type = %q", a.RoomType)
	}
}

func TestAnalyzeClassifierLabelCap(t *testing.T) {
	det := &fakeDetector{
		labels: []Classification{
			{Label: "a"}, {Label: "b"}, {Label: "c"}, {Label: "d"}, {Label: "e"},
		},
	}
	p := NewPipeline(det, 0)
	img := solidPNG(t, 16, 16, color.RGBA{A: 255})

	a, err := p.Analyze(context.Background(), img, "")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(a.ClassifierLabels) != 3 {
		t.Errorf("classifier labels = %v, expected top 3", a.ClassifierLabels)
	}
}

func TestDecodeAndDownscaleCapsLongestSide(t *testing.T) {
	wide := solidPNG(t, 1300, 200, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	img, err := decodeAndDownscale(wide, 640)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 640 {
		t.Errorf("width = %d, expected 640", got)
	}

	small := solidPNG(t, 100, 50, color.RGBA{A: 255})
	img, err = decodeAndDownscale(small, 640)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("small image should pass through untouched, got %v", img.Bounds())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodeAndDownscale([]byte("not an image"), 640); err == nil {
		t.Error("expected decode error")
	}
}

func TestExtractPaletteOrdersByFrequency(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 48 {
				img.SetRGBA(x, y, color.RGBA{R: 0, G: 128, B: 128, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
			}
		}
	}

	palette := extractPalette(img, 16, 5)
	if len(palette) != 2 {
		t.Fatalf("palette = %v, expected 2 colors", palette)
	}
	if palette[0] != "#008080" {
		t.Errorf("dominant color = %s, expected #008080", palette[0])
	}
}

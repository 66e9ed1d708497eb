package scan

import (
	"fmt"
	"image"
	"sort"
)

// extractPalette samples every sampleStep-th pixel, quantizes channels
// into coarse 32-wide buckets and returns the most frequent bucket
// centers as hex strings, top paletteSize first.
func extractPalette(img image.Image, sampleStep, paletteSize int) []string {
	if sampleStep < 1 {
		sampleStep = 1
	}
	bounds := img.Bounds()

	type rgb struct{ r, g, b int }
	buckets := make(map[rgb]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += sampleStep {
		for x := bounds.Min.X; x < bounds.Max.X; x += sampleStep {
			r, g, b, _ := img.At(x, y).RGBA()
			key := rgb{
				r: quantize(int(r >> 8)),
				g: quantize(int(g >> 8)),
				b: quantize(int(b >> 8)),
			}
			buckets[key]++
		}
	}

	type entry struct {
		color rgb
		count int
	}
	entries := make([]entry, 0, len(buckets))
	for c, n := range buckets {
		entries = append(entries, entry{c, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		// deterministic order for equal counts
		a, b := entries[i].color, entries[j].color
		if a.r != b.r {
			return a.r < b.r
		}
		if a.g != b.g {
			return a.g < b.g
		}
		return a.b < b.b
	})

	if len(entries) > paletteSize {
		entries = entries[:paletteSize]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("#%02x%02x%02x", clamp8(e.color.r), clamp8(e.color.g), clamp8(e.color.b))
	}
	return out
}

func quantize(v int) int {
	return (v + 16) / 32 * 32
}

func clamp8(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}

// Package screen reduces a captured frame to a single colour.
package screen

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strings"
)

type Algorithm func(img *image.RGBA, pixelGridSize int) color.RGBA

var algorithms = map[string]Algorithm{
	"AVERAGE":         AverageColor,
	"SQUARED_AVERAGE": SquaredAverageColor,
	"MEDIAN":          MedianColor,
	"MODE":            ModeColor,
}

// Lookup resolves a COLOR_ALGO name.
func Lookup(name string) (Algorithm, error) {
	if algo, ok := algorithms[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return algo, nil
	}
	return nil, fmt.Errorf("unknown color algorithm: %v", name)
}

// sample calls fn for every pixelGridSize-th pixel of img.
func sample(img *image.RGBA, pixelGridSize int, fn func(c color.RGBA)) {
	step := max(1, pixelGridSize)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			fn(img.RGBAAt(x, y))
		}
	}
}

func AverageColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var sumR, sumG, sumB, sumA, total uint64
	sample(img, pixelGridSize, func(c color.RGBA) {
		total++
		sumR += uint64(c.R)
		sumG += uint64(c.G)
		sumB += uint64(c.B)
		sumA += uint64(c.A)
	})
	if total == 0 {
		return color.RGBA{}
	}

	return color.RGBA{
		R: uint8(sumR / total),
		G: uint8(sumG / total),
		B: uint8(sumB / total),
		A: uint8(sumA / total),
	}
}

// SquaredAverageColor calculates the root mean square colour of the image
func SquaredAverageColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var sumR, sumG, sumB, sumA, total uint64
	sample(img, pixelGridSize, func(c color.RGBA) {
		total++
		sumR += uint64(c.R) * uint64(c.R)
		sumG += uint64(c.G) * uint64(c.G)
		sumB += uint64(c.B) * uint64(c.B)
		sumA += uint64(c.A) * uint64(c.A)
	})
	if total == 0 {
		return color.RGBA{}
	}

	return color.RGBA{
		R: uint8(math.Sqrt(float64(sumR / total))),
		G: uint8(math.Sqrt(float64(sumG / total))),
		B: uint8(math.Sqrt(float64(sumB / total))),
		A: uint8(math.Sqrt(float64(sumA / total))),
	}
}

// MedianColor calculates the per channel median colour of the image
func MedianColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var reds, greens, blues, alphas []uint8
	sample(img, pixelGridSize, func(c color.RGBA) {
		reds = append(reds, c.R)
		greens = append(greens, c.G)
		blues = append(blues, c.B)
		alphas = append(alphas, c.A)
	})
	if len(reds) == 0 {
		return color.RGBA{}
	}

	median := func(values []uint8) uint8 {
		slices.Sort(values)
		n := len(values)
		if n%2 == 0 {
			return uint8((int(values[n/2-1]) + int(values[n/2])) / 2)
		}
		return values[n/2]
	}

	return color.RGBA{
		R: median(reds),
		G: median(greens),
		B: median(blues),
		A: median(alphas),
	}
}

// ModeColor calculates the most frequent colour of the image
func ModeColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	colorCount := make(map[color.RGBA]int)
	sample(img, pixelGridSize, func(c color.RGBA) {
		colorCount[c]++
	})

	var modeColor color.RGBA
	maxCount := 0
	for c, count := range colorCount {
		if count > maxCount || (count == maxCount && less(c, modeColor)) {
			maxCount = count
			modeColor = c
		}
	}

	return modeColor
}

// less breaks ties so ModeColor does not depend on map order.
func less(a, b color.RGBA) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	if a.B != b.B {
		return a.B < b.B
	}
	return a.A < b.A
}

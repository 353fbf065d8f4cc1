package lights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    Color
	}{
		{"red", 0, 1, 1, Color{255, 0, 0}},
		{"green", 120, 1, 1, Color{0, 255, 0}},
		{"blue", 240, 1, 1, Color{0, 0, 255}},
		{"wraps past 360", 480, 1, 1, Color{0, 255, 0}},
		{"negative hue wraps", -120, 1, 1, Color{0, 0, 255}},
		{"grey when unsaturated", 200, 0, 0.5, Color{127, 127, 127}},
		{"black", 42, 1, 0, Color{}},
		{"clamps out of range inputs", 0, 3, -1, Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HSV(tt.h, tt.s, tt.v))
		})
	}
}

func TestHSVToRGBIsTotal(t *testing.T) {
	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1e9, 1e9, 359.9999}
	for _, h := range inputs {
		assert.NotPanics(t, func() { HSVToRGB(h, 0.5, 0.5) })
	}
	for h := -720.0; h <= 720; h += 7.5 {
		HSVToRGB(h, 1, 1)
	}
}

func TestKelvinToRGBStaysInRange(t *testing.T) {
	for k := -500; k <= 45000; k += 37 {
		r, g, b := KelvinToRGB(k)
		assert.LessOrEqual(t, int(r), 255)
		assert.LessOrEqual(t, int(g), 255)
		assert.LessOrEqual(t, int(b), 255)
	}
	assert.Equal(t, Kelvin(1000), Kelvin(10))
	assert.Equal(t, Kelvin(40000), Kelvin(90000))
}

func TestKelvinToRGBContinuousAtBreakpoints(t *testing.T) {
	const epsilon = 4

	below := Kelvin(6599)
	above := Kelvin(6601)
	assert.InDelta(t, float64(below.Red), float64(above.Red), epsilon)
	assert.InDelta(t, float64(below.Blue), float64(above.Blue), epsilon)

	below = Kelvin(1899)
	above = Kelvin(1901)
	assert.InDelta(t, float64(below.Blue), float64(above.Blue), epsilon)
}

func TestKelvinWarmAndCoolOrdering(t *testing.T) {
	warm := Kelvin(2700)
	cool := Kelvin(6500)

	assert.Equal(t, uint8(255), warm.Red)
	assert.Greater(t, warm.Red, warm.Blue)
	assert.InDelta(t, 255, float64(cool.Red), 1)
	assert.Greater(t, cool.Blue, warm.Blue)
	assert.Greater(t, cool.Green, warm.Green)
}

func TestRGBToHSB(t *testing.T) {
	h, s, b := RGBToHSB(255, 0, 0)
	assert.Equal(t, uint16(0), h)
	assert.Equal(t, uint16(0xFFFF), s)
	assert.Equal(t, uint16(0xFFFF), b)

	h, _, _ = RGBToHSB(0, 0, 255)
	assert.InDelta(t, 2.0/3.0*0xFFFF, float64(h), 1)

	h, _, _ = RGBToHSB(255, 0, 128)
	assert.InDelta(t, (1-128.0/255/6)*0xFFFF, float64(h), 1)

	for _, hue := range []float64{0, 45, 120, 200, 300} {
		c := HSV(hue, 1, 1)
		h, _, _ = RGBToHSB(c.Red, c.Green, c.Blue)
		assert.InDelta(t, hue/360*0xFFFF, float64(h), 0.01*0xFFFF, "hue %v", hue)
	}

	_, s, b = RGBToHSB(128, 128, 128)
	assert.Equal(t, uint16(0), s)
	assert.InDelta(t, 128.0/255*0xFFFF, float64(b), 1)
}

func TestClampChannel(t *testing.T) {
	assert.Equal(t, uint8(0), ClampChannel(-20))
	assert.Equal(t, uint8(255), ClampChannel(300))
	assert.Equal(t, uint8(17), ClampChannel(17))
}

package lights

import "math"

type Color struct {
	Red   uint8 `json:"r"`
	Green uint8 `json:"g"`
	Blue  uint8 `json:"b"`
}

var (
	Black = Color{}
	White = Color{Red: 255, Green: 255, Blue: 255}
)

// HSVToRGB converts a hue in degrees with saturation and value in [0,1].
// Hue wraps modulo 360, saturation and value are clamped.
func HSVToRGB(hue, saturation, value float64) (uint8, uint8, uint8) {
	if math.IsNaN(hue) || math.IsInf(hue, 0) {
		hue = 0
	}
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	s := clampUnit(saturation)
	v := clampUnit(value)

	if s == 0 {
		c := to255(v)
		return c, c, c
	}

	hh := hue / 60.0
	i := int(hh)
	ff := hh - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*ff)
	t := v * (1.0 - s*(1.0-ff))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return to255(r), to255(g), to255(b)
}

// HSV is HSVToRGB returning a Color.
func HSV(hue, saturation, value float64) Color {
	r, g, b := HSVToRGB(hue, saturation, value)
	return Color{Red: r, Green: g, Blue: b}
}

// KelvinToRGB approximates the colour of a black body at the given
// temperature (Tanner Helland's fit). Input is clamped to [1000, 40000].
func KelvinToRGB(kelvin int) (uint8, uint8, uint8) {
	temp := float64(max(1000, min(40000, kelvin))) / 100.0

	var r, g, b float64
	if temp <= 66 {
		r = 255
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}

	switch {
	case temp >= 66:
		b = 255
	case temp <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	return clampByte(r), clampByte(g), clampByte(b)
}

// Kelvin is KelvinToRGB returning a Color.
func Kelvin(kelvin int) Color {
	r, g, b := KelvinToRGB(kelvin)
	return Color{Red: r, Green: g, Blue: b}
}

// RGBToHSB converts to the 16 bit hue, saturation and brightness used by LIFX.
// Hue is the hexagonal hue scaled so that a full turn maps to 0xFFFF.
func RGBToHSB(r, g, b uint8) (uint16, uint16, uint16) {
	hue, sat, val := rgbToHSV(r, g, b)
	return scale16(hue / 360), scale16(sat), scale16(val)
}

// rgbToHSV is the inverse of HSVToRGB, with hue in degrees.
func rgbToHSV(r, g, b uint8) (hue, sat, val float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	val = max(rf, gf, bf)
	chroma := val - min(rf, gf, bf)
	if chroma == 0 {
		return 0, 0, val
	}

	var sector float64
	switch val {
	case rf:
		sector = math.Mod((gf-bf)/chroma+6, 6)
	case gf:
		sector = (bf-rf)/chroma + 2
	default:
		sector = (rf-gf)/chroma + 4
	}
	return sector * 60, chroma / val, val
}

func scale16(f float64) uint16 {
	return uint16(math.Round(clampUnit(f) * 0xFFFF))
}

func clampUnit(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

func to255(f float64) uint8 {
	return uint8(clampUnit(f) * 255)
}

func clampByte(f float64) uint8 {
	if math.IsNaN(f) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, f)))
}

// ClampChannel clamps an integer channel value into a byte.
func ClampChannel(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

package effects

import (
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

type spookyState struct {
	strobe     sequence
	lastStrobe time.Duration
}

func spooky() Effect {
	return Effect{
		Name:        "spooky",
		Description: "Halloween orange/purple flickers",
		Category:    "THEMED CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval * 8 / 10,
			Begin: func(elapsed time.Duration, c *Context) {
				s := stateOf[spookyState](c)
				if s.strobe.next(c) {
					return
				}
				if elapsed-s.lastStrobe > 6*time.Second && c.Rand.Float64() < 0.09 {
					for range 3 {
						s.strobe.push(lights.White, 60*time.Millisecond)
						s.strobe.push(lights.Black, 60*time.Millisecond)
					}
					s.lastStrobe = elapsed
					s.strobe.next(c)
				}
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				s := stateOf[spookyState](c)
				if s.strobe.active {
					return lights.Set(s.strobe.color)
				}

				var hue, sat, val float64
				if c.Rand.Float64() < 0.6 {
					hue = 30 + c.uniform(-8, 8)
					sat = 0.9 + c.uniform(-0.1, 0)
					val = 0.5 + c.uniform(-0.15, 0.25)
				} else {
					hue = 275 + c.uniform(-10, 10)
					sat = 0.8 + c.uniform(-0.1, 0.1)
					val = 0.3 + c.uniform(-0.12, 0.5)
				}
				if c.Rand.Float64() < 0.08 {
					val = min(1, val+c.uniform(0.2, 0.6))
				}
				col := lights.HSV(hue, sat, val)
				col.Red = lights.ClampChannel(int(col.Red) + c.between(-8, 8))
				col.Green = lights.ClampChannel(int(col.Green) + c.between(-8, 8))
				col.Blue = lights.ClampChannel(int(col.Blue) + c.between(-8, 8))
				return lights.Set(col)
			},
		},
	}
}

const (
	partySame = iota
	partyIndividual
	partyStrobe
)

type partyState struct {
	strobe sequence
	mode   int
	color  lights.Color
}

func party() Effect {
	return Effect{
		Name:        "party",
		Description: "random colorful flashing",
		Category:    "RAINBOW CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: 250 * time.Millisecond,
			Begin: func(_ time.Duration, c *Context) {
				s := stateOf[partyState](c)
				if s.strobe.next(c) {
					return
				}
				s.mode = c.Rand.IntN(3)
				switch s.mode {
				case partySame:
					s.color = lights.HSV(c.uniform(0, 360), c.uniform(0.7, 1), c.uniform(0.6, 1))
					c.Delay = c.seconds(0.1, 0.4)
				case partyIndividual:
					c.Delay = c.seconds(0.15, 0.5)
				case partyStrobe:
					for range c.between(2, 5) {
						s.strobe.push(lights.HSV(c.uniform(0, 360), 1, 1), 50*time.Millisecond)
						s.strobe.push(lights.Black, 50*time.Millisecond)
					}
					s.strobe.extend(c.seconds(0.2, 0.6))
					s.strobe.next(c)
				}
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				s := stateOf[partyState](c)
				switch {
				case s.strobe.active:
					return lights.Set(s.strobe.color)
				case s.mode == partyIndividual:
					return lights.Set(lights.HSV(c.uniform(0, 360), c.uniform(0.7, 1), c.uniform(0.5, 1)))
				default:
					return lights.Set(s.color)
				}
			},
		},
	}
}

type dangerState struct {
	frames sequence
}

var dangerRed = lights.Color{Red: 255}

func danger() Effect {
	return Effect{
		Name:        "danger",
		Description: "scary red strobe alarm",
		Category:    "THEMED CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: 100 * time.Millisecond,
			Begin: func(_ time.Duration, c *Context) {
				s := stateOf[dangerState](c)
				if s.frames.next(c) {
					return
				}
				switch c.Rand.IntN(3) {
				case 0: // fast strobe
					for range c.between(3, 8) {
						s.frames.push(dangerRed, 50*time.Millisecond)
						s.frames.push(lights.Black, 50*time.Millisecond)
					}
					s.frames.extend(c.seconds(0.3, 0.8))
				case 1: // slow pulse
					for i := 0; i < 255; i += 20 {
						s.frames.push(lights.Color{Red: uint8(i)}, 30*time.Millisecond)
					}
					for i := 255; i > 0; i -= 20 {
						s.frames.push(lights.Color{Red: uint8(i)}, 30*time.Millisecond)
					}
				default: // flicker
					for range c.between(5, 15) {
						s.frames.push(lights.Color{Red: uint8(c.between(150, 255))}, c.seconds(0.02, 0.1))
					}
				}
				s.frames.next(c)
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				return lights.Set(stateOf[dangerState](c).frames.color)
			},
		},
	}
}

func rgb(r, g, b uint8) lights.Color {
	return lights.Color{Red: r, Green: g, Blue: b}
}

var seasonPalettes = map[string][]lights.Color{
	"winter": {rgb(180, 220, 255), rgb(200, 230, 255), rgb(150, 200, 255), rgb(255, 255, 255)},
	"spring": {rgb(100, 255, 150), rgb(150, 255, 200), rgb(255, 200, 220), rgb(200, 255, 255)},
	"summer": {rgb(255, 255, 100), rgb(255, 200, 50), rgb(255, 150, 50), rgb(255, 100, 100)},
	"fall":   {rgb(255, 140, 0), rgb(255, 100, 50), rgb(200, 80, 40), rgb(180, 50, 30)},
}

// Season names the meteorological season of month in the northern hemisphere.
func Season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

type seasonalState struct {
	index int
	color lights.Color
}

func seasonal() Effect {
	return Effect{
		Name:        "seasonal",
		Description: "colors based on current season",
		Category:    "THEMED CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval * 3,
			Begin: func(_ time.Duration, c *Context) {
				s := stateOf[seasonalState](c)
				palette := seasonPalettes[Season(c.Started.Month())]
				base := palette[s.index%len(palette)]
				s.color = lights.Color{
					Red:   lights.ClampChannel(int(base.Red) + c.between(-15, 15)),
					Green: lights.ClampChannel(int(base.Green) + c.between(-15, 15)),
					Blue:  lights.ClampChannel(int(base.Blue) + c.between(-15, 15)),
				}
				if c.Rand.Float64() < 0.05 {
					s.index++
				}
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				return lights.Set(stateOf[seasonalState](c).color)
			},
		},
	}
}

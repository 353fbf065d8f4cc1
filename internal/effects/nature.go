package effects

import (
	"math"
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

var stormSky = lights.Color{Red: 30, Green: 30, Blue: 50}

type lightningState struct {
	strike sequence
	last   time.Duration
	gap    time.Duration
	sky    lights.Color
}

func lightning() Effect {
	return Effect{
		Name:        "lightning",
		Description: "stormy skies with lightning",
		Category:    "NATURE CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval * 2,
			Begin: func(elapsed time.Duration, c *Context) {
				s := stateOf[lightningState](c)
				if s.strike.next(c) {
					return
				}
				if s.gap == 0 {
					s.gap = c.seconds(1, 5)
				}
				if elapsed-s.last <= s.gap {
					s.sky = lights.Color{
						Red:   uint8(c.between(25, 40)),
						Green: uint8(c.between(25, 40)),
						Blue:  uint8(c.between(40, 60)),
					}
					return
				}

				switch c.Rand.IntN(3) {
				case 0:
					s.strike.push(lights.White, c.seconds(0.03, 0.08))
					s.strike.push(stormSky, SendInterval*2)
				case 1:
					for range 2 {
						s.strike.push(lights.White, c.seconds(0.02, 0.05))
						s.strike.push(stormSky, c.seconds(0.1, 0.2))
					}
				default:
					for range 3 {
						v := uint8(c.between(200, 255))
						s.strike.push(lights.Color{Red: v, Green: v, Blue: v}, c.seconds(0.02, 0.04))
						s.strike.push(stormSky, c.seconds(0.05, 0.15))
					}
				}
				s.last = elapsed
				s.gap = c.seconds(1, 5)
				s.strike.next(c)
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				s := stateOf[lightningState](c)
				if s.strike.active {
					return lights.Set(s.strike.color)
				}
				return lights.Set(s.sky)
			},
		},
	}
}

func waterfall() Effect {
	return Effect{
		Name:        "waterfall",
		Description: "flowing blues and white",
		Category:    "NATURE CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval * 8 / 10,
			Color: func(elapsed time.Duration, index int, c *Context) lights.Command {
				if c.Rand.Float64() < 0.15 {
					return lights.Set(lights.Color{
						Red:   uint8(c.between(200, 255)),
						Green: uint8(c.between(220, 255)),
						Blue:  uint8(c.between(240, 255)),
					})
				}
				wave := math.Sin(elapsed.Seconds()*2.0+float64(index)*0.5)*0.5 + 0.5
				baseBlue := int(wave*100 + 100)
				return lights.Set(lights.Color{
					Red:   uint8(c.between(0, 30)),
					Green: uint8(c.between(40, 100)),
					Blue:  lights.ClampChannel(c.between(baseBlue, min(255, baseBlue+80))),
				})
			},
		},
	}
}

type reactiveState struct {
	color lights.Color
}

// reactive pulses like a sound level meter. There is no microphone input,
// the level is a jittered sine.
func reactive() Effect {
	return Effect{
		Name:        "reactive",
		Description: "pulses like music (simulated audio level)",
		Category:    "INTERACTIVE",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval,
			Begin: func(elapsed time.Duration, c *Context) {
				level := (math.Sin(elapsed.Seconds()*3.0) + 1.0) / 2.0
				level = math.Max(0, math.Min(1, level*c.uniform(0.7, 1.3)))
				stateOf[reactiveState](c).color = lights.HSV((1.0-level)*240, 0.9, 0.3+level*0.7)
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				return lights.Set(stateOf[reactiveState](c).color)
			},
		},
	}
}

package effects

import (
	"math"
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

// SendInterval is the default pause between colour updates.
const SendInterval = 120 * time.Millisecond

func rainbowInUnison() Effect {
	return Effect{
		Name:        "rainbow_in_unison",
		Description: "all lights cycle colors together",
		Category:    "RAINBOW CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval,
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				hue := math.Mod(float64(c.Iteration)*3.0, 360)
				return lights.Set(lights.HSV(hue, 1, 1))
			},
		},
	}
}

func rainbow() Effect {
	return Effect{
		Name:        "rainbow",
		Description: "lights cycle colors with offsets",
		Category:    "RAINBOW CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval,
			Color: func(elapsed time.Duration, index int, c *Context) lights.Command {
				base := math.Mod(float64(c.Iteration)*2.0, 360)
				offset := float64(index) * (360.0 / float64(max(1, c.Devices)))
				local := math.Mod(elapsed.Seconds()*10.0+float64(index)*7, 360)
				hue := math.Mod(base+offset+local*0.02, 360)
				return lights.Set(lights.HSV(hue, 1, 1))
			},
		},
	}
}

func fungi() Effect {
	return Effect{
		Name:        "fungi",
		Description: "psychedelic funky animation",
		Category:    "RAINBOW CONTROLS",
		Kind:        Background,
		Pattern: Pattern{
			Interval: SendInterval,
			Color: func(elapsed time.Duration, index int, c *Context) lights.Command {
				t := elapsed.Seconds()
				i := float64(index)
				wave1 := math.Sin(t*1.5 + i*0.8)
				wave2 := math.Cos(t*2.3 + i*1.2)
				wave3 := math.Sin(t*0.7 + i*0.5)

				hue := math.Mod((wave1+wave2+wave3)*60+t*30+i*40, 360)
				col := lights.HSV(hue, 0.8+wave1*0.2, 0.6+wave2*0.3)

				if c.Rand.Float64() < 0.05 {
					col.Red = lights.ClampChannel(int(col.Red) + c.between(50, 100))
					col.Green = lights.ClampChannel(int(col.Green) + c.between(50, 100))
					col.Blue = lights.ClampChannel(int(col.Blue) + c.between(50, 100))
				}
				return lights.Set(col)
			},
		},
	}
}

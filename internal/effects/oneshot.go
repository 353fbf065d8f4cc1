package effects

import "github.com/scheerer/wiz-lights/internal/lights"

const DefaultKelvin = 4000

func white() Effect {
	return Effect{
		Name:        "white",
		Description: "set to white color temperature",
		Category:    "UTILITIES",
		Kind:        OneShot,
		Params: []ParamSpec{
			{Name: "kelvin", Prompt: "Temperature in Kelvin (2700 warm, 4000 neutral, 6500 daylight)", Default: DefaultKelvin, Min: 1000, Max: 10000},
		},
		Once: func(p Params) lights.Command {
			return lights.Set(lights.Kelvin(p.Int("kelvin", DefaultKelvin)))
		},
	}
}

func rgba() Effect {
	return Effect{
		Name:        "rgba",
		Description: "set custom RGBA color",
		Category:    "UTILITIES",
		Kind:        OneShot,
		Params: []ParamSpec{
			{Name: "r", Prompt: "Red (0-255)", Default: 255, Min: 0, Max: 255},
			{Name: "g", Prompt: "Green (0-255)", Default: 255, Min: 0, Max: 255},
			{Name: "b", Prompt: "Blue (0-255)", Default: 255, Min: 0, Max: 255},
			{Name: "dimming", Prompt: "Dimming (0-100, where 100=brightest)", Default: 100, Min: 0, Max: 100},
		},
		Once: func(p Params) lights.Command {
			return lights.NewCommand(p.Int("r", 255), p.Int("g", 255), p.Int("b", 255), 0, p.Int("dimming", 100))
		},
	}
}

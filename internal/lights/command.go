package lights

const (
	DefaultBrightness = 100
	MaxBrightness     = 100
)

// Command is one setPilot request. Transition is in milliseconds and
// Brightness is the WiZ dimming percentage.
type Command struct {
	Color      Color
	Transition int
	Brightness int
}

// NewCommand builds a command, clamping every field into range.
func NewCommand(r, g, b, transitionMs, brightness int) Command {
	return Command{
		Color: Color{
			Red:   ClampChannel(r),
			Green: ClampChannel(g),
			Blue:  ClampChannel(b),
		},
		Transition: max(0, transitionMs),
		Brightness: max(0, min(MaxBrightness, brightness)),
	}
}

// Set is a full-brightness, instant command for c.
func Set(c Color) Command {
	return Command{Color: c, Brightness: DefaultBrightness}
}

// Clamped returns the command with transition and brightness forced into range.
func (c Command) Clamped() Command {
	c.Transition = max(0, c.Transition)
	c.Brightness = max(0, min(MaxBrightness, c.Brightness))
	return c
}

package effects

import (
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
	"github.com/scheerer/wiz-lights/internal/screen"
)

var logger = logging.New("effects")

// ScreenOptions configure the screen mirroring effect.
type ScreenOptions struct {
	CaptureInterval time.Duration
	ColorAlgo       string
	PixelGridSize   int
	ScreenNumber    int
	// Capture grabs a display. Defaults to screenshot.CaptureDisplay.
	Capture func(display int) (*image.RGBA, error)
}

type screenState struct {
	color       lights.Color
	lastWarning time.Time
}

func screenColors(opts ScreenOptions) (Effect, error) {
	algo, err := screen.Lookup(opts.ColorAlgo)
	if err != nil {
		return Effect{}, err
	}
	capture := opts.Capture
	if capture == nil {
		capture = screenshot.CaptureDisplay
	}
	interval := opts.CaptureInterval
	if interval <= 0 {
		interval = 80 * time.Millisecond
	}

	return Effect{
		Name:        "screen",
		Description: "follow the average color of the screen",
		Category:    "INTERACTIVE",
		Kind:        Background,
		Pattern: Pattern{
			Interval: interval,
			Begin: func(_ time.Duration, c *Context) {
				s := stateOf[screenState](c)
				startTime := time.Now()
				img, err := capture(opts.ScreenNumber)
				if err != nil {
					logger.With(zap.Int("screen", opts.ScreenNumber), zap.Error(err)).Error("Failed to capture screen")
					return
				}
				px := algo(img, opts.PixelGridSize)
				s.color = lights.Color{Red: px.R, Green: px.G, Blue: px.B}

				if took := time.Since(startTime); took > interval && time.Since(s.lastWarning) > 10*time.Second {
					logger.With(zap.Duration("captureDuration", took), zap.Duration("interval", interval)).
						Warn("Cannot keep up with CAPTURE_INTERVAL. Consider increasing PIXEL_GRID_SIZE or increasing CAPTURE_INTERVAL.")
					s.lastWarning = time.Now()
				}
			},
			Color: func(_ time.Duration, _ int, c *Context) lights.Command {
				cmd := lights.Set(stateOf[screenState](c).color)
				cmd.Transition = 50
				return cmd
			},
		},
	}, nil
}

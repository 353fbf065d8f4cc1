package effects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/scheerer/wiz-lights/internal/lights"
)

// SynthKeys maps number keys to flash colours.
var SynthKeys = map[rune]lights.Color{
	'1': rgb(255, 0, 0),
	'2': rgb(255, 127, 0),
	'3': rgb(255, 255, 0),
	'4': rgb(0, 255, 0),
	'5': rgb(0, 255, 255),
	'6': rgb(0, 0, 255),
	'7': rgb(127, 0, 255),
	'8': rgb(255, 0, 255),
	'9': rgb(255, 255, 255),
	'0': rgb(0, 0, 0),
}

func synth() Effect {
	return Effect{
		Name:        "synth",
		Description: "flash colors with number keys",
		Category:    "INTERACTIVE",
		Kind:        Foreground,
		Run:         runSynth,
	}
}

// runSynth flashes the selection on key presses until q, end of input or
// cancellation. Output uses \r\n since the terminal is usually raw.
func runSynth(ctx context.Context, stage Stage) error {
	out := stage.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprint(out, "\r\n=== Synth Mode ===\r\nPress number keys 1-9 and 0 to flash different colors.\r\nPress 'q' to quit synth mode.\r\n")
	defer fmt.Fprint(out, "\r\nExiting synth mode.\r\n")

	for {
		key, err := stage.Keys.ReadKey(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			return err
		}

		if unicode.ToLower(key) == 'q' {
			return nil
		}
		col, ok := SynthKeys[key]
		if !ok {
			continue
		}
		stage.Dispatcher.SetColor(ctx, stage.Selection, lights.Set(col))
		fmt.Fprintf(out, "Flash: %c -> RGB(%d, %d, %d)\r\n", key, col.Red, col.Green, col.Blue)
	}
}

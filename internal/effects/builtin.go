package effects

// Builtin returns a registry holding every effect shipped with the program.
func Builtin(screenOpts ScreenOptions) (*Registry, error) {
	r := NewRegistry()
	r.MustRegister(
		rainbowInUnison(),
		rainbow(),
		party(),
		fungi(),
		spooky(),
		seasonal(),
		danger(),
		lightning(),
		waterfall(),
		reactive(),
		synth(),
	)

	scr, err := screenColors(screenOpts)
	if err != nil {
		return nil, err
	}
	if err := r.Register(scr); err != nil {
		return nil, err
	}

	r.MustRegister(white(), rgba())
	return r, nil
}

// Package ui is the line oriented terminal front end: device selection,
// the effect menu and parameter prompts, plus raw key input for
// interactive effects.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/scheerer/wiz-lights/internal/effects"
)

const (
	OptionChangeBulbs = "change_bulbs"
	OptionRescan      = "rescan"
	OptionQuit        = "quit"

	DefaultEffect = "rainbow_in_unison"
)

var options = []struct{ name, description string }{
	{OptionChangeBulbs, "select different bulbs"},
	{OptionRescan, "scan network for new bulbs"},
	{OptionQuit, "exit the program"},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88C0D0"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("#81A1C1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EBCB8B"))
)

// Request is the operator's answer to the effect menu.
type Request struct {
	Name   string
	Params effects.Params
}

type input struct {
	r   rune
	err error
}

// Terminal reads operator input from in and writes menus to out. Reads
// are cancellable; a single goroutine owns in.
type Terminal struct {
	in  io.Reader
	out io.Writer

	start  sync.Once
	inputs chan input

	mu  sync.Mutex
	err error
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		inputs: make(chan input),
	}
}

func (t *Terminal) Out() io.Writer {
	return t.out
}

func (t *Terminal) Notify(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) warn(format string, args ...any) {
	fmt.Fprintln(t.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Terminal) pump() {
	r := bufio.NewReader(t.in)
	for {
		c, _, err := r.ReadRune()
		t.inputs <- input{r: c, err: err}
		if err != nil {
			return
		}
	}
}

// ReadKey returns the next rune from the input.
func (t *Terminal) ReadKey(ctx context.Context) (rune, error) {
	t.mu.Lock()
	err := t.err
	t.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.start.Do(func() { go t.pump() })

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case in := <-t.inputs:
		if in.err != nil {
			t.mu.Lock()
			t.err = in.err
			t.mu.Unlock()
			return 0, in.err
		}
		return in.r, nil
	}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned before io.EOF.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	var sb strings.Builder
	for {
		r, err := t.ReadKey(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		switch r {
		case '\n':
			return sb.String(), nil
		case '\r':
		default:
			sb.WriteRune(r)
		}
	}
}

func (t *Terminal) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(t.out, text)
	line, err := t.ReadLine(ctx)
	return strings.TrimSpace(line), err
}

// KeyInput switches the terminal to raw mode when in is a terminal. The
// returned function restores it. Ctrl+C and Ctrl+D end key input.
func (t *Terminal) KeyInput(context.Context) (effects.KeyReader, func(), error) {
	restore := func() {}
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return nil, restore, fmt.Errorf("entering raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(int(f.Fd()), state) }
	}
	return rawKeys{t}, restore, nil
}

type rawKeys struct {
	t *Terminal
}

func (k rawKeys) ReadKey(ctx context.Context) (rune, error) {
	r, err := k.t.ReadKey(ctx)
	if err != nil {
		return 0, err
	}
	if r == 3 || r == 4 {
		return 0, io.EOF
	}
	return r, nil
}

// WaitContinue blocks until the operator presses Enter. It reports false
// when the operator asked to quit or input ended.
func (t *Terminal) WaitContinue(ctx context.Context) (bool, error) {
	line, err := t.prompt(ctx, "\nPress Enter to change mode, or type q and Enter to quit: ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return false, nil
	}
	return true, nil
}

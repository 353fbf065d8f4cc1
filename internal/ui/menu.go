package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/scheerer/wiz-lights/internal/effects"
	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/util"
)

func (t *Terminal) listDevices(records []lights.DeviceRecord) {
	for i, rec := range records {
		fmt.Fprintf(t.out, "  [%d] %s\n", i, rec)
	}
}

// SelectDevices asks which devices of table to control. With an empty
// current selection a blank answer selects everything; otherwise a blank
// or unusable answer keeps current.
func (t *Terminal) SelectDevices(ctx context.Context, table lights.DeviceTable, current lights.Selection) (lights.Selection, error) {
	records := table.Records()
	if len(records) == 0 {
		t.Notify("No devices discovered.")
		return nil, nil
	}
	all := make([]lights.Address, len(records))
	for i, rec := range records {
		all[i] = rec.Address
	}

	var text string
	if current.Empty() {
		fmt.Fprintln(t.out, titleStyle.Render("\nDiscovered WiZ lights:"))
		t.listDevices(records)
		text = "\nEnter comma-separated indices to select lights (or 'a' for all) [a]: "
	} else {
		fmt.Fprintln(t.out, titleStyle.Render("\n=== Change Bulb Selection ==="))
		fmt.Fprintf(t.out, "Currently selected: %d bulb(s)\n", len(current))
		for _, a := range current {
			if name := table[a].Name(); name != "" {
				fmt.Fprintf(t.out, "  - %s (%s)\n", a, name)
			} else {
				fmt.Fprintf(t.out, "  - %s\n", a)
			}
		}
		fmt.Fprintln(t.out, sectionStyle.Render("Available lights:"))
		t.listDevices(records)
		text = "\nEnter comma-separated indices (or 'a' for all, Enter to keep current): "
	}

	answer, err := t.prompt(ctx, text)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(answer) {
	case "":
		if current.Empty() {
			return lights.NewSelection(all...), nil
		}
		return current.Clone(), nil
	case "a", "all":
		return lights.NewSelection(all...), nil
	}

	chosen := lights.NewSelection(parseIndices(answer, all)...)
	if chosen.Empty() && !current.Empty() {
		return current.Clone(), nil
	}
	return chosen, nil
}

func parseIndices(answer string, all []lights.Address) []lights.Address {
	var out []lights.Address
	for _, chunk := range strings.Split(answer, ",") {
		idx, ok := util.ParseIntIn(chunk, 0, len(all)-1)
		if !ok {
			continue
		}
		out = append(out, all[idx])
	}
	return out
}

func (t *Terminal) showMenu(catalogue []effects.Effect) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(t.out, "\n"+line)
	fmt.Fprintln(t.out, titleStyle.Render(fmt.Sprintf("%38s", "AVAILABLE CONTROLS")))
	fmt.Fprintln(t.out, line)

	category := ""
	for _, e := range catalogue {
		if e.Category != category {
			category = e.Category
			fmt.Fprintln(t.out, sectionStyle.Render(category+":"))
		}
		fmt.Fprintf(t.out, "  %-18s - %s\n", e.Name, e.Description)
	}
	fmt.Fprintln(t.out, sectionStyle.Render("OPTIONS:"))
	for _, o := range options {
		fmt.Fprintf(t.out, "  %-18s - %s\n", o.name, o.description)
	}
	fmt.Fprintln(t.out, "\n"+line)
}

// resolve matches a typed name exactly or by unique prefix. An ambiguous
// prefix picks the first match in menu order; no match returns the input.
func (t *Terminal) resolve(choice string, names []string) string {
	if choice == "" {
		return DefaultEffect
	}
	var matches []string
	for _, n := range names {
		if n == choice {
			return n
		}
		if strings.HasPrefix(n, choice) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return choice
	case 1:
		return matches[0]
	default:
		t.warn("Ambiguous choice '%s'. Matches: %s. Using %s.", choice, strings.Join(matches, ", "), matches[0])
		return matches[0]
	}
}

// NextRequest shows the menu, reads a control name and prompts for the
// chosen effect's parameters.
func (t *Terminal) NextRequest(ctx context.Context, catalogue []effects.Effect) (Request, error) {
	t.showMenu(catalogue)

	names := make([]string, 0, len(catalogue)+len(options))
	for _, e := range catalogue {
		names = append(names, e.Name)
	}
	for _, o := range options {
		names = append(names, o.name)
	}

	choice, err := t.prompt(ctx, fmt.Sprintf("Choose control [%s]: ", DefaultEffect))
	if err != nil {
		return Request{}, err
	}
	req := Request{Name: t.resolve(strings.ToLower(choice), names), Params: effects.Params{}}

	for _, e := range catalogue {
		if e.Name != req.Name {
			continue
		}
		for _, ps := range e.Params {
			v, err := t.askInt(ctx, ps)
			if err != nil {
				return Request{}, err
			}
			req.Params[ps.Name] = strconv.Itoa(v)
		}
	}
	return req, nil
}

func (t *Terminal) askInt(ctx context.Context, ps effects.ParamSpec) (int, error) {
	for {
		answer, err := t.prompt(ctx, fmt.Sprintf("%s [%d]: ", ps.Prompt, ps.Default))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return ps.Default, nil
		}
		v, ok := util.ParseIntIn(answer, ps.Min, ps.Max)
		if !ok {
			t.warn("Please enter a number between %d and %d.", ps.Min, ps.Max)
			continue
		}
		return v, nil
	}
}

package viz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// SetupPanel lists the components of an assembled setup.
func SetupPanel(s *assembler.Setup) string {
	lines := []string{
		Title.Render("simulation assembled"),
		"",
		row("zone", s.Zone.Name()),
		row("aircraft", s.Aircraft.Name()),
		row("stepper", s.Stepper.Name()),
		row("pilot", s.Pilot.Name()),
		row("time", fmt.Sprintf("%gs by %gs, %d sub-steps", s.Time.Limit, s.Time.Step, s.Time.SubSteps)),
	}
	if c, ok := s.Pilot.(dynamo.Configurable); ok {
		params := c.GetParams()
		names := lo.Keys(params)
		sort.Strings(names)
		parts := lo.Map(names, func(n string, _ int) string { return fmt.Sprintf("%s=%g", n, params[n]) })
		lines = append(lines, row("pilot params", strings.Join(parts, " ")))
	}
	if s.StateLogPath != "" {
		lines = append(lines, row("state log", s.StateLogPath))
	}
	if s.ZoneLogPath != "" {
		lines = append(lines, row("zone log", s.ZoneLogPath))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// FailurePanel explains an assembly failure. Errors that did not come
// from the assembler are shown as-is.
func FailurePanel(err error) string {
	var ae *assembler.AssemblyError
	if !errors.As(err, &ae) {
		return FailPanel.Render(Fail.Render("error") + "\n\n" + err.Error())
	}

	lines := []string{
		Fail.Render(ae.Kind.Error()),
		"",
		row("operation", ae.Op),
	}
	if ae.Selector >= 0 {
		sel := fmt.Sprint(ae.Selector)
		if ae.Variant != "" {
			sel += " (" + ae.Variant + ")"
		}
		lines = append(lines, row("selector", sel))
	}
	if len(ae.Keys) > 0 {
		lines = append(lines, row("keys", strings.Join(ae.Keys, ", ")))
	}
	if ae.Cause != nil {
		lines = append(lines, row("cause", ae.Cause.Error()))
	}
	return FailPanel.Render(strings.Join(lines, "\n"))
}

// Plot draws one series as an ASCII line chart.
func Plot(series []float64, caption string) string {
	if len(series) == 0 {
		return Subtle.Render("no data: " + caption)
	}
	return asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

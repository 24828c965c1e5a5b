package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/flight"
)

const historyCapacity = 600

var (
	liveStats = lipgloss.NewStyle().Padding(1, 2)
	liveGraph = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Padding(1, 0)
	liveHelp  = Subtle.MarginTop(1)
)

type TickMsg time.Time

// Live flies an assembled setup one decision per frame and shows the
// altitude, airspeed and bank as they evolve.
type Live struct {
	setup   *assembler.Setup
	flight  *flight.Flight
	initial dynamo.State
	session *flight.Session
	frame   time.Duration

	running bool
	err     error

	altitude []float64
	airspeed []float64
	bank     []float64
}

// NewLive starts a flight of s from its aircraft's current state. fps
// below one falls back to 30 frames per second.
func NewLive(s *assembler.Setup, fps int) (Live, error) {
	if fps < 1 {
		fps = 30
	}
	m := Live{
		setup:   s,
		flight:  flight.New(s),
		initial: s.Aircraft.State().Clone(),
		frame:   time.Second / time.Duration(fps),
		running: true,
	}
	if err := m.reset(); err != nil {
		return Live{}, err
	}
	return m, nil
}

func (m Live) Init() tea.Cmd {
	return m.tick()
}

func (m Live) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		}
	case TickMsg:
		if m.running && !m.session.Done() {
			m.session.Step()
			m.record(m.session.State())
		}
		return m, m.tick()
	}
	return m, nil
}

// reset puts the aircraft back to its initial state and starts a new
// session.
func (m *Live) reset() error {
	m.setup.Aircraft.SetState(m.initial.Clone())
	s, err := m.flight.Start(m.setup.Time)
	if err != nil {
		return err
	}
	m.session = s
	m.altitude = m.altitude[:0]
	m.airspeed = m.airspeed[:0]
	m.bank = m.bank[:0]
	m.record(s.State())
	return nil
}

func (m *Live) record(x dynamo.State) {
	m.altitude = appendCapped(m.altitude, x[aircraft.IZ])
	m.airspeed = appendCapped(m.airspeed, x[aircraft.IV])
	m.bank = appendCapped(m.bank, x[aircraft.ISigma]*dynamo.ToDeg)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Live) status() string {
	switch {
	case m.err != nil:
		return Fail.Render(m.err.Error())
	case m.session.Done():
		return Ok.Render(strings.ToUpper(m.session.Reason()))
	case !m.running:
		return Subtle.Render("PAUSED")
	}
	return Ok.Render("FLYING")
}

func (m Live) View() string {
	x := m.session.State()

	var s strings.Builder
	s.WriteString(Title.Render(fmt.Sprintf("%s in %s", m.setup.Pilot.Name(), m.setup.Zone.Name())) + "\n")
	s.WriteString(m.status() + "\n")
	if len(m.altitude) > 1 {
		chart := asciigraph.Plot(m.altitude, asciigraph.Height(6), asciigraph.Width(50), asciigraph.Caption("altitude (m)"))
		s.WriteString(liveGraph.Render(chart) + "\n")
	}
	s.WriteString(row("time", fmt.Sprintf("%.2fs / %gs", m.session.Time(), m.setup.Time.Limit)) + "\n")
	s.WriteString(row("altitude", fmt.Sprintf("%.1f m", x[aircraft.IZ])) + "\n")
	s.WriteString(row("airspeed", fmt.Sprintf("%.2f m/s", x[aircraft.IV])) + "  " + Sparkline(m.airspeed, 30) + "\n")
	s.WriteString(row("bank", fmt.Sprintf("%.1f deg", x[aircraft.ISigma]*dynamo.ToDeg)) + "  " + Sparkline(m.bank, 30) + "\n")
	s.WriteString(liveHelp.Render("SP:Pause R:Reset Q:Quit"))
	return liveStats.Render(s.String())
}

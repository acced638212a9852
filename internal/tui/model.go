package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"shockwave/internal/core"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// headerRows is the number of lines drawn above the grid.
const headerRows = 1

// cellColumns is how many terminal columns one grid cell occupies.
const cellColumns = 2

var shades = []rune{' ', '·', '░', '▒', '▓', '█'}

// Model is the Bubbletea model for the terminal front end.
type Model struct {
	sim     core.Sim
	spawner core.Spawner
	clock   *core.FixedStep
	rng     *core.RNG
	springs springField
	seed    int64

	paused   bool
	quitting bool
	err      error
}

// New creates a Model that steps sim at tps ticks per second.
func New(sim core.Sim, tps int, seed int64) Model {
	if tps <= 0 {
		tps = 30
	}
	m := Model{
		sim:     sim,
		clock:   core.NewFixedStep(tps),
		rng:     core.NewRNG(seed),
		springs: newSpringField(tps, 8, 0.6),
		seed:    seed,
	}
	if sp, ok := sim.(core.Spawner); ok {
		m.spawner = sp
	}
	m.springs.resize(sim.Size().Cells(), core.MidLevel)
	return m
}

// Err reports the simulation error that stopped the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.clock.Interval()), tea.SetWindowTitle("shockwave: "+m.sim.Name()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case " ", "p":
			m.paused = !m.paused
		case "n":
			return m.advance(1)
		case "r":
			m.sim.Reset(m.seed)
		case "s":
			m.spawnRandom()
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.spawnAtScreen(msg.X, msg.Y)
		}
		return m, nil

	case tickMsg:
		steps := m.clock.Due(time.Time(msg))
		if m.paused {
			steps = 0
		}
		next, cmd := m.advance(steps)
		if cmd != nil {
			return next, cmd
		}
		return next, tickCmd(m.clock.Interval())
	}
	return m, nil
}

// advance steps the sim and stops the program on the first error.
func (m Model) advance(steps int) (Model, tea.Cmd) {
	for i := 0; i < steps; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) spawnRandom() {
	if m.spawner == nil {
		return
	}
	size := m.sim.Size()
	m.spawner.SpawnAt(float64(m.rng.Range(0, float32(size.W-1))), float64(m.rng.Range(0, float32(size.H-1))))
}

func (m Model) spawnAtScreen(x, y int) {
	if m.spawner == nil {
		return
	}
	size := m.sim.Size()
	gx, gy := x/cellColumns, y-headerRows
	if gx < 0 || gy < 0 || gx >= size.W || gy >= size.H {
		return
	}
	m.spawner.SpawnAt(float64(gx), float64(gy))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := titleStyle.Render(m.sim.Name())
	if m.paused {
		title += statusStyle.Render("  (paused)")
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(m.renderGrid())
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render(helpText(m.spawner != nil)))
	return b.String()
}

func (m Model) renderGrid() string {
	size := m.sim.Size()
	cells := m.sim.Cells()
	if len(cells) != len(m.springs.pos) {
		return ""
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < size.H; y++ {
		kind := shadeRest
		for x := 0; x < size.W; x++ {
			i := size.Index(x, y)
			level := m.springs.step(i, float64(cells[i]))
			glyph, k := shadeFor(level)
			if x > 0 && k != kind {
				b.WriteString(shadeStyles[kind].Render(run.String()))
				run.Reset()
			}
			kind = k
			for c := 0; c < cellColumns; c++ {
				run.WriteRune(glyph)
			}
		}
		b.WriteString(shadeStyles[kind].Render(run.String()))
		run.Reset()
		b.WriteByte('\n')
	}
	return b.String()
}

type shadeKind int

const (
	shadeRest shadeKind = iota
	shadeTrough
	shadeCrest
)

var shadeStyles = [...]lipgloss.Style{
	shadeRest:   restStyle,
	shadeTrough: troughStyle,
	shadeCrest:  crestStyle,
}

// shadeFor maps a palette level to a glyph by distance from rest and picks
// the trough or crest colour by sign.
func shadeFor(level float64) (rune, shadeKind) {
	dev := (level - core.MidLevel) / (255 - core.MidLevel)
	mag := math.Min(math.Abs(dev), 1)
	idx := int(math.Round(mag * float64(len(shades)-1)))
	switch {
	case idx == 0:
		return shades[0], shadeRest
	case dev < 0:
		return shades[idx], shadeTrough
	default:
		return shades[idx], shadeCrest
	}
}

func (m Model) statusLine() string {
	provider, ok := m.sim.(core.ParameterProvider)
	if !ok {
		return ""
	}
	snap := provider.Parameters()
	var parts []string
	for _, key := range []string{"active", "frames", "retired", "cutoff"} {
		if p, ok := snap.Lookup(key); ok {
			parts = append(parts, fmt.Sprintf("%s %s", strings.ToLower(p.Label), p.Value))
		}
	}
	return strings.Join(parts, "  ")
}

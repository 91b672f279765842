package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/erik-sundell/solidsph/internal/compute"
	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/engine"
	"github.com/erik-sundell/solidsph/internal/metrics"
)

const (
	canvasWidth  = 60
	canvasHeight = 28
	frameRate    = 30

	// wall-clock share of each frame spent on sub-steps
	stepBudget = 15 * time.Millisecond
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one live simulation view: it owns the engine, steps it
// inside a per-frame budget, and renders the particle scatter next to a
// metrics sidebar.
type Model struct {
	cfg *config.Config
	eng *engine.Engine
	err error

	canvas *Canvas

	running  bool
	finished bool
	showHelp bool
	frame    int

	stepsPerSec float64
	lastTick    time.Time

	energy *metrics.Series
	force  *metrics.Series
	peak   *metrics.Peak
}

func NewModel(cfg *config.Config) (*Model, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Model{
		cfg:      cfg,
		eng:      eng,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		running:  true,
		lastTick: time.Now(),
		energy:   metrics.NewSeries("kinetic_energy"),
		force:    metrics.NewSeries("contact_force"),
		peak:     metrics.NewPeak("peak_force"),
	}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.finished && m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		m.advance()
		m.draw()
		return m, tick()
	}
	return m, nil
}

// advance runs sub-steps until the frame budget is spent, then samples
// the metrics once per frame.
func (m *Model) advance() {
	defer func() { m.lastTick = time.Now() }()

	if !m.running || m.err != nil || m.finished {
		m.stepsPerSec = 0
		return
	}

	steps := 0
	deadline := time.Now().Add(stepBudget)
	for time.Now().Before(deadline) {
		if m.eng.Clock().Done() {
			m.finished = true
			m.running = false
			break
		}
		if err := m.eng.Step(); err != nil {
			m.err = err
			m.running = false
			break
		}
		steps++
	}

	if wall := time.Since(m.lastTick).Seconds(); wall > 0 {
		m.stepsPerSec = 0.8*m.stepsPerSec + 0.2*float64(steps)/wall
	}

	ck := m.eng.Clock()
	ke := 0.0
	for _, b := range m.eng.Bodies() {
		ke += b.KineticEnergy()
	}
	m.energy.Observe(ke, ck.Time)

	f := 0.0
	if brs := m.eng.Bridges(); len(brs) > 0 {
		f = brs[0].LastForce().Len()
	}
	m.force.Observe(f, ck.Time)
	m.peak.Observe(f, ck.Time)
}

func (m *Model) reset() {
	eng, err := engine.New(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	m.eng, m.err = eng, nil
	m.finished = false
	m.running = true
	m.stepsPerSec = 0
	m.energy.Reset()
	m.force.Reset()
	m.peak.Reset()
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.drawDomain()
	for _, b := range m.eng.Bodies() {
		for i := range b.Pos {
			x, y := m.project(b.Pos[i])
			m.canvas.Set(x, y)
		}
	}
}

// drawDomain outlines the inner domain rectangle the boundary frame
// wraps around.
func (m *Model) drawDomain() {
	x0, y0 := m.project(mgl64.Vec2{0, 0})
	x1, y1 := m.project(mgl64.Vec2{m.cfg.Domain.Width, m.cfg.Domain.Height})
	m.canvas.Line(x0, y0, x1, y0)
	m.canvas.Line(x1, y0, x1, y1)
	m.canvas.Line(x1, y1, x0, y1)
	m.canvas.Line(x0, y1, x0, y0)
}

// project maps world coordinates, including the boundary margin, onto
// sub-pixel canvas coordinates with y pointing up.
func (m *Model) project(p mgl64.Vec2) (int, int) {
	margin := float64(m.cfg.BoundaryCells) * m.cfg.Resolution
	spanX := m.cfg.Domain.Width + 2*margin
	spanY := m.cfg.Domain.Height + 2*margin
	cw := float64(m.canvas.Width*2 - 1)
	ch := float64(m.canvas.Height*4 - 1)

	x := int((p.X() + margin) / spanX * cw)
	y := int((1 - (p.Y()+margin)/spanY) * ch)
	return x, y
}

func (m *Model) View() string {
	th := CurrentTheme

	canvasBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Primary).
		Padding(0, 1).
		Render(m.canvas.String())

	header := lipgloss.NewStyle().Bold(true).Foreground(th.Secondary).
		Render(strings.ToUpper(m.cfg.Name))
	if m.running {
		header += "  " + StatusRunning.Render(AnimatedSpinner(m.frame))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasBox, m.sidebar(th))
	out := header + "\n" + main + "\n" +
		KeyHint.Render("space pause · r restart · t theme · ? help · q quit")

	if m.showHelp {
		return helpOverlay + "\n" + out
	}
	return out
}

func (m *Model) sidebar(th Theme) string {
	ck := m.eng.Clock()

	var s strings.Builder
	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusError.Render("ERROR")
	case m.finished:
		status = StatusPaused.Render("FINISHED")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(MetricLabel.Render("time") + MetricValue.Render(fmt.Sprintf("%.4f / %g", ck.Time, ck.End)) + "\n")
	s.WriteString(ProgressBar(ck.Time/ck.End, 28) + "\n\n")
	s.WriteString(MetricLabel.Render("sub-step") + MetricValue.Render(fmt.Sprintf("%d", ck.Step)) + "\n")
	s.WriteString(MetricLabel.Render("dt") + MetricValue.Render(fmt.Sprintf("%.3e", ck.Dt)) + "\n")
	s.WriteString(MetricLabel.Render("steps/s") + MetricValue.Render(fmt.Sprintf("%.0f", m.stepsPerSec)) + "\n")
	s.WriteString(MetricLabel.Render("workers") + MetricValue.Render(fmt.Sprintf("%d", compute.Workers())) + "\n")

	if brs := m.eng.Bridges(); len(brs) > 0 {
		br := brs[0]
		com := br.Rigid().COM()
		lin, _ := br.Rigid().Velocity()

		s.WriteString("\n" + Separator(28) + "\n\n")
		s.WriteString(MetricLabel.Render("com") + MetricValue.Render(fmt.Sprintf("(%.3f, %.3f)", com.X(), com.Y())) + "\n")
		s.WriteString(MetricLabel.Render("velocity") + MetricValue.Render(fmt.Sprintf("%.3f", lin.Len())) + "\n")
		s.WriteString(MetricLabel.Render("contact") + MetricValue.Render(fmt.Sprintf("%.4g", m.force.Value())) + "\n")
		s.WriteString(MetricLabel.Render("peak") + MetricValue.Render(fmt.Sprintf("%.4g at %.3fs", m.peak.Value(), m.peak.Time())) + "\n")
		s.WriteString(MetricLabel.Render("force") + SparklineChart(m.force.Tail(28), 28) + "\n")
	}

	if m.energy.Len() > 1 {
		chart := asciigraph.Plot(m.energy.Tail(120),
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Accent).Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + StatusError.Render(m.err.Error()) + "\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Muted).
		Padding(0, 2).
		Render(s.String())
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space   - Pause / resume            ║
║  R       - Rebuild and restart       ║
║  T       - Cycle color themes        ║
║  ?       - Toggle this help          ║
║  Esc     - Back to the preset menu   ║
║  Q       - Quit                      ║
╚══════════════════════════════════════╝`

package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/erik-sundell/solidsph/internal/config"
)

type appState int

const (
	stateMenu appState = iota
	stateSim
)

// App is the interactive entry point: a preset menu that launches the
// live view and takes control back on esc.
type App struct {
	state   appState
	cursor  int
	presets []string
	live    *Model
	err     error
}

func NewApp() *App {
	return &App{presets: config.ListPresets()}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && a.state == stateMenu {
		return a.menuKey(key)
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.state = stateMenu
		a.live = nil
		return a, nil
	}
	if a.state == stateSim && a.live != nil {
		next, cmd := a.live.Update(msg)
		a.live = next.(*Model)
		return a, cmd
	}
	return a, nil
}

func (a *App) menuKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.presets) == 0 {
			return a, nil
		}
		live, err := NewModel(config.GetPreset(a.presets[a.cursor]))
		if err != nil {
			a.err = err
			return a, nil
		}
		a.live, a.err = live, nil
		a.state = stateSim
		return a, a.live.Init()
	}
	return a, nil
}

func (a *App) View() string {
	if a.state == stateSim && a.live != nil {
		return a.live.View()
	}
	th := CurrentTheme

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Secondary).Render("SOLIDSPH") + "\n")
	s.WriteString(Subtle.Render("pick a preset to watch it run") + "\n\n")

	for i, name := range a.presets {
		cfg := config.GetPreset(name)
		line := fmt.Sprintf("%-14s %g×%g m, %d bodies, ends at %gs",
			name, cfg.Domain.Width, cfg.Domain.Height, len(cfg.Bodies), cfg.EndTime)
		if i == a.cursor {
			s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Primary).Render("❯ "+line) + "\n")
		} else {
			s.WriteString(Subtle.Render("  "+line) + "\n")
		}
	}

	if a.err != nil {
		s.WriteString("\n" + StatusError.Render(a.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("↑/↓ move · enter run · q quit"))
	return s.String()
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-progression/chord"
	"go-progression/sequencer"
	"go-progression/theme"
	"go-progression/widgets"
)

// Source is the running generator as seen by the view
type Source interface {
	Updates() <-chan sequencer.Snapshot
	Latest() sequencer.Snapshot
}

type Model struct {
	Source Source
	Theme  *theme.Theme
	Params sequencer.Params
	Cancel context.CancelFunc

	snap     sequencer.Snapshot
	err      error
	done     bool
	quitting bool
}

// UpdateMsg carries a fresh snapshot
type UpdateMsg sequencer.Snapshot

// DoneMsg reports that the driver has stopped
type DoneMsg struct {
	Err error
}

func NewModel(src Source, th *theme.Theme, p sequencer.Params, cancel context.CancelFunc) Model {
	return Model{
		Source: src,
		Theme:  th,
		Params: p,
		Cancel: cancel,
		snap:   src.Latest(),
	}
}

func ListenForUpdates(src Source) tea.Cmd {
	return func() tea.Msg {
		return UpdateMsg(<-src.Updates())
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Source)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.Cancel != nil {
				m.Cancel()
			}
			return m, tea.Quit
		}

	case UpdateMsg:
		m.snap = sequencer.Snapshot(msg)
		return m, ListenForUpdates(m.Source)

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.snap = m.Source.Latest()
		return m, tea.Quit
	}

	return m, nil
}

// Err is the driver error reported by DoneMsg, if any
func (m Model) Err() error {
	return m.err
}

// pitch range covering every chord voicing and the melody band
func (m Model) keyRange() (lo, hi int) {
	lo, hi = m.Params.KeyRange()
	return max(lo, 0), min(hi, chord.MaxPitch)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.Theme
	s := m.snap

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(th.FG())
	warnStyle := lipgloss.NewStyle().Foreground(th.Warning())

	playState := warnStyle.Render("STOP")
	if s.Playing {
		playState = lipgloss.NewStyle().Foreground(th.Success()).Render("PLAY")
	}
	set := "secondary"
	if s.Primary {
		set = "primary"
	}
	runID := s.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	header := headerStyle.Render("go-progression  ") + playState +
		headerStyle.Render(fmt.Sprintf("  bar:%04d.%d  %s  transpose:%+d  run:%s",
			max(s.Bar, 0), s.Sub+1, set, s.Transpose, runID))

	chordLine := "chord   -"
	if s.ChordName != "" {
		chordLine = "chord   " + s.ChordName
		if s.Alternate {
			chordLine += "  (alternate)"
		} else if s.Repeat > 0 {
			chordLine += fmt.Sprintf("  (x%d)", s.Repeat+1)
		}
	}
	melodyLine := "melody  -"
	if s.Melody >= 0 {
		melodyLine = "melody  " + chord.NoteName(s.Melody)
		if s.ScaleSnap {
			melodyLine += "  (passing)"
		}
	}

	lo, hi := m.keyRange()
	keys := widgets.RenderKeyboard(th, widgets.Keyboard{
		Low:    lo,
		High:   hi,
		Chord:  s.Sounding,
		Pool:   s.Pool,
		Melody: s.Melody,
	})

	legend := strings.Join([]string{
		widgets.RenderLegendItem(th.Chord(), th.Symbols.Chord, "chord", "sounding"),
		widgets.RenderLegendItem(th.Pool(), th.Symbols.Pool, "pool", "melody candidates"),
		widgets.RenderLegendItem(th.Melody(), th.Symbols.Melody, "melody", "sounding"),
	}, "\n")

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{{Key: "q / esc", Desc: "release notes and quit"}},
	}}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(fgStyle.Render(chordLine))
	out.WriteString("\n")
	out.WriteString(fgStyle.Render(melodyLine))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderOctaveRuler(lo, hi)))
	out.WriteString("\n")
	out.WriteString(keys)
	out.WriteString("\n\n")
	out.WriteString(legend)
	out.WriteString("\n\n")
	if m.done && m.err != nil {
		out.WriteString(warnStyle.Render("stopped: " + m.err.Error()))
		out.WriteString("\n")
	}
	out.WriteString(help)

	return out.String()
}

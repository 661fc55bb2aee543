package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

// presenter shows session notifications on the model.
type presenter struct {
	m *Model
}

func (p presenter) RollScored(frame, roll, pins int, bonus bowling.BonusKind) {
	switch {
	case pins == bowling.PinCount:
		p.m.status = fmt.Sprintf("Frame %d: strike!", frame+1)
	case bonus == bowling.BonusSpare && roll == 1:
		p.m.status = fmt.Sprintf("Frame %d: spare", frame+1)
	default:
		p.m.status = fmt.Sprintf("Frame %d ball %d: %d", frame+1, roll+1, pins)
	}
}

func (p presenter) FrameScoresUpdated(scores bowling.Scores) {
	p.m.scores = scores
}

func (p presenter) FrameAdvanced(frame int) {
	p.m.status += fmt.Sprintf(" · frame %d", frame+1)
}

func (p presenter) GameOver(total int) {
	p.m.over = true
	p.m.total = total
	p.m.status = fmt.Sprintf("Game over: %d", total)
	p.m.keys.NewGame.SetEnabled(true)
	p.m.finishGame(total)
}

func (p presenter) Warning(err error) {
	p.m.warning = err.Error()
}

// environment runs the ball and pin commands as timed Bubble Tea commands.
type environment struct {
	m *Model
}

func (e environment) LaunchBall(aim turn.Aim) {
	m := e.m
	left := m.sim.Roll(aim, m.session.Pins())
	now := time.Now()
	m.ball = &flight{aim: aim, launchedAt: now, now: now}
	gen := m.gen
	m.pending = append(m.pending,
		tea.Tick(m.config.SettleDelay, func(time.Time) tea.Msg {
			return settledMsg{gen: gen, pins: left}
		}),
		animate(),
	)
}

func (e environment) RequestFullPinReset() {
	gen := e.m.gen
	e.m.pending = append(e.m.pending, tea.Tick(e.m.config.ResetDelay, func(time.Time) tea.Msg {
		return resetMsg{gen: gen}
	}))
}

func (e environment) RequestBallReposition() {
	e.m.ball = nil
}

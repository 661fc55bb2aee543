// Package tui provides the Bubble Tea bowling interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/game"
	"github.com/verte-zerg/tuibowl/internal/lane"
	"github.com/verte-zerg/tuibowl/internal/model"
	statsPkg "github.com/verte-zerg/tuibowl/internal/stats"
	"github.com/verte-zerg/tuibowl/internal/store"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

const (
	angleStep = turn.MaxAngle / 5
	powerStep = 0.1
	frameTick = 50 * time.Millisecond
)

// settledMsg reports where the ball left the pins. gen ties it to the game
// that launched it.
type settledMsg struct {
	gen  int
	pins bowling.PinSet
}

type resetMsg struct {
	gen int
}

type animMsg time.Time

// flight is the ball currently on the lane.
type flight struct {
	aim        turn.Aim
	launchedAt time.Time
	now        time.Time
}

// Model implements the Bubble Tea bowling UI. It is the input, presentation
// and environment collaborator of the game session.
type Model struct {
	config   model.Config
	store    *store.Store
	sim      *lane.Simulator
	savePath string
	logf     game.Logger

	session   *game.Session
	gen       int
	startedAt time.Time

	// pending collects commands requested by session callbacks during one
	// Update.
	pending []tea.Cmd

	keys keyMap
	help help.Model

	width  int
	height int

	scores  bowling.Scores
	ball    *flight
	status  string
	warning string
	total   int
	over    bool
	lastID  int64
}

// NewModel constructs a bowling TUI model. A non-nil resume continues the
// saved game instead of starting a new one.
func NewModel(cfg model.Config, st *store.Store, sim *lane.Simulator, savePath string, resume *game.Snapshot, logf game.Logger) (*Model, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	m := &Model{
		config:   cfg,
		store:    st,
		sim:      sim,
		savePath: savePath,
		logf:     logf,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if resume != nil {
		session, err := game.Restore(*resume, presenter{m}, environment{m}, game.WithLogger(logf))
		if err != nil {
			return nil, err
		}
		m.session = session
		m.startedAt = time.Now()
		m.status = fmt.Sprintf("Resumed frame %d", session.FrameIndex()+1)
	} else {
		m.newGame()
	}
	m.scores = m.session.Scores()
	m.over = m.session.Over()
	m.total = m.scores.Total
	m.keys.NewGame.SetEnabled(m.over)
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.pending = nil
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.suspend()
			return m, tea.Quit
		}
		m.handleKey(msg)
	case settledMsg:
		if msg.gen == m.gen {
			m.report(m.session.OnBallSettledPins(msg.pins))
			m.ball = nil
		}
	case resetMsg:
		if msg.gen == m.gen {
			m.report(m.session.OnPinsResetAcknowledged())
		}
	case animMsg:
		if m.ball != nil {
			m.ball.now = time.Time(msg)
			m.pending = append(m.pending, animate())
		}
	}
	return m, tea.Batch(m.pending...)
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NewGame):
		m.newGame()
	case key.Matches(msg, m.keys.Launch):
		m.warning = ""
		m.report(m.session.OnLaunchRequested())
	case key.Matches(msg, m.keys.Left):
		m.adjustAim(func(a *turn.Aim) { a.Offset-- })
	case key.Matches(msg, m.keys.Right):
		m.adjustAim(func(a *turn.Aim) { a.Offset++ })
	case key.Matches(msg, m.keys.AngleLeft):
		m.adjustAim(func(a *turn.Aim) { a.Angle -= angleStep })
	case key.Matches(msg, m.keys.AngleRight):
		m.adjustAim(func(a *turn.Aim) { a.Angle += angleStep })
	case key.Matches(msg, m.keys.PowerUp):
		m.adjustAim(func(a *turn.Aim) { a.Power += powerStep })
	case key.Matches(msg, m.keys.PowerDown):
		m.adjustAim(func(a *turn.Aim) { a.Power -= powerStep })
	}
}

// adjustAim changes the aim while the player is lining up. Keys pressed while
// the ball rolls are dropped.
func (m *Model) adjustAim(change func(*turn.Aim)) {
	if m.session.State() != turn.AwaitingAim {
		return
	}
	aim := m.session.Aim()
	change(&aim)
	m.report(m.session.OnAimChanged(aim))
}

// report keeps the game going on a rejected event. The presenter already
// shows the warning; a fatal error ends the game.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logf("event rejected: %v", err)
	if errors.Is(err, game.ErrSessionAborted) {
		m.status = "Game aborted"
		m.over = true
		m.keys.NewGame.SetEnabled(true)
	}
}

func (m *Model) newGame() {
	m.gen++
	m.session = game.NewSession(presenter{m}, environment{m}, game.WithLogger(m.logf))
	m.startedAt = time.Now()
	m.scores = m.session.Scores()
	m.ball = nil
	m.over = false
	m.total = 0
	m.warning = ""
	m.status = "Frame 1"
	m.keys.NewGame.SetEnabled(false)
}

// suspend saves an unfinished game so it can be resumed.
func (m *Model) suspend() {
	if !m.config.Autosave || m.savePath == "" || m.over || !m.session.Started() {
		return
	}
	if err := game.WriteSaveFile(m.savePath, m.session.Snapshot(m.config.Player)); err != nil {
		logErrf("failed to save game: %v\n", err)
	}
}

// finishGame records a completed game in history.
func (m *Model) finishGame(total int) {
	if m.savePath != "" {
		if err := game.RemoveSaveFile(m.savePath); err != nil {
			logErrf("%v\n", err)
		}
	}
	if m.store == nil {
		return
	}
	endedAt := time.Now()
	frames := m.session.Frames()
	scores := m.session.Scores()
	strikes, spares := statsPkg.CountMarks(frames)
	record := model.GameRecord{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Player:     m.config.Player,
		Total:      total,
		Strikes:    strikes,
		Spares:     spares,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	frameRecords := make([]model.FrameRecord, 0, len(frames))
	for i, f := range frames {
		frameRecords = append(frameRecords, model.FrameRecord{
			Index: i,
			Rolls: f.Rolls,
			Score: scores.Frames[i].Cumulative,
		})
	}
	id, err := m.store.InsertGame(context.Background(), record, frameRecords)
	if err != nil {
		logErrf("failed to save game: %v\n", err)
		return
	}
	m.lastID = id
}

func animate() tea.Cmd {
	return tea.Tick(frameTick, func(t time.Time) tea.Msg {
		return animMsg(t)
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

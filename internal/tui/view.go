package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

const (
	laneWidth    = 2*turn.MaxOffset + 1
	approachRows = 8

	pinUp    = 'I'
	pinDown  = '.'
	ballMark = 'o'
)

// Pin columns relative to the lane center, back row first.
var pinRows = [][]struct {
	pin int
	x   int
}{
	{{7, -6}, {8, -2}, {9, 2}, {10, 6}},
	{{4, -4}, {5, 0}, {6, 4}},
	{{2, -2}, {3, 2}},
	{{1, 0}},
}

var (
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	ballStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	aimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	boardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	board := boardStyle.Render(strings.Join(m.scoreboardLines(), "\n"))
	row, col, ok := m.ballPosition()
	grid := laneGrid(m.session.Pins(), row, col, ok, m.aimArrow())
	playfield := lipgloss.JoinHorizontal(lipgloss.Top, renderLane(grid), "   ", m.renderAim())

	parts := []string{board, "", playfield, "", statusStyle.Render(m.status)}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render(m.warning))
	}
	parts = append(parts, "", m.help.View(m.keys))
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) scoreboardLines() []string {
	rows := m.scoreboardRows()
	lines := rows[:]
	total := fmt.Sprintf("Total %d", m.scores.Total)
	if m.config.Player != "" {
		total = m.config.Player + " · " + total
	}
	if m.over && m.lastID > 0 {
		total += fmt.Sprintf(" · saved as game #%d", m.lastID)
	}
	return append(lines, total)
}

func (m *Model) scoreboardRows() [3]string {
	return scoreboardRows(m.session.Frames(), m.scores)
}

// ballPosition places the ball on the approach. While rolling it travels from
// the foul line toward the pins over the settle delay.
func (m *Model) ballPosition() (row, col int, ok bool) {
	if m.ball != nil {
		progress := 1.0
		if d := m.config.SettleDelay; d > 0 {
			progress = math.Min(1, float64(m.ball.now.Sub(m.ball.launchedAt))/float64(d))
		}
		row = approachRows - 1 - int(progress*float64(approachRows-1))
		drift := m.ball.aim.Angle / turn.MaxAngle * 4 * progress
		col = m.ball.aim.Offset + int(math.Round(drift))
		return row, clampCol(col), true
	}
	if m.session.State() == turn.AwaitingAim {
		return approachRows - 1, m.session.Aim().Offset, true
	}
	return 0, 0, false
}

func (m *Model) aimArrow() rune {
	if m.ball != nil || m.session.State() != turn.AwaitingAim {
		return 0
	}
	angle := m.session.Aim().Angle
	switch {
	case angle < -turn.MaxAngle/10:
		return '\\'
	case angle > turn.MaxAngle/10:
		return '/'
	default:
		return '|'
	}
}

func (m *Model) renderAim() string {
	aim := m.session.Aim()
	filled := int(math.Round(aim.Power * 10))
	meter := strings.Repeat("#", filled) + strings.Repeat(" ", 10-filled)
	lines := []string{
		fmt.Sprintf("Frame  %d", m.session.FrameIndex()+1),
		fmt.Sprintf("Ball   %d", m.session.RollIndex()+1),
		fmt.Sprintf("Pins   %d", m.session.Pins().Count()),
		"",
		fmt.Sprintf("Offset %+d", aim.Offset),
		fmt.Sprintf("Angle  %+.2f", aim.Angle),
		"Power  [" + aimStyle.Render(meter) + "]",
		"",
		footerStyle.Render(m.session.State().String()),
	}
	if m.over {
		lines[0] = fmt.Sprintf("Final  %d", m.total)
		lines[1] = ""
	}
	return strings.Join(lines, "\n")
}

// laneGrid draws the pin deck and approach as plain rows. arrow, when set, is
// drawn just ahead of the ball.
func laneGrid(pins bowling.PinSet, ballRow, ballCol int, ball bool, arrow rune) []string {
	rows := make([]string, 0, len(pinRows)+approachRows)
	for _, pinRow := range pinRows {
		cells := []rune(strings.Repeat(" ", laneWidth))
		for _, spot := range pinRow {
			mark := pinDown
			if pins.Standing(spot.pin) {
				mark = pinUp
			}
			cells[spot.x+turn.MaxOffset] = mark
		}
		rows = append(rows, string(cells))
	}
	for r := 0; r < approachRows; r++ {
		cells := []rune(strings.Repeat(" ", laneWidth))
		if ball && r == ballRow {
			cells[clampCol(ballCol)+turn.MaxOffset] = ballMark
		}
		if ball && arrow != 0 && r == ballRow-1 {
			col := ballCol
			switch arrow {
			case '\\':
				col--
			case '/':
				col++
			}
			cells[clampCol(col)+turn.MaxOffset] = arrow
		}
		rows = append(rows, string(cells))
	}
	return rows
}

func renderLane(grid []string) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(gutterStyle.Render("|"))
		for _, r := range row {
			switch r {
			case pinUp:
				b.WriteString(pinStyle.Render(string(r)))
			case pinDown:
				b.WriteString(downStyle.Render(string(r)))
			case ballMark:
				b.WriteString(ballStyle.Render(string(r)))
			case ' ':
				b.WriteRune(r)
			default:
				b.WriteString(aimStyle.Render(string(r)))
			}
		}
		b.WriteString(gutterStyle.Render("|"))
	}
	return b.String()
}

func clampCol(col int) int {
	if col < -turn.MaxOffset {
		return -turn.MaxOffset
	}
	if col > turn.MaxOffset {
		return turn.MaxOffset
	}
	return col
}

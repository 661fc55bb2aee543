// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
)

// GameMetrics summarizes a set of games.
type GameMetrics struct {
	Games      int
	Average    float64
	Best       int
	StrikeRate float64
	SpareRate  float64
}

// ComputeMetrics aggregates games. Strike rate is strikes per frame; spare
// rate is spares per frame that was not a strike.
func ComputeMetrics(games []model.GameAggregate) GameMetrics {
	m := GameMetrics{Games: len(games)}
	if len(games) == 0 {
		return m
	}
	var total, strikes, spares int
	for _, g := range games {
		total += g.Total
		strikes += g.Strikes
		spares += g.Spares
		if g.Total > m.Best {
			m.Best = g.Total
		}
	}
	m.Average = float64(total) / float64(len(games))
	frames := len(games) * bowling.FrameCount
	m.StrikeRate = float64(strikes) / float64(frames)
	if open := frames - strikes; open > 0 {
		m.SpareRate = float64(spares) / float64(open)
	}
	return m
}

// CountMarks counts strikes and spares in frames. Strikes and spares thrown as
// tenth-frame bonus rolls count as well.
func CountMarks(frames []bowling.Frame) (strikes, spares int) {
	for i, f := range frames {
		for _, mark := range bowling.Marks(f, i == bowling.FrameCount-1) {
			switch mark {
			case "X":
				strikes++
			case "/":
				spares++
			}
		}
	}
	return strikes, spares
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of games.
func RenderSummary(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	m := ComputeMetrics(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", m.Games),
		fmt.Sprintf("Avg Score: %.1f", m.Average),
		fmt.Sprintf("Best Score: %d", m.Best),
		fmt.Sprintf("Strike Rate: %.1f%%", m.StrikeRate*100),
		fmt.Sprintf("Spare Rate: %.1f%%", m.SpareRate*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderScoreCurve prints a sparkline of moving-average scores. A width of 0
// fits the curve to the terminal when w is one.
func RenderScoreCurve(w io.Writer, games []model.GameAggregate, window, width int) error {
	if len(games) == 0 {
		return nil
	}
	scores := make([]float64, len(games))
	for i, g := range games {
		scores[i] = float64(g.Total)
	}
	scores = MovingAverage(scores, window)
	if width <= 0 {
		width = writerWidth(w)
	}
	if _, err := fmt.Fprintf(w, "Score Curve (window %d)\n", window); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n\n", Sparkline(resample(scores, width)))
	return err
}

// RenderGameTable prints one row per game, newest first.
func RenderGameTable(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		return nil
	}
	headers := []string{"#", "Ended", "Player", "Score", "Strikes", "Spares"}
	rows := make([][]string, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", g.GameID),
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			g.Player,
			fmt.Sprintf("%d", g.Total),
			fmt.Sprintf("%d", g.Strikes),
			fmt.Sprintf("%d", g.Spares),
		})
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderFrames prints a stored game's frames with scoresheet marks.
func RenderFrames(w io.Writer, frames []model.FrameRecord) error {
	if len(frames) == 0 {
		_, err := fmt.Fprintln(w, "No frames recorded.")
		return err
	}
	headers := []string{"Frame", "Rolls", "Score"}
	rows := make([][]string, 0, len(frames))
	for _, f := range frames {
		marks := bowling.Marks(bowling.Frame{Rolls: f.Rolls}, f.Index == bowling.FrameCount-1)
		rows = append(rows, []string{
			fmt.Sprintf("%d", f.Index+1),
			strings.Join(marks, " "),
			fmt.Sprintf("%d", f.Score),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// resample averages values down to width points. Series that already fit
// are returned unchanged.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	step := float64(len(values)) / float64(width)
	for i := range out {
		lo := int(float64(i) * step)
		hi := int(float64(i+1) * step)
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func writerWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return terminalWidthBackup
}

package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuibowl/internal/bowling"
)

const (
	frameCellWidth = 3
	finalCellWidth = 5
)

// scoreboardRows renders the frame numbers, roll marks and running totals as
// three plain lines. Totals are blank until a frame's bonus is known.
func scoreboardRows(frames []bowling.Frame, scores bowling.Scores) [3]string {
	var header, marks, totals []string
	for i := 0; i < bowling.FrameCount; i++ {
		width := frameCellWidth
		final := i == bowling.FrameCount-1
		if final {
			width = finalCellWidth
		}
		header = append(header, runewidth.FillRight(strconv.Itoa(i+1), width))

		var m []string
		if i < len(frames) {
			m = bowling.Marks(frames[i], final)
		}
		if !final && len(m) == 1 && m[0] == "X" {
			// A strike sits in the second box.
			marks = append(marks, runewidth.FillLeft("X", width))
		} else {
			marks = append(marks, runewidth.FillRight(strings.Join(m, " "), width))
		}

		total := ""
		if i < len(frames) && len(frames[i].Rolls) > 0 && !scores.Frames[i].Pending {
			total = strconv.Itoa(scores.Frames[i].Cumulative)
		}
		totals = append(totals, runewidth.FillLeft(total, width))
	}
	return [3]string{
		"|" + strings.Join(header, "|") + "|",
		"|" + strings.Join(marks, "|") + "|",
		"|" + strings.Join(totals, "|") + "|",
	}
}

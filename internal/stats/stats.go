// Package stats contains score distribution calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/scoring"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	barChar             = "#"
)

// chiSquareCritical9 is the p=0.001 critical value for 9 degrees of freedom.
const chiSquareCritical9 = 27.88

// Histogram counts scores 1..10.
type Histogram struct {
	Counts [scoring.MaxScore + 1]int
	Total  int
}

// Add records one result. Out-of-range scores are ignored.
func (h *Histogram) Add(res model.ScoreResult) {
	if res.Score < scoring.MinScore || res.Score > scoring.MaxScore {
		return
	}
	h.Counts[res.Score]++
	h.Total++
}

// Share returns the fraction of results with the given score.
func (h *Histogram) Share(score int) float64 {
	if h.Total == 0 || score < scoring.MinScore || score > scoring.MaxScore {
		return 0
	}
	return float64(h.Counts[score]) / float64(h.Total)
}

// ChiSquare returns the chi-square statistic against a uniform distribution.
func (h *Histogram) ChiSquare() float64 {
	if h.Total == 0 {
		return 0
	}
	buckets := scoring.MaxScore - scoring.MinScore + 1
	expected := float64(h.Total) / float64(buckets)
	chi := 0.0
	for score := scoring.MinScore; score <= scoring.MaxScore; score++ {
		d := float64(h.Counts[score]) - expected
		chi += d * d / expected
	}
	return chi
}

// Uniform reports whether the counts are consistent with a uniform draw at p=0.001.
func (h *Histogram) Uniform() bool {
	return h.ChiSquare() < chiSquareCritical9
}

// RenderHistogram prints one row per score with a bar scaled to totalWidth.
// A non-positive totalWidth uses the terminal width.
func RenderHistogram(w io.Writer, h *Histogram, totalWidth int) error {
	if h.Total == 0 {
		_, err := fmt.Fprintln(w, "No sessions simulated.")
		return err
	}
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	maxCount := 0
	for score := scoring.MinScore; score <= scoring.MaxScore; score++ {
		if h.Counts[score] > maxCount {
			maxCount = h.Counts[score]
		}
	}

	tbl := newTable(column{"Score", true}, column{"Count", true}, column{"Share", true})
	for score := scoring.MinScore; score <= scoring.MaxScore; score++ {
		tbl.addRow(
			strconv.Itoa(score),
			strconv.Itoa(h.Counts[score]),
			fmt.Sprintf("%.2f%%", h.Share(score)*100),
		)
	}
	lines := tbl.lines()
	barWidth := BarWidthFor(totalWidth, tbl.width())

	if _, err := fmt.Fprintln(w, lines[0]); err != nil {
		return err
	}
	for i, line := range lines[1:] {
		count := h.Counts[scoring.MinScore+i]
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat(barChar, count*barWidth/maxCount)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", line, bar); err != nil {
			return err
		}
	}
	verdict := "uniform"
	if !h.Uniform() {
		verdict = "NOT uniform"
	}
	_, err := fmt.Fprintf(w, "\nSessions: %d  chi-square: %.2f (%s at p=0.001)\n", h.Total, h.ChiSquare(), verdict)
	return err
}

// BarWidthFor computes the bar width that fits next to a table of tableWidth.
func BarWidthFor(totalWidth, tableWidth int) int {
	width := totalWidth - tableWidth - 1
	if width < minBarWidth {
		width = minBarWidth
	}
	return width
}

// TerminalWidth returns the stdout terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderCommentTable prints every candidate comment by score.
func RenderCommentTable(w io.Writer, comments scoring.CommentTable) error {
	scores := make([]int, 0, len(comments))
	for score := range comments {
		scores = append(scores, score)
	}
	sort.Ints(scores)

	tbl := newTable(column{"Score", true}, column{"#", true}, column{"Comment", false})
	for _, score := range scores {
		for i, comment := range comments[score] {
			tbl.addRow(strconv.Itoa(score), strconv.Itoa(i+1), comment)
		}
	}
	for _, line := range tbl.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

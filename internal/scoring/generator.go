// Package scoring draws the random verdicts and processing counters.
package scoring

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/facescan/internal/model"
)

// Score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// Per-tick upper bounds (exclusive) for processing counters.
const (
	nodesStep      = 50000
	confidenceStep = 15
	pctStep        = 20
)

// Source is an integer random source. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded source. A zero seed seeds from the current time.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generator produces score results and processing stat ticks.
type Generator struct {
	rnd      Source
	comments CommentTable
}

// New returns a Generator drawing from rnd. The table is copied.
func New(rnd Source, comments CommentTable) *Generator {
	return &Generator{rnd: rnd, comments: comments.Clone()}
}

// Comments returns a copy of the generator's comment table.
func (g *Generator) Comments() CommentTable {
	return g.comments.Clone()
}

// Draw picks a score uniformly from 1..10, then a comment uniformly from that score's list.
func (g *Generator) Draw() model.ScoreResult {
	score := MinScore + g.rnd.Intn(MaxScore-MinScore+1)
	candidates := g.comments[score]
	comment := ""
	if len(candidates) > 0 {
		comment = candidates[g.rnd.Intn(len(candidates))]
	}
	return model.ScoreResult{Score: score, Comment: comment}
}

// Advance applies one processing tick to stats. Counters only grow and are clamped.
func (g *Generator) Advance(stats model.ProcessingStats) model.ProcessingStats {
	stats.Nodes = clamp(stats.Nodes+g.rnd.Intn(nodesStep), model.MaxNodes)
	stats.Confidence = clamp(stats.Confidence+g.rnd.Intn(confidenceStep), model.MaxConfidence)
	stats.ProcessingPct = clamp(stats.ProcessingPct+g.rnd.Intn(pctStep), model.MaxProcessingPct)
	return stats
}

func clamp(v, hi int) int {
	if v > hi {
		return hi
	}
	return v
}

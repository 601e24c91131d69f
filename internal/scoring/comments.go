package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// CommentTable maps each score to its ordered candidate comments.
type CommentTable map[int][]string

// DefaultComments returns the canonical comment table.
func DefaultComments() CommentTable {
	return CommentTable{
		1: {
			"ERROR: ATTRACTIVENESS NOT FOUND",
			"SYSTEM MALFUNCTION: NEGATIVE VALUES DETECTED",
			"CRITICAL: FACIAL RECOGNITION FAILURE",
		},
		2: {
			"You look weird but I guess there is some potential",
			"ANALYSIS: BARELY REGISTERS ON HUMAN SCALE",
			"WARNING: AESTHETIC ANOMALY DETECTED",
		},
		3: {
			"MARGINAL: WITHIN ACCEPTABLE PARAMETERS... BARELY",
			"SYSTEM SUGGESTS: TRY AGAIN IN BETTER LIGHTING",
			"CONCLUSION: NEEDS SIGNIFICANT OPTIMIZATION",
		},
		4: {
			"MEDIOCRE: MEETS MINIMUM REQUIREMENTS",
			"ANALYSIS: UNREMARKABLE BUT FUNCTIONAL",
			"STATUS: AVERAGE HUMAN SPECIMEN",
		},
		5: {
			"NEUTRAL: NEITHER IMPRESSIVE NOR DISAPPOINTING",
			"VERDICT: PERFECTLY FORGETTABLE",
			"RATING: STATISTICALLY AVERAGE",
		},
		6: {
			"ACCEPTABLE: SLIGHTLY ABOVE BASELINE",
			"ANALYSIS: SHOWS PROMISE BUT LACKS EXECUTION",
			"STATUS: MODERATELY TOLERABLE",
		},
		7: {
			"IMPRESSIVE: EXCEEDS STANDARD PARAMETERS",
			"VERDICT: AESTHETICALLY PLEASING (FOR A HUMAN)",
			"RATING: ABOVE AVERAGE SPECIMEN DETECTED",
		},
		8: {
			"EXCELLENT: HIGH-QUALITY FACIAL STRUCTURE",
			"ANALYSIS: SUPERIOR GENETIC CONFIGURATION",
			"STATUS: REMARKABLY PHOTOGENIC",
		},
		9: {
			"OUTSTANDING: NEAR-PERFECT SYMMETRY DETECTED",
			"VERDICT: EXCEPTIONAL HUMAN SPECIMEN",
			"RATING: APPROACHING THEORETICAL MAXIMUM",
		},
		10: {
			"PERFECT: SYSTEM OVERLOAD - TOO ATTRACTIVE",
			"ERROR: BEAUTY EXCEEDS COMPUTATIONAL LIMITS",
			"CRITICAL: ATTRACTIVENESS BREAKS THE ALGORITHM",
		},
	}
}

// Validate checks that every score 1..10 has at least one non-empty comment
// and that no other keys are present.
func (t CommentTable) Validate() error {
	for score := MinScore; score <= MaxScore; score++ {
		list, ok := t[score]
		if !ok || len(list) == 0 {
			return fmt.Errorf("score %d has no comments", score)
		}
		for i, c := range list {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("score %d comment %d is empty", score, i+1)
			}
		}
	}
	for score := range t {
		if score < MinScore || score > MaxScore {
			return fmt.Errorf("score %d out of range %d-%d", score, MinScore, MaxScore)
		}
	}
	return nil
}

// Contains reports whether comment is a candidate for score.
func (t CommentTable) Contains(score int, comment string) bool {
	for _, c := range t[score] {
		if c == comment {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t CommentTable) Clone() CommentTable {
	out := make(CommentTable, len(t))
	for score, list := range t {
		out[score] = append([]string(nil), list...)
	}
	return out
}

// ParseCommentTable converts string-keyed entries (as decoded from TOML) into a table.
// Keys missing from raw fall back to base.
func ParseCommentTable(raw map[string][]string, base CommentTable) (CommentTable, error) {
	out := base.Clone()
	for key, list := range raw {
		score, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid score key %q: %w", key, err)
		}
		out[score] = append([]string(nil), list...)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

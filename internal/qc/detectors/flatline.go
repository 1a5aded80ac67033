package detectors

import (
	"context"
	"fmt"

	"github.com/panelhub/panel-link-service/internal/domain"
)

const (
	flatlineWindow      = 5 // consecutive answers inspected per window
	flatlineMinAnswers  = 4
	flatlineScoreStreak = 25.0
	flatlineScoreRatio  = 15.0
)

// FlatlineDetector looks for straight-lining: long runs of identical
// answers and abnormally low variety across closed questions.
type FlatlineDetector struct{}

func NewFlatlineDetector() *FlatlineDetector {
	return &FlatlineDetector{}
}

func (d *FlatlineDetector) Name() string {
	return "flatline"
}

func (d *FlatlineDetector) Applicable(in *Input) bool {
	return len(in.answers()) >= flatlineMinAnswers
}

func (d *FlatlineDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}

	var values []string
	for _, a := range in.answers() {
		if a.Kind == domain.AnswerChoice || a.Kind == domain.AnswerScale {
			values = append(values, a.Value)
		}
	}
	if len(values) < flatlineMinAnswers {
		return result
	}

	score := 0.0
	longest := longestRun(values)
	if longest >= flatlineWindow {
		score += flatlineScoreStreak
		result.Flags = append(result.Flags, fmt.Sprintf("FLATLINE:streak:%d", longest))
	}

	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		distinct[v] = true
	}
	variety := float64(len(distinct)) / float64(len(values))
	if variety <= 0.2 {
		score += flatlineScoreRatio
		result.Flags = append(result.Flags, "FLATLINE:low_variety")
	}

	if score == 0 {
		return result
	}
	severity := "moderate"
	if longest >= 2*flatlineWindow || variety <= 0.1 {
		severity = "severe"
		score += flatlineScoreRatio
	}
	result.Triggered = true
	result.Score = score
	result.Evidence = map[string]any{
		"longest_run":     longest,
		"distinct_ratio":  variety,
		"answers_checked": len(values),
		"severity":        severity,
	}
	return result
}

func longestRun(values []string) int {
	longest, run := 0, 0
	prev := ""
	for i, v := range values {
		if i > 0 && v == prev {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = v
	}
	return longest
}

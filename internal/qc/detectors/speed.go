package detectors

import (
	"context"

	"github.com/panelhub/panel-link-service/internal/domain"
)

const (
	speedFastAvgSeconds    = 5.0
	speedExtremeAvgSeconds = 2.0
	speedSlowAvgSeconds    = 600.0

	speedFastScore    = 30.0
	speedExtremeScore = 50.0
	speedSlowScore    = 15.0
)

// SpeedDetector checks the average seconds spent per question.
type SpeedDetector struct{}

func NewSpeedDetector() *SpeedDetector {
	return &SpeedDetector{}
}

func (d *SpeedDetector) Name() string {
	return "response_speed"
}

// Applicable always: the speed check runs on every completion; missing
// timing metadata yields a non-triggering result.
func (d *SpeedDetector) Applicable(in *Input) bool {
	return true
}

func (d *SpeedDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}
	timing := in.timing()
	if timing == nil || timing.QuestionCount <= 0 || timing.TotalSeconds <= 0 {
		return result
	}

	avg := timing.TotalSeconds / float64(timing.QuestionCount)
	var reason string
	var score float64
	switch {
	case avg < speedExtremeAvgSeconds:
		reason, score = "extreme_speed", speedExtremeScore
	case avg < speedFastAvgSeconds:
		reason, score = "too_fast", speedFastScore
	case avg > speedSlowAvgSeconds:
		reason, score = "too_slow", speedSlowScore
	default:
		return result
	}

	result.Triggered = true
	result.Score = score
	result.Flags = append(result.Flags, "SPEED:"+reason)
	result.Evidence = map[string]any{
		"avg_seconds":    avg,
		"total_seconds":  timing.TotalSeconds,
		"question_count": timing.QuestionCount,
		"reason":         reason,
	}
	return result
}

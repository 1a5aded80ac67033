package detectors

import (
	"context"

	"github.com/panelhub/panel-link-service/internal/domain"
)

const (
	behavioralMouseFloor   = 10
	behavioralPatternScore = 20.0
	behavioralMaxScore     = 50.0
)

// BehavioralDetector inspects pointer/keyboard telemetry when the
// client supplied it. Absence of telemetry is not suspicious by itself.
type BehavioralDetector struct{}

func NewBehavioralDetector() *BehavioralDetector {
	return &BehavioralDetector{}
}

func (d *BehavioralDetector) Name() string {
	return "behavioral"
}

func (d *BehavioralDetector) Applicable(in *Input) bool {
	return in.behavior() != nil
}

func (d *BehavioralDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}
	telemetry := in.behavior()
	if telemetry == nil {
		return result
	}

	score := 0.0
	if telemetry.MouseMoveCount < behavioralMouseFloor {
		score += behavioralPatternScore
		result.Flags = append(result.Flags, "BEHAVIORAL:no_mouse_movement")
	}
	for _, p := range telemetry.SuspiciousPatterns {
		score += behavioralPatternScore
		result.Flags = append(result.Flags, "BEHAVIORAL:"+p)
	}
	if score == 0 {
		return result
	}
	if score > behavioralMaxScore {
		score = behavioralMaxScore
	}

	result.Triggered = true
	result.Score = score
	result.Evidence = map[string]any{
		"mouse_moves": telemetry.MouseMoveCount,
		"key_presses": telemetry.KeyPressCount,
		"patterns":    telemetry.SuspiciousPatterns,
	}
	return result
}

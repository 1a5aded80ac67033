package detectors

import (
	"context"

	"github.com/panelhub/panel-link-service/internal/domain"
)

// ============= DETECTOR CONTRACT =============

// Input is the normalized view of one completion attempt shared by all
// detectors. Every field may be nil or empty; detectors must return a
// non-triggering result on missing input, never panic.
type Input struct {
	Payload          *domain.ResponsePayload
	Metadata         *domain.SubmissionMetadata
	Network          *domain.NetworkContext
	HoneypotFieldIDs []string
}

// Detector is a stateless heuristic evaluator. Check never returns an
// error: a detector that cannot produce a verdict reports Unavailable
// on its result and the aggregate scoring proceeds without it.
type Detector interface {
	Name() string
	Applicable(in *Input) bool
	Check(ctx context.Context, in *Input) domain.DetectorResult
}

func (in *Input) timing() *domain.ResponseTiming {
	if in == nil || in.Metadata == nil {
		return nil
	}
	return in.Metadata.Timing
}

func (in *Input) behavior() *domain.BehaviorTelemetry {
	if in == nil || in.Metadata == nil {
		return nil
	}
	return in.Metadata.Behavior
}

func (in *Input) answers() []domain.Answer {
	if in == nil || in.Payload == nil {
		return nil
	}
	return in.Payload.Answers
}

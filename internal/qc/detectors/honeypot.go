package detectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/panelhub/panel-link-service/internal/domain"
)

// HoneypotDetector flags answers to pre-registered decoy fields. A
// genuine participant never sees these fields, so any non-default
// answer is a strong automation signal.
type HoneypotDetector struct{}

func NewHoneypotDetector() *HoneypotDetector {
	return &HoneypotDetector{}
}

func (d *HoneypotDetector) Name() string {
	return "honeypot"
}

// Applicable always: the honeypot check runs on every completion.
func (d *HoneypotDetector) Applicable(in *Input) bool {
	return true
}

func (d *HoneypotDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}
	if len(in.HoneypotFieldIDs) == 0 {
		return result
	}

	decoys := make(map[string]bool, len(in.HoneypotFieldIDs))
	for _, id := range in.HoneypotFieldIDs {
		decoys[id] = true
	}

	filled := 0
	for _, a := range in.answers() {
		if !decoys[a.QuestionID] {
			continue
		}
		if strings.TrimSpace(a.Value) == "" {
			continue
		}
		filled++
		result.Flags = append(result.Flags, fmt.Sprintf("HONEYPOT_FILLED:%s", a.QuestionID))
	}
	if filled == 0 {
		return result
	}

	// confidence grows with the share of decoys answered
	confidence := 100.0 * float64(filled) / float64(len(in.HoneypotFieldIDs))
	if confidence > 100 {
		confidence = 100
	}
	result.Triggered = true
	result.Score = confidence
	result.Evidence = map[string]any{
		"decoy_fields":  len(in.HoneypotFieldIDs),
		"fields_filled": filled,
	}
	return result
}

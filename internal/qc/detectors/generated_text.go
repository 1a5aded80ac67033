package detectors

import (
	"context"
	"strings"

	"github.com/panelhub/panel-link-service/internal/domain"
)

const generatedTextMinLen = 20

// phrases heavily over-represented in machine-written survey answers
var aiMarkers = []string{
	"as an ai", "in conclusion", "furthermore", "moreover",
	"it is important to note", "overall,", "in summary",
	"delve", "multifaceted", "comprehensive understanding",
	"plays a crucial role", "in today's fast-paced",
}

// GeneratedTextDetector estimates the likelihood that free-text answers
// were machine-written. This is a cheap linguistic heuristic, not a
// classifier; confidence is on a 0-100 scale.
type GeneratedTextDetector struct{}

func NewGeneratedTextDetector() *GeneratedTextDetector {
	return &GeneratedTextDetector{}
}

func (d *GeneratedTextDetector) Name() string {
	return "generated_text"
}

func (d *GeneratedTextDetector) Applicable(in *Input) bool {
	for _, t := range freeTexts(in) {
		if len(t) >= generatedTextMinLen {
			return true
		}
	}
	return false
}

func (d *GeneratedTextDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}

	var confidence float64
	checked := 0
	for _, text := range freeTexts(in) {
		if len(text) < generatedTextMinLen {
			continue
		}
		checked++
		c := scoreText(text)
		if c > confidence {
			confidence = c
		}
	}
	if checked == 0 || confidence < 40 {
		return result
	}

	risk := "medium"
	switch {
	case confidence >= 85:
		risk = "critical"
	case confidence >= 65:
		risk = "high"
	}
	result.Triggered = true
	result.Score = confidence
	result.Flags = append(result.Flags, "AI_GENERATED:"+risk)
	result.Evidence = map[string]any{
		"texts_checked": checked,
		"confidence":    confidence,
		"risk":          risk,
	}
	return result
}

func scoreText(text string) float64 {
	lower := strings.ToLower(text)
	confidence := 0.0

	for _, marker := range aiMarkers {
		if strings.Contains(lower, marker) {
			confidence += 25
		}
	}

	// human answers are typo-prone and casual; perfectly uniform
	// sentence casing plus zero contractions reads generated
	sentences := strings.Count(text, ". ") + 1
	if sentences >= 3 && !strings.Contains(lower, "'") {
		confidence += 15
	}
	words := strings.Fields(lower)
	if len(words) >= 40 {
		distinct := make(map[string]bool, len(words))
		for _, w := range words {
			distinct[w] = true
		}
		if float64(len(distinct))/float64(len(words)) > 0.85 {
			confidence += 15
		}
	}

	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

func freeTexts(in *Input) []string {
	if in == nil || in.Payload == nil {
		return nil
	}
	return in.Payload.FreeTexts()
}

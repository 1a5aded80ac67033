package qc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/qc/detectors"
)

// ============= SCORING ENGINE =============

// ScoringEngine composes the detector set into one QCResult. Detectors
// run independently and never short-circuit each other; a detector that
// cannot produce a verdict contributes a neutral result.
type ScoringEngine struct {
	detectors []detectors.Detector
	policy    ScoringPolicy
	logger    *slog.Logger
}

func NewScoringEngine(policy ScoringPolicy, logger *slog.Logger) *ScoringEngine {
	return &ScoringEngine{
		detectors: make([]detectors.Detector, 0),
		policy:    policy,
		logger:    logger,
	}
}

// RegisterDetector adds a detector to the set. Registration order is
// the order results appear in the QCResult.
func (e *ScoringEngine) RegisterDetector(d detectors.Detector) {
	e.detectors = append(e.detectors, d)
	e.logger.Info("registered qc detector", "name", d.Name())
}

// Score runs every applicable detector over the completion attempt and
// folds the results into a QCResult using the policy table, with
// project-level threshold overrides applied.
func (e *ScoringEngine) Score(ctx context.Context, in *detectors.Input, project *domain.Project) *domain.QCResult {
	policy := e.policy.ForProject(project)

	result := &domain.QCResult{
		Flags:           make([]string, 0),
		DetectorResults: make([]domain.DetectorResult, 0, len(e.detectors)),
		ScoredAt:        time.Now(),
	}

	total := 0.0
	signal := make([]string, 0)
	for _, d := range e.detectors {
		if !d.Applicable(in) {
			continue
		}
		dr := d.Check(ctx, in)
		result.DetectorResults = append(result.DetectorResults, dr)
		result.Flags = append(result.Flags, dr.Flags...)

		if dr.Unavailable {
			e.logger.Warn("qc detector unavailable", "detector", dr.DetectorName)
			continue
		}
		// availability markers stay visible on the result but never
		// count as fraud signal: a collaborator outage must not change
		// the verdict of an otherwise clean submission
		for _, flag := range dr.Flags {
			if !strings.HasSuffix(flag, ":unavailable") {
				signal = append(signal, flag)
			}
		}
		if !dr.Triggered {
			continue
		}
		total += e.contribution(policy, dr)
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	result.Score = total
	result.RiskLevel = e.riskLevel(policy, total, signal)
	result.Recommendation = e.recommendation(policy, total, signal, result.RiskLevel)
	return result
}

// contribution maps a triggered detector result to its score weight.
func (e *ScoringEngine) contribution(policy ScoringPolicy, dr domain.DetectorResult) float64 {
	switch dr.DetectorName {
	case "domain_reputation":
		return dr.Score * policy.DomainMatchWeight
	case "honeypot":
		return dr.Score * policy.HoneypotWeight
	case "generated_text":
		return dr.Score * policy.GeneratedTextWeight
	case "behavioral":
		if dr.Score > policy.BehavioralScoreCap {
			return policy.BehavioralScoreCap
		}
		return dr.Score
	default:
		// flatline and speed carry their contribution directly
		return dr.Score
	}
}

func (e *ScoringEngine) riskLevel(policy ScoringPolicy, score float64, flags []string) domain.RiskLevel {
	if score >= policy.CriticalScore || e.hasCriticalFlag(policy, flags) {
		return domain.RiskCritical
	}
	if score >= policy.HighScore || len(flags) >= policy.HighFlags {
		return domain.RiskHigh
	}
	if score >= policy.MediumScore || len(flags) >= policy.MediumFlags {
		return domain.RiskMedium
	}
	return domain.RiskLow
}

func (e *ScoringEngine) recommendation(policy ScoringPolicy, score float64, flags []string, risk domain.RiskLevel) domain.Recommendation {
	if score >= policy.ExcludeScore || risk == domain.RiskCritical {
		return domain.RecommendExclude
	}
	if score >= policy.FlagScore || len(flags) >= policy.FlagCount {
		return domain.RecommendFlag
	}
	return domain.RecommendApprove
}

func (e *ScoringEngine) hasCriticalFlag(policy ScoringPolicy, flags []string) bool {
	for _, flag := range flags {
		for _, prefix := range policy.CriticalFlagPrefixes {
			if strings.HasPrefix(flag, prefix) {
				return true
			}
		}
	}
	return false
}

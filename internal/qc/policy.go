package qc

import "github.com/panelhub/panel-link-service/internal/domain"

// ScoringPolicy is the weight and threshold table of the scoring
// engine. It is a value the engine is configured with, never inline
// constants, so projects can override the decision thresholds.
type ScoringPolicy struct {
	// detector weights
	DomainMatchWeight   float64 // added per blacklisted domain match
	HoneypotWeight      float64 // multiplier over honeypot confidence
	GeneratedTextWeight float64 // multiplier over AI confidence
	BehavioralScoreCap  float64

	// risk tier thresholds
	CriticalScore float64
	HighScore     float64
	HighFlags     int
	MediumScore   float64
	MediumFlags   int

	// recommendation thresholds
	ExcludeScore float64
	FlagScore    float64
	FlagCount    int

	// flags that escalate straight to CRITICAL regardless of score
	CriticalFlagPrefixes []string
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		DomainMatchWeight:   30,
		HoneypotWeight:      0.5,
		GeneratedTextWeight: 0.8,
		BehavioralScoreCap:  50,

		CriticalScore: 80,
		HighScore:     60,
		HighFlags:     5,
		MediumScore:   30,
		MediumFlags:   3,

		ExcludeScore: 60,
		FlagScore:    30,
		FlagCount:    3,

		CriticalFlagPrefixes: []string{
			"AI_GENERATED:critical",
			"BLACKLISTED_DOMAIN:",
			"SPEED:extreme_speed",
		},
	}
}

// ForProject applies project-level overrides on top of the defaults.
func (p ScoringPolicy) ForProject(project *domain.Project) ScoringPolicy {
	if project == nil || project.ScoringOverrides == nil {
		return p
	}
	o := project.ScoringOverrides
	if o.ExcludeScore != nil {
		p.ExcludeScore = *o.ExcludeScore
	}
	if o.FlagScore != nil {
		p.FlagScore = *o.FlagScore
	}
	if o.FlagCount != nil {
		p.FlagCount = *o.FlagCount
	}
	return p
}

package detectors

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/panelhub/panel-link-service/internal/domain"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@([a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)

// DomainReputationDetector extracts email domains from free-text answers
// and checks them against the reputation collaborator. Each blacklisted
// domain is a separate match.
type DomainReputationDetector struct {
	reputation domain.DomainReputation
}

func NewDomainReputationDetector(reputation domain.DomainReputation) *DomainReputationDetector {
	return &DomainReputationDetector{reputation: reputation}
}

func (d *DomainReputationDetector) Name() string {
	return "domain_reputation"
}

func (d *DomainReputationDetector) Applicable(in *Input) bool {
	for _, a := range in.answers() {
		if a.Kind == domain.AnswerEmail || emailPattern.MatchString(a.Value) {
			return true
		}
	}
	return false
}

func (d *DomainReputationDetector) Check(ctx context.Context, in *Input) domain.DetectorResult {
	result := domain.DetectorResult{DetectorName: d.Name()}

	seen := make(map[string]bool)
	var domains []string
	for _, a := range in.answers() {
		for _, m := range emailPattern.FindAllStringSubmatch(a.Value, -1) {
			dom := strings.ToLower(m[1])
			if !seen[dom] {
				seen[dom] = true
				domains = append(domains, dom)
			}
		}
	}
	if len(domains) == 0 {
		return result
	}

	matches := 0
	for _, dom := range domains {
		verdict, err := d.reputation.Lookup(ctx, dom)
		if err != nil {
			// fail open: the lookup outage must not block the flow
			result.Unavailable = true
			result.Flags = append(result.Flags, "DOMAIN_CHECK:unavailable")
			continue
		}
		if verdict == nil {
			continue
		}
		matches++
		result.Flags = append(result.Flags,
			fmt.Sprintf("BLACKLISTED_DOMAIN:%s:%s", verdict.Category, verdict.Reason))
	}

	if matches > 0 {
		result.Triggered = true
		result.Unavailable = false
		result.Score = float64(matches)
		result.Evidence = map[string]any{
			"domains_checked": len(domains),
			"matches":         matches,
		}
	}
	return result
}

package gate

import (
	"log/slog"

	"github.com/panelhub/panel-link-service/internal/domain"
)

const (
	ReasonGeoRestricted     = "geo_restricted"
	ReasonAnonymizedNetwork = "anonymized_network"
	FlagGeoUnavailable      = "geo_unavailable"
	FlagAnonymizedWarn      = "anonymized_network_warning"
)

// Decision is the gate verdict for one checkpoint. Flags are recorded
// on the link even when the transition is allowed.
type Decision struct {
	Allowed bool
	Reason  string
	Flags   []string
}

// Gate enforces the project allow/deny policy over a resolved network
// context. It is consulted at first click and again at completion.
type Gate struct {
	logger *slog.Logger
}

func NewGate(logger *slog.Logger) *Gate {
	return &Gate{logger: logger}
}

// Evaluate runs the geography check and the anonymization-network check
// independently. Geolocation failure defaults to allow with a recorded
// geo_unavailable flag so a collaborator outage never blocks
// participation.
func (g *Gate) Evaluate(network *domain.NetworkContext, project *domain.Project) Decision {
	decision := Decision{Allowed: true}

	if network == nil || network.Unavailable {
		decision.Flags = append(decision.Flags, FlagGeoUnavailable)
		g.logger.Warn("gate evaluated without geolocation", "project_id", projectID(project))
		return decision
	}

	// (a) geography membership
	if project.GeoRestricted() && !project.CountryAllowed(network.CountryCode) {
		return Decision{
			Allowed: false,
			Reason:  ReasonGeoRestricted,
			Flags:   []string{ReasonGeoRestricted + ":" + network.CountryCode},
		}
	}

	// (b) anonymization-network detection, policy-dependent
	if network.Anonymized() {
		if project.AnonymizedPolicy == domain.AnonymizedBlock {
			return Decision{
				Allowed: false,
				Reason:  ReasonAnonymizedNetwork,
				Flags:   []string{ReasonAnonymizedNetwork},
			}
		}
		decision.Flags = append(decision.Flags, FlagAnonymizedWarn)
	}

	return decision
}

func projectID(p *domain.Project) string {
	if p == nil {
		return ""
	}
	return p.ID
}

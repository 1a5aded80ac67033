package domain

type AnonymizedNetworkPolicy string

const (
	AnonymizedWarn  AnonymizedNetworkPolicy = "warn"
	AnonymizedBlock AnonymizedNetworkPolicy = "block"
)

// Project carries the per-project gate and QC policy. Empty
// AllowedCountries means no geography restriction.
type Project struct {
	ID               string
	Name             string
	IsActive         bool
	AllowedCountries []string
	AnonymizedPolicy AnonymizedNetworkPolicy
	HoneypotFieldIDs []string

	// ScoringOverrides holds threshold overrides for the QC policy
	// table; nil means service defaults.
	ScoringOverrides *ScoringOverrides
}

// ScoringOverrides are the per-project knobs over the default scoring
// policy table. Pointer fields distinguish "not set" from zero.
type ScoringOverrides struct {
	ExcludeScore *float64 `json:"exclude_score,omitempty"`
	FlagScore    *float64 `json:"flag_score,omitempty"`
	FlagCount    *int     `json:"flag_count,omitempty"`
}

func (p *Project) GeoRestricted() bool {
	return len(p.AllowedCountries) > 0
}

func (p *Project) CountryAllowed(code string) bool {
	if !p.GeoRestricted() {
		return true
	}
	for _, c := range p.AllowedCountries {
		if c == code {
			return true
		}
	}
	return false
}

type Vendor struct {
	ID        string
	ProjectID string
	Name      string
	IsActive  bool
}

type ProjectRepository interface {
	GetProjectByID(projectID string) (*Project, error)
	GetVendorByID(vendorID string) (*Vendor, error)
	GetVendorsByProjectID(projectID string) ([]*Vendor, error)
}

package domain

import "time"

type LinkStatus string

const (
	StatusUnused       LinkStatus = "UNUSED"
	StatusClicked      LinkStatus = "CLICKED"
	StatusCompleted    LinkStatus = "COMPLETED"
	StatusDisqualified LinkStatus = "DISQUALIFIED"
	StatusQuotaFull    LinkStatus = "QUOTA_FULL"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s LinkStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDisqualified || s == StatusQuotaFull
}

// SurveyLink is one distributed survey invitation and its progress.
// Links are created in bulk by the generation orchestrator and mutated
// only by the link usecase; they are never deleted.
type SurveyLink struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	VendorID        string     `json:"vendor_id,omitempty"` // empty = unrestricted / project-wide pool
	RespID          string     `json:"resp_id"`             // business-facing sequence token, e.g. "al001"
	Token           string     `json:"token"`               // unguessable public path segment
	Status          LinkStatus `json:"status"`
	VendorCorrected bool       `json:"vendor_corrected"`

	NetworkContext *NetworkContext `json:"network_context,omitempty"` // captured at click time
	QCResult       *QCResult       `json:"qc_result,omitempty"`       // attached after scoring
	ManualReview   *ManualReview   `json:"manual_review,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ClickedAt   *time.Time `json:"clicked_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NetworkContext is the IP-derived geography and anonymization flags of
// the requester, resolved once at first click.
type NetworkContext struct {
	IP          string `json:"ip"`
	UserAgent   string `json:"user_agent,omitempty"`
	CountryCode string `json:"country_code"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`

	IsVPN     bool `json:"is_vpn"`
	IsProxy   bool `json:"is_proxy"`
	IsTor     bool `json:"is_tor"`
	IsHosting bool `json:"is_hosting"`

	// Unavailable is set when the geolocation lookup failed; the gate
	// treats such a context as allow with a recorded flag.
	Unavailable bool     `json:"unavailable,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (nc *NetworkContext) Anonymized() bool {
	if nc == nil {
		return false
	}
	return nc.IsVPN || nc.IsProxy || nc.IsTor || nc.IsHosting
}

type ReviewDisposition string

const (
	ReviewApproved    ReviewDisposition = "APPROVED"
	ReviewRejected    ReviewDisposition = "REJECTED"
	ReviewUnderReview ReviewDisposition = "UNDER_REVIEW"
)

// ManualReview supersedes QCResult.Recommendation for downstream
// reporting without mutating the stored detector evidence.
type ManualReview struct {
	Disposition ReviewDisposition `json:"disposition"`
	ReviewerID  string            `json:"reviewer_id"`
	Comment     string            `json:"comment,omitempty"`
	ReviewedAt  time.Time         `json:"reviewed_at"`
}

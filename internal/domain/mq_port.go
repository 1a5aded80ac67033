package domain

// LinkEvent is published on every lifecycle transition.
type LinkEvent struct {
	LinkID         string  `json:"link_id"`
	ProjectID      string  `json:"project_id"`
	VendorID       string  `json:"vendor_id,omitempty"`
	RespID         string  `json:"resp_id"`
	Status         string  `json:"status"`
	Reason         string  `json:"reason,omitempty"`
	QCScore        float64 `json:"qc_score,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
}

type LinkEventPublisher interface {
	PublishLinkEvent(event LinkEvent) error
}

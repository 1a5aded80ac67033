package domain

// QuotaCounter tracks completions against a target for one quota pool.
// VendorID is empty for the project-wide pool.
type QuotaCounter struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	VendorID  string `json:"vendor_id,omitempty"`
	Limit     int64  `json:"limit"`
	Current   int64  `json:"current"`
}

type QuotaRepository interface {
	CreateCounter(counter *QuotaCounter) error
	GetCounter(projectID, vendorID string) (*QuotaCounter, error)

	// TryIncrement performs an atomic increment-if-below-limit on the
	// pool resolved for (projectID, vendorID): the vendor pool if one
	// exists, otherwise the project-wide pool. It returns the counter
	// that was incremented, or ok=false when the pool is already at
	// its limit. When no counter is configured at all it returns
	// (nil, true, nil): completion proceeds without quota accounting.
	TryIncrement(projectID, vendorID string) (counter *QuotaCounter, ok bool, err error)
}

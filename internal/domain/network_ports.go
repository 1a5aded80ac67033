package domain

import "context"

// GeoResolver turns a requester IP into a NetworkContext. Lookups are
// time-bounded; on failure implementations return a context with
// Unavailable set instead of an error so the caller can fail open.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) *NetworkContext
}

// DomainReputation answers whether an email domain is on a known-bad
// list. Err is returned only for lookup failures; an unknown domain is
// (nil, nil).
type DomainReputation interface {
	Lookup(ctx context.Context, domain string) (*DomainVerdict, error)
}

type DomainVerdict struct {
	Domain   string `json:"domain"`
	Category string `json:"category"` // e.g. "disposable", "fraud_farm", "role_based"
	Reason   string `json:"reason"`
}

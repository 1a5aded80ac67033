package domain

import "time"

type LinkRepository interface {
	CreateLink(link *SurveyLink) error
	GetLinkByID(linkID string) (*SurveyLink, error)
	GetLinkByToken(token string) (*SurveyLink, error)
	GetLinksByProjectID(projectID string, page, limit int64) ([]*SurveyLink, int64, error)
	ListStaleClicked(olderThan time.Time) ([]*SurveyLink, error)

	// UpdateFromStatus persists link only if the stored row is still in
	// the expected status. It returns false when a concurrent transition
	// won the race; callers re-read and apply the InvalidState guard.
	UpdateFromStatus(link *SurveyLink, expected LinkStatus) (bool, error)

	UpdateVendor(linkID, vendorID string) error
	SetManualReview(linkID string, review *ManualReview) error

	// CompleteWithQuota applies the quota increment and the terminal
	// transition of a scored link as one transaction. The link arrives
	// in CLICKED with its QCResult attached; completed=false means the
	// pool was at its limit and the link was stored as QUOTA_FULL.
	CompleteWithQuota(link *SurveyLink) (completed bool, err error)
}

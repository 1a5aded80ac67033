package linkdto

import "github.com/panelhub/panel-link-service/internal/domain"

type RegisterClickInput struct {
	Token     string
	IP        string
	UserAgent string
}

type RegisterCompletionInput struct {
	Token    string
	Payload  *domain.ResponsePayload
	Metadata *domain.SubmissionMetadata
}

type CorrectVendorInput struct {
	LinkID      string
	NewVendorID string
	ActorID     string
}

type ManualReviewInput struct {
	LinkID      string
	Disposition domain.ReviewDisposition
	ReviewerID  string
	Comment     string
}

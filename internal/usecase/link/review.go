package usecase

import (
	"fmt"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

// SetManualReview records a reviewer disposition that supersedes the
// QC recommendation for downstream reporting. The stored QCResult and
// its detector evidence are never touched.
func (uc *DefaultLinkUsecase) SetManualReview(input *linkdto.ManualReviewInput) (*domain.SurveyLink, error) {
	switch input.Disposition {
	case domain.ReviewApproved, domain.ReviewRejected, domain.ReviewUnderReview:
	default:
		return nil, fmt.Errorf("%w: unknown disposition %q", domain.ErrValidation, input.Disposition)
	}

	link, err := uc.LinkRepo.GetLinkByID(input.LinkID)
	if err != nil {
		return nil, err
	}
	if link.QCResult == nil {
		return nil, fmt.Errorf("%w: link has no qc result to review", domain.ErrInvalidLinkState)
	}

	review := &domain.ManualReview{
		Disposition: input.Disposition,
		ReviewerID:  input.ReviewerID,
		Comment:     input.Comment,
		ReviewedAt:  time.Now(),
	}
	if err := uc.LinkRepo.SetManualReview(link.ID, review); err != nil {
		return nil, err
	}
	link.ManualReview = review

	uc.Metrics.ManualOverridesTotal.WithLabelValues(link.ProjectID, string(input.Disposition)).Inc()
	uc.Logger.Info("manual review recorded",
		"link_id", link.ID,
		"disposition", input.Disposition,
		"reviewer_id", input.ReviewerID,
	)
	return link, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/qc/detectors"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

// RegisterCompletion drives the CLICKED -> {COMPLETED, DISQUALIFIED,
// QUOTA_FULL} transition. Scoring runs synchronously; the quota
// increment and the terminal transition are one atomic unit in the
// repository.
func (uc *DefaultLinkUsecase) RegisterCompletion(ctx context.Context, input *linkdto.RegisterCompletionInput) (*linkdto.CompletionOutput, error) {
	link, err := uc.LinkRepo.GetLinkByToken(input.Token)
	if err != nil {
		return nil, err
	}
	if link.Status != domain.StatusClicked {
		return nil, fmt.Errorf("%w: completion on %s link", domain.ErrInvalidLinkState, link.Status)
	}

	project, err := uc.ProjectRepo.GetProjectByID(link.ProjectID)
	if err != nil {
		return nil, err
	}

	// second gate checkpoint over the context captured at click time:
	// the project policy may have tightened since the click. The
	// submission body never supplies the context the decision is based
	// on; metadata still reaches the detectors as telemetry.
	if decision := uc.Gate.Evaluate(link.NetworkContext, project); !decision.Allowed {
		uc.Metrics.GateDeniedTotal.WithLabelValues(link.ProjectID, decision.Reason).Inc()
		return uc.finalizeDisqualified(link, nil, decision.Reason)
	}

	qcResult := uc.Engine.Score(ctx, &detectors.Input{
		Payload:          input.Payload,
		Metadata:         input.Metadata,
		Network:          link.NetworkContext,
		HoneypotFieldIDs: project.HoneypotFieldIDs,
	}, project)

	for _, dr := range qcResult.DetectorResults {
		if dr.Triggered {
			uc.Metrics.DetectorTriggeredTotal.WithLabelValues(dr.DetectorName).Inc()
		}
	}
	uc.Metrics.QCScore.WithLabelValues(link.ProjectID, string(qcResult.Recommendation)).Observe(qcResult.Score)

	if qcResult.Recommendation == domain.RecommendExclude {
		return uc.finalizeDisqualified(link, qcResult, "qc_exclude")
	}

	link.QCResult = qcResult
	completed, err := uc.LinkRepo.CompleteWithQuota(link)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLinkState) {
			return nil, fmt.Errorf("%w: concurrent completion", domain.ErrInvalidLinkState)
		}
		return nil, err
	}

	outcome := string(domain.StatusCompleted)
	if !completed {
		outcome = string(domain.StatusQuotaFull)
	}
	uc.Metrics.LinkCompletionsTotal.WithLabelValues(link.ProjectID, outcome).Inc()

	uc.publishEvent(domain.LinkEvent{
		LinkID:         link.ID,
		ProjectID:      link.ProjectID,
		VendorID:       link.VendorID,
		RespID:         link.RespID,
		Status:         string(link.Status),
		QCScore:        qcResult.Score,
		Recommendation: string(qcResult.Recommendation),
	})

	uc.Logger.Info("link completion registered",
		"link_id", link.ID,
		"project_id", link.ProjectID,
		"status", link.Status,
		"qc_score", qcResult.Score,
		"recommendation", qcResult.Recommendation,
	)

	return &linkdto.CompletionOutput{Link: link, QCResult: qcResult}, nil
}

// finalizeDisqualified stores the DISQUALIFIED outcome of a completion
// attempt. The response and its QCResult are retained for audit even
// though the link does not count toward completions.
func (uc *DefaultLinkUsecase) finalizeDisqualified(link *domain.SurveyLink, qcResult *domain.QCResult, reason string) (*linkdto.CompletionOutput, error) {
	now := time.Now()
	link.Status = domain.StatusDisqualified
	link.CompletedAt = &now
	link.QCResult = qcResult

	ok, err := uc.LinkRepo.UpdateFromStatus(link, domain.StatusClicked)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: concurrent completion", domain.ErrInvalidLinkState)
	}

	uc.Metrics.LinkCompletionsTotal.WithLabelValues(link.ProjectID, string(domain.StatusDisqualified)).Inc()

	event := domain.LinkEvent{
		LinkID:    link.ID,
		ProjectID: link.ProjectID,
		VendorID:  link.VendorID,
		RespID:    link.RespID,
		Status:    string(link.Status),
		Reason:    reason,
	}
	if qcResult != nil {
		event.QCScore = qcResult.Score
		event.Recommendation = string(qcResult.Recommendation)
	}
	uc.publishEvent(event)

	uc.Logger.Warn("link disqualified on completion",
		"link_id", link.ID,
		"project_id", link.ProjectID,
		"reason", reason,
	)

	return &linkdto.CompletionOutput{Link: link, QCResult: qcResult}, nil
}

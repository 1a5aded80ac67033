package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

// RegisterClick drives the UNUSED -> CLICKED transition. The gate is
// evaluated exactly once per link: a repeated click on an already
// clicked link returns the stored state without re-running the gate.
func (uc *DefaultLinkUsecase) RegisterClick(ctx context.Context, input *linkdto.RegisterClickInput) (*linkdto.ClickOutput, error) {
	link, err := uc.LinkRepo.GetLinkByToken(input.Token)
	if err != nil {
		return nil, err
	}

	// idempotent second click
	if link.Status == domain.StatusClicked {
		return &linkdto.ClickOutput{
			Link:     link,
			Decision: storedDecision(link),
		}, nil
	}
	if link.Status != domain.StatusUnused {
		return nil, fmt.Errorf("%w: click on %s link", domain.ErrInvalidLinkState, link.Status)
	}

	project, err := uc.ProjectRepo.GetProjectByID(link.ProjectID)
	if err != nil {
		return nil, err
	}

	networkCtx := uc.GeoResolver.Resolve(ctx, input.IP)
	networkCtx.UserAgent = input.UserAgent
	decision := uc.Gate.Evaluate(networkCtx, project)
	networkCtx.Warnings = append(networkCtx.Warnings, decision.Flags...)

	now := time.Now()
	link.ClickedAt = &now
	link.NetworkContext = networkCtx

	newStatus := domain.StatusClicked
	if !decision.Allowed {
		newStatus = domain.StatusDisqualified
		uc.Metrics.GateDeniedTotal.WithLabelValues(link.ProjectID, decision.Reason).Inc()
	}
	link.Status = newStatus

	ok, err := uc.LinkRepo.UpdateFromStatus(link, domain.StatusUnused)
	if err != nil {
		return nil, err
	}
	if !ok {
		// a concurrent click won the race; serve its result
		current, err := uc.LinkRepo.GetLinkByToken(input.Token)
		if err != nil {
			return nil, err
		}
		if current.Status == domain.StatusClicked {
			return &linkdto.ClickOutput{Link: current, Decision: storedDecision(current)}, nil
		}
		return nil, fmt.Errorf("%w: click on %s link", domain.ErrInvalidLinkState, current.Status)
	}

	decisionLabel := "allowed"
	if !decision.Allowed {
		decisionLabel = decision.Reason
	}
	uc.Metrics.LinkClicksTotal.WithLabelValues(link.ProjectID, decisionLabel).Inc()

	uc.publishEvent(domain.LinkEvent{
		LinkID:    link.ID,
		ProjectID: link.ProjectID,
		VendorID:  link.VendorID,
		RespID:    link.RespID,
		Status:    string(link.Status),
		Reason:    decision.Reason,
	})

	uc.Logger.Info("link click registered",
		"link_id", link.ID,
		"project_id", link.ProjectID,
		"status", link.Status,
		"gate_allowed", decision.Allowed,
	)

	return &linkdto.ClickOutput{
		Link: link,
		Decision: linkdto.ClickDecision{
			Allowed: decision.Allowed,
			Reason:  decision.Reason,
			Flags:   decision.Flags,
		},
	}, nil
}

// storedDecision reconstructs the original gate verdict from the
// network context captured at first click.
func storedDecision(link *domain.SurveyLink) linkdto.ClickDecision {
	decision := linkdto.ClickDecision{Allowed: true}
	if link.NetworkContext != nil {
		decision.Flags = link.NetworkContext.Warnings
	}
	return decision
}

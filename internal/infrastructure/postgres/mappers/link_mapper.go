package mappers

import (
	"encoding/json"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
)

func ToDomainLink(model *models.SurveyLinkModel) *domain.SurveyLink {
	link := &domain.SurveyLink{
		ID:              model.ID,
		ProjectID:       model.ProjectID,
		VendorID:        model.VendorID,
		RespID:          model.RespID,
		Token:           model.Token,
		Status:          model.Status,
		VendorCorrected: model.VendorCorrected,
		CreatedAt:       model.CreatedAt,
		ClickedAt:       model.ClickedAt,
		CompletedAt:     model.CompletedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.NetworkContextJSON != "" {
		var nc domain.NetworkContext
		if err := json.Unmarshal([]byte(model.NetworkContextJSON), &nc); err == nil {
			link.NetworkContext = &nc
		}
	}
	if model.QCResultJSON != "" {
		var qc domain.QCResult
		if err := json.Unmarshal([]byte(model.QCResultJSON), &qc); err == nil {
			link.QCResult = &qc
		}
	}
	if model.ManualReviewJSON != "" {
		var review domain.ManualReview
		if err := json.Unmarshal([]byte(model.ManualReviewJSON), &review); err == nil {
			link.ManualReview = &review
		}
	}
	return link
}

func ToGORMLink(link *domain.SurveyLink) *models.SurveyLinkModel {
	model := &models.SurveyLinkModel{
		ID:              link.ID,
		ProjectID:       link.ProjectID,
		VendorID:        link.VendorID,
		RespID:          link.RespID,
		Token:           link.Token,
		Status:          link.Status,
		VendorCorrected: link.VendorCorrected,
		CreatedAt:       link.CreatedAt,
		ClickedAt:       link.ClickedAt,
		CompletedAt:     link.CompletedAt,
		UpdatedAt:       link.UpdatedAt,
	}

	if link.NetworkContext != nil {
		if raw, err := json.Marshal(link.NetworkContext); err == nil {
			model.NetworkContextJSON = string(raw)
		}
	}
	if link.QCResult != nil {
		if raw, err := json.Marshal(link.QCResult); err == nil {
			model.QCResultJSON = string(raw)
		}
	}
	if link.ManualReview != nil {
		if raw, err := json.Marshal(link.ManualReview); err == nil {
			model.ManualReviewJSON = string(raw)
		}
	}
	return model
}

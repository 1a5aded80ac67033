package mappers

import (
	"encoding/json"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
)

func ToDomainProject(model *models.ProjectModel) *domain.Project {
	project := &domain.Project{
		ID:               model.ID,
		Name:             model.Name,
		IsActive:         model.IsActive,
		AnonymizedPolicy: domain.AnonymizedNetworkPolicy(model.AnonymizedPolicy),
	}
	if project.AnonymizedPolicy == "" {
		project.AnonymizedPolicy = domain.AnonymizedWarn
	}

	if model.AllowedCountriesJSON != "" {
		_ = json.Unmarshal([]byte(model.AllowedCountriesJSON), &project.AllowedCountries)
	}
	if model.HoneypotFieldsJSON != "" {
		_ = json.Unmarshal([]byte(model.HoneypotFieldsJSON), &project.HoneypotFieldIDs)
	}
	if model.ScoringOverridesJSON != "" {
		var overrides domain.ScoringOverrides
		if err := json.Unmarshal([]byte(model.ScoringOverridesJSON), &overrides); err == nil {
			project.ScoringOverrides = &overrides
		}
	}
	return project
}

func ToDomainVendor(model *models.VendorModel) *domain.Vendor {
	return &domain.Vendor{
		ID:        model.ID,
		ProjectID: model.ProjectID,
		Name:      model.Name,
		IsActive:  model.IsActive,
	}
}

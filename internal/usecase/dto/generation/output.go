package generationdto

import "github.com/panelhub/panel-link-service/internal/domain"

type GenerateLinksOutput struct {
	Links       []*domain.SurveyLink `json:"links"`
	FailedCount int                  `json:"failed_count"`
}

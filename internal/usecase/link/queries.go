package usecase

import "github.com/panelhub/panel-link-service/internal/domain"

func (uc *DefaultLinkUsecase) GetLinkByID(linkID string) (*domain.SurveyLink, error) {
	return uc.LinkRepo.GetLinkByID(linkID)
}

func (uc *DefaultLinkUsecase) GetLinkByToken(token string) (*domain.SurveyLink, error) {
	return uc.LinkRepo.GetLinkByToken(token)
}

func (uc *DefaultLinkUsecase) GetLinksByProjectID(projectID string, page, limit int64) ([]*domain.SurveyLink, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return uc.LinkRepo.GetLinksByProjectID(projectID, page, limit)
}

func (uc *DefaultLinkUsecase) GetQuotaCounter(projectID, vendorID string) (*domain.QuotaCounter, error) {
	return uc.QuotaRepo.GetCounter(projectID, vendorID)
}

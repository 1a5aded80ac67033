package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/mappers"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultLinkRepository struct {
	DB *gorm.DB
}

func NewDefaultLinkRepository(db *gorm.DB) *DefaultLinkRepository {
	return &DefaultLinkRepository{DB: db}
}

func (r *DefaultLinkRepository) CreateLink(link *domain.SurveyLink) error {
	model := mappers.ToGORMLink(link)
	if err := r.DB.Create(model).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultLinkRepository) GetLinkByID(linkID string) (*domain.SurveyLink, error) {
	var model models.SurveyLinkModel
	if err := r.DB.First(&model, "id = ?", linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return mappers.ToDomainLink(&model), nil
}

func (r *DefaultLinkRepository) GetLinkByToken(token string) (*domain.SurveyLink, error) {
	var model models.SurveyLinkModel
	if err := r.DB.First(&model, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return mappers.ToDomainLink(&model), nil
}

func (r *DefaultLinkRepository) GetLinksByProjectID(projectID string, page, limit int64) ([]*domain.SurveyLink, int64, error) {
	var linkModels []models.SurveyLinkModel
	var total int64

	baseQuery := r.DB.Model(&models.SurveyLinkModel{}).Where("project_id = ?", projectID)
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&linkModels).Error; err != nil {
		return nil, 0, err
	}

	links := make([]*domain.SurveyLink, 0, len(linkModels))
	for i := range linkModels {
		links = append(links, mappers.ToDomainLink(&linkModels[i]))
	}
	return links, total, nil
}

func (r *DefaultLinkRepository) ListStaleClicked(olderThan time.Time) ([]*domain.SurveyLink, error) {
	var linkModels []models.SurveyLinkModel
	if err := r.DB.
		Where("status = ? AND clicked_at < ?", domain.StatusClicked, olderThan).
		Find(&linkModels).Error; err != nil {
		return nil, err
	}
	links := make([]*domain.SurveyLink, 0, len(linkModels))
	for i := range linkModels {
		links = append(links, mappers.ToDomainLink(&linkModels[i]))
	}
	return links, nil
}

// UpdateFromStatus writes the link only if the row is still in the
// expected status. RowsAffected == 0 means another transition won.
func (r *DefaultLinkRepository) UpdateFromStatus(link *domain.SurveyLink, expected domain.LinkStatus) (bool, error) {
	model := mappers.ToGORMLink(link)
	res := r.DB.Model(&models.SurveyLinkModel{}).
		Where("id = ? AND status = ?", link.ID, expected).
		Updates(map[string]interface{}{
			"status":               model.Status,
			"network_context_json": model.NetworkContextJSON,
			"qc_result_json":       model.QCResultJSON,
			"clicked_at":           model.ClickedAt,
			"completed_at":         model.CompletedAt,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultLinkRepository) UpdateVendor(linkID, vendorID string) error {
	res := r.DB.Model(&models.SurveyLinkModel{}).
		Where("id = ?", linkID).
		Updates(map[string]interface{}{
			"vendor_id":        vendorID,
			"vendor_corrected": true,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *DefaultLinkRepository) SetManualReview(linkID string, review *domain.ManualReview) error {
	raw, err := json.Marshal(review)
	if err != nil {
		return err
	}
	res := r.DB.Model(&models.SurveyLinkModel{}).
		Where("id = ?", linkID).
		Updates(map[string]interface{}{
			"manual_review_json": string(raw),
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// CompleteWithQuota applies the quota increment and the terminal
// transition as one transaction. Two concurrent completions against the
// last quota slot serialize on the conditional UPDATE: exactly one sees
// the increment succeed.
func (r *DefaultLinkRepository) CompleteWithQuota(link *domain.SurveyLink) (bool, error) {
	completed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		_, ok, err := tryIncrementTx(tx, link.ProjectID, link.VendorID)
		if err != nil {
			return err
		}
		completed = ok

		now := time.Now()
		newStatus := domain.StatusCompleted
		if !ok {
			newStatus = domain.StatusQuotaFull
		}
		link.Status = newStatus
		link.CompletedAt = &now

		model := mappers.ToGORMLink(link)
		res := tx.Model(&models.SurveyLinkModel{}).
			Where("id = ? AND status = ?", link.ID, domain.StatusClicked).
			Updates(map[string]interface{}{
				"status":         newStatus,
				"qc_result_json": model.QCResultJSON,
				"completed_at":   now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to a concurrent completion; roll back the
			// quota increment together with the transition
			return domain.ErrInvalidLinkState
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

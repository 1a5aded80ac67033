package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultQuotaRepository struct {
	DB *gorm.DB
}

func NewDefaultQuotaRepository(db *gorm.DB) *DefaultQuotaRepository {
	return &DefaultQuotaRepository{DB: db}
}

func (r *DefaultQuotaRepository) CreateCounter(counter *domain.QuotaCounter) error {
	model := models.QuotaCounterModel{
		ID:        uuid.New().String(),
		ProjectID: counter.ProjectID,
		VendorID:  counter.VendorID,
		Limit:     counter.Limit,
		Current:   counter.Current,
	}
	if err := r.DB.Create(&model).Error; err != nil {
		return err
	}
	counter.ID = model.ID
	return nil
}

func (r *DefaultQuotaRepository) GetCounter(projectID, vendorID string) (*domain.QuotaCounter, error) {
	var model models.QuotaCounterModel
	err := r.DB.First(&model, "project_id = ? AND vendor_id = ?", projectID, vendorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuotaPoolNotFound
		}
		return nil, err
	}
	return &domain.QuotaCounter{
		ID:        model.ID,
		ProjectID: model.ProjectID,
		VendorID:  model.VendorID,
		Limit:     model.Limit,
		Current:   model.Current,
	}, nil
}

func (r *DefaultQuotaRepository) TryIncrement(projectID, vendorID string) (*domain.QuotaCounter, bool, error) {
	return tryIncrementTx(r.DB, projectID, vendorID)
}

// tryIncrementTx is the shared increment-if-below-limit used both
// standalone and inside the link completion transaction. The compare
// and the increment happen in one conditional UPDATE; the caller never
// sees a read-then-write window.
func tryIncrementTx(tx *gorm.DB, projectID, vendorID string) (*domain.QuotaCounter, bool, error) {
	// vendor pool first, project-wide pool as fallback
	pools := []string{}
	if vendorID != "" {
		pools = append(pools, vendorID)
	}
	pools = append(pools, "")

	for _, pool := range pools {
		res := tx.Model(&models.QuotaCounterModel{}).
			Where("project_id = ? AND vendor_id = ? AND current_count < limit_count", projectID, pool).
			UpdateColumn("current_count", gorm.Expr("current_count + 1"))
		if res.Error != nil {
			return nil, false, fmt.Errorf("quota increment: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			var model models.QuotaCounterModel
			if err := tx.First(&model, "project_id = ? AND vendor_id = ?", projectID, pool).Error; err != nil {
				return nil, false, err
			}
			return &domain.QuotaCounter{
				ID:        model.ID,
				ProjectID: model.ProjectID,
				VendorID:  model.VendorID,
				Limit:     model.Limit,
				Current:   model.Current,
			}, true, nil
		}

		// nothing updated: pool is either full or not configured
		var count int64
		if err := tx.Model(&models.QuotaCounterModel{}).
			Where("project_id = ? AND vendor_id = ?", projectID, pool).
			Count(&count).Error; err != nil {
			return nil, false, err
		}
		if count > 0 {
			return nil, false, nil // pool exists and is at its limit
		}
	}

	// no counter configured for this pool at all: unlimited
	return nil, true, nil
}

package repository

import (
	"errors"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/mappers"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProjectRepository struct {
	DB *gorm.DB
}

func NewDefaultProjectRepository(db *gorm.DB) *DefaultProjectRepository {
	return &DefaultProjectRepository{DB: db}
}

func (r *DefaultProjectRepository) GetProjectByID(projectID string) (*domain.Project, error) {
	var model models.ProjectModel
	if err := r.DB.First(&model, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return mappers.ToDomainProject(&model), nil
}

func (r *DefaultProjectRepository) GetVendorByID(vendorID string) (*domain.Vendor, error) {
	var model models.VendorModel
	if err := r.DB.First(&model, "id = ?", vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, err
	}
	return mappers.ToDomainVendor(&model), nil
}

func (r *DefaultProjectRepository) GetVendorsByProjectID(projectID string) ([]*domain.Vendor, error) {
	var vendorModels []models.VendorModel
	if err := r.DB.Where("project_id = ?", projectID).Find(&vendorModels).Error; err != nil {
		return nil, err
	}
	vendors := make([]*domain.Vendor, 0, len(vendorModels))
	for i := range vendorModels {
		vendors = append(vendors, mappers.ToDomainVendor(&vendorModels[i]))
	}
	return vendors, nil
}

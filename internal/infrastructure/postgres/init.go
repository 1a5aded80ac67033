package postgres

import (
	"log"

	"github.com/panelhub/panel-link-service/internal/config"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.LinkConfig) *gorm.DB {
	dsn := cfg.LinkDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.ProjectModel{}, &models.VendorModel{}, &models.QuotaCounterModel{}, &models.SurveyLinkModel{})

	return db
}

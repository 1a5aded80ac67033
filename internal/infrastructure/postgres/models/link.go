package models

import (
	"time"

	"github.com/panelhub/panel-link-service/internal/domain"
)

type SurveyLinkModel struct {
	ID              string            `gorm:"primaryKey;type:uuid"`
	ProjectID       string            `gorm:"type:uuid;not null;index:idx_project_status"`
	VendorID        string            `gorm:"type:uuid;index"`
	RespID          string            `gorm:"not null;index:idx_resp_project"`
	Token           string            `gorm:"uniqueIndex;not null"`
	Status          domain.LinkStatus `gorm:"not null;index:idx_project_status"`
	VendorCorrected bool

	// serialized typed sub-shapes, written only by the link usecase
	NetworkContextJSON string `gorm:"type:jsonb"`
	QCResultJSON       string `gorm:"type:jsonb"`
	ManualReviewJSON   string `gorm:"type:jsonb"`

	CreatedAt   time.Time `gorm:"index:idx_created_at"`
	ClickedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

func (SurveyLinkModel) TableName() string {
	return "survey_links"
}

type QuotaCounterModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	ProjectID string `gorm:"type:uuid;not null;uniqueIndex:idx_quota_pool"`
	VendorID  string `gorm:"uniqueIndex:idx_quota_pool"` // empty = project-wide pool
	Limit     int64  `gorm:"column:limit_count;not null"`
	Current   int64  `gorm:"column:current_count;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (QuotaCounterModel) TableName() string {
	return "quota_counters"
}

type ProjectModel struct {
	ID                   string `gorm:"primaryKey;type:uuid"`
	Name                 string `gorm:"not null"`
	IsActive             bool   `gorm:"default:true"`
	AllowedCountriesJSON string `gorm:"type:jsonb"`
	AnonymizedPolicy     string `gorm:"default:'warn'"`
	HoneypotFieldsJSON   string `gorm:"type:jsonb"`
	ScoringOverridesJSON string `gorm:"type:jsonb"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ProjectModel) TableName() string {
	return "projects"
}

type VendorModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	ProjectID string `gorm:"type:uuid;not null;index"`
	Name      string `gorm:"not null"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VendorModel) TableName() string {
	return "vendors"
}

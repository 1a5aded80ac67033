package usecase

import (
	"context"
	"log/slog"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/gate"
	"github.com/panelhub/panel-link-service/internal/infrastructure/metrics"
	"github.com/panelhub/panel-link-service/internal/qc"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

type LinkUsecase interface {
	RegisterClick(ctx context.Context, input *linkdto.RegisterClickInput) (*linkdto.ClickOutput, error)
	RegisterCompletion(ctx context.Context, input *linkdto.RegisterCompletionInput) (*linkdto.CompletionOutput, error)
	CorrectVendorAssignment(input *linkdto.CorrectVendorInput) (*domain.SurveyLink, error)
	SetManualReview(input *linkdto.ManualReviewInput) (*domain.SurveyLink, error)

	GetLinkByID(linkID string) (*domain.SurveyLink, error)
	GetLinkByToken(token string) (*domain.SurveyLink, error)
	GetLinksByProjectID(projectID string, page, limit int64) ([]*domain.SurveyLink, int64, error)
	GetQuotaCounter(projectID, vendorID string) (*domain.QuotaCounter, error)
}

type DefaultLinkUsecase struct {
	LinkRepo    domain.LinkRepository
	ProjectRepo domain.ProjectRepository
	QuotaRepo   domain.QuotaRepository
	GeoResolver domain.GeoResolver
	Gate        *gate.Gate
	Engine      *qc.ScoringEngine
	Publisher   domain.LinkEventPublisher
	Metrics     *metrics.LinkMetrics
	Logger      *slog.Logger
}

func NewDefaultLinkUsecase(
	linkRepo domain.LinkRepository,
	projectRepo domain.ProjectRepository,
	quotaRepo domain.QuotaRepository,
	geoResolver domain.GeoResolver,
	networkGate *gate.Gate,
	engine *qc.ScoringEngine,
	publisher domain.LinkEventPublisher,
	linkMetrics *metrics.LinkMetrics,
	logger *slog.Logger) *DefaultLinkUsecase {

	return &DefaultLinkUsecase{
		LinkRepo:    linkRepo,
		ProjectRepo: projectRepo,
		QuotaRepo:   quotaRepo,
		GeoResolver: geoResolver,
		Gate:        networkGate,
		Engine:      engine,
		Publisher:   publisher,
		Metrics:     linkMetrics,
		Logger:      logger,
	}
}

// publishEvent sends a lifecycle event without blocking the caller.
func (uc *DefaultLinkUsecase) publishEvent(event domain.LinkEvent) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.LinkEvent) {
		if err := uc.Publisher.PublishLinkEvent(event); err != nil {
			slog.Error("failed to publish kafka LinkEvent", "link_id", event.LinkID, "status", event.Status, "error", err.Error())
		}
	}(event)
}

package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/metrics"
	generationdto "github.com/panelhub/panel-link-service/internal/usecase/dto/generation"
)

const tokenLength = 21

type GenerationUsecase interface {
	GenerateLinks(input *generationdto.GenerateLinksInput) (*generationdto.GenerateLinksOutput, error)
}

// DefaultGenerationUsecase creates links in bounded chunks: a fixed
// chunk size, best-effort parallelism inside a chunk, and a small
// inter-chunk delay as backpressure on the persistence layer.
type DefaultGenerationUsecase struct {
	LinkRepo    domain.LinkRepository
	ProjectRepo domain.ProjectRepository
	Metrics     *metrics.LinkMetrics
	Logger      *slog.Logger

	ChunkSize  int
	ChunkDelay time.Duration
}

func NewDefaultGenerationUsecase(
	linkRepo domain.LinkRepository,
	projectRepo domain.ProjectRepository,
	linkMetrics *metrics.LinkMetrics,
	logger *slog.Logger,
	chunkSize int,
	chunkDelay time.Duration) *DefaultGenerationUsecase {

	if chunkSize <= 0 {
		chunkSize = 25
	}
	return &DefaultGenerationUsecase{
		LinkRepo:    linkRepo,
		ProjectRepo: projectRepo,
		Metrics:     linkMetrics,
		Logger:      logger,
		ChunkSize:   chunkSize,
		ChunkDelay:  chunkDelay,
	}
}

func (uc *DefaultGenerationUsecase) GenerateLinks(input *generationdto.GenerateLinksInput) (*generationdto.GenerateLinksOutput, error) {
	start := time.Now()

	respIDs, err := uc.buildRespIDs(input)
	if err != nil {
		return nil, err
	}

	project, err := uc.ProjectRepo.GetProjectByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsActive {
		return nil, fmt.Errorf("%w: project %s is not active", domain.ErrValidation, project.ID)
	}
	if err := uc.validateVendors(project, input.VendorIDs); err != nil {
		return nil, err
	}

	links, err := uc.buildLinks(project.ID, respIDs, input.VendorIDs)
	if err != nil {
		return nil, err
	}

	created, failed := uc.persistChunked(links)
	if len(created) == 0 && failed > 0 {
		return nil, fmt.Errorf("link generation failed for all %d links", failed)
	}

	mode := string(input.Mode)
	uc.Metrics.GenerationBatchDuration.WithLabelValues(project.ID, mode).Observe(time.Since(start).Seconds())
	for _, link := range created {
		uc.Metrics.LinksGeneratedTotal.WithLabelValues(project.ID, link.VendorID, mode).Inc()
	}
	if failed > 0 {
		uc.Metrics.LinkGenerationFailedTotal.WithLabelValues(project.ID, mode).Add(float64(failed))
	}

	uc.Logger.Info("link generation finished",
		"project_id", project.ID,
		"mode", mode,
		"requested", len(links),
		"created", len(created),
		"failed", failed,
		"elapsed", time.Since(start),
	)

	return &generationdto.GenerateLinksOutput{Links: created, FailedCount: failed}, nil
}

// buildRespIDs resolves the id source for the selected mode and
// rejects duplicates within the batch before anything is persisted.
func (uc *DefaultGenerationUsecase) buildRespIDs(input *generationdto.GenerateLinksInput) ([]string, error) {
	var respIDs []string

	switch input.Mode {
	case generationdto.ModeSequential:
		total := input.TestCount + input.LiveCount
		if total <= 0 {
			return nil, fmt.Errorf("%w: sequential generation needs a positive total count", domain.ErrValidation)
		}
		ids, err := SequentialRespIDs(input.SeedRespID, total)
		if err != nil {
			return nil, err
		}
		respIDs = ids

	case generationdto.ModeImported:
		if len(input.ImportedIDs) == 0 {
			return nil, fmt.Errorf("%w: imported generation needs a non-empty id list", domain.ErrValidation)
		}
		respIDs = input.ImportedIDs

	case generationdto.ModeHybrid:
		total := input.TestCount + input.LiveCount
		if total <= 0 && len(input.ImportedIDs) == 0 {
			return nil, fmt.Errorf("%w: hybrid generation needs a sequential count or imported ids", domain.ErrValidation)
		}
		if total > 0 {
			ids, err := SequentialRespIDs(input.SeedRespID, total)
			if err != nil {
				return nil, err
			}
			respIDs = append(respIDs, ids...)
		}
		respIDs = append(respIDs, input.ImportedIDs...)

	default:
		return nil, fmt.Errorf("%w: unknown generation mode %q", domain.ErrValidation, input.Mode)
	}

	seen := make(map[string]bool, len(respIDs))
	for _, id := range respIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty respId in batch", domain.ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate respId %q in batch", domain.ErrValidation, id)
		}
		seen[id] = true
	}
	return respIDs, nil
}

func (uc *DefaultGenerationUsecase) validateVendors(project *domain.Project, vendorIDs []string) error {
	for _, vendorID := range vendorIDs {
		vendor, err := uc.ProjectRepo.GetVendorByID(vendorID)
		if err != nil {
			return err
		}
		if vendor.ProjectID != project.ID {
			return fmt.Errorf("%w: vendor %s", domain.ErrVendorProjectMismatch, vendorID)
		}
	}
	return nil
}

// buildLinks fans every respId out across the vendor set: one link per
// id per vendor, or one unrestricted link per id.
func (uc *DefaultGenerationUsecase) buildLinks(projectID string, respIDs, vendorIDs []string) ([]*domain.SurveyLink, error) {
	tokenGenerator, err := nanoid.Standard(tokenLength)
	if err != nil {
		return nil, err
	}

	if len(vendorIDs) == 0 {
		vendorIDs = []string{""}
	}

	now := time.Now()
	links := make([]*domain.SurveyLink, 0, len(respIDs)*len(vendorIDs))
	for _, respID := range respIDs {
		for _, vendorID := range vendorIDs {
			links = append(links, &domain.SurveyLink{
				ID:        uuid.New().String(),
				ProjectID: projectID,
				VendorID:  vendorID,
				RespID:    respID,
				Token:     tokenGenerator(),
				Status:    domain.StatusUnused,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}
	return links, nil
}

// persistChunked submits creations in fixed-size chunks. A failed
// creation never aborts its siblings; failures are only counted.
// Generation order is preserved in the result.
func (uc *DefaultGenerationUsecase) persistChunked(links []*domain.SurveyLink) ([]*domain.SurveyLink, int) {
	results := make([]*domain.SurveyLink, len(links))

	for offset := 0; offset < len(links); offset += uc.ChunkSize {
		end := offset + uc.ChunkSize
		if end > len(links) {
			end = len(links)
		}

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(i int, link *domain.SurveyLink) {
				defer wg.Done()
				if err := uc.LinkRepo.CreateLink(link); err != nil {
					uc.Logger.Error("link creation failed",
						"project_id", link.ProjectID,
						"resp_id", link.RespID,
						"error", err.Error(),
					)
					return
				}
				results[i] = link
			}(i, links[i])
		}
		wg.Wait()

		if end < len(links) && uc.ChunkDelay > 0 {
			time.Sleep(uc.ChunkDelay)
		}
	}

	created := make([]*domain.SurveyLink, 0, len(links))
	for _, link := range results {
		if link != nil {
			created = append(created, link)
		}
	}
	return created, len(links) - len(created)
}

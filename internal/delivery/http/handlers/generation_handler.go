package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	generationdto "github.com/panelhub/panel-link-service/internal/usecase/dto/generation"
	generation "github.com/panelhub/panel-link-service/internal/usecase/generation"
)

type GenerationHandler struct {
	uc generation.GenerationUsecase
}

func NewGenerationHandler(uc generation.GenerationUsecase) *GenerationHandler {
	return &GenerationHandler{uc: uc}
}

type generateRequest struct {
	ProjectID   string   `json:"project_id" binding:"required"`
	Mode        string   `json:"mode" binding:"required"`
	SeedRespID  string   `json:"seed_resp_id"`
	TestCount   int      `json:"test_count"`
	LiveCount   int      `json:"live_count"`
	ImportedIDs []string `json:"imported_ids"`
	VendorIDs   []string `json:"vendor_ids"`
}

func (h *GenerationHandler) GenerateLinks(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.uc.GenerateLinks(&generationdto.GenerateLinksInput{
		ProjectID:   req.ProjectID,
		Mode:        generationdto.GenerationMode(req.Mode),
		SeedRespID:  req.SeedRespID,
		TestCount:   req.TestCount,
		LiveCount:   req.LiveCount,
		ImportedIDs: req.ImportedIDs,
		VendorIDs:   req.VendorIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

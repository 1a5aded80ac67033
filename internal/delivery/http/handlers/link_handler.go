package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/panelhub/panel-link-service/internal/domain"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
	linkusecase "github.com/panelhub/panel-link-service/internal/usecase/link"
)

type LinkHandler struct {
	uc linkusecase.LinkUsecase
}

func NewLinkHandler(uc linkusecase.LinkUsecase) *LinkHandler {
	return &LinkHandler{uc: uc}
}

type clickRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *LinkHandler) RegisterClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.uc.RegisterClick(c.Request.Context(), &linkdto.RegisterClickInput{
		Token:     req.Token,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

type completionRequest struct {
	Token    string                     `json:"token" binding:"required"`
	Payload  *domain.ResponsePayload    `json:"payload" binding:"required"`
	Metadata *domain.SubmissionMetadata `json:"metadata"`
}

func (h *LinkHandler) RegisterCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.uc.RegisterCompletion(c.Request.Context(), &linkdto.RegisterCompletionInput{
		Token:    req.Token,
		Payload:  req.Payload,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

type correctVendorRequest struct {
	NewVendorID string `json:"new_vendor_id" binding:"required"`
	ActorID     string `json:"actor_id"`
}

func (h *LinkHandler) CorrectVendor(c *gin.Context) {
	var req correctVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
		LinkID:      c.Param("id"),
		NewVendorID: req.NewVendorID,
		ActorID:     req.ActorID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

type overrideRequest struct {
	LinkID      string `json:"link_id" binding:"required"`
	Disposition string `json:"disposition" binding:"required"`
	ReviewerID  string `json:"reviewer_id" binding:"required"`
	Comment     string `json:"comment"`
}

func (h *LinkHandler) OverrideQC(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.uc.SetManualReview(&linkdto.ManualReviewInput{
		LinkID:      req.LinkID,
		Disposition: domain.ReviewDisposition(req.Disposition),
		ReviewerID:  req.ReviewerID,
		Comment:     req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *LinkHandler) GetProjectLinks(c *gin.Context) {
	var query struct {
		Page  int64 `form:"page,default=1"`
		Limit int64 `form:"limit,default=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	links, total, err := h.uc.GetLinksByProjectID(c.Param("projectId"), query.Page, query.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links, "total": total})
}

func (h *LinkHandler) GetProjectQuota(c *gin.Context) {
	counter, err := h.uc.GetQuotaCounter(c.Param("projectId"), c.Query("vendor_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quota": counter})
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrLinkNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrVendorNotFound),
		errors.Is(err, domain.ErrQuotaPoolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidLinkState),
		errors.Is(err, domain.ErrVendorAlreadyCorrected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrVendorProjectMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

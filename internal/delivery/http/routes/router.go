package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/panelhub/panel-link-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the thin HTTP adapters over the link and generation
// usecases. Auth for the admin group is terminated upstream.
func NewRouter(linkHandler *handlers.LinkHandler, generationHandler *handlers.GenerationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/links/click", linkHandler.RegisterClick)
		v1.POST("/links/complete", linkHandler.RegisterCompletion)

		admin := v1.Group("/admin")
		{
			admin.POST("/links/generate", generationHandler.GenerateLinks)
			admin.POST("/links/:id/vendor", linkHandler.CorrectVendor)
			admin.POST("/qc/override", linkHandler.OverrideQC)
			admin.GET("/projects/:projectId/links", linkHandler.GetProjectLinks)
			admin.GET("/projects/:projectId/quota", linkHandler.GetProjectQuota)
		}
	}

	return router
}

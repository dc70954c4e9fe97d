package api

import (
	"github.com/gin-gonic/gin"

	infragin "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/gin"
)

// SetupRoutes configures all API routes. Entity reads are public; every
// other route requires a bearer token signed with jwtSecret.
func SetupRoutes(router *gin.Engine, handler *Handler, jwtSecret string) {
	public := router.Group("/api/v1")
	{
		public.GET("/entities", handler.ListEntities)
		public.GET("/entities/:id", handler.GetEntity)
	}

	v1 := infragin.ProtectedGroup(router, "/api/v1", jwtSecret)

	complaints := v1.Group("/complaints")
	{
		complaints.POST("", handler.CreateComplaint)
		complaints.GET("", handler.ListComplaints)
		complaints.GET("/:id", handler.GetComplaint)
		complaints.PATCH("/:id/status", handler.UpdateStatus)
		complaints.PUT("/:id/rating", handler.SubmitRating)
		complaints.POST("/:id/comments", handler.AddComment)
		complaints.GET("/:id/comments", handler.ListComments)
	}
	v1.GET("/stats", handler.GetStats)

	admin := v1.Group("", requireAdmin())
	{
		admin.DELETE("/complaints/:id", handler.DeleteComplaint)
		admin.PATCH("/complaints/:id/priority", handler.UpdatePriority)
		admin.POST("/complaints/:id/redirect", handler.MarkRedirected)
		admin.PUT("/complaints/:id/entity", handler.ReassignEntity)
		admin.POST("/complaints/:id/resolve-entity", handler.ResolveEntity)
		admin.POST("/complaints/:id/reclassify", handler.Reclassify)
		admin.DELETE("/comments/:id", handler.DeleteComment)

		admin.POST("/entities", handler.CreateEntity)
		admin.POST("/entities/import", handler.ImportEntities)
		admin.POST("/entities/reload", handler.ReloadEntities)
		admin.PUT("/entities/:id", handler.UpdateEntity)
		admin.DELETE("/entities/:id", handler.DeleteEntity)
	}
}

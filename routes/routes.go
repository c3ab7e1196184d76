package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adityapachauri0/pan-sub000/controllers"
	"github.com/adityapachauri0/pan-sub000/middleware"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Visitor intake
			public.POST("/submissions", controllers.CreateSubmission)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Lead Intake API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("/submissions")
		protected.Use(middleware.AuthMiddleware())
		{
			// Listing and summary tiles
			protected.GET("", controllers.GetSubmissions)
			protected.GET("/stats", controllers.GetSubmissionStats)

			// Export
			protected.GET("/export", controllers.ExportSubmissions)
			protected.POST("/export", controllers.ExportSelectedSubmissions)

			// Bulk actions
			protected.PATCH("/bulk/status", controllers.BulkUpdateSubmissionStatus)
			protected.POST("/bulk/delete", controllers.BulkDeleteSubmissions)

			// Single-record actions
			protected.PATCH("/:id/status", controllers.UpdateSubmissionStatus)
			protected.PATCH("/:id/notes", controllers.UpdateSubmissionNotes)
			protected.DELETE("/:id", controllers.DeleteSubmission)
		}
	}

	// JSON 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}

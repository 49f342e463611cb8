package routes

import (
	"ecm-api/controllers"
	"ecm-api/middleware"
	"ecm-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "ECM API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Reference data
			protected.GET("/departments", func(c *gin.Context) {
				c.JSON(200, gin.H{"departments": models.DepartmentCodes})
			})

			// Engineering Change Requests
			ecrs := protected.Group("/ecrs")
			{
				ecrs.GET("", controllers.GetEcrs)
				ecrs.GET("/:id", controllers.GetEcr)
				ecrs.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.CreateEcr)
				ecrs.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.UpdateEcr)
				ecrs.POST("/:id/submit", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.SubmitEcr)

				// Department decisions; per-department authorization happens
				// inside the service, against fresh record state.
				ecrs.POST("/:id/decision", controllers.PostEcrDecision)

				ecrs.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteEcr)
			}

			// Engineering Change Orders
			ecos := protected.Group("/ecos")
			{
				ecos.GET("", controllers.GetEcos)
				ecos.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.CreateEco)
				ecos.PUT("/:id/status", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.UpdateEcoStatus)
			}

			// FMEA documents
			fmeas := protected.Group("/fmeas")
			{
				fmeas.GET("", controllers.GetFmeas)
				fmeas.GET("/:id", controllers.GetFmea)
				fmeas.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.CreateFmea)
				fmeas.POST("/:id/items", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), controllers.AddFmeaItem)
			}

			// Tasks
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", controllers.GetTasks)
				tasks.POST("", controllers.CreateTask)
				tasks.PUT("/:id/status", controllers.UpdateTaskStatus)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.POST("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}

	// 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}

package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/internal/handlers"
	"github.com/safetrack-dev/safetrack/internal/middleware"
	"github.com/safetrack-dev/safetrack/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:site_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		// Public reporting surface reached from the QR placard
		api.GET("/sites/:site_id", handlers.GetSite)
		api.GET("/sites/:site_id/contacts", handlers.ListSiteContacts)
		api.GET("/sites/:site_id/incident-types", handlers.ListIncidentTypes)
		api.POST("/incidents", handlers.CreateIncident)

		sites := api.Group("/sites", middleware.AuthMiddleware())
		{
			sites.POST("", handlers.CreateSite)
			sites.GET("", handlers.ListSites)
			sites.PATCH("/:site_id", handlers.UpdateSite)
			sites.DELETE("/:site_id", handlers.DeleteSite)
			sites.GET("/:site_id/qr", handlers.GetSiteQRCode)
			sites.POST("/:site_id/incident-types", handlers.CreateIncidentType)
		}

		incidents := api.Group("/incidents", middleware.AuthMiddleware())
		{
			incidents.GET("", handlers.ListIncidents)
			incidents.GET("/:incident_id", handlers.GetIncident)
			incidents.PATCH("/:incident_id", handlers.UpdateIncident)
		}

		contacts := api.Group("/emergency-contacts", middleware.AuthMiddleware())
		{
			contacts.POST("", handlers.CreateEmergencyContact)
			contacts.GET("", handlers.ListEmergencyContacts)
			contacts.PATCH("/:contact_id", handlers.UpdateEmergencyContact)
			contacts.DELETE("/:contact_id", handlers.DeleteEmergencyContact)
		}

		emails := api.Group("/notification-emails", middleware.AuthMiddleware())
		{
			emails.GET("", handlers.ListNotificationEmails)
			emails.POST("", handlers.CreateNotificationEmail)
			emails.PATCH("/:email_id", handlers.UpdateNotificationEmail)
			emails.DELETE("/:email_id", handlers.DeleteNotificationEmail)
		}
	}

	return r
}

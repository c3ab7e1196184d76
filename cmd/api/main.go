package main

import (
	"fmt"
	"html"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/adityapachauri0/pan-sub000/config"
	"github.com/adityapachauri0/pan-sub000/controllers"
	"github.com/adityapachauri0/pan-sub000/middleware"
	"github.com/adityapachauri0/pan-sub000/models"
	"github.com/adityapachauri0/pan-sub000/routes"
	"github.com/adityapachauri0/pan-sub000/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Pick the submission store. Without DB_HOST the service runs on the
	// in-memory store, which does not survive restarts.
	var store services.SubmissionStore
	if os.Getenv("DB_HOST") != "" {
		config.InitDB()
		store = services.NewGormStore(config.DB)
	} else {
		log.Println("DB_HOST not set, using in-memory submission store")
		store = services.NewMemoryStore()
	}

	// Wire the intake pipeline
	cache := services.NewTTLCache()
	resolver := services.NewOriginResolver(cache)
	geo := services.NewGeoEnricher()

	triage := services.NewTriageService(store, resolver, geo)
	if config.MailConfigured() && os.Getenv("NOTIFY_EMAIL") != "" {
		notifyTo := os.Getenv("NOTIFY_EMAIL")
		triage.Notify = func(sub *models.Submission) {
			body := fmt.Sprintf(
				"<p><b>%s</b> &lt;%s&gt;</p><p>%s</p><p>%s</p><p>From %s (%s, %s)</p>",
				html.EscapeString(sub.Name),
				html.EscapeString(sub.Email),
				html.EscapeString(sub.Subject),
				html.EscapeString(sub.Message),
				html.EscapeString(sub.OriginAddress),
				html.EscapeString(sub.Location.City),
				html.EscapeString(sub.Location.Country),
			)
			if err := config.SendMail([]string{notifyTo}, "New submission: "+sub.Subject, body); err != nil {
				log.Printf("Failed to send submission notification: %v", err)
			}
		}
	}

	controllers.Setup(store, triage, services.NewExportService(store))

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Register /logs route early (before 404 catch-all in SetupRoutes)
	router.GET("/logs", func(c *gin.Context) {
		accessToken := os.Getenv("LOG_ACCESS_TOKEN")
		if accessToken == "" || c.Query("token") != accessToken {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}

		c.Data(200, "text/plain; charset=utf-8", logData)
	})

	// Setup routes
	routes.SetupRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

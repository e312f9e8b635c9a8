package main

import (
	"log"
	"time"

	"snapfeed/internal/api"
	"snapfeed/internal/auth"
	"snapfeed/internal/config"
	"snapfeed/internal/database"
	"snapfeed/internal/media"
	"snapfeed/internal/posts"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenLifetimeHours)*time.Hour)
	users := auth.NewUserManager(db, tokens)
	mediaClient := media.NewClient(cfg)
	postService := posts.NewService(db, mediaClient)

	api.RegisterRoutes(r, users, postService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

package main

import (
	"flag"
	"log"

	"snapfeed/internal/auth"
	"snapfeed/internal/config"
	"snapfeed/internal/database"
	"snapfeed/internal/models"
)

// Seeds a superuser account for local development:
//
//	go run ./cmd/seed -email admin@example.com -password changeme
func main() {
	email := flag.String("email", "admin@example.com", "superuser email")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	users := auth.NewUserManager(db, auth.NewTokenIssuer(cfg.JWTSecret, 0))

	user, err := users.Register(*email, *password)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{"is_superuser": true, "is_verified": true}).Error; err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	log.Printf("Created superuser %s (%s)", user.Email, user.ID)
}

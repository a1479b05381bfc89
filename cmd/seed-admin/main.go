// Command seed-admin creates or refreshes the administrator account from
// the ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME environment variables.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/svec-cse/efacilities-api/internal/models"
	"github.com/svec-cse/efacilities-api/internal/repository"
	"github.com/svec-cse/efacilities-api/pkg/config"
	"github.com/svec-cse/efacilities-api/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	fullName := os.Getenv("ADMIN_NAME")
	if fullName == "" {
		fullName = "Administrator"
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := repository.NewUserRepository(db)
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := repo.Upsert(ctx, user); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	log.Printf("admin account ready: %s", email)
}

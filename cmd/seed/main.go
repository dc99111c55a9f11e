package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage/mongodb"
)

// Seeds a login account so the dashboard can be used without an admin UI.
// Safe to re-run: an existing account with the same email is left alone.
func main() {
	email := flag.String("email", "teacher@example.com", "account email")
	name := flag.String("name", "Demo Teacher", "display name")
	password := flag.String("password", "password", "account password")
	flag.Parse()

	log.Println("INFO: Starting account seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	config, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	store := mongodb.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if existing, err := store.FindUserByEmail(ctx, *email); err == nil {
		log.Printf("INFO: Account %s already exists (id %s), nothing to do", existing.Email, existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), config.Security.BCryptCost)
	if err != nil {
		log.Fatalf("FATAL: Failed to hash password: %v", err)
	}

	user := shared.User{
		ID:           "user-" + uuid.NewString(),
		Email:        *email,
		Name:         *name,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := store.CreateUser(ctx, user); err != nil {
		log.Fatalf("FATAL: Failed to create account: %v", err)
	}

	log.Printf("INFO: Created account %s (id %s)", user.Email, user.ID)
}

package main

import (
	"log"
	"os"

	"ai-editor-be/internal/model"
	"ai-editor-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Demo Account...")

	password := os.Getenv("SEED_DEMO_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash demo password: %v", err)
	}
	hashStr := string(hash)

	user := model.User{
		Email:         "demo@example.com",
		PasswordHash:  &hashStr,
		FullName:      "Demo Writer",
		EmailVerified: true,
	}
	if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
		log.Fatalf("Error: Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (%s)", user.Email, user.Id)

	folder := model.Folder{
		UserId:      user.Id,
		Name:        "Getting Started",
		Description: "Sample documents that show off the editor and the writing assistant.",
	}
	if err := db.Where("user_id = ? AND name = ?", user.Id, folder.Name).FirstOrCreate(&folder).Error; err != nil {
		log.Fatalf("Error: Failed to seed starter folder: %v", err)
	}

	log.Println("Seeding Welcome Documents...")
	SeedWelcomeDocuments(db, user.Id, folder.Id)

	log.Println("✅ Seeding completed.")
}

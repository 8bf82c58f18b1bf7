package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DocumentRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Document Embedding Repository", func(t *testing.T) {
		// Count implies the table and the vector column exist
		count, err := uow.DocumentEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentEmbedding count: %d", count)
	})

	t.Run("Check Transactional Folder And Document", func(t *testing.T) {
		// Documents carry a user FK, so create the owner first.
		userId := uuid.New()
		user := &entity.User{
			Id:            userId,
			Email:         "test-integration-" + uuid.New().String() + "@example.com",
			FullName:      "Integration Test User",
			EmailVerified: true,
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		folderId := uuid.New()
		folder := &entity.Folder{
			Id:        folderId,
			UserId:    userId,
			Name:      "Integration Folder " + uuid.New().String(),
			CreatedAt: time.Now(),
		}

		err = uow.FolderRepository().Create(ctx, folder)
		assert.NoError(t, err)

		document := &entity.Document{
			Id:              uuid.New(),
			UserId:          userId,
			FolderId:        &folderId, // Reference the ID just created
			Title:           "Integration Document",
			Content:         `{"type":"doc","content":[]}`,
			ContentMarkdown: "",
			CreatedAt:       time.Now(),
		}

		err = uow.DocumentRepository().Create(ctx, document)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Document with Folder in Transaction")
	})
}

package database_test

import (
	"context"
	"testing"

	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/database"
	"github.com/localnerve/aptwatch/internal/models"
)

func TestConnectSqlite(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 2,
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Schema exists and is writable
	if err := db.Create(&models.Community{ID: "com-1", MarketingName: "Test"}).Error; err != nil {
		t.Errorf("Failed to write migrated schema: %v", err)
	}
}

func TestConnectUnsupportedType(t *testing.T) {
	cfg := &config.Config{DBType: "oracle"}
	if _, err := database.Connect(cfg); err == nil {
		t.Error("Expected an error for an unsupported database type")
	}
}

// TestConnectMySQLContainer spins a real MySQL container and round-trips the
// migrated schema. Requires Docker; skipped in -short runs.
func TestConnectMySQLContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBPort:            "3306",
		DBDatabase:        "aptwatch_test",
		DBUser:            "aptwatch",
		DBPassword:        "aptwatch-secret",
		DBConnectionLimit: 4,
	}

	ctx := context.Background()
	container, host, port, err := database.StartDatabaseContainer(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to start database container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	cfg.DBHost = host
	cfg.DBPort = port

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	community := models.Community{ID: "com-1", MarketingName: "North Court"}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("Failed to create community: %v", err)
	}

	var loaded models.Community
	if err := db.First(&loaded, "id = ?", "com-1").Error; err != nil {
		t.Fatalf("Failed to load community: %v", err)
	}
	if loaded.MarketingName != "North Court" {
		t.Errorf("Expected North Court, got %q", loaded.MarketingName)
	}
}

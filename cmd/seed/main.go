package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"spisovka/internal/auth"
	"spisovka/internal/config"
	"spisovka/internal/domain/models"
	"spisovka/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed records")
	clearData := flag.Bool("clear-data", false, "Clear the test user's records and preferences (keep schema)")
	userEmail := flag.String("create-user", "", "Create (or reuse) a Supabase user with this email and seed records for it")
	userPassword := flag.String("password", "spisovka-dev", "Password for --create-user")
	userName := flag.String("full-name", "Ján Novák", "Display name for --create-user")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are not allowed in production")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped", "tables", tables.All())
	}

	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready", "table_prefix", cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	userID := cfg.TestUserID
	if *userEmail != "" {
		admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
		userID, err = admin.EnsureUser(ctx, *userEmail, *userPassword, *userName)
		if err != nil {
			log.Fatalf("Failed to ensure user %s: %v", *userEmail, err)
		}
		logger.Info("seed user ready", "email", *userEmail, "user_id", userID)
	}

	if *clearData {
		removed, err := postgres.ClearUserData(ctx, pool, tables, userID)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		logger.Info("data cleared", "user_id", userID, "rows", removed)
		return
	}

	spisRepo := postgres.NewSpisRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	for _, s := range seedRecords(userID) {
		if err := spisRepo.Create(ctx, s); err != nil {
			logger.Error("failed to seed spis", "name", s.Name, "error", err)
			continue
		}
		logger.Info("seeded spis", "id", s.ID, "name", s.Name)
	}
}

// seedRecords returns one record in the current list shape and one written
// the way older clients stored attachments, so the migration path has data.
func seedRecords(userID string) []*models.Spis {
	current := []map[string]any{
		{"id": "c0a8e8a4-0001-4000-8000-000000000001", "type": "folder", "name": "Zmluvy", "parentId": nil, "createdAt": "2024-03-14T09:30:00Z", "createdBy": "Ján Novák"},
		{"id": "c0a8e8a4-0001-4000-8000-000000000002", "type": "folder", "name": "Dodatky", "parentId": "c0a8e8a4-0001-4000-8000-000000000001", "createdAt": "2024-03-14T09:31:00Z", "createdBy": "Ján Novák"},
		{"id": "c0a8e8a4-0001-4000-8000-000000000003", "type": "folder", "name": "Faktúry", "parentId": nil, "createdAt": "2024-03-14T09:32:00Z", "createdBy": "Ján Novák"},
	}

	legacyDocuments := []map[string]any{
		{"filename": "cenova_ponuka.pdf", "fileUrl": "https://example.invalid/cenova_ponuka.pdf", "date": "2023-11-02", "uploadedBy": "Mária Kováčová", "popis": "Pôvodná ponuka"},
		{"name": "zameranie.pdf", "url": "https://example.invalid/zameranie.pdf", "date": "15.1.2024"},
	}
	legacyPhotos := []map[string]any{
		{"fileName": "okno_obyvacka.jpg", "publicUrl": "https://example.invalid/okno_obyvacka.jpg", "uploadedAt": "2024-01-20 14:05:00", "kategoria": "montáž"},
	}

	return []*models.Spis{
		{
			UserID:    userID,
			Name:      "Novostavba Žilina - okná a dvere",
			Documents: mustJSON(current),
			Photos:    mustJSON([]any{}),
		},
		{
			UserID:    userID,
			Name:      "Rekonštrukcia Martin - vchodové dvere",
			Documents: mustJSON(legacyDocuments),
			Photos:    mustJSON(legacyPhotos),
		},
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to encode seed data: %v", err)
	}
	return data
}

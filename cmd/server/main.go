package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"spisovka/internal/auth"
	"spisovka/internal/config"
	fm "spisovka/internal/domain/services/filemanager"
	"spisovka/internal/handler"
	"spisovka/internal/middleware"
	"spisovka/internal/repository/postgres"
	"spisovka/internal/service"
	authSvc "spisovka/internal/service/auth"
	"spisovka/internal/service/imaging"
	"spisovka/internal/storage/local"
	"spisovka/internal/storage/s3"
	"spisovka/internal/storage/supabase"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage_backend", cfg.StorageBackend,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("database connected", "spisy_table", tables.Spisy)

	// Blob storage
	var (
		blobs      fm.BlobStore
		localStore *local.Store
	)
	switch cfg.StorageBackend {
	case "s3":
		blobs, err = s3.New(ctx, s3.Options{
			Bucket:        cfg.StorageBucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 store: %v", err)
		}
	case "local":
		localStore, err = local.Open(cfg.LocalBlobPath, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to open local blob store: %v", err)
		}
		defer localStore.Close()
		blobs = localStore
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			log.Fatal("SUPABASE_URL and SUPABASE_KEY are required for the supabase storage backend")
		}
		blobs = supabase.NewStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket)
	default:
		log.Fatalf("Unknown storage backend %q", cfg.StorageBackend)
	}

	// Image compression
	policy, err := imaging.DefaultPolicy()
	if cfg.Image.PolicyFile != "" {
		policy, err = imaging.LoadPolicy(cfg.Image.PolicyFile)
	}
	if err != nil {
		log.Fatalf("Failed to load image policy: %v", err)
	}
	compressor := imaging.NewCompressor(policy, imaging.OptionsFromConfig(cfg.Image), logger)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	spisRepo := postgres.NewSpisRepository(repoConfig)
	userPrefsRepo := postgres.NewUserPreferencesRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	authorizer := authSvc.NewOwnerBasedAuthorizer(spisRepo)
	userPrefsService := service.NewUserPreferencesService(userPrefsRepo, logger)
	spisService := service.NewSpisService(spisRepo, logger)
	attachmentService := service.NewAttachmentService(
		spisRepo,
		userPrefsService,
		authorizer,
		txManager,
		blobs,
		compressor,
		cfg.UploadConcurrency,
		logger,
	)

	// Handlers
	spisHandler := handler.NewSpisHandler(spisService, logger)
	fileManagerHandler := handler.NewFileManagerHandler(attachmentService, logger)
	userPrefsHandler := handler.NewUserPreferencesHandler(userPrefsService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", spisHandler.HealthCheck)

	// Spis routes
	mux.HandleFunc("POST /api/spisy", spisHandler.CreateSpis)
	mux.HandleFunc("GET /api/spisy/{id}", spisHandler.GetSpis)
	mux.HandleFunc("PATCH /api/spisy/{id}/lock", spisHandler.SetLocked)

	// File manager routes, one list per category
	mux.HandleFunc("GET /api/spisy/{id}/files/{category}", fileManagerHandler.View)
	mux.HandleFunc("POST /api/spisy/{id}/files/{category}/folders", fileManagerHandler.CreateFolder)
	mux.HandleFunc("POST /api/spisy/{id}/files/{category}/upload", fileManagerHandler.Upload)
	mux.HandleFunc("PATCH /api/spisy/{id}/files/{category}/items/{itemId}", fileManagerHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/spisy/{id}/files/{category}/items/{itemId}", fileManagerHandler.DeleteItem)
	mux.HandleFunc("GET /api/spisy/{id}/files/{category}/items/{itemId}/move-targets", fileManagerHandler.MoveTargets)

	// User preferences routes
	mux.HandleFunc("GET /api/users/me/preferences", userPrefsHandler.GetPreferences)
	mux.HandleFunc("PATCH /api/users/me/preferences", userPrefsHandler.UpdatePreferences)

	// Blobs of the local backend are served by this process
	if localStore != nil {
		filesHandler := handler.NewFilesHandler(localStore, logger)
		mux.HandleFunc("GET /files/{path...}", filesHandler.ServeBlob)
		logger.Info("serving local blobs", "path", cfg.LocalBlobPath)
	}

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  2 * time.Minute, // large multipart uploads
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

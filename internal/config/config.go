package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	PublicBaseURL   string // Base URL of this service, used for locally served blobs
	TestUserID      string // Owner of seeded records

	// Blob storage
	StorageBackend    string // "supabase", "s3" or "local"
	StorageBucket     string
	S3Endpoint        string
	S3Region          string
	S3PublicBaseURL   string
	LocalBlobPath     string
	UploadConcurrency int

	// Image compression
	Image ImageConfig

	// Logging
	LogDir      string
	LogMaxFiles int

	// Debug flags
	Debug bool
}

// ImageConfig holds the defaults applied to uploaded raster images.
type ImageConfig struct {
	MaxWidth   int
	MaxHeight  int
	Quality    float64
	Format     string
	PolicyFile string // optional YAML overriding the embedded compression policy
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")
	port := getEnv("PORT", "8080")

	return &Config{
		Port:            port,
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: getEnv("SUPABASE_JWKS_URL", supabaseURL+"/auth/v1/.well-known/jwks.json"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		TestUserID:      getEnv("TEST_USER_ID", "00000000-0000-0000-0000-000000000001"),

		StorageBackend:    getEnv("STORAGE_BACKEND", getDefaultStorageBackend(env)),
		StorageBucket:     getEnv("STORAGE_BUCKET", "spis-files"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "eu-central-1"),
		S3PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		LocalBlobPath:     getEnv("LOCAL_BLOB_PATH", "data/blobs.db"),
		UploadConcurrency: getEnvInt("UPLOAD_CONCURRENCY", 4),

		Image: ImageConfig{
			MaxWidth:   getEnvInt("IMAGE_MAX_WIDTH", DefaultImageMaxWidth),
			MaxHeight:  getEnvInt("IMAGE_MAX_HEIGHT", DefaultImageMaxHeight),
			Quality:    getEnvFloat("IMAGE_QUALITY", DefaultImageQuality),
			Format:     getEnv("IMAGE_FORMAT", DefaultImageFormat),
			PolicyFile: getEnv("IMAGE_POLICY_FILE", ""),
		},

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getDefaultStorageBackend keeps dev setups self-contained.
func getDefaultStorageBackend(env string) string {
	if env == "dev" {
		return "local"
	}
	return "supabase"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

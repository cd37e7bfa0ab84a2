package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config carries every path and secret the managers consume.
// It is constructed once and passed in explicitly; there is no
// process-wide mutable configuration state.
type Config struct {
	ServerPort int

	// DataDir is the root directory for the durable snapshots.
	DataDir string

	// ImageDir holds cover-image files named <isbn>.<ext>.
	ImageDir string

	// ExportDir receives the export archives.
	ExportDir string

	// AuthLogPath is the append-only authentication attempt log.
	AuthLogPath string

	// RevocationDBPath is the SQLite store of revoked token ids.
	RevocationDBPath string

	// JWTSecret signs session tokens for the external token issuer.
	JWTSecret string

	Storage StorageConfig
}

// StorageConfig selects an optional object-storage backend used to
// publish export archives.
type StorageConfig struct {
	// Backend is "none", "minio" or "gcs".
	Backend string

	Minio MinioConfig
	GCS   GCSConfig
}

// MinioConfig holds connection settings for a MinIO backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GCSConfig holds connection settings for a Google Cloud Storage backend.
type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dataDir := getEnv("DATA_DIR", "data")

	return Config{
		ServerPort:       getEnvInt("SERVER_PORT", 8080),
		DataDir:          dataDir,
		ImageDir:         getEnv("IMAGE_DIR", "images"),
		ExportDir:        getEnv("EXPORT_DIR", os.TempDir()),
		AuthLogPath:      getEnv("AUTH_LOG_PATH", filepath.Join(dataDir, "auth.log")),
		RevocationDBPath: getEnv("REVOCATION_DB_PATH", filepath.Join(dataDir, "tokens.db")),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "none"),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "bibliogo-exports"),
				UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
	}
}

// UsersPath is the durable snapshot of the user directory.
func (c Config) UsersPath() string { return filepath.Join(c.DataDir, "users.json") }

// BooksPath is the durable snapshot of the catalog.
func (c Config) BooksPath() string { return filepath.Join(c.DataDir, "books.json") }

// LoansPath is the durable snapshot of the circulation ledger.
func (c Config) LoansPath() string { return filepath.Join(c.DataDir, "loans.json") }

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName  string
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Email    EmailConfig
	Gateway  GatewayConfig
	Cron     CronConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver      string
	URL         string
	AutoMigrate bool
	// SeedSampleData adds demo listings to an empty backend.
	SeedSampleData bool
}

type StorageConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	AgentEmail   string
}

type GatewayConfig struct {
	AtomicCounters  bool
	OptimizeUploads bool
}

// CronConfig holds cron specs. An empty spec disables the job.
type CronConfig struct {
	CounterReconcileSchedule string
	DailyDigestSchedule      string
}

type LogConfig struct {
	Level      string
	JSON       bool
	FluentHost string
	FluentPort int
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		AppName: getEnv("APP_NAME", "realty-gateway"),
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			Driver:         getEnv("BACKEND_DRIVER", "postgres"),
			URL:            getEnv("DATABASE_URL", ""),
			AutoMigrate:    getBool("AUTO_MIGRATE", false),
			SeedSampleData: getBool("SEED_SAMPLE_DATA", false),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_S3_ENDPOINT", ""),
			Region:    getEnv("STORAGE_S3_REGION", "auto"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:3000/storage"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "Listings <noreply@example.com>"),
			AgentEmail:   getEnv("AGENT_EMAIL", ""),
		},
		Gateway: GatewayConfig{
			AtomicCounters:  getBool("ATOMIC_COUNTERS", false),
			OptimizeUploads: getBool("OPTIMIZE_UPLOADS", false),
		},
		Cron: CronConfig{
			CounterReconcileSchedule: getEnvAllowEmpty("COUNTER_RECONCILE_SCHEDULE", "0 3 * * *"),
			DailyDigestSchedule:      getEnvAllowEmpty("DAILY_DIGEST_SCHEDULE", "0 19 * * *"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			JSON:       getBool("LOG_JSON", false),
			FluentHost: getEnv("FLUENT_HOST", ""),
			FluentPort: getInt("FLUENT_PORT", 24224),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty treats an explicitly empty variable as a value.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	defaultSessionSecret = "kovil-dev-session-secret"
)

// AdminSeed is an administrator account created on first start when absent.
type AdminSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	DatabaseURL         string
	DBMaxConns          int32
	DBMinConns          int32
	SlowQueryThreshold  time.Duration
	StorageDriver       string
	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	Timezone            string
	Location            *time.Location
	DefaultLocale       string
	GeoIPDBPath         string
	CORSAllowedOrigins  []string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
	DashboardCacheTTL   time.Duration
	ReceiptPadWidth     int
	ImportMaxBytes      int64
	MigrateOnStart      bool
	AdminSeedFile       string
	AdminSeeds          []AdminSeed
	ExportArchiveDir    string
	ExportS3Bucket      string
	AWSRegion           string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "5000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:          int32(getEnvInt("DB_MIN_CONNS", 1)),
		SlowQueryThreshold:  time.Millisecond * time.Duration(getEnvInt("SLOW_QUERY_MS", 250)),
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		SessionTTL:          time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		Timezone:            getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		DefaultLocale:       getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		DashboardCacheTTL:   time.Second * time.Duration(getEnvInt("DASHBOARD_CACHE_TTL_SECONDS", 120)),
		ReceiptPadWidth:     getEnvInt("RECEIPT_PAD_WIDTH", 0),
		ImportMaxBytes:      int64(getEnvInt("IMPORT_MAX_BYTES", 10<<20)),
		MigrateOnStart:      getEnvBool("MIGRATE_ON_START", false),
		AdminSeedFile:       os.Getenv("ADMIN_SEED_FILE"),
		ExportArchiveDir:    os.Getenv("EXPORT_ARCHIVE_DIR"),
		ExportS3Bucket:      os.Getenv("EXPORT_S3_BUCKET"),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.SessionSecret == "" {
		if cfg.AppEnv != "development" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = defaultSessionSecret
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.AdminSeeds = envAdminSeeds()
	if cfg.AdminSeedFile != "" {
		seeds, err := LoadAdminSeedFile(cfg.AdminSeedFile)
		if err != nil {
			return nil, err
		}
		cfg.AdminSeeds = append(cfg.AdminSeeds, seeds...)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// envAdminSeeds reads the three ADMIN_USERNAME/ADMIN_PASSWORD slots. The first
// slot is the superadmin.
func envAdminSeeds() []AdminSeed {
	var seeds []AdminSeed
	for i, suffix := range []string{"", "_2", "_3"} {
		username := strings.TrimSpace(os.Getenv("ADMIN_USERNAME" + suffix))
		password := os.Getenv("ADMIN_PASSWORD" + suffix)
		if username == "" || password == "" {
			continue
		}
		role := "admin"
		if i == 0 {
			role = "superadmin"
		}
		seeds = append(seeds, AdminSeed{Username: username, Password: password, Role: role})
	}
	return seeds
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

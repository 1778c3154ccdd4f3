package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Paths    PathsConfig
	Export   ExportConfig
	Catalog  CatalogConfig
	Requests RequestsConfig
	Metrics  MetricsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings. A zero Expiration issues tokens
// without an exp claim.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StaticUser is one entry of the configured login table.
type StaticUser struct {
	Username string
	Password string
	Role     string
}

// AuthConfig lists the accounts allowed to log in.
type AuthConfig struct {
	Users []StaticUser
}

// PathsConfig locates the flat files the service reads and writes.
type PathsConfig struct {
	DataDir         string
	CatalogFile     string
	GradeMasterFile string
	LookupsFile     string
	ExportDir       string
	HistoryDir      string
}

// ExportConfig tunes CSV generation and download links.
type ExportConfig struct {
	DefaultMeetingDuration int
	TimeZone               string
	SignedURLSecret        string
	SignedURLTTL           time.Duration
}

// CatalogConfig toggles the Redis read cache in front of the catalog file.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// RequestsConfig bounds request submissions.
type RequestsConfig struct {
	MaxSlugsPerSubmission int
	DefaultStartTime      string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 0),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	users, err := parseUsers(v.GetString("USERS"))
	if err != nil {
		return nil, err
	}
	cfg.Auth = AuthConfig{Users: users}

	dataDir := v.GetString("DATA_DIR")
	cfg.Paths = PathsConfig{
		DataDir:         dataDir,
		CatalogFile:     withDir(dataDir, v.GetString("CATALOG_FILE")),
		GradeMasterFile: withDir(dataDir, v.GetString("GRADE_MASTER_FILE")),
		LookupsFile:     withDir(dataDir, v.GetString("LOOKUPS_FILE")),
		ExportDir:       v.GetString("EXPORT_DIR"),
		HistoryDir:      v.GetString("HISTORY_DIR"),
	}

	duration := v.GetInt("DEFAULT_MEETING_DURATION")
	if duration <= 0 {
		duration = 60
	}
	cfg.Export = ExportConfig{
		DefaultMeetingDuration: duration,
		TimeZone:               v.GetString("EXPORT_TIME_ZONE"),
		SignedURLSecret:        v.GetString("EXPORT_SIGNED_URL_SECRET"),
		SignedURLTTL:           parseDuration(v.GetString("EXPORT_SIGNED_URL_TTL"), time.Hour),
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("ENABLE_CATALOG_CACHE"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	maxSlugs := v.GetInt("MAX_SLUGS_PER_SUBMISSION")
	if maxSlugs <= 0 {
		maxSlugs = 100
	}
	cfg.Requests = RequestsConfig{
		MaxSlugsPerSubmission: maxSlugs,
		DefaultStartTime:      v.GetString("DEFAULT_START_TIME"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "0")
	v.SetDefault("JWT_ISSUER", "class-creator")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("USERS", "admin:admin123:admin,user:b3N3rdY!:requester")

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("CATALOG_FILE", "course_master.json")
	v.SetDefault("GRADE_MASTER_FILE", "Grade_Master.json")
	v.SetDefault("LOOKUPS_FILE", "lookups.toml")
	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("HISTORY_DIR", "history")

	v.SetDefault("DEFAULT_MEETING_DURATION", 60)
	v.SetDefault("EXPORT_TIME_ZONE", "America/Chicago")
	v.SetDefault("EXPORT_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORT_SIGNED_URL_TTL", "1h")

	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")

	v.SetDefault("MAX_SLUGS_PER_SUBMISSION", 100)
	v.SetDefault("DEFAULT_START_TIME", "12:00")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseUsers reads "name:password:role" entries. The password may itself
// contain colons; the role is always the last segment.
func parseUsers(raw string) ([]StaticUser, error) {
	entries := splitAndTrim(raw)
	users := make([]StaticUser, 0, len(entries))
	for _, entry := range entries {
		first := strings.Index(entry, ":")
		last := strings.LastIndex(entry, ":")
		if first <= 0 || last == first || last == len(entry)-1 {
			return nil, fmt.Errorf("invalid USERS entry %q: want name:password:role", entry)
		}
		users = append(users, StaticUser{
			Username: entry[:first],
			Password: entry[first+1 : last],
			Role:     entry[last+1:],
		})
	}
	return users, nil
}

func withDir(dir, name string) string {
	if name == "" || dir == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(dir, name)
}

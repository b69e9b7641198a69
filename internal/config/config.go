package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service and admin CLI.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NATSSubject            string
	JWTSecret              string
	JWTRefreshSecret       string
	JWTAccessTTL           time.Duration
	JWTRefreshTTL          time.Duration
	AdminEmail             string
	AdminDefaultPassword   string
	StudentDefaultPassword string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	StatsCacheTTL          time.Duration
	AuthRateLimit          int
	UploadMaxMB            int
	ImportBaseAcademicYear string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// CloudinaryConfigured reports whether challan storage credentials are present.
func (c Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// UploadMaxBytes returns the upload size limit in bytes.
func (c Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) * 1024 * 1024
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	return load(true)
}

// LoadForTooling reads the same configuration for the admin CLI, which never
// signs tokens and therefore does not require the JWT secrets.
func LoadForTooling() (Config, error) {
	return load(false)
}

func load(requireJWT bool) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SSP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SSP API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "ssp.events")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("admin.email", "principal@tu.in")
	v.SetDefault("cloudinary.folder", "ssp/challans")
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("auth.rate_limit", 10)
	v.SetDefault("upload.max_mb", 5)
	v.SetDefault("import.base_academic_year", "2022-23")

	accessTTL, err := parseDuration(v, "jwt.access_ttl", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseDuration(v, "jwt.refresh_ttl", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	statsTTL, err := parseDuration(v, "stats.cache_ttl", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSSubject:            v.GetString("nats.subject"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		JWTAccessTTL:           accessTTL,
		JWTRefreshTTL:          refreshTTL,
		AdminEmail:             strings.ToLower(strings.TrimSpace(v.GetString("admin.email"))),
		AdminDefaultPassword:   v.GetString("admin.default_password"),
		StudentDefaultPassword: v.GetString("student.default_password"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		StatsCacheTTL:          statsTTL,
		AuthRateLimit:          v.GetInt("auth.rate_limit"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		ImportBaseAcademicYear: strings.TrimSpace(v.GetString("import.base_academic_year")),
	}

	if requireJWT {
		if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
			return Config{}, fmt.Errorf("jwt secrets must be provided")
		}
		if cfg.JWTSecret == cfg.JWTRefreshSecret {
			return Config{}, fmt.Errorf("jwt access and refresh secrets must differ")
		}
	}

	if !validAcademicYear(cfg.ImportBaseAcademicYear) {
		return Config{}, fmt.Errorf("invalid import.base_academic_year %q: want YYYY-YY", cfg.ImportBaseAcademicYear)
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 10
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 5
	}

	return cfg, nil
}

var academicYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// validAcademicYear accepts "YYYY-YY" where the second part follows the first.
func validAcademicYear(value string) bool {
	if !academicYearPattern.MatchString(value) {
		return false
	}
	start, _ := strconv.Atoi(value[:4])
	end, _ := strconv.Atoi(value[5:])
	return (start+1)%100 == end
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

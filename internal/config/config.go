package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"resumeflow/internal/domain"
)

const defaultYAMLPath = "configs/config.yaml"

// SearchDefaults are the fallback search parameters used when a request or
// schedule omits them. They live in the optional YAML file so non-secret
// tuning stays out of the environment.
type SearchDefaults struct {
	Location       string   `yaml:"location"`
	Platforms      []string `yaml:"platforms"`
	ResultsPerSite int      `yaml:"results_per_site"`
	HoursOld       int      `yaml:"hours_old"`
}

type Config struct {
	Port        string
	FrontendURL string
	DatabaseURL string

	GoogleAPIKey string
	GeminiModel  string
	GeminiRPM    int

	SecretKey       string
	TokenTTLMinutes int

	MatchThreshold int

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	ScraperURL string

	Search SearchDefaults
}

// Load reads configuration in three layers: a .env file (if present), the
// optional YAML search-defaults file, then real environment variables, which
// win. yamlPath may be empty to use configs/config.yaml.
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            "8000",
		FrontendURL:     "http://localhost:5173",
		GeminiModel:     "gemini-3-flash-preview",
		GeminiRPM:       10,
		SecretKey:       "change-me-in-production-please",
		TokenTTLMinutes: 10080, // 7 days
		MatchThreshold:  domain.DefaultMatchThreshold,
		SMTPHost:        "smtp.gmail.com",
		SMTPPort:        587,
		Search: SearchDefaults{
			Location:       "Remote",
			Platforms:      []string{"indeed", "linkedin", "glassdoor", "zip_recruiter"},
			ResultsPerSite: 10,
			HoursOld:       72,
		},
	}

	if yamlPath == "" {
		yamlPath = defaultYAMLPath
	}
	if b, err := os.ReadFile(yamlPath); err == nil {
		var file struct {
			Search SearchDefaults `yaml:"search"`
		}
		if err := yaml.Unmarshal(b, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", yamlPath, err)
		}
		if file.Search.Location != "" {
			cfg.Search.Location = file.Search.Location
		}
		if len(file.Search.Platforms) > 0 {
			cfg.Search.Platforms = file.Search.Platforms
		}
		if file.Search.ResultsPerSite > 0 {
			cfg.Search.ResultsPerSite = file.Search.ResultsPerSite
		}
		if file.Search.HoursOld > 0 {
			cfg.Search.HoursOld = file.Search.HoursOld
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.FrontendURL = getenv("FRONTEND_URL", cfg.FrontendURL)
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.GoogleAPIKey = getenv("GOOGLE_API_KEY", cfg.GoogleAPIKey)
	cfg.GeminiModel = getenv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiRPM = getenvInt("GEMINI_RPM", cfg.GeminiRPM)
	cfg.SecretKey = getenv("SECRET_KEY", cfg.SecretKey)
	cfg.TokenTTLMinutes = getenvInt("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.TokenTTLMinutes)
	cfg.MatchThreshold = domain.ClampThreshold(getenvInt("MATCH_THRESHOLD", cfg.MatchThreshold))
	cfg.SMTPHost = getenv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getenvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPEmail = getenv("SMTP_EMAIL", cfg.SMTPEmail)
	cfg.SMTPPassword = getenv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.ScraperURL = getenv("SCRAPER_SERVICE_URL", cfg.ScraperURL)
	cfg.Search.Location = getenv("DEFAULT_LOCATION", cfg.Search.Location)
	cfg.Search.ResultsPerSite = getenvInt("DEFAULT_RESULTS_EACH", cfg.Search.ResultsPerSite)

	return cfg, nil
}

// DefaultSecret reports whether the signing key was never configured. Tokens
// still work, but main logs a loud warning.
func (c *Config) DefaultSecret() bool {
	return c.SecretKey == "change-me-in-production-please"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

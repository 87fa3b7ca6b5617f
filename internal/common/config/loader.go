// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<env>.yaml, applies
// environment overrides and defaults, then validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", environment()))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Keys where zero is a meaningful setting are defaulted here rather than
	// in applyDefaults, so an explicit 0 in the file survives.
	v.SetDefault("apis.groq.temperature", 0.7)
	v.SetDefault("apis.groq.retry_temperature", 0.5)
	v.SetDefault("apis.gemini.temperature", 0.3)
	v.SetDefault("retry.parse_max_retries", 1)
	v.SetDefault("retry.transport_max_retries", 3)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func environment() string {
	for _, key := range []string{"APP_ENVIRONMENT", "NODE_ENV"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return "development"
}

// loadEnvFile loads the first .env found next to the binary, in a parent
// directory, or at the module root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

func setIfEmpty(dst *string, envKeys ...string) {
	if *dst != "" {
		return
	}
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			*dst = val
			return
		}
	}
}

// overrideEmptyConfig fills values the deployment environment provides under
// their conventional names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.App.Environment, "APP_ENVIRONMENT", "NODE_ENV")

	setIfEmpty(&cfg.Supabase.URL, "SUPABASE_URL")
	setIfEmpty(&cfg.Supabase.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")
	setIfEmpty(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	setIfEmpty(&cfg.Supabase.JWTSecret, "SUPABASE_JWT_SECRET")

	setIfEmpty(&cfg.Database.Postgres.URL, "DATABASE_URL", "SUPABASE_DB_URL")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDR")

	setIfEmpty(&cfg.APIs.Groq.APIKey, "GROQ_API_KEY")
	setIfEmpty(&cfg.APIs.Gemini.APIKey, "GEMINI_API", "GEMINI_API_KEY")

	setIfEmpty(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	setIfEmpty(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	setIfEmpty(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")

	setIfEmpty(&cfg.Notifications.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.Camunda.BrokerAddress, "ZEEBE_ADDRESS")

	setIfEmpty(&cfg.Server.FrontendURL, "FRONTEND_URL")
	if cfg.Server.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			cfg.Server.Port = port
		}
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		if val := os.Getenv("CORS_ORIGIN"); val != "" {
			cfg.Server.CORSOrigins = strings.Split(val, ",")
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ikigai-api"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = "http://localhost:8081"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30000
	}
	if cfg.Server.AnalysisTimeout == 0 {
		cfg.Server.AnalysisTimeout = 120000
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 5 * 1024 * 1024
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 150000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "require"
	}

	if cfg.Supabase.JWTAudience == "" {
		cfg.Supabase.JWTAudience = "authenticated"
	}

	supabaseURL := strings.TrimRight(cfg.Supabase.URL, "/")
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "resumes"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Endpoint == "" && supabaseURL != "" {
		cfg.Storage.Endpoint = supabaseURL + "/storage/v1/s3"
	}
	if cfg.Storage.PublicBaseURL == "" && supabaseURL != "" {
		cfg.Storage.PublicBaseURL = supabaseURL + "/storage/v1/object/public"
	}

	groq := &cfg.APIs.Groq
	if groq.BaseURL == "" {
		groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if groq.Model == "" {
		groq.Model = "deepseek-r1-distill-llama-70b"
	}
	if groq.MaxTokens == 0 {
		groq.MaxTokens = 8000
	}
	if groq.Timeout == 0 {
		groq.Timeout = 90000
	}

	gemini := &cfg.APIs.Gemini
	if gemini.Model == "" {
		gemini.Model = "gemini-2.0-flash"
	}
	if gemini.MaxOutputTokens == 0 {
		gemini.MaxOutputTokens = 2000
	}
	if gemini.Timeout == 0 {
		gemini.Timeout = 60000
	}

	if cfg.Retry.TransportBaseDelay == 0 {
		cfg.Retry.TransportBaseDelay = 1000
	}
	if cfg.Retry.TransportMaxDelay == 0 {
		cfg.Retry.TransportMaxDelay = 16000
	}

	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 10
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 3600000
	}

	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 150000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields. Model API keys are
// checked on first use so the HTTP surface can still serve retrieval traffic.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}

	pg := cfg.Database.Postgres
	if pg.URL == "" {
		if pg.Host == "" {
			return fmt.Errorf("database.postgres.url or database.postgres.host is required")
		}
		if pg.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}

	if cfg.Supabase.JWTSecret == "" {
		return fmt.Errorf("supabase.jwt_secret is required")
	}

	if cfg.RateLimit.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when rate_limit.enabled")
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda.enabled")
	}

	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email notifications are enabled")
	}
	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns notifications are enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults.
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: cfg.Camunda.MaxJobsActive,
		Timeout:       cfg.Camunda.Timeout,
		MaxRetries:    3,
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileTest Profile = "test"
	ProfileProd Profile = "prod"
)

const envPrefix = "STUDENTSQL_"

type Config struct {
	Profile       Profile
	Service       ServiceConfig
	HTTP          HTTPConfig
	Store         StoreConfig
	AI            AIConfig
	Export        ExportConfig
	ObjectStore   ObjectStoreConfig
	Observability ObservabilityConfig
	Auth          AuthConfig
}

type ServiceConfig struct {
	Name string
}

type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig locates the student store. Path is a file path for the
// file-based drivers and a DSN for pgx.
type StoreConfig struct {
	Driver string
	Path   string
}

// AIConfig selects the completion service. The model identifier is fixed
// per provider and deliberately absent here.
type AIConfig struct {
	Provider    string
	BaseURL     string
	APIKey      string
	APIKeyParam string
}

type ExportConfig struct {
	Enabled bool
}

type ObjectStoreConfig struct {
	Endpoint         string
	Region           string
	Bucket           string
	AccessKeyID      string
	SecretAccessKey  string
	UseSSL           bool
	Prefix           string
	AutoCreateBucket bool
}

type ObservabilityConfig struct {
	LogLevel slog.Level
	LogJSON  bool
}

type AuthConfig struct {
	Required   bool
	StaticKeys string
}

var (
	validDrivers   = []string{"sqlite", "duckdb", "pgx"}
	validProviders = []string{"groq", "openai", "gemini"}

	// providerKeyFallbacks are the conventional variables each provider's SDK reads.
	providerKeyFallbacks = map[string]string{
		"groq":   "GROQ_API_KEY",
		"openai": "OPENAI_API_KEY",
		"gemini": "GEMINI_API_KEY",
	}
)

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	profile := ProfileDev
	if raw, ok := lookup(envPrefix + "PROFILE"); ok {
		profile = Profile(strings.ToLower(strings.TrimSpace(raw)))
	}
	if !isValidProfile(profile) {
		return Config{}, fmt.Errorf("invalid %sPROFILE: %q", envPrefix, profile)
	}

	cfg := defaultsForProfile(profile)
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}

	env := prefixed(lookup)
	err := errors.Join(
		applyString(env, "SERVICE_NAME", &cfg.Service.Name),
		applyString(env, "HTTP_ADDR", &cfg.HTTP.Address),
		applyDuration(env, "HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout),
		applyDuration(env, "HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout),
		applyDuration(env, "HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout),
		applyChoice(env, "STORE_DRIVER", validDrivers, &cfg.Store.Driver),
		applyString(env, "STORE_PATH", &cfg.Store.Path),
		applyChoice(env, "AI_PROVIDER", validProviders, &cfg.AI.Provider),
		applyString(env, "AI_BASE_URL", &cfg.AI.BaseURL),
		applyString(env, "AI_API_KEY", &cfg.AI.APIKey),
		applyString(env, "AI_API_KEY_PARAM", &cfg.AI.APIKeyParam),
		applyBool(env, "EXPORT_ENABLED", &cfg.Export.Enabled),
		applyString(env, "OBJECTSTORE_ENDPOINT", &cfg.ObjectStore.Endpoint),
		applyString(env, "OBJECTSTORE_REGION", &cfg.ObjectStore.Region),
		applyString(env, "OBJECTSTORE_BUCKET", &cfg.ObjectStore.Bucket),
		applyString(env, "OBJECTSTORE_ACCESS_KEY", &cfg.ObjectStore.AccessKeyID),
		applyString(env, "OBJECTSTORE_SECRET_KEY", &cfg.ObjectStore.SecretAccessKey),
		applyBool(env, "OBJECTSTORE_USE_SSL", &cfg.ObjectStore.UseSSL),
		applyString(env, "OBJECTSTORE_PREFIX", &cfg.ObjectStore.Prefix),
		applyBool(env, "OBJECTSTORE_AUTO_CREATE_BUCKET", &cfg.ObjectStore.AutoCreateBucket),
		applyLogLevel(env, "LOG_LEVEL", &cfg.Observability.LogLevel),
		applyBool(env, "LOG_JSON", &cfg.Observability.LogJSON),
		applyBool(env, "AUTH_REQUIRED", &cfg.Auth.Required),
		applyString(env, "AUTH_STATIC_KEYS", &cfg.Auth.StaticKeys),
	)
	if err != nil {
		return Config{}, err
	}

	if cfg.AI.APIKey == "" {
		if raw, ok := lookup(providerKeyFallbacks[cfg.AI.Provider]); ok {
			cfg.AI.APIKey = strings.TrimSpace(raw)
		}
	}

	if cfg.Service.Name == "" {
		return Config{}, fmt.Errorf("service name is required")
	}
	if cfg.HTTP.Address == "" {
		return Config{}, fmt.Errorf("http address is required")
	}
	if cfg.Store.Path == "" {
		return Config{}, fmt.Errorf("store path is required")
	}
	if cfg.Export.Enabled && cfg.ObjectStore.Bucket == "" {
		return Config{}, fmt.Errorf("object store bucket is required when export is enabled")
	}
	return cfg, nil
}

// APIKeyEnvName reports the variable a missing key should be set in.
func (c AIConfig) APIKeyEnvName() string {
	if name, ok := providerKeyFallbacks[c.Provider]; ok {
		return name
	}
	return envPrefix + "AI_API_KEY"
}

func defaultsForProfile(profile Profile) Config {
	cfg := Config{
		Profile: profile,
		Service: ServiceConfig{Name: "studentsql-api"},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "student.db",
		},
		AI: AIConfig{
			Provider: "groq",
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:         "localhost:9000",
			Region:           "us-east-1",
			Bucket:           "studentsql",
			AccessKeyID:      "minio",
			SecretAccessKey:  "miniostorage",
			AutoCreateBucket: true,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelDebug,
			LogJSON:  true,
		},
	}

	switch profile {
	case ProfileTest:
		cfg.HTTP.Address = ":18080"
		cfg.Observability.LogLevel = slog.LevelWarn
	case ProfileProd:
		cfg.Observability.LogLevel = slog.LevelInfo
		cfg.Auth.Required = true
		cfg.ObjectStore.UseSSL = true
		cfg.ObjectStore.AutoCreateBucket = false
	}

	return cfg
}

func isValidProfile(profile Profile) bool {
	switch profile {
	case ProfileDev, ProfileTest, ProfileProd:
		return true
	default:
		return false
	}
}

func prefixed(lookup LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		return lookup(envPrefix + key)
	}
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyChoice(lookup LookupFunc, key string, allowed []string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if value == candidate {
			*dst = value
			return nil
		}
	}
	return fmt.Errorf("invalid %s%s: %q (want one of %s)", envPrefix, key, raw, strings.Join(allowed, ", "))
}

func applyDuration(lookup LookupFunc, key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	*dst = value
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	*dst = value
	return nil
}

func applyLogLevel(lookup LookupFunc, key string, dst *slog.Level) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		return fmt.Errorf("invalid %s%s: %q", envPrefix, key, raw)
	}
	return nil
}

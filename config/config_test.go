package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"PRODLENS_SERVER_PORT",
	"PRODLENS_SERVER_ENVIRONMENT",
	"PRODLENS_SERVER_ALLOWED_ORIGINS",
	"PRODLENS_AUTH_JWT_SECRET",
	"PRODLENS_AUTH_TOKEN_TTL",
	"PRODLENS_AI_API_KEY",
	"PRODLENS_AI_MODEL",
	"PRODLENS_AI_TIMEOUT",
	"PRODLENS_SCRAPER_REQUESTS_PER_SECOND",
	"PRODLENS_CACHE_TTL",
	"PRODLENS_STORE_TYPE",
	"PRODLENS_STORE_REDIS_ADDRS",
	"PRODLENS_STORE_KEY_PREFIX",
	"PRODLENS_RATELIMIT_PER_IP",
	"PRODLENS_LOG_LEVEL",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "5000" {
			t.Errorf("Server.Port = %s, want 5000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
			t.Errorf("Server.AllowedOrigins = %v, want [http://localhost:5173]", cfg.Server.AllowedOrigins)
		}
		if cfg.Auth.TokenTTL != 168*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 168h", cfg.Auth.TokenTTL)
		}
		if cfg.Auth.CookieName != "jwt" {
			t.Errorf("Auth.CookieName = %s, want jwt", cfg.Auth.CookieName)
		}
		if cfg.AI.APIKey != "" {
			t.Errorf("AI.APIKey = %s, want empty", cfg.AI.APIKey)
		}
		if cfg.AI.Model != "gpt-4o-mini" {
			t.Errorf("AI.Model = %s, want gpt-4o-mini", cfg.AI.Model)
		}
		if cfg.AI.Timeout != 20*time.Second {
			t.Errorf("AI.Timeout = %v, want 20s", cfg.AI.Timeout)
		}
		if cfg.Scraper.Timeout != 15*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 15s", cfg.Scraper.Timeout)
		}
		if cfg.Scraper.MaxRetries != 2 {
			t.Errorf("Scraper.MaxRetries = %d, want 2", cfg.Scraper.MaxRetries)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Store.KeyPrefix != "prodlens" {
			t.Errorf("Store.KeyPrefix = %s, want prodlens", cfg.Store.KeyPrefix)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRODLENS_SERVER_PORT", "9090")
		os.Setenv("PRODLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRODLENS_SERVER_ALLOWED_ORIGINS", "https://app.example.com,chrome-extension://*")
		os.Setenv("PRODLENS_AUTH_JWT_SECRET", "s3cret")
		os.Setenv("PRODLENS_AI_API_KEY", "sk-test")
		os.Setenv("PRODLENS_AI_MODEL", "gpt-4o")
		os.Setenv("PRODLENS_CACHE_TTL", "24h")
		os.Setenv("PRODLENS_STORE_TYPE", "redis")
		os.Setenv("PRODLENS_STORE_REDIS_ADDRS", "localhost:6379")
		os.Setenv("PRODLENS_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.Server.IsProduction() {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 2 {
			t.Errorf("Server.AllowedOrigins = %v, want 2 entries", cfg.Server.AllowedOrigins)
		}
		if cfg.Auth.JWTSecret != "s3cret" {
			t.Errorf("Auth.JWTSecret = %s, want s3cret", cfg.Auth.JWTSecret)
		}
		if cfg.AI.APIKey != "sk-test" {
			t.Errorf("AI.APIKey = %s, want sk-test", cfg.AI.APIKey)
		}
		if cfg.AI.Model != "gpt-4o" {
			t.Errorf("AI.Model = %s, want gpt-4o", cfg.AI.Model)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "redis" {
			t.Errorf("Store.Type = %s, want redis", cfg.Store.Type)
		}
		if len(cfg.Store.RedisAddrs) != 1 || cfg.Store.RedisAddrs[0] != "localhost:6379" {
			t.Errorf("Store.RedisAddrs = %v, want [localhost:6379]", cfg.Store.RedisAddrs)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for invalid store type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRODLENS_STORE_TYPE", "mongo")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid store type")
		}
	})

	t.Run("fails validation when redis addrs missing for redis store", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRODLENS_STORE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing redis addrs")
		}
	})

	t.Run("fails validation in production without JWT secret", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRODLENS_SERVER_ENVIRONMENT", "production")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing JWT secret")
		}
		if err.Error() != "invalid configuration: JWT secret is required in production (set PRODLENS_AUTH_JWT_SECRET)" {
			t.Errorf("Load() error = %v, want 'JWT secret is required'", err)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		t.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1

TEST_VAR_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "memory store in development",
			cfg: Config{
				Server: ServerConfig{Environment: "development"},
				Store:  StoreConfig{Type: "memory"},
			},
		},
		{
			name: "invalid store type",
			cfg: Config{
				Store: StoreConfig{Type: "invalid-type"},
			},
			wantErr: true,
		},
		{
			name: "redis store with addrs",
			cfg: Config{
				Store: StoreConfig{Type: "redis", RedisAddrs: []string{"localhost:6379"}},
			},
		},
		{
			name: "redis store without addrs",
			cfg: Config{
				Store: StoreConfig{Type: "redis"},
			},
			wantErr: true,
		},
		{
			name: "production without secret",
			cfg: Config{
				Server: ServerConfig{Environment: "production"},
				Store:  StoreConfig{Type: "memory"},
			},
			wantErr: true,
		},
		{
			name: "production with secret",
			cfg: Config{
				Server: ServerConfig{Environment: "production"},
				Auth:   AuthConfig{JWTSecret: "secret"},
				Store:  StoreConfig{Type: "memory"},
			},
		},
		{
			name: "negative rate limit",
			cfg: Config{
				Store:     StoreConfig{Type: "memory"},
				RateLimit: RateLimitConfig{PerIP: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

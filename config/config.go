package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/arena-admin/lifecycle"
)

// Config holds the settings of the reference backend.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	TokenTTL     time.Duration

	// CORSOrigins is the allow list for browser clients; "*" when unset.
	CORSOrigins []string

	Policy lifecycle.Policy
	// LifecycleInterval is how often the scheduler moves events along by time.
	LifecycleInterval time.Duration
	// LoginRate and LoginBurst bound login attempts per client address.
	LoginRate  float64
	LoginBurst int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	// R2Endpoint overrides the account endpoint (local S3 stand-ins).
	R2Endpoint string
}

// R2Enabled reports whether banner uploads are configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads the backend configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	ttl, err := durationEnv("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	interval, err := durationEnv("LIFECYCLE_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	if interval < time.Second {
		return nil, fmt.Errorf("LIFECYCLE_INTERVAL must be at least 1s, got %s", interval)
	}

	policy, err := loadPolicy()
	if err != nil {
		return nil, err
	}

	loginRate, err := floatEnv("LOGIN_RATE_PER_SEC", 0.2)
	if err != nil {
		return nil, err
	}
	loginBurst, err := intEnv("LOGIN_BURST", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		TokenTTL:          ttl,
		CORSOrigins:       listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Policy:            policy,
		LifecycleInterval: interval,
		LoginRate:         loginRate,
		LoginBurst:        loginBurst,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:        os.Getenv("R2_ENDPOINT"),
	}

	return cfg, nil
}

// ConsoleConfig holds the settings of the admin CLI.
type ConsoleConfig struct {
	BaseURL    string
	EventsPath string
	Timeout    time.Duration
	TokenFile  string
	Policy     lifecycle.Policy
	Debug      bool
}

func LoadConsole() (*ConsoleConfig, error) {
	_ = godotenv.Load()

	baseURL := os.Getenv("ARENA_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout, err := durationEnv("ARENA_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("ARENA_TIMEOUT must be positive, got %s", timeout)
	}

	tokenFile := os.Getenv("ARENA_TOKEN_FILE")
	if tokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir for the session file: %w", err)
		}
		tokenFile = filepath.Join(dir, "arena-admin", "token")
	}

	policy, err := loadPolicy()
	if err != nil {
		return nil, err
	}

	debug, err := boolEnv("ARENA_DEBUG", false)
	if err != nil {
		return nil, err
	}

	eventsPath := os.Getenv("ARENA_EVENTS_PATH")
	if eventsPath == "" {
		eventsPath = "/api/matches"
	}

	return &ConsoleConfig{
		BaseURL:    baseURL,
		EventsPath: eventsPath,
		Timeout:    timeout,
		TokenFile:  tokenFile,
		Policy:     policy,
		Debug:      debug,
	}, nil
}

func loadPolicy() (lifecycle.Policy, error) {
	def := lifecycle.DefaultPolicy()
	tournaments, err := boolEnv("TOURNAMENT_AUTO_APPROVE", def.TournamentAutoApprove)
	if err != nil {
		return lifecycle.Policy{}, err
	}
	matches, err := boolEnv("MATCH_AUTO_APPROVE", def.MatchAutoApprove)
	if err != nil {
		return lifecycle.Policy{}, err
	}
	return lifecycle.Policy{TournamentAutoApprove: tournaments, MatchAutoApprove: matches}, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func listEnv(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

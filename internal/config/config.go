package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the dashboard. Each field
// corresponds to an environment variable; optional ones carry defaults.
type Config struct {
	Env           string        // application environment (APP_ENV, e.g. "dev", "prod")
	Port          string        // HTTP port to listen on (APP_PORT)
	APIBaseURL    string        // TalkMaster API root (TALKMASTER_API_URL), required
	APITimeout    time.Duration // overall timeout of one API call (API_TIMEOUT)
	SessionSecret string        // key material for sealing session cookies (SESSION_SECRET), required
	SessionTTL    time.Duration // lifetime of the session cookie (SESSION_TTL)
	CookieSecure  bool          // set the Secure flag on cookies (COOKIE_SECURE)
	LogLevel      string        // debug|info|warn|error (LOG_LEVEL)
}

// LoadDotEnv pre-populates the environment from the given .env files (or
// ".env" when none are given). Missing files are ignored; variables already
// present in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment. Every missing or
// invalid key is reported at once.
func Load() (Config, error) {
	cfg := Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("APP_PORT", "8080"),
		APIBaseURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("TALKMASTER_API_URL")), "/"),
		APITimeout:    envDur("API_TIMEOUT", 10*time.Second),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:    envDur("SESSION_TTL", time.Hour),
		CookieSecure:  envBool("COOKIE_SECURE", false),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL", "info")),
	}

	var missing, invalid []string
	if cfg.APIBaseURL == "" {
		missing = append(missing, "TALKMASTER_API_URL")
	} else if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		invalid = append(invalid, "TALKMASTER_API_URL")
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if cfg.APITimeout <= 0 {
		invalid = append(invalid, "API_TIMEOUT")
	}
	if cfg.SessionTTL <= 0 {
		invalid = append(invalid, "SESSION_TTL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid env vars: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// MustLoad is Load for entry points: configuration errors end the process.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string { return ":" + c.Port }

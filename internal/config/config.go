package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ImmichConfig struct {
	BaseURL string
	APIKey  string
}

type JournivConfig struct {
	BaseURL          string
	Email            string
	Password         string
	JournalID        string
	JournalName      string
	ExhaustivePaging bool
}

type Config struct {
	Port              string
	LogLevel          string
	LogDir            string
	RequestTimeoutSec int
	CORSAllowOrigins  []string
	RateLimitRPS      int
	RateLimitBurst    int
	GatewayToken      string
	Immich            ImmichConfig
	Journiv           JournivConfig
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load() Config {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	return FromEnv()
}

func FromEnv() Config {
	cfg := Config{
		Port:              envOrDefault("PORT", "8100"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogDir:            envOrDefault("LOG_DIR", "logs"),
		RequestTimeoutSec: intOrDefault(os.Getenv("REQUEST_TIMEOUT_SECONDS"), 30),
		CORSAllowOrigins:  splitList(envOrDefault("CORS_ALLOW_ORIGINS", "*")),
		RateLimitRPS:      intOrDefault(os.Getenv("RATE_LIMIT_RPS"), 0),
		RateLimitBurst:    intOrDefault(os.Getenv("RATE_LIMIT_BURST"), 20),
		GatewayToken:      strings.TrimSpace(os.Getenv("GATEWAY_TOKEN")),
		Immich: ImmichConfig{
			BaseURL: trimURL(os.Getenv("IMMICH_URL")),
			APIKey:  strings.TrimSpace(os.Getenv("IMMICH_API_KEY")),
		},
		Journiv: JournivConfig{
			BaseURL:     trimURL(os.Getenv("JOURNIV_URL")),
			Email:       strings.TrimSpace(os.Getenv("JOURNIV_EMAIL")),
			Password:    os.Getenv("JOURNIV_PASSWORD"),
			JournalID:   strings.TrimSpace(os.Getenv("JOURNIV_JOURNAL_ID")),
			JournalName: strings.TrimSpace(os.Getenv("JOURNIV_JOURNAL_NAME")),
		},
	}
	if strings.EqualFold(os.Getenv("LOG_DIR"), "off") {
		cfg.LogDir = ""
	}
	if v, ok := getenvBool("JOURNIV_EXHAUSTIVE_PAGING"); ok {
		cfg.Journiv.ExhaustivePaging = v
	}
	return cfg
}

// Validate reports configuration that makes the gateway unusable.
func (c Config) Validate() error {
	var errs []error
	if c.Immich.BaseURL == "" {
		errs = append(errs, errors.New("IMMICH_URL is required"))
	}
	if c.Immich.APIKey == "" {
		errs = append(errs, errors.New("IMMICH_API_KEY is required"))
	}
	if c.Journiv.BaseURL == "" {
		errs = append(errs, errors.New("JOURNIV_URL is required"))
	}
	if c.Journiv.Email == "" || c.Journiv.Password == "" {
		errs = append(errs, errors.New("JOURNIV_EMAIL and JOURNIV_PASSWORD are required"))
	}
	return errors.Join(errs...)
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intOrDefault(v string, fallback int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
		return i
	}
	return fallback
}

func getenvBool(name string) (bool, bool) {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if v == "" {
		return false, false
	}
	switch v {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func trimURL(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), "/")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

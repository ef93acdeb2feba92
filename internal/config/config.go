package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the automail service.
type Config struct {
	App      AppConfig
	Sender   SenderConfig
	Mail     MailConfig
	Catalog  CatalogConfig
	Dispatch DispatchConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	Port     int
	LogLevel string
}

// SenderConfig is the identity stamped on outbound mail when the catalog
// does not override it.
type SenderConfig struct {
	Email string
	Name  string
}

// SMTPConfig stores SMTP transport settings for email delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	StartTLS bool
}

// MailConfig selects and configures the delivery backend.
type MailConfig struct {
	Backend string // "smtp" or "mock"
	SMTP    SMTPConfig
}

// CatalogConfig points at an optional YAML file that replaces or extends
// the built-in recipient and template entries.
type CatalogConfig struct {
	Path string
}

// DispatchConfig tunes the dispatch layer.
type DispatchConfig struct {
	MaxInFlight int64
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("APP_PORT", 8080, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Sender.Email = ldr.getString("SENDER_EMAIL", "system@company.com", false)
	cfg.Sender.Name = ldr.getString("SENDER_NAME", "System Administrator", false)

	cfg.Mail.Backend = strings.ToLower(ldr.getString("MAIL_BACKEND", "mock", false))
	cfg.Mail.SMTP.Host = ldr.getString("SMTP_HOST", "smtp.gmail.com", false)
	cfg.Mail.SMTP.Port = ldr.getInt("SMTP_PORT", 587, false)
	cfg.Mail.SMTP.User = ldr.getString("SMTP_USER", "", false)
	cfg.Mail.SMTP.Pass = ldr.getString("SMTP_PASS", "", false)
	cfg.Mail.SMTP.StartTLS = ldr.getBool("SMTP_TLS", true, false)

	cfg.Catalog.Path = ldr.getString("CATALOG_PATH", "", false)

	cfg.Dispatch.MaxInFlight = int64(ldr.getInt("DISPATCH_MAX_INFLIGHT", 8, false))

	if cfg.Mail.Backend != "smtp" && cfg.Mail.Backend != "mock" {
		ldr.addError(fmt.Sprintf("MAIL_BACKEND must be smtp or mock, got %q", cfg.Mail.Backend))
	}
	if cfg.Dispatch.MaxInFlight <= 0 {
		ldr.addError("DISPATCH_MAX_INFLIGHT must be positive")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getBool(key string, def bool, required bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid boolean", key))
			return def
		}
		return parsed
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}

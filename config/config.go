package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env          string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"jurisalerta.sqlite"`

	// HS256 signing key for admin session tokens. Must be set outside development.
	AdminJWTSecret       string `env:"ADMIN_JWT_SECRET"`
	AdminInitialPassword string `env:"ADMIN_INITIAL_PASSWORD"`

	// Cron spec for the daily ComunicaPJE search.
	SearchSchedule string `env:"SEARCH_SCHEDULE" envDefault:"0 7 * * *"`

	ComunicaPJE struct {
		BaseURL     string `env:"COMUNICAPJE_BASE_URL" envDefault:"https://comunicaapi.pje.jus.br"`
		TimeoutSecs int    `env:"COMUNICAPJE_TIMEOUT_SECS" envDefault:"30"`
		Concurrency int    `env:"COMUNICAPJE_CONCURRENCY" envDefault:"5"`
	}

	DataJud struct {
		BaseURL     string `env:"DATAJUD_BASE_URL" envDefault:"https://api-publica.datajud.cnj.jus.br"`
		TimeoutSecs int    `env:"DATAJUD_TIMEOUT_SECS" envDefault:"30"`
	}

	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM" envDefault:"JurisAlerta <alertas@jurisalerta.com.br>"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	log *zap.Logger
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	godotenv.Load()

	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panicf("failed to parse environment: %v", err)
	}

	if cfg.AdminJWTSecret == "" {
		if cfg.Env == "development" {
			cfg.AdminJWTSecret = "dev-only-secret"
			log.Sugar().Info("ADMIN_JWT_SECRET not set, using development default")
		} else {
			log.Sugar().Panic("ADMIN_JWT_SECRET envvar must be populated outside development")
		}
	}
	if cfg.AdminInitialPassword == "" {
		if cfg.Env == "development" {
			cfg.AdminInitialPassword = "admin123"
			log.Sugar().Info("ADMIN_INITIAL_PASSWORD not set, using development default")
		} else {
			log.Sugar().Panic("ADMIN_INITIAL_PASSWORD envvar must be populated outside development")
		}
	}

	return cfg
}

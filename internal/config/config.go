package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret        string `yaml:"secret"`
		AccessExpiry  string `yaml:"access_expiry"`  // duration, напр. "1h"
		RefreshExpiry string `yaml:"refresh_expiry"` // duration, напр. "168h"
		LeewaySeconds int    `yaml:"leeway_seconds"` // допуск на рассинхронизацию часов
	} `yaml:"jwt"`

	CORS struct {
		Origin string `yaml:"origin"`
	} `yaml:"cors"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	RateLimit struct {
		AuthRPS   float64 `yaml:"auth_rps"`   // запросов в секунду на IP для /auth
		AuthBurst int     `yaml:"auth_burst"` // размер burst
	} `yaml:"rate_limit"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию из config.yaml или из переменных окружения.
// Наличие DATABASE_URL переключает в env-режим (тесты, контейнеры).
// Отсутствие JWT секрета - фатальная ошибка: небезопасный дефолт не подставляется.
func LoadConfig() {
	// .env подхватывается если есть; отсутствие файла не ошибка
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.AccessExpiry = os.Getenv("JWT_ACCESS_EXPIRY")
		cfg.JWT.RefreshExpiry = os.Getenv("JWT_REFRESH_EXPIRY")
		cfg.CORS.Origin = os.Getenv("CORS_ORIGIN")
		if leeway := os.Getenv("JWT_LEEWAY_SECONDS"); leeway != "" {
			cfg.JWT.LeewaySeconds, _ = strconv.Atoi(leeway)
		}
	}

	// Точечные env-оверрайды работают в обоих режимах
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if email := os.Getenv("FIRST_ADMIN_EMAIL"); email != "" {
		cfg.FirstAdminEmail = email
	}
	if password := os.Getenv("FIRST_ADMIN_PASSWORD"); password != "" {
		cfg.FirstAdminPassword = password
	}

	applyDefaults(&cfg)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not configured; refusing to start with an insecure default")
	}

	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.JWT.AccessExpiry == "" {
		cfg.JWT.AccessExpiry = "1h"
	}
	if cfg.JWT.RefreshExpiry == "" {
		cfg.JWT.RefreshExpiry = "168h" // 7 дней
	}
	if cfg.JWT.LeewaySeconds == 0 {
		cfg.JWT.LeewaySeconds = 30
	}
	if cfg.RateLimit.AuthRPS == 0 {
		cfg.RateLimit.AuthRPS = 5
	}
	if cfg.RateLimit.AuthBurst == 0 {
		cfg.RateLimit.AuthBurst = 10
	}
}

// AccessTokenTTL возвращает срок жизни access токена
func (c *Config) AccessTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessExpiry)
	if err != nil {
		return time.Hour
	}
	return d
}

// RefreshTokenTTL возвращает срок жизни refresh токена
func (c *Config) RefreshTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.RefreshExpiry)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// TokenLeeway возвращает допуск на рассинхронизацию часов при проверке exp
func (c *Config) TokenLeeway() time.Duration {
	return time.Duration(c.JWT.LeewaySeconds) * time.Second
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

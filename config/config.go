package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/mdemidenko/homework-bot/internal/models"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// Credentials обязательные секреты, читаются один раз при старте
type Credentials struct {
	PracticumToken string `envconfig:"PRACTICUM_TOKEN"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"`
}

// Validate проверяет, что все секреты заданы
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.PracticumToken) == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if strings.TrimSpace(c.TelegramToken) == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if strings.TrimSpace(c.TelegramChatID) == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return models.Errorf(models.KindConfig,
			"отсутствуют обязательные переменные окружения: %s", strings.Join(missing, ", "))
	}
	return nil
}

type PracticumConfig struct {
	Endpoint  string        `yaml:"endpoint" json:"endpoint"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	RetryTime time.Duration `yaml:"retry_time" json:"retry_time"`
}

type TelegramConfig struct {
	APIEndpoint string        `yaml:"api_endpoint" json:"api_endpoint"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	RateLimit   float64       `yaml:"rate_limit" json:"rate_limit"`
	Debug       bool          `yaml:"debug" json:"debug"`
}

type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Environment string `yaml:"environment" json:"environment"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

type ServerConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	Port           string   `yaml:"port" json:"port"`
	Host           string   `yaml:"host" json:"host"`
	GinMode        string   `yaml:"gin_mode" json:"gin_mode"`
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret" json:"-"`
	JWTExpiration int    `yaml:"jwt_expiration_hours" json:"jwt_expiration_hours"`
	Login         string `yaml:"login" json:"login"`
	Password      string `yaml:"password" json:"-"`
	PasswordHash  string `yaml:"password_hash" json:"-"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Config полная конфигурация приложения. Создается один раз и дальше только читается.
type Config struct {
	Credentials Credentials     `yaml:"-" json:"-"`
	Practicum   PracticumConfig `yaml:"practicum" json:"practicum"`
	Telegram    TelegramConfig  `yaml:"telegram" json:"telegram"`
	App         AppConfig       `yaml:"app" json:"app"`
	Logging     LoggingConfig   `yaml:"logging" json:"logging"`
	Server      ServerConfig    `yaml:"server" json:"server"`
	Auth        AuthConfig      `yaml:"auth" json:"auth"`
	Tracing     TracingConfig   `yaml:"tracing" json:"tracing"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint:  DefaultEndpoint,
			Timeout:   30 * time.Second,
			RetryTime: 600 * time.Second,
		},
		Telegram: TelegramConfig{
			Timeout:   10 * time.Second,
			RateLimit: 1,
		},
		App: AppConfig{
			Name:        "homework-bot",
			Version:     "1.0.0",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			File:       "main.log",
			MaxSizeMB:  50,
			MaxBackups: 5,
		},
		Server: ServerConfig{
			Enabled:        false,
			Port:           "8080",
			Host:           "localhost",
			GinMode:        "release",
			TrustedProxies: []string{"127.0.0.1"},
		},
		Auth: AuthConfig{
			JWTExpiration: 24,
			Login:         "admin",
		},
	}
}

// Options источники конфигурации
type Options struct {
	// ConfigPath путь к YAML файлу; пустой - искать в рабочей директории
	ConfigPath string
	// EnvFile путь к .env; отсутствие файла не ошибка
	EnvFile string
}

// LoadConfig собирает конфигурацию: значения по умолчанию, YAML, .env и переменные окружения.
// Любая ошибка имеет вид models.KindConfig.
func LoadConfig(opts Options) (*Config, error) {
	cfg := DefaultConfig()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, models.NewError(models.KindConfig, "failed to load "+envFile, err)
	}

	path := opts.ConfigPath
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", &cfg.Credentials); err != nil {
		return nil, models.NewError(models.KindConfig, "failed to read environment", err)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, models.NewError(models.KindConfig, "invalid environment override", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.KindConfig, "config validation failed", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.NewError(models.KindConfig, "failed to read config file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return models.NewError(models.KindConfig, "failed to parse YAML config", err)
	}
	return nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() error {
	if c.Practicum.Endpoint == "" {
		return fmt.Errorf("practicum.endpoint is required")
	}
	if u, err := url.Parse(c.Practicum.Endpoint); err != nil {
		return fmt.Errorf("practicum.endpoint is not a valid URL: %w", err)
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("practicum.endpoint must be an absolute http(s) URL: %q", c.Practicum.Endpoint)
	}
	if c.Practicum.Timeout <= 0 {
		return fmt.Errorf("practicum.timeout must be positive")
	}
	if c.Practicum.RetryTime <= 0 {
		return fmt.Errorf("practicum.retry_time must be positive")
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("telegram.timeout must be positive")
	}
	if c.Telegram.RateLimit < 0 {
		return fmt.Errorf("telegram.rate_limit must not be negative")
	}
	if c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("logging.max_size_mb must be positive")
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("logging.max_backups must not be negative")
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when server is enabled")
		}
		if c.Auth.JWTExpiration <= 0 {
			return fmt.Errorf("auth.jwt_expiration_hours must be positive")
		}
		if c.Auth.Login == "" || (c.Auth.Password == "" && c.Auth.PasswordHash == "") {
			return fmt.Errorf("auth.login and auth.password (or auth.password_hash) are required")
		}
	}

	validEnvironments := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	return nil
}

// IsProduction проверяет, production ли окружение
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// overrideFromEnv переопределяет значения из environment variables.
// Нераспознанное значение - ошибка, а не молчаливый откат к умолчанию.
func (c *Config) overrideFromEnv() error {
	if endpoint := os.Getenv("HOMEWORK_ENDPOINT"); endpoint != "" {
		c.Practicum.Endpoint = endpoint
	}
	if retry := os.Getenv("HOMEWORK_RETRY_TIME"); retry != "" {
		d, err := parseSeconds(retry)
		if err != nil {
			return fmt.Errorf("HOMEWORK_RETRY_TIME: %w", err)
		}
		c.Practicum.RetryTime = d
	}
	if debug := os.Getenv("TELEGRAM_DEBUG"); debug != "" {
		v, err := strconv.ParseBool(debug)
		if err != nil {
			return fmt.Errorf("TELEGRAM_DEBUG: %w", err)
		}
		c.Telegram.Debug = v
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	// JWT и аутентификация
	if jwtSecret := os.Getenv("AUTH_JWT_SECRET"); jwtSecret != "" {
		c.Auth.JWTSecret = jwtSecret
	}
	if jwtExp := os.Getenv("AUTH_JWT_EXPIRATION_HOURS"); jwtExp != "" {
		exp, err := strconv.Atoi(jwtExp)
		if err != nil {
			return fmt.Errorf("AUTH_JWT_EXPIRATION_HOURS: %w", err)
		}
		c.Auth.JWTExpiration = exp
	}
	if login := os.Getenv("AUTH_LOGIN"); login != "" {
		c.Auth.Login = login
	}
	if password := os.Getenv("AUTH_PASSWORD"); password != "" {
		c.Auth.Password = password
	}
	return nil
}

// parseSeconds принимает длительность Go ("10m") или целое число секунд
func parseSeconds(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	sec, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a duration nor a number of seconds", value)
	}
	return time.Duration(sec) * time.Second, nil
}

// findConfigFile ищет конфигурационный файл в рабочей директории
func findConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	possiblePaths := []string{
		filepath.Join(wd, "config.yml"),
		filepath.Join(wd, "config.yaml"),
		filepath.Join(wd, "configs", "config.yml"),
		filepath.Join(wd, "configs", "config.yaml"),
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Logger    LoggerConfig
	RateLimit RateLimitConfig
	Alerts    AlertsConfig
	Policy    PolicyConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageConfig выбирает backend хранилища
type StorageConfig struct {
	Driver string // memory, postgres или mongo
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int           // попытки ping при старте
	ConnectBackoff  time.Duration // пауза между попытками, растет линейно
}

// MongoConfig содержит настройки подключения к MongoDB
type MongoConfig struct {
	URI        string // если задан, остальные поля игнорируются
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	AuthSource string
	Timeout    time.Duration
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// JWTConfig содержит настройки JWT аутентификации
type JWTConfig struct {
	SecretKey string
	Expiry    time.Duration
	Issuer    string
}

// CORSConfig содержит настройки CORS
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// LoggerConfig содержит настройки логирования
type LoggerConfig struct {
	Level  string
	Format string // json или console
	Output string // stdout или путь к файлу
}

// RateLimitConfig ограничивает частоту запросов к auth endpoints
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AlertsConfig содержит пороги генерации уведомлений
type AlertsConfig struct {
	LicenseWarningDays int
	ServiceIntervalKm  float64
	ServiceWarningKm   float64
	DraftStaleAfter    time.Duration
}

// PolicyConfig указывает на внешний файл политики доступа
type PolicyConfig struct {
	File string // пусто - встроенная политика
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "fleet_user"),
			Password:        getEnv("DB_PASSWORD", "fleet_password"),
			Database:        getEnv("DB_NAME", "fleet_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectAttempts: getIntEnv("DB_CONNECT_ATTEMPTS", 5),
			ConnectBackoff:  getDurationEnv("DB_CONNECT_BACKOFF", time.Second),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Host:       getEnv("MONGO_HOST", "localhost"),
			Port:       getEnv("MONGO_PORT", "27017"),
			Database:   getEnv("MONGO_DATABASE", "fleetflow"),
			Username:   getEnv("MONGO_USERNAME", ""),
			Password:   getEnv("MONGO_PASSWORD", ""),
			AuthSource: getEnv("MONGO_AUTH_SOURCE", "admin"),
			Timeout:    getDurationEnv("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			Expiry:    getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			Issuer:    getEnv("JWT_ISSUER", "fleetflow"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("AUTH_RATE_LIMIT_REQUESTS", 10),
			Window:   getDurationEnv("AUTH_RATE_LIMIT_WINDOW", time.Minute),
		},
		Alerts: AlertsConfig{
			LicenseWarningDays: getIntEnv("ALERT_LICENSE_WARNING_DAYS", 30),
			ServiceIntervalKm:  getFloatEnv("ALERT_SERVICE_INTERVAL_KM", 10000),
			ServiceWarningKm:   getFloatEnv("ALERT_SERVICE_WARNING_KM", 1000),
			DraftStaleAfter:    getDurationEnv("ALERT_DRAFT_STALE_AFTER", 24*time.Hour),
		},
		Policy: PolicyConfig{
			File: getEnv("POLICY_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("auth rate limit must be positive"))
	}
	if c.Alerts.LicenseWarningDays <= 0 || c.Alerts.ServiceIntervalKm <= 0 ||
		c.Alerts.ServiceWarningKm < 0 || c.Alerts.DraftStaleAfter <= 0 {
		errs = append(errs, errors.New("alert thresholds must be positive"))
	}

	return errors.Join(errs...)
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// ConnectionURI возвращает строку подключения к MongoDB
func (c *MongoConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	if c.Username != "" && c.Password != "" {
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
			url.QueryEscape(c.Username), url.QueryEscape(c.Password), c.Host, c.Port, c.Database)
		if authSource := strings.TrimSpace(c.AuthSource); authSource != "" {
			uri = fmt.Sprintf("%s?authSource=%s", uri, url.QueryEscape(authSource))
		}
		return uri
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.Host, c.Port, c.Database)
}

// Address возвращает адрес сервера
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address возвращает адрес Redis
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig        `toml:"server"`
	Database            DatabaseConfig      `toml:"database"`
	Logs                LogsConfig          `toml:"logs"`
	Metrics             MetricsConfig       `toml:"metrics"`
	ArticleService      UpstreamConfig      `toml:"article_service"`
	ComplaintService    UpstreamConfig      `toml:"complaint_service"`
	ClientService       UpstreamConfig      `toml:"client_service"`
	NotificationService UpstreamConfig      `toml:"notification_service"`
	Warranty            WarrantyConfig      `toml:"warranty"`
	Billing             BillingConfig       `toml:"billing"`
	InvoiceNumber       InvoiceNumberConfig `toml:"invoice_number"`
	Redis               RedisConfig         `toml:"redis"`
	Outbox              OutboxConfig        `toml:"outbox"`
	CORS                CORSConfig          `toml:"cors"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// UpstreamConfig адрес и таймаут (в секундах) внешнего сервиса
type UpstreamConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	Token   string `toml:"token"`
}

// TimeoutDuration таймаут в виде time.Duration
func (u UpstreamConfig) TimeoutDuration() time.Duration {
	return time.Duration(u.Timeout) * time.Second
}

// WarrantyConfig политика повторов запроса гарантии
type WarrantyConfig struct {
	Retries        int `toml:"retries"`
	RetryBackoffMs int `toml:"retry_backoff_ms"`
}

// BillingConfig бизнес-константы; денежные значения задаются строками, чтобы не терять точность
type BillingConfig struct {
	PartsRate         string `toml:"parts_rate"`
	MinPartsCost      string `toml:"min_parts_cost"`
	FallbackPartsCost string `toml:"fallback_parts_cost"`
	DefaultLaborCost  string `toml:"default_labor_cost"`
	TaxRate           string `toml:"tax_rate"`
	FreeMarker        string `toml:"free_marker"`
	LateAfterHours    int    `toml:"late_after_hours"`
}

// InvoiceNumberConfig параметры нумерации счетов
type InvoiceNumberConfig struct {
	Prefix   string `toml:"prefix"`
	Strategy string `toml:"strategy"`
}

// RedisConfig подключение к Redis (для стратегии нумерации redis)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// OutboxConfig параметры фоновой доставки уведомлений
type OutboxConfig struct {
	Enabled        bool `toml:"enabled"`
	PollIntervalMs int  `toml:"poll_interval_ms"`
	BatchSize      int  `toml:"batch_size"`
	MaxAttempts    int  `toml:"max_attempts"`
}

// CORSConfig список разрешенных источников для UI
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "interventions",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "intervention-service",
		},
		ArticleService:      UpstreamConfig{URL: "http://localhost:8081", Timeout: 3},
		ComplaintService:    UpstreamConfig{URL: "http://localhost:8083", Timeout: 3},
		ClientService:       UpstreamConfig{URL: "http://localhost:8082", Timeout: 3},
		NotificationService: UpstreamConfig{URL: "http://localhost:8086", Timeout: 5},
		Warranty:            WarrantyConfig{Retries: 1, RetryBackoffMs: 200},
		Billing: BillingConfig{
			PartsRate:         "0.2",
			MinPartsCost:      "10",
			FallbackPartsCost: "30",
			DefaultLaborCost:  "50",
			TaxRate:           "0.19",
			FreeMarker:        domain.DefaultFreeMarker,
			LateAfterHours:    24,
		},
		InvoiceNumber: InvoiceNumberConfig{
			Prefix:   domain.DefaultInvoicePrefix,
			Strategy: domain.NumberStrategySequence,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Outbox: OutboxConfig{
			Enabled:        true,
			PollIntervalMs: 2000,
			BatchSize:      20,
			MaxAttempts:    8,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем TOML файл, затем .env и переменные окружения
// Отсутствующий файл не является ошибкой
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setInt(&cfg.Server.HTTPPort, "SERVER_PORT")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.ArticleService.URL, "ARTICLE_SERVICE_URL")
	setString(&cfg.ComplaintService.URL, "COMPLAINT_SERVICE_URL")
	setString(&cfg.ClientService.URL, "CLIENT_SERVICE_URL")
	setString(&cfg.NotificationService.URL, "NOTIFICATION_SERVICE_URL")
	setString(&cfg.NotificationService.Token, "NOTIFICATION_SERVICE_TOKEN")
	setString(&cfg.InvoiceNumber.Strategy, "INVOICE_NUMBER_STRATEGY")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.CORS.AllowedOrigins = cfg.CORS.AllowedOrigins[:0]
		for _, origin := range parts {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}

	upstreams := map[string]UpstreamConfig{
		"article_service":      c.ArticleService,
		"complaint_service":    c.ComplaintService,
		"client_service":       c.ClientService,
		"notification_service": c.NotificationService,
	}
	for name, u := range upstreams {
		if u.URL == "" {
			return fmt.Errorf("%w: %s.url is required", ErrInvalidConfig, name)
		}
		if u.Timeout <= 0 {
			return fmt.Errorf("%w: %s.timeout must be positive", ErrInvalidConfig, name)
		}
	}

	if c.Warranty.Retries < 0 || c.Warranty.RetryBackoffMs < 0 {
		return fmt.Errorf("%w: warranty retries and backoff must not be negative", ErrInvalidConfig)
	}

	if _, err := c.BillingRules(); err != nil {
		return err
	}

	switch c.InvoiceNumber.Strategy {
	case domain.NumberStrategySequence, domain.NumberStrategyRedis, domain.NumberStrategyCount:
	default:
		return fmt.Errorf("%w: unknown invoice_number.strategy %q", ErrInvalidConfig, c.InvoiceNumber.Strategy)
	}
	if strings.TrimSpace(c.InvoiceNumber.Prefix) == "" {
		return fmt.Errorf("%w: invoice_number.prefix is required", ErrInvalidConfig)
	}

	if c.Outbox.Enabled && (c.Outbox.PollIntervalMs <= 0 || c.Outbox.BatchSize <= 0 || c.Outbox.MaxAttempts <= 0) {
		return fmt.Errorf("%w: outbox poll_interval_ms, batch_size and max_attempts must be positive", ErrInvalidConfig)
	}

	return nil
}

// BillingRules переводит секцию [billing] в доменные правила
func (c *Config) BillingRules() (domain.BillingRules, error) {
	rules := domain.BillingRules{
		FreeMarker: c.Billing.FreeMarker,
		LateAfter:  time.Duration(c.Billing.LateAfterHours) * time.Hour,
	}

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"parts_rate", c.Billing.PartsRate, &rules.PartsRate},
		{"min_parts_cost", c.Billing.MinPartsCost, &rules.MinPartsCost},
		{"fallback_parts_cost", c.Billing.FallbackPartsCost, &rules.FallbackPartsCost},
		{"default_labor_cost", c.Billing.DefaultLaborCost, &rules.DefaultLaborCost},
		{"tax_rate", c.Billing.TaxRate, &rules.TaxRate},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return rules, fmt.Errorf("%w: billing.%s: %v", ErrInvalidConfig, f.name, err)
		}
		if d.IsNegative() {
			return rules, fmt.Errorf("%w: billing.%s must not be negative", ErrInvalidConfig, f.name)
		}
		*f.dst = d
	}

	if rules.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return rules, fmt.Errorf("%w: billing.tax_rate must be within [0, 1]", ErrInvalidConfig)
	}
	if rules.LateAfter <= 0 {
		return rules, fmt.Errorf("%w: billing.late_after_hours must be positive", ErrInvalidConfig)
	}

	return rules, nil
}

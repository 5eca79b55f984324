package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	pkglogger "github.com/fservio/projeto-do-povo/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 설정
type Config struct {
	Server       ServerConfig        `yaml:"server"`
	Database     DatabaseConfig      `yaml:"database"`
	Redis        RedisConfig         `yaml:"redis"`
	JWT          JWTConfig           `yaml:"jwt"`
	CORS         CORSConfig          `yaml:"cors"`
	RabbitMQ     RabbitMQConfig      `yaml:"rabbitmq"`
	Invalidation InvalidationConfig  `yaml:"invalidation"`
	RateLimit    RateLimitConfig     `yaml:"rate_limit"`
	Permissions  map[string][]string `yaml:"permissions"`
	LogLevel     string              `yaml:"log_level"`
}

type ServerConfig struct {
	Port            int    `yaml:"port"`
	Mode            string `yaml:"mode"` // development | production
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN MySQL DSN 생성
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // seconds
	RefreshIn int    `yaml:"refresh_in"` // seconds
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"` // comma separated
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"` // optional audit queue bound to every event
}

type InvalidationConfig struct {
	QueueSize     int `yaml:"queue_size"`
	MaxAttempts   int `yaml:"max_attempts"`
	RetryInterval int `yaml:"retry_interval"` // seconds
	Timeout       int `yaml:"timeout"`        // seconds
}

type RateLimitConfig struct {
	ViewsPerMinute int `yaml:"views_per_minute"` // per client and article; 0 disables
}

func (i InvalidationConfig) RetryIntervalDuration() time.Duration {
	return time.Duration(i.RetryInterval) * time.Second
}

func (i InvalidationConfig) TimeoutDuration() time.Duration {
	return time.Duration(i.Timeout) * time.Second
}

// IsDevelopment 개발 모드 여부
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "" || c.Server.Mode == "development"
}

// Load reads a YAML file, expanding ${VAR} references from the environment.
// Missing files are not an error: defaults plus env-driven values are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("config 파싱 실패 (%s): %w", path, err)
		}
	case os.IsNotExist(err):
		pkglogger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("config 읽기 실패 (%s): %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8082
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 3306
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 50
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.JWT.ExpiresIn == 0 {
		cfg.JWT.ExpiresIn = 900
	}
	if cfg.JWT.RefreshIn == 0 {
		cfg.JWT.RefreshIn = 86400
	}
	if cfg.RabbitMQ.Exchange == "" {
		cfg.RabbitMQ.Exchange = "cms.articles"
	}
	if cfg.Invalidation.QueueSize == 0 {
		cfg.Invalidation.QueueSize = 1024
	}
	if cfg.Invalidation.MaxAttempts == 0 {
		cfg.Invalidation.MaxAttempts = 5
	}
	if cfg.Invalidation.RetryInterval == 0 {
		cfg.Invalidation.RetryInterval = 5
	}
	if cfg.Invalidation.Timeout == 0 {
		cfg.Invalidation.Timeout = 2
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("jwt.secret is required outside development")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("rabbitmq.url is required when rabbitmq is enabled")
	}
	return nil
}

// LogResolved 최종 설정 출력 (비밀값 마스킹)
func LogResolved(cfg *Config) {
	pkglogger.Info("config: server.port=%d mode=%s", cfg.Server.Port, cfg.Server.Mode)
	pkglogger.Info("config: database=%s@%s:%d/%s password=%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, mask(cfg.Database.Password))
	pkglogger.Info("config: redis=%s:%d db=%d password=%s",
		cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB, mask(cfg.Redis.Password))
	pkglogger.Info("config: jwt.secret=%s rabbitmq.enabled=%t", mask(cfg.JWT.Secret), cfg.RabbitMQ.Enabled)
}

func mask(s string) string {
	if s == "" {
		return "(empty)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-2)
}

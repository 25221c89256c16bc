package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr          string        `yaml:"http_addr"`
	Debug             bool          `yaml:"debug"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	AuthRatePerMinute int           `yaml:"auth_rate_per_minute"`
	MySQL             MySQLConfig   `yaml:"mysql"`
	Redis             RedisConfig   `yaml:"redis"`
	JWT               JWTConfig     `yaml:"jwt"`
	Kafka             KafkaConfig   `yaml:"kafka"`
	SMTP              SMTPConfig    `yaml:"smtp"`
	Minio             MinioConfig   `yaml:"minio"`
	Outbox            OutboxConfig  `yaml:"outbox"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	PublicURL string `yaml:"public_url"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type OutboxConfig struct {
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batch_size"`
}

func defaults() Config {
	return Config{
		HTTPAddr:          ":8080",
		AuthRatePerMinute: 20,
		Redis:             RedisConfig{Addr: "127.0.0.1:6379"},
		JWT: JWTConfig{
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Kafka:           KafkaConfig{Topic: "club-events"},
		Minio:           MinioConfig{Bucket: "banners"},
		Outbox:          OutboxConfig{Interval: time.Second, BatchSize: 200},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the optional YAML file at path, then the optional .env file,
// then the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env is optional; real environment variables take precedence over it
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var invalid []string

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				invalid = append(invalid, key)
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				invalid = append(invalid, key)
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = b
		}
	}
	list := func(key string, dst *[]string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = splitList(v)
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	boolean("APP_DEBUG", &cfg.Debug)
	list("CORS_ORIGINS", &cfg.CORSOrigins)
	integer("AUTH_RATE_PER_MINUTE", &cfg.AuthRatePerMinute)
	str("MYSQL_DSN", &cfg.MySQL.DSN)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	integer("REDIS_DB", &cfg.Redis.DB)
	str("JWT_ACCESS_SECRET", &cfg.JWT.AccessSecret)
	str("JWT_REFRESH_SECRET", &cfg.JWT.RefreshSecret)
	duration("JWT_ACCESS_TTL", &cfg.JWT.AccessTTL)
	duration("JWT_REFRESH_TTL", &cfg.JWT.RefreshTTL)
	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("SMTP_HOST", &cfg.SMTP.Host)
	integer("SMTP_PORT", &cfg.SMTP.Port)
	str("SMTP_USER", &cfg.SMTP.User)
	str("SMTP_PASSWORD", &cfg.SMTP.Password)
	str("SMTP_FROM", &cfg.SMTP.From)
	str("MINIO_ENDPOINT", &cfg.Minio.Endpoint)
	str("MINIO_ACCESS_KEY", &cfg.Minio.AccessKey)
	str("MINIO_SECRET_KEY", &cfg.Minio.SecretKey)
	str("MINIO_BUCKET", &cfg.Minio.Bucket)
	str("MINIO_PUBLIC_URL", &cfg.Minio.PublicURL)
	boolean("MINIO_USE_SSL", &cfg.Minio.UseSSL)
	duration("OUTBOX_INTERVAL", &cfg.Outbox.Interval)
	integer("OUTBOX_BATCH_SIZE", &cfg.Outbox.BatchSize)
	duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	var missing []string
	if cfg.MySQL.DSN == "" {
		missing = append(missing, "MYSQL_DSN")
	}
	if cfg.JWT.AccessSecret == "" {
		missing = append(missing, "JWT_ACCESS_SECRET")
	}
	if cfg.JWT.RefreshSecret == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return nil
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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Business BusinessConfig `mapstructure:"business"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StorageConfig struct {
	// Driver is one of memory, postgres, mysql.
	Driver string `mapstructure:"driver"`
	Prefix string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type RabbitMQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type RelayConfig struct {
	// Mode is direct (the service posts itself) or queue (RabbitMQ + relay worker).
	Mode    string        `mapstructure:"mode"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	HistorySize int    `mapstructure:"history_size"`
}

// BusinessConfig seeds the store record the first time the service runs
// (or whenever the persisted record is unreadable).
type BusinessConfig struct {
	IsOpen         bool    `mapstructure:"is_open"`
	AdminPIN       string  `mapstructure:"admin_pin"`
	StoreName      string  `mapstructure:"store_name"`
	DeliveryFee    float64 `mapstructure:"delivery_fee"`
	WhatsAppNumber string  `mapstructure:"whatsapp_number"`
	FormID         string  `mapstructure:"form_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.prefix", "storefront")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "storefront")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "storefront")

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "storefront")

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")

	v.SetDefault("relay.mode", "direct")
	v.SetDefault("relay.base_url", "https://formspree.io/f/")
	v.SetDefault("relay.timeout", 10*time.Second)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic", "storefront.activity")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("gemini.history_size", 10)

	v.SetDefault("business.is_open", true)
	v.SetDefault("business.admin_pin", "777")
	v.SetDefault("business.store_name", "MEME LANCHE")
	v.SetDefault("business.delivery_fee", 7.00)
	v.SetDefault("business.whatsapp_number", "5522998641962")
	v.SetDefault("business.form_id", "xzzzbzoe")

	v.SetDefault("log.level", "debug")
}

// Load reads the YAML file at path. A missing file is not an error: every key
// has a default, and STOREFRONT_* environment variables override both.
// SetConfigFile bypasses the search path, so a missing file comes back as a
// plain fs error rather than ConfigFileNotFoundError.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres", "mysql":
	default:
		return fmt.Errorf("invalid storage driver %q: want memory, postgres or mysql", c.Storage.Driver)
	}

	switch c.Relay.Mode {
	case "direct":
	case "queue":
		if !c.RabbitMQ.Enabled {
			return fmt.Errorf("relay mode queue requires rabbitmq.enabled")
		}
	default:
		return fmt.Errorf("invalid relay mode %q: want direct or queue", c.Relay.Mode)
	}

	if c.Business.DeliveryFee < 0 {
		return fmt.Errorf("business.delivery_fee must not be negative")
	}

	return nil
}

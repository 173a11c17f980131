package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "REDSYS_CONFIG_PATH"

type RedsysServiceConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	OrderDB      `yaml:"order_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Redsys       `yaml:"redsys"`
	Callbacks    `yaml:"callbacks"`
	Notify       `yaml:"notify"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn" env:"ORDER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"ORDER_DB_MIGRATIONS" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic   string `yaml:"topic" env:"KAFKA_PAYMENT_TOPIC" env-default:"payment-events"`
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"redsys-backoffice"`
}

type Redsys struct {
	MerchantCode    string `yaml:"merchant_code" env:"REDSYS_MERCHANT_CODE"`
	Terminal        string `yaml:"terminal" env:"REDSYS_TERMINAL" env-default:"1"`
	SecretKey       string `yaml:"secret_key" env:"REDSYS_SECRET_KEY"`
	Currency        string `yaml:"currency" env:"REDSYS_CURRENCY" env-default:"978"`
	CurrencyCode    string `yaml:"currency_code" env:"REDSYS_CURRENCY_CODE" env-default:"EUR"`
	TransactionType string `yaml:"transaction_type" env:"REDSYS_TRANSACTION_TYPE" env-default:"0"`
	MerchantName    string `yaml:"merchant_name" env:"REDSYS_MERCHANT_NAME" env-default:"Tu Mejor Sueño"`
	Environment     string `yaml:"environment" env:"REDSYS_ENVIRONMENT" env-default:"testing"`
}

type Callbacks struct {
	AppBaseURL       string `yaml:"app_base_url" env:"APP_BASE_URL" env-default:"http://localhost:3000"`
	NotifyPath       string `yaml:"notify_path" env-default:"/api/redsys/notify"`
	OKPath           string `yaml:"ok_path" env-default:"/checkout/ok"`
	KOPath           string `yaml:"ko_path" env-default:"/checkout/ko"`
	BackofficeURL    string `yaml:"backoffice_url" env:"BACKOFFICE_CALLBACK_URL"`
	BackofficeSecret string `yaml:"backoffice_secret" env:"BACKOFFICE_CALLBACK_SECRET"`
}

type Notify struct {
	// DistinctRejectCodes answers rejected notifications with 400/403/404 instead of 200.
	DistinctRejectCodes bool   `yaml:"distinct_reject_codes" env:"NOTIFY_DISTINCT_REJECT_CODES"`
	Provider            string `yaml:"provider" env-default:"redsys"`
}

// AlwaysAccept reports whether rejected notifications are answered 200.
func (n Notify) AlwaysAccept() bool {
	return !n.DistinctRejectCodes
}

func MustLoad() *RedsysServiceConfig {
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v\n", err)
	}
	return cfg
}

// Load reads the YAML file at path, applies env overrides and defaults, and validates the result.
func Load(path string) (*RedsysServiceConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg RedsysServiceConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *RedsysServiceConfig) Validate() error {
	if !redsys.Environment(c.Redsys.Environment).Valid() {
		return fmt.Errorf("redsys.environment must be %q or %q, got %q",
			redsys.EnvironmentTesting, redsys.EnvironmentProduction, c.Redsys.Environment)
	}
	if c.Notify.Provider == "" {
		return fmt.Errorf("notify.provider must not be empty")
	}
	return nil
}

func (c *RedsysServiceConfig) MerchantConfig() redsys.MerchantConfig {
	return redsys.MerchantConfig{
		MerchantCode:    c.Redsys.MerchantCode,
		Terminal:        c.Redsys.Terminal,
		SecretKey:       c.Redsys.SecretKey,
		Currency:        c.Redsys.Currency,
		TransactionType: c.Redsys.TransactionType,
		MerchantName:    c.Redsys.MerchantName,
		Environment:     redsys.Environment(c.Redsys.Environment),
	}
}

// CallbackURLs derives the notification and browser return URLs for an order.
func (c *Callbacks) CallbackURLs(orderID string) redsys.CallbackURLs {
	base := strings.TrimRight(c.AppBaseURL, "/")
	return redsys.CallbackURLs{
		Notify: base + c.NotifyPath,
		OK:     fmt.Sprintf("%s%s?orderId=%s", base, c.OKPath, orderID),
		KO:     fmt.Sprintf("%s%s?orderId=%s", base, c.KOPath, orderID),
	}
}

func (k *KafkaService) Brokers() []string {
	return []string{fmt.Sprintf("%s:%s", k.Host, k.Port)}
}

func (h *HTTPServer) Address() string {
	return fmt.Sprintf("%s:%s", h.Host, h.Port)
}

func (g *GRPCServer) Address() string {
	return fmt.Sprintf("%s:%s", g.Host, g.Port)
}

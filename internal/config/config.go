// Package config reads service settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env into the process environment without overriding
// variables that are already set.
func LoadDotEnv() {
	_ = godotenv.Load()
}

type Catalog struct {
	Port        string
	PostgresURL string
}

func LoadCatalog() (Catalog, error) {
	cfg := Catalog{
		Port:        getenv("PORT", "8082"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
	}
	if cfg.PostgresURL == "" {
		return cfg, missing("POSTGRES_URL")
	}
	return cfg, nil
}

type Orders struct {
	Port               string
	PostgresURL        string
	CatalogServiceURL  string
	KafkaBrokers       []string
	RedisAddr          string
	LockCustomerOnEdit bool
}

func LoadOrders() (Orders, error) {
	cfg := Orders{
		Port:               getenv("PORT", "8081"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		CatalogServiceURL:  strings.TrimRight(os.Getenv("CATALOG_SERVICE_URL"), "/"),
		KafkaBrokers:       splitCSV(os.Getenv("KAFKA_BROKERS")),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		LockCustomerOnEdit: getbool("ORDERS_LOCK_CUSTOMER_ON_EDIT", false),
	}
	if cfg.PostgresURL == "" {
		return cfg, missing("POSTGRES_URL")
	}
	if cfg.CatalogServiceURL == "" {
		return cfg, missing("CATALOG_SERVICE_URL")
	}
	return cfg, nil
}

type Gateway struct {
	Port              string
	CatalogServiceURL string
	OrdersServiceURL  string
}

func LoadGateway() (Gateway, error) {
	cfg := Gateway{
		Port:              getenv("PORT", "8080"),
		CatalogServiceURL: strings.TrimRight(os.Getenv("CATALOG_SERVICE_URL"), "/"),
		OrdersServiceURL:  strings.TrimRight(os.Getenv("ORDERS_SERVICE_URL"), "/"),
	}
	if cfg.CatalogServiceURL == "" {
		return cfg, missing("CATALOG_SERVICE_URL")
	}
	if cfg.OrdersServiceURL == "" {
		return cfg, missing("ORDERS_SERVICE_URL")
	}
	return cfg, nil
}

type Worker struct {
	KafkaBrokers      []string
	EmailServiceURL   string
	CatalogServiceURL string
}

func LoadWorker() (Worker, error) {
	cfg := Worker{
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		EmailServiceURL:   strings.TrimRight(os.Getenv("EMAIL_SERVICE_URL"), "/"),
		CatalogServiceURL: strings.TrimRight(os.Getenv("CATALOG_SERVICE_URL"), "/"),
	}
	if len(cfg.KafkaBrokers) == 0 {
		return cfg, missing("KAFKA_BROKERS")
	}
	if cfg.EmailServiceURL == "" {
		return cfg, missing("EMAIL_SERVICE_URL")
	}
	if cfg.CatalogServiceURL == "" {
		return cfg, missing("CATALOG_SERVICE_URL")
	}
	return cfg, nil
}

type Email struct {
	Port         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
}

func LoadEmail() (Email, error) {
	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return Email{}, fmt.Errorf("SMTP_PORT: %w", err)
	}
	return Email{
		Port:         getenv("PORT", "8084"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     port,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		From:         getenv("SMTP_FROM", "noreply@storefront.local"),
	}, nil
}

type Migrate struct {
	PostgresURL    string
	MigrationsPath string
}

func LoadMigrate() (Migrate, error) {
	cfg := Migrate{
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "file://migrations"),
	}
	if cfg.PostgresURL == "" {
		return cfg, missing("POSTGRES_URL")
	}
	return cfg, nil
}

// Telemetry holds the OTLP exporter settings shared by every service.
type Telemetry struct {
	Endpoint    string
	SampleRatio float64
}

// LoadTelemetry reads OTEL_EXPORTER_OTLP_ENDPOINT and OTEL_TRACES_SAMPLER_ARG.
func LoadTelemetry() (Telemetry, error) {
	cfg := Telemetry{
		Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SampleRatio: 1,
	}
	if raw := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return cfg, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be a number between 0 and 1, got %q", raw)
		}
		cfg.SampleRatio = ratio
	}
	return cfg, nil
}

// AdminAPIURL is the gateway address used by adminctl.
func AdminAPIURL() string {
	return strings.TrimRight(getenv("ADMIN_API_URL", "http://localhost:8080"), "/")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func missing(key string) error {
	return fmt.Errorf("%s environment variable is required", key)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Engine   EngineConfig   `yaml:"engine"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type EngineConfig struct {
	MaxOrdersPerBatch int               `yaml:"max_orders_per_batch"`
	SupplierPrefixes  map[string]string `yaml:"supplier_prefixes"`
	ExcludeOrders     []string          `yaml:"exclude_orders"`
}

// PrefixFor returns the configured PO prefix for a supplier, falling back
// to CB-<SUPPLIER>.
func (e EngineConfig) PrefixFor(supplier string) string {
	if p, ok := e.SupplierPrefixes[supplier]; ok && p != "" {
		return p
	}
	return "CB-" + strings.ToUpper(strings.TrimSpace(supplier))
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Engine.MaxOrdersPerBatch <= 0 {
		cfg.Engine.MaxOrdersPerBatch = 20
	}
	if cfg.RabbitMQ.VHost == "" {
		cfg.RabbitMQ.VHost = "/"
	}
	if cfg.Database.Host == "" || cfg.RabbitMQ.Host == "" {
		return nil, errors.New("invalid config: missing database/rabbitmq host")
	}
	return cfg, nil
}

// FindConfig locates the config file next to the binary or in deploy/.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New("config.yaml not found")
}

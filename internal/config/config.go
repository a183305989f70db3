package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Core struct {
		// AdminEmail receives critical security alert mails.
		AdminEmail string `yaml:"admin_email" validate:"omitempty,email"`
		// PortalUrl is the public URL of the dashboard, used in alert mails.
		PortalUrl string `yaml:"portal_url"`
	} `yaml:"core"`

	Advanced struct {
		LogLevel string `yaml:"log_level"`
		LogJson  bool   `yaml:"log_json"`
	} `yaml:"advanced"`

	Audit    AuditConfig    `yaml:"audit"`
	Security SecurityConfig `yaml:"security"`

	Mail MailConfig `yaml:"mail"`

	Webhook WebhookConfig `yaml:"webhook"`

	Database DatabaseConfig `yaml:"database"`

	Web WebConfig `yaml:"web"`

	Statistics struct {
		// ListeningAddress is the address of the Prometheus metrics endpoint.
		// If empty, the metrics server is disabled.
		ListeningAddress string `yaml:"listening_address"`
	} `yaml:"statistics"`
}

type WebConfig struct {
	ListeningAddress string `yaml:"listening_address" validate:"required"`
	RequestLogging   bool   `yaml:"request_logging"`
	CertFile         string `yaml:"cert_file"`
	KeyFile          string `yaml:"key_file"`
}

func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Advanced.LogLevel = "info"

	cfg.Audit = defaultAuditConfig()
	cfg.Security = defaultSecurityConfig()

	cfg.Database = DatabaseConfig{
		Type: DatabaseSQLite,
		DSN:  "data/audit.db",
	}

	cfg.Web = WebConfig{
		ListeningAddress: ":8898",
	}

	return cfg
}

// GetConfig returns the configuration, merged from defaults and the YAML
// config file. The config file location can be overridden with the
// DF_AUDIT_CONFIG environment variable. Environment variable references in
// the YAML file are substituted before parsing.
func GetConfig() (*Config, error) {
	cfg := defaultConfig()

	cfgFileName := "config/config.yaml"
	if envCfgFileName := os.Getenv("DF_AUDIT_CONFIG"); envCfgFileName != "" {
		cfgFileName = envCfgFileName
	}

	if err := loadConfigFile(cfg, cfgFileName); err != nil {
		return nil, fmt.Errorf("failed to load config from yaml: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(cfg any, filename string) error {
	data, err := envsubst.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no config file, defaults apply
		}
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return nil
}

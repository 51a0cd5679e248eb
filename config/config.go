package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	MailLocal = "local"
	MailSMTP  = "smtp"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`

		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Cache struct {
		CitiesTTL time.Duration `mapstructure:"citiesTTL"`
	} `mapstructure:"cache"`
	Mail          MailConfig `mapstructure:"mail"`
	Observability struct {
		ServiceName  string `mapstructure:"serviceName"`
		MetricsPort  string `mapstructure:"metricsPort"`
		StdoutTraces bool   `mapstructure:"stdoutTraces"`
	} `mapstructure:"observability"`
}

type MailConfig struct {
	// Driver is "local" or "smtp"; empty picks by mode.
	Driver  string        `mapstructure:"driver"`
	From    string        `mapstructure:"from"`
	To      string        `mapstructure:"to"`
	Timeout time.Duration `mapstructure:"timeout"`
	SMTP    struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"smtp"`
}

// MailDriver resolves the configured driver, falling back to the local
// logger in development and SMTP everywhere else.
func (c Config) MailDriver() string {
	if c.Mail.Driver != "" {
		return c.Mail.Driver
	}
	if c.Mode == ModeDevelopment || c.Mode == "" {
		return MailLocal
	}
	return MailSMTP
}

// Validate rejects unknown driver names.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.MailDriver() {
	case MailLocal, MailSMTP:
	default:
		return fmt.Errorf("unknown mail driver %q", c.Mail.Driver)
	}
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("server.HTTPPort is required")
	}
	return nil
}

// InitConfig reads config.yml from the usual locations or the embedded copy,
// then applies CITYINFO_* environment overrides (e.g. CITYINFO_STORAGE_DRIVER).
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("CITYINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

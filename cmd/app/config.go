package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
	"github.com/sushihentaime/bloglist/internal/common"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`

	// DBURI scheme selects the store backend.
	DBURI  string `mapstructure:"DB_URI"`
	DBName string `mapstructure:"DB_NAME"`

	RabbitMQURL string        `mapstructure:"RABBITMQ_URL"`
	CacheTTL    time.Duration `mapstructure:"CACHE_TTL"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`
}

var configDefaults = map[string]any{
	"PORT":            ":3003",
	"ENVIRONMENT":     "development",
	"VERSION":         "1.0.0",
	"TRUSTED_ORIGINS": []string{},
	"TLS_CERT_FILE":   "",
	"TLS_KEY_FILE":    "",
	"DB_URI":          "badger://memory",
	"DB_NAME":         "bloglist",
	"RABBITMQ_URL":    "",
	"CACHE_TTL":       time.Minute,
	"BCRYPT_COST":     10,
}

// loadConfig reads the env file at path when it exists. Environment variables win over the file.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	v := common.NewValidator()

	v.Check(config.BcryptCost >= bcrypt.MinCost && config.BcryptCost <= bcrypt.MaxCost, "BCRYPT_COST",
		fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	v.Check(config.CacheTTL >= 0, "CACHE_TTL", "CACHE_TTL must not be negative")
	v.Check(config.DBURI != "", "DB_URI", "DB_URI must be provided")

	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	MySQLHost string `mapstructure:"MYSQL_HOST"`
	MySQLPort string `mapstructure:"MYSQL_PORT"`
	MySQLDB   string `mapstructure:"MYSQL_DB"`
	MySQLUser string `mapstructure:"MYSQL_USER"`
	MySQLPass string `mapstructure:"MYSQL_PASS"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`
	RedisDB   int    `mapstructure:"REDIS_DB"`

	IdempTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	// Unit behind a step's can_escalate_in counter.
	EscalateUnit time.Duration `mapstructure:"ESCALATE_UNIT"`

	// Static conversion table, "EUR/USD=1.10,USD/IDR=16000"
	FxRates string `mapstructure:"FX_RATES"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Every key has a default, so a bare environment
// yields a runnable config.
func Load() (*Config, error) {
	_ = gotenv.Load() // missing .env is fine

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "expenses")
	v.SetDefault("MYSQL_USER", "expenses")
	v.SetDefault("MYSQL_PASS", "expenses")
	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL", 5*time.Minute)
	v.SetDefault("ESCALATE_UNIT", time.Minute)
	v.SetDefault("FX_RATES", "")
	v.SetDefault("LOG_LEVEL", "info")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.EscalateUnit <= 0 {
		return errors.New("ESCALATE_UNIT must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// FxTable parses FX_RATES into a rate map; malformed entries are skipped.
func (c *Config) FxTable() map[string]float64 {
	out := make(map[string]float64)
	for _, entry := range strings.Split(c.FxRates, ",") {
		pair, val, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			continue
		}
		out[strings.TrimSpace(pair)] = rate
	}
	return out
}

// Package config loads the viewprofit settings.
//
// Settings are read, by increasing priority, from the defaults, the
// viewprofit.yaml file, and the VIEWPROFIT_* environment variables. A .env file
// in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/viewprofit"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of the environment variables, e.g. VIEWPROFIT_DATABASE_URL.
	EnvPrefix = "VIEWPROFIT"
	// FileName is the name of the configuration file, without extension.
	FileName = "viewprofit"
)

// Config is the complete configuration.
type Config struct {
	// Data is the folder holding the funds/ and benchmarks/ JSONL files.
	Data     string         `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	// Inflation is the name of the benchmark used for real returns.
	Inflation    string  `mapstructure:"inflation"`
	Months       int     `mapstructure:"months"`
	PortfolioTax float64 `mapstructure:"portfolio_tax"`
	Standardize  bool    `mapstructure:"standardize"`
	Currency     string  `mapstructure:"currency"`
	// Timezone is the IANA name of the zone epoch dates are read in. Empty
	// is the local zone.
	Timezone string    `mapstructure:"timezone"`
	Log      LogConfig `mapstructure:"log"`
	// Funds holds per fund settings. Keys are lower cased.
	Funds map[string]FundConfig `mapstructure:"funds"`
}

// DatabaseConfig holds the PostgreSQL source settings.
type DatabaseConfig struct {
	// URL of the database. When set, records are read from it instead of Data.
	URL    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // "console" or "json"
}

// FundConfig holds the settings of a single fund.
type FundConfig struct {
	IncomeTax float64 `mapstructure:"income_tax"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data", ".")
	v.SetDefault("database.url", "")
	v.SetDefault("database.schema", "public")
	v.SetDefault("inflation", viewprofit.DefaultInflation)
	v.SetDefault("months", 0)
	v.SetDefault("portfolio_tax", 0)
	v.SetDefault("standardize", false)
	v.SetDefault("currency", "EUR")
	v.SetDefault("timezone", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Load reads the configuration.
//
// When file is empty, viewprofit.yaml is searched in the working directory
// and then in the user configuration directory, and it is fine if there is
// none. Otherwise file must exist.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would only fail later.
func (c *Config) Validate() error {
	var errs []error
	if c.Months < 0 {
		errs = append(errs, fmt.Errorf("months must not be negative, got %d", c.Months))
	}
	if c.PortfolioTax < 0 || c.PortfolioTax > 100 {
		errs = append(errs, fmt.Errorf("portfolio_tax must be a percent, got %v", c.PortfolioTax))
	}
	for name, f := range c.Funds {
		if f.IncomeTax < 0 || f.IncomeTax > 100 {
			errs = append(errs, fmt.Errorf("funds.%s.income_tax must be a percent, got %v", name, f.IncomeTax))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Location returns the zone of Timezone, time.Local when it is empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IncomeTax returns the income tax percent of a fund, 0 when not configured.
// Fund names are not case sensitive.
func (c *Config) IncomeTax(fund string) float64 {
	return c.Funds[strings.ToLower(fund)].IncomeTax
}

// Params returns the recompute parameters for those funds.
func (c *Config) Params(funds ...string) viewprofit.Params {
	p := viewprofit.Params{
		IncomeTax:    make(map[string]float64, len(funds)),
		PortfolioTax: c.PortfolioTax,
		Months:       c.Months,
		Inflation:    c.Inflation,
		Standardize:  c.Standardize,
	}
	for _, name := range funds {
		if tax := c.IncomeTax(name); tax != 0 {
			p.IncomeTax[name] = tax
		}
	}
	return p
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	"github.com/ZanzyTHEbar/court-compare/internal/security"
)

type Config struct {
	// Server
	Port          string        `mapstructure:"PORT"`
	GinMode       string        `mapstructure:"GIN_MODE"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	EnableSwagger bool          `mapstructure:"ENABLE_SWAGGER"`
	EnableHSTS    bool          `mapstructure:"ENABLE_HSTS"`
	CSPReportURI  string        `mapstructure:"CSP_REPORT_URI"`
	CorsOrigins   []string      `mapstructure:"CORS_ORIGINS"`
	ShutdownGrace time.Duration `mapstructure:"SHUTDOWN_GRACE"`

	// Dataset
	DataPath      string `mapstructure:"DATA_PATH"`
	DataSheet     string `mapstructure:"DATA_SHEET"`
	DataTable     string `mapstructure:"DATA_TABLE"`
	DataDelimiter string `mapstructure:"DATA_DELIMITER"`
	TeamColumn    string `mapstructure:"TEAM_COLUMN"`
	PlayerColumn  string `mapstructure:"PLAYER_COLUMN"`

	// Comparison
	TeamDivisor   float64 `mapstructure:"TEAM_DIVISOR"`
	PlayerDivisor float64 `mapstructure:"PLAYER_DIVISOR"`

	// Limits
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
	RateLimitPerMin int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxInputLength  int           `mapstructure:"MAX_INPUT_LENGTH"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_SWAGGER", true)
	v.SetDefault("ENABLE_HSTS", false)
	v.SetDefault("CSP_REPORT_URI", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("SHUTDOWN_GRACE", "30s")

	v.SetDefault("DATA_PATH", "data/nba_2022-23_all_stats_with_salary.csv")
	v.SetDefault("DATA_SHEET", "")
	v.SetDefault("DATA_TABLE", "players")
	v.SetDefault("DATA_DELIMITER", "")
	v.SetDefault("TEAM_COLUMN", "Team")
	v.SetDefault("PLAYER_COLUMN", "Player Name")

	v.SetDefault("TEAM_DIVISOR", 10.0)
	v.SetDefault("PLAYER_DIVISOR", 1.0)

	v.SetDefault("CACHE_TTL", "15m")
	v.SetDefault("RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MAX_INPUT_LENGTH", 100)
}

// Load reads defaults, then an optional courtcompare.yaml or .env file in the
// working directory, then environment variables.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory for the optional config file.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, candidate := range []struct{ name, kind string }{
		{"courtcompare", "yaml"},
		{".env", "env"},
	} {
		fv := viper.New()
		fv.SetConfigName(candidate.name)
		fv.SetConfigType(candidate.kind)
		fv.AddConfigPath(dir)
		if err := fv.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := v.MergeConfigMap(fv.AllSettings()); err != nil {
			return nil, fmt.Errorf("error merging config file: %w", err)
		}
		break
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = splitList(corsStr)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("DATA_PATH is required")
	}
	if err := c.BuilderOptions().Validate(); err != nil {
		return err
	}
	if c.DataDelimiter != "" && utf8.RuneCountInString(c.DataDelimiter) != 1 && c.DataDelimiter != `\t` {
		return fmt.Errorf("DATA_DELIMITER must be a single character, got %q", c.DataDelimiter)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxInputLength <= 0 {
		return fmt.Errorf("MAX_INPUT_LENGTH must be positive, got %d", c.MaxInputLength)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	return nil
}

// DatasetOptions maps the dataset keys onto loader options.
func (c *Config) DatasetOptions() dataset.Options {
	opts := dataset.Options{
		TeamColumn:   c.TeamColumn,
		PlayerColumn: c.PlayerColumn,
		Sheet:        c.DataSheet,
		Table:        c.DataTable,
	}
	switch {
	case c.DataDelimiter == `\t`:
		opts.Delimiter = '\t'
	case c.DataDelimiter != "":
		opts.Delimiter, _ = utf8.DecodeRuneInString(c.DataDelimiter)
	}
	return opts
}

func (c *Config) BuilderOptions() analysis.Options {
	return analysis.Options{TeamDivisor: c.TeamDivisor, PlayerDivisor: c.PlayerDivisor}
}

func (c *Config) SecurityConfig() security.SecurityConfig {
	sc := security.DefaultSecurityConfig()
	sc.MaxInputLength = c.MaxInputLength
	sc.MaxRequestsPerMin = c.RateLimitPerMin
	sc.AllowedOrigins = c.CorsOrigins
	sc.RequestTimeout = c.RequestTimeout
	sc.EnableHSTS = c.EnableHSTS
	sc.CSPReportURI = c.CSPReportURI
	return sc
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"fleetrank/internal/ranking"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Engine   EngineConfig   `yaml:"engine" envconfig:"ENGINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains request-protection configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/fleetrank.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// EngineConfig contains the scoring engine configuration for every
// ranked domain.
type EngineConfig struct {
	WindowDays int                     `yaml:"window_days" envconfig:"WINDOW_DAYS" default:"7" validate:"gte=1"`
	Domains    map[string]DomainConfig `yaml:"domains"`
}

// DomainConfig is one domain's scoring setup: the polarity of each
// observed area, display names, and the composite weights.
type DomainConfig struct {
	// Directions maps area identifier to "lower_better" or
	// "higher_better". Every area that may appear in that domain's input
	// must be listed.
	Directions map[string]string `yaml:"directions"`

	// AreaNames maps area identifiers to display names for explanations.
	AreaNames map[string]string `yaml:"area_names"`

	// SubMetricWeights weighs fill, instability and rate_of_change inside
	// an area score. Empty means equal thirds.
	SubMetricWeights map[string]float64 `yaml:"sub_metric_weights"`

	// AreaWeights weighs area scores in the final composite. Empty means
	// equal weights across the areas an entity reports.
	AreaWeights map[string]float64 `yaml:"area_weights"`
}

var validate = validator.New()

// Load loads configuration from an optional YAML file overlaid with
// environment variables, then validates the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	// Environment variables take precedence over the file.
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural constraints via struct tags and the
// semantic constraints of the domain sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	for name, domain := range c.Engine.Domains {
		if len(domain.Directions) == 0 {
			return fmt.Errorf("domain %s: at least one area direction is required", name)
		}
		for area, dir := range domain.Directions {
			if _, err := ParseDirection(dir); err != nil {
				return fmt.Errorf("domain %s, area %s: %w", name, area, err)
			}
		}
		for kind := range domain.SubMetricWeights {
			switch ranking.MetricKind(kind) {
			case ranking.KindFill, ranking.KindInstability, ranking.KindRateOfChange:
			default:
				return fmt.Errorf("domain %s: unknown sub-metric %q in weights", name, kind)
			}
		}
	}

	return nil
}

// EngineConfigFor resolves one domain's section into an engine
// configuration. Unknown domains are an error.
func (c *Config) EngineConfigFor(domain ranking.Domain) (ranking.Config, error) {
	section, ok := c.Engine.Domains[string(domain)]
	if !ok {
		return ranking.Config{}, fmt.Errorf("no configuration for domain %s", domain)
	}

	engine := ranking.DefaultConfig(domain)
	engine.WindowDays = c.Engine.WindowDays
	engine.AreaNames = section.AreaNames
	engine.AreaWeights = section.AreaWeights

	for area, dir := range section.Directions {
		parsed, err := ParseDirection(dir)
		if err != nil {
			return ranking.Config{}, fmt.Errorf("domain %s, area %s: %w", domain, area, err)
		}
		engine.Directions[area] = parsed
	}

	if len(section.SubMetricWeights) > 0 {
		engine.SubMetricWeights = make(map[ranking.MetricKind]float64, len(section.SubMetricWeights))
		for kind, w := range section.SubMetricWeights {
			engine.SubMetricWeights[ranking.MetricKind(kind)] = w
		}
	}

	if err := engine.Validate(); err != nil {
		return ranking.Config{}, fmt.Errorf("domain %s: %w", domain, err)
	}
	return engine, nil
}

// ParseDirection maps the configuration spelling of a polarity onto the
// engine's type.
func ParseDirection(s string) (ranking.Direction, error) {
	switch s {
	case "lower_better":
		return ranking.LowerBetter, nil
	case "higher_better":
		return ranking.HigherBetter, nil
	default:
		return ranking.LowerBetter, fmt.Errorf("invalid direction %q (want lower_better or higher_better)", s)
	}
}

// findConfigFile checks the common locations for a config file.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration. The domain sections carry
// the standard fleet setup and can be replaced wholesale from YAML.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/fleetrank.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "output",
			LogsDir:   "logs",
		},
		Engine: EngineConfig{
			WindowDays: ranking.DefaultWindowDays,
			Domains: map[string]DomainConfig{
				string(ranking.DomainCP):  defaultCPDomain(),
				string(ranking.DomainHDD): defaultHDDDomain(),
			},
		},
	}
}

// Package config loads the drugnet run configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/linkpred"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/population"
	"github.com/dd0wney/drugnet/pkg/sources"
	"github.com/dd0wney/drugnet/pkg/validation"
)

// Environment overrides.
const (
	EnvOutputDir   = "DRUGNET_OUTPUT_DIR"
	EnvLogLevel    = "DRUGNET_LOG_LEVEL"
	EnvPostgresDSN = "DRUGNET_POSTGRES_DSN"
	EnvS3Bucket    = "DRUGNET_S3_BUCKET"
)

// Config is a complete run configuration.
type Config struct {
	Period     period.Period    `yaml:"period"`
	Drugs      []string         `yaml:"drugs" validate:"required,min=1,dive,required"`
	Sources    sources.Paths    `yaml:"sources"`
	Output     OutputConfig     `yaml:"output"`
	Population PopulationConfig `yaml:"population"`
	Training   TrainingConfig   `yaml:"training"`
	Sinks      SinksConfig      `yaml:"sinks"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	LogLevel   string           `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

// OutputConfig controls exported artifacts.
type OutputConfig struct {
	Dir     string   `yaml:"dir" validate:"required"`
	Formats []string `yaml:"formats" validate:"required,min=1"`
	// Aggregate also exports the union graph of the whole period.
	Aggregate bool `yaml:"aggregate"`
	// Compress writes snappy-compressed artifacts.
	Compress bool `yaml:"compress"`
}

// PopulationConfig controls the population fetch.
type PopulationConfig struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	AgeMin  int           `yaml:"age_min" validate:"gte=0"`
	AgeMax  int           `yaml:"age_max" validate:"gte=0"`
	Workers int           `yaml:"workers" validate:"gte=0,lte=64"`
	Timeout time.Duration `yaml:"timeout"`
}

// TrainingConfig controls the link-prediction baseline.
type TrainingConfig struct {
	Epochs       int      `yaml:"epochs"`
	LearningRate float64  `yaml:"learning_rate"`
	TestRatio    float64  `yaml:"test_ratio"`
	Seed         uint64   `yaml:"seed"`
	Models       []string `yaml:"models"`
	// LogDir receives the dumped run log.
	LogDir string `yaml:"log_dir"`
}

// SinksConfig selects where artifacts and run logs go besides Output.Dir.
type SinksConfig struct {
	S3          S3Config `yaml:"s3"`
	PostgresDSN string   `yaml:"postgres_dsn"`
}

// S3Config locates the artifact bucket.
type S3Config struct {
	Enabled  bool   `yaml:"enabled"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used for unset fields.
func Default() *Config {
	return &Config{
		Period: period.Default(),
		Drugs:  drugs.Names(drugs.All),
		Output: OutputConfig{
			Dir:       "output",
			Formats:   []string{string(assemble.FormatGML), string(assemble.FormatJSON), string(assemble.FormatCSV)},
			Aggregate: true,
		},
		Population: PopulationConfig{
			BaseURL: population.DefaultBaseURL,
			AgeMin:  15,
			AgeMax:  64,
			Workers: 4,
			Timeout: 60 * time.Second,
		},
		Training: TrainingConfig{
			Epochs:       200,
			LearningRate: 0.05,
			TestRatio:    0.2,
			Seed:         42,
			Models:       append([]string(nil), linkpred.Models...),
			LogDir:       "logs",
		},
		Metrics:  MetricsConfig{Addr: ":9090"},
		LogLevel: "info",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. Relative source and output paths are resolved
// against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.resolve(filepath.Dir(path))
	c.applyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the environment-adjusted defaults
// without validation when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	c := Default()
	c.applyEnv(os.Getenv)
	return c, nil
}

// Parse decodes YAML over the defaults without validating.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{
		&c.Sources.Seizures, &c.Sources.Purity, &c.Sources.Prevalence,
		&c.Sources.Population, &c.Sources.Production, &c.Sources.Prices,
		&c.Sources.GDP, &c.Sources.Governance, &c.Sources.Coordinates,
		&c.Output.Dir, &c.Training.LogDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvPostgresDSN); v != "" {
		c.Sinks.PostgresDSN = v
	}
	if v := getenv(EnvS3Bucket); v != "" {
		c.Sinks.S3.Enabled = true
		c.Sinks.S3.Bucket = v
	}
}

// Validate reports every problem with c.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	formats := make([]string, len(assemble.Formats))
	for i, f := range assemble.Formats {
		formats[i] = string(f)
	}
	return validation.NewConfigValidator("config").
		Custom("period", func() error { return validation.ValidateYearRange(c.Period.Start, c.Period.End) }).
		Custom("drugs", func() error { _, err := drugs.ParseAll(c.Drugs); return err }).
		EachOneOf("output.formats", c.Output.Formats, formats).
		RangeInt("population.age_min", c.Population.AgeMin, 0, c.Population.AgeMax).
		RangeInt("population.age_max", c.Population.AgeMax, c.Population.AgeMin, 150).
		MinDuration("population.timeout", c.Population.Timeout, time.Second).
		Positive("training.epochs", c.Training.Epochs).
		PositiveFloat("training.learning_rate", c.Training.LearningRate).
		OpenUnit("training.test_ratio", c.Training.TestRatio).
		EachOneOf("training.models", c.Training.Models, linkpred.Models).
		When(c.Sinks.S3.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("sinks.s3.bucket", c.Sinks.S3.Bucket)
		}).
		Validate()
}

// Categories returns the configured drugs.
func (c *Config) Categories() ([]drugs.Category, error) {
	return drugs.ParseAll(c.Drugs)
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Formats returns the configured export formats.
func (c *Config) Formats() []assemble.Format {
	out := make([]assemble.Format, len(c.Output.Formats))
	for i, f := range c.Output.Formats {
		out[i] = assemble.Format(f)
	}
	return out
}

// TrainingOptions converts the training section.
func (c *Config) TrainingOptions() linkpred.Options {
	return linkpred.Options{
		Epochs:       c.Training.Epochs,
		LearningRate: c.Training.LearningRate,
		TestRatio:    c.Training.TestRatio,
		Seed:         c.Training.Seed,
		Models:       c.Training.Models,
	}
}

package eval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/picklr-io/planrisk/internal/engine"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/picklr-io/planrisk/internal/pricing"
	"gopkg.in/yaml.v3"
)

// Defaults applied to unset settings fields.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultListenAddr   = ":8080"
	DefaultReportPrefix = "planrisk"
)

// Settings is the optional startup configuration. Zero values fall back to
// the defaults above.
type Settings struct {
	LogLevel   string `pkl:"log_level" json:"log_level" yaml:"log_level" validate:"required,oneof=debug info warn warning error"`
	LogFormat  string `pkl:"log_format" json:"log_format" yaml:"log_format" validate:"required,oneof=text json"`
	FailOn     string `pkl:"fail_on" json:"fail_on" yaml:"fail_on" validate:"omitempty,oneof=safe low medium high critical"`
	AWSRegion  string `pkl:"aws_region" json:"aws_region" yaml:"aws_region"`
	AWSProfile string `pkl:"aws_profile" json:"aws_profile" yaml:"aws_profile"`
	ListenAddr string `pkl:"listen_addr" json:"listen_addr" yaml:"listen_addr" validate:"required"`

	// RateLimit caps analyze requests per second in serve mode; 0 means unlimited.
	RateLimit    float64 `pkl:"rate_limit" json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	MaxBodyBytes int64   `pkl:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`

	ReportBucket string `pkl:"report_bucket" json:"report_bucket" yaml:"report_bucket"`
	ReportPrefix string `pkl:"report_prefix" json:"report_prefix" yaml:"report_prefix"`

	ExtraPricing  map[string][]pricing.Entry `pkl:"extra_pricing" json:"extra_pricing" yaml:"extra_pricing" validate:"omitempty,dive,keys,required,endkeys,dive"`
	ExtraStateful []string                   `pkl:"extra_stateful" json:"extra_stateful" yaml:"extra_stateful" validate:"omitempty,dive,required"`
}

var validate = validator.New()

// Defaults returns settings with every default applied.
func Defaults() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// Load reads settings from path (.pkl, .yaml or .yml), then applies
// defaults and environment overrides and validates the result. An empty
// path yields the defaults.
func Load(ctx context.Context, path string) (*Settings, error) {
	s := &Settings{}

	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
	case ext == ".pkl":
		loaded, err := NewEvaluator(nil).LoadSettings(ctx, path)
		if err != nil {
			return nil, err
		}
		s = loaded
	case ext == ".yaml" || ext == ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings file type %q (want .pkl, .yaml or .yml)", ext)
	}

	s.applyDefaults()
	s.applyEnv()
	s.FailOn = strings.ToLower(s.FailOn)
	s.LogLevel = strings.ToLower(s.LogLevel)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("settings loaded",
		"path", path,
		"extra_pricing", len(s.ExtraPricing),
		"extra_stateful", len(s.ExtraStateful),
	)
	return s, nil
}

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// PriceTable returns the built-in price table extended with ExtraPricing.
func (s *Settings) PriceTable() *pricing.Table {
	if len(s.ExtraPricing) == 0 {
		return pricing.Default()
	}
	return pricing.Default().With(s.ExtraPricing)
}

// Ruleset returns the default ruleset with ExtraStateful added.
func (s *Settings) Ruleset() *engine.Ruleset {
	return engine.NewRuleset(s.ExtraStateful)
}

// NewEngine builds an analysis engine from the settings.
func (s *Settings) NewEngine() *engine.Engine {
	return engine.NewEngine(s.PriceTable(), s.Ruleset())
}

func (s *Settings) applyDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = DefaultLogFormat
	}
	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if s.ReportPrefix == "" {
		s.ReportPrefix = DefaultReportPrefix
	}
}

func (s *Settings) applyEnv() {
	s.LogLevel = envOr("PLANRISK_LOG_LEVEL", s.LogLevel)
	s.FailOn = envOr("PLANRISK_FAIL_ON", s.FailOn)
	s.AWSRegion = envOr("AWS_REGION", s.AWSRegion)
	s.AWSProfile = envOr("AWS_PROFILE", s.AWSProfile)
	s.ListenAddr = envOr("PLANRISK_LISTEN_ADDR", s.ListenAddr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

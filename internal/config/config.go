package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ruminaider/citysearch/internal/widget"
	"go.yaml.in/yaml/v3"
)

// Locate modes.
const (
	LocateOff    = "off"
	LocateStatic = "static"
	LocateIP     = "ip"
)

// Config represents ~/.citysearch/config.yaml.
type Config struct {
	Placeholder    string        `yaml:"placeholder"`
	DataFile       string        `yaml:"data_file,omitempty" validate:"excluded_with=DataURL"`
	DataURL        string        `yaml:"data_url,omitempty" validate:"omitempty,url"`
	MinLength      int           `yaml:"min_length" validate:"gte=0,lte=10"`
	MaxSuggestions int           `yaml:"max_suggestions" validate:"gte=1,lte=100"`
	Debounce       time.Duration `yaml:"debounce" validate:"gte=0,lte=2s"`
	HighlightFirst bool          `yaml:"highlight_first"`
	Wrap           bool          `yaml:"wrap"`
	LocateEnabled  bool          `yaml:"locate_enabled"`
	SelectZoom     int           `yaml:"select_zoom" validate:"gte=1,lte=19"`
	LocateZoom     int           `yaml:"locate_zoom" validate:"gte=1,lte=19"`
	Locate         LocateConfig  `yaml:"locate"`
	LogFile        string        `yaml:"log_file,omitempty"`
	LogFormat      string        `yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`
}

// LocateConfig selects how "locate me" finds the user.
type LocateConfig struct {
	Mode      string  `yaml:"mode" validate:"oneof=off static ip"`
	Latitude  float64 `yaml:"latitude,omitempty" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude,omitempty" validate:"gte=-180,lte=180"`
	URL       string  `yaml:"url,omitempty" validate:"omitempty,url"`
}

// Default returns a config with default values.
func Default() Config {
	opts := widget.DefaultOptions()
	return Config{
		Placeholder:    "Search city, state, or ZIP",
		MinLength:      opts.MinLength,
		MaxSuggestions: opts.MaxSuggestions,
		Debounce:       150 * time.Millisecond,
		Wrap:           opts.Wrap,
		SelectZoom:     opts.SelectZoom,
		LocateZoom:     opts.LocateZoom,
		Locate:         LocateConfig{Mode: LocateOff},
		LogFormat:      "text",
	}
}

// WidgetOptions maps the config onto widget options.
func (c Config) WidgetOptions() widget.Options {
	return widget.Options{
		MinLength:      c.MinLength,
		MaxSuggestions: c.MaxSuggestions,
		HighlightFirst: c.HighlightFirst,
		Wrap:           c.Wrap,
		LocateEnabled:  c.LocateEnabled,
		SelectZoom:     c.SelectZoom,
		LocateZoom:     c.LocateZoom,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and combinations.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL", field)
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with data_url", field)
	default:
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Parse parses config.yaml bytes into a Config. Keys missing from data keep
// their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Locate.Mode == "" {
		cfg.Locate.Mode = LocateOff
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Save validates cfg and writes it to path, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

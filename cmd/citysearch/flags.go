package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/config"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/ruminaider/citysearch/internal/logger"
	"github.com/ruminaider/citysearch/internal/paths"
	"github.com/spf13/cobra"
)

// configFlags holds the persistent flags that override config.yaml.
type configFlags struct {
	configPath     string
	dataFile       string
	dataURL        string
	minLength      int
	maxSuggestions int
	debounce       time.Duration
	highlightFirst bool
	wrap           bool
	locateEnabled  bool
	locateMode     string
	latitude       float64
	longitude      float64
	logFormat      string
	debug          bool
}

var flagVals configFlags

func bindConfigFlags(cmd *cobra.Command, f *configFlags) {
	def := config.Default()
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.configPath, "config", "", "Config file (default ~/.citysearch/config.yaml)")
	fs.StringVar(&f.dataFile, "data-file", "", "Load locations from a local JSON file")
	fs.StringVar(&f.dataURL, "data-url", "", "Load locations from a URL")
	fs.IntVar(&f.minLength, "min-length", def.MinLength, "Minimum query length before suggesting")
	fs.IntVar(&f.maxSuggestions, "max-suggestions", def.MaxSuggestions, "Maximum number of suggestions")
	fs.DurationVar(&f.debounce, "debounce", def.Debounce, "Typing pause before searching")
	fs.BoolVar(&f.highlightFirst, "highlight-first", def.HighlightFirst, "Highlight the first suggestion automatically")
	fs.BoolVar(&f.wrap, "wrap", def.Wrap, "Wrap arrow-key navigation at the ends of the list")
	fs.BoolVar(&f.locateEnabled, "locate", def.LocateEnabled, "Enable the locate-me action")
	fs.StringVar(&f.locateMode, "locate-mode", def.Locate.Mode, "How to locate the user: off, static or ip")
	fs.Float64Var(&f.latitude, "lat", 0, "Latitude for --locate-mode=static")
	fs.Float64Var(&f.longitude, "lon", 0, "Longitude for --locate-mode=static")
	fs.StringVar(&f.logFormat, "log-format", def.LogFormat, "Log format: text or json")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
}

// apply overlays the flags the user actually set onto cfg.
func (f *configFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("data-file") {
		cfg.DataFile = f.dataFile
		cfg.DataURL = ""
	}
	if changed("data-url") {
		cfg.DataURL = f.dataURL
		cfg.DataFile = ""
	}
	if changed("min-length") {
		cfg.MinLength = f.minLength
	}
	if changed("max-suggestions") {
		cfg.MaxSuggestions = f.maxSuggestions
	}
	if changed("debounce") {
		cfg.Debounce = f.debounce
	}
	if changed("highlight-first") {
		cfg.HighlightFirst = f.highlightFirst
	}
	if changed("wrap") {
		cfg.Wrap = f.wrap
	}
	if changed("locate") {
		cfg.LocateEnabled = f.locateEnabled
	}
	if changed("locate-mode") {
		cfg.Locate.Mode = f.locateMode
	}
	if changed("lat") {
		cfg.Locate.Latitude = f.latitude
	}
	if changed("lon") {
		cfg.Locate.Longitude = f.longitude
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return config.Config{}, err
	}
	flagVals.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// sourceFor picks the catalog source: a file, a URL or the bundled dataset.
func sourceFor(cfg config.Config) catalog.Source {
	switch {
	case cfg.DataFile != "":
		return catalog.FileSource{Path: cfg.DataFile}
	case cfg.DataURL != "":
		return catalog.HTTPSource{URL: cfg.DataURL}
	default:
		return catalog.EmbeddedSource{}
	}
}

// locatorFor returns the configured locator, or nil when locating is off.
func locatorFor(cfg config.Config) geolocate.Locator {
	switch cfg.Locate.Mode {
	case config.LocateStatic:
		return geolocate.Static{Lat: cfg.Locate.Latitude, Lon: cfg.Locate.Longitude}
	case config.LocateIP:
		return geolocate.IPLocator{URL: cfg.Locate.URL}
	default:
		return nil
	}
}

// newLogger builds the logger for non-interactive commands.
func newLogger(cfg config.Config, w io.Writer) *logger.Logger {
	return logger.New(w, cfg.LogFormat, flagVals.debug)
}

// openLogFile opens the log file the interactive search writes to.
func openLogFile(cfg config.Config) (*os.File, error) {
	path := cfg.LogFile
	if path == "" {
		path = paths.LogFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

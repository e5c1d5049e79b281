package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/citysearch/internal/config"
	"github.com/ruminaider/citysearch/internal/paths"
	"github.com/spf13/cobra"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage citysearch configuration",
	Long:  "Commands for creating and inspecting ~/.citysearch/config.yaml.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func configPath() string {
	if flagVals.configPath != "" {
		return flagVals.configPath
	}
	return paths.ConfigFile()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	flagVals.apply(cmd, &cfg)

	if !configInitDefaults {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return errors.New("config init needs a terminal; use --defaults to write the default config")
		}
		answers := initAnswersFrom(cfg)
		if err := promptInit(&answers); err != nil {
			return err
		}
		if err := answers.applyTo(&cfg); err != nil {
			return err
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// Data source choices offered by config init.
const (
	dataEmbedded = "embedded"
	dataFile     = "file"
	dataURL      = "url"
)

// initAnswers holds the config init form fields as the form edits them.
type initAnswers struct {
	Placeholder    string
	DataSource     string
	DataLocation   string
	HighlightFirst bool
	Wrap           bool
	LocateEnabled  bool
	LocateMode     string
	Latitude       string
	Longitude      string
}

func initAnswersFrom(cfg config.Config) initAnswers {
	a := initAnswers{
		Placeholder:    cfg.Placeholder,
		DataSource:     dataEmbedded,
		HighlightFirst: cfg.HighlightFirst,
		Wrap:           cfg.Wrap,
		LocateEnabled:  cfg.LocateEnabled,
		LocateMode:     cfg.Locate.Mode,
	}
	switch {
	case cfg.DataFile != "":
		a.DataSource, a.DataLocation = dataFile, cfg.DataFile
	case cfg.DataURL != "":
		a.DataSource, a.DataLocation = dataURL, cfg.DataURL
	}
	if cfg.Locate.Mode == config.LocateStatic {
		a.Latitude = strconv.FormatFloat(cfg.Locate.Latitude, 'f', -1, 64)
		a.Longitude = strconv.FormatFloat(cfg.Locate.Longitude, 'f', -1, 64)
	}
	return a
}

// applyTo copies the answers onto cfg.
func (a initAnswers) applyTo(cfg *config.Config) error {
	cfg.Placeholder = a.Placeholder
	cfg.DataFile, cfg.DataURL = "", ""
	switch a.DataSource {
	case dataFile:
		cfg.DataFile = a.DataLocation
	case dataURL:
		cfg.DataURL = a.DataLocation
	}
	cfg.HighlightFirst = a.HighlightFirst
	cfg.Wrap = a.Wrap
	cfg.LocateEnabled = a.LocateEnabled
	cfg.Locate.Mode = a.LocateMode
	switch {
	case !a.LocateEnabled:
		cfg.Locate.Mode = config.LocateOff
	case a.LocateMode == "" || a.LocateMode == config.LocateOff:
		cfg.Locate.Mode = config.LocateIP
	}
	if cfg.Locate.Mode == config.LocateStatic {
		lat, err := strconv.ParseFloat(a.Latitude, 64)
		if err != nil {
			return fmt.Errorf("latitude %q: %w", a.Latitude, err)
		}
		lon, err := strconv.ParseFloat(a.Longitude, 64)
		if err != nil {
			return fmt.Errorf("longitude %q: %w", a.Longitude, err)
		}
		cfg.Locate.Latitude, cfg.Locate.Longitude = lat, lon
	}
	return nil
}

func validFloat(s string) error {
	_, err := strconv.ParseFloat(s, 64)
	return err
}

// promptInit runs the config init form.
func promptInit(a *initAnswers) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search box placeholder").
				Value(&a.Placeholder),
			huh.NewSelect[string]().
				Title("Where should locations come from?").
				Options(
					huh.NewOption("Bundled dataset", dataEmbedded),
					huh.NewOption("Local JSON file", dataFile),
					huh.NewOption("URL", dataURL),
				).
				Value(&a.DataSource),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Path or URL of the dataset").
				Value(&a.DataLocation).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return a.DataSource == dataEmbedded }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Highlight the first suggestion automatically?").
				Value(&a.HighlightFirst),
			huh.NewConfirm().
				Title("Wrap around at the ends of the list?").
				Value(&a.Wrap),
			huh.NewConfirm().
				Title("Enable locate me?").
				Value(&a.LocateEnabled),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How should your location be found?").
				Options(
					huh.NewOption("Fixed coordinates", config.LocateStatic),
					huh.NewOption("IP address lookup", config.LocateIP),
				).
				Value(&a.LocateMode),
		).WithHideFunc(func() bool { return !a.LocateEnabled }),
		huh.NewGroup(
			huh.NewInput().Title("Latitude").Value(&a.Latitude).Validate(validFloat),
			huh.NewInput().Title("Longitude").Value(&a.Longitude).Validate(validFloat),
		).WithHideFunc(func() bool { return !a.LocateEnabled || a.LocateMode != config.LocateStatic }),
	).Run()
	return err
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "Write the defaults without prompting")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

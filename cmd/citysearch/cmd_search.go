package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/citysearch/cmd/citysearch/tui"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/spf13/cobra"
)

var errNoTerminal = errors.New("interactive search needs a terminal; use 'citysearch query <text>' instead")

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Open the interactive search",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	// TTY guard: the widget needs a terminal for input and rendering.
	if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// bubbletea owns the terminal, so logs go to a file.
	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := newLogger(cfg, logFile)

	var loc geolocate.Locator
	if cfg.LocateEnabled {
		loc = locatorFor(cfg)
	}
	model := tui.NewModel(tui.Options{
		Widget:      cfg.WidgetOptions(),
		Placeholder: cfg.Placeholder,
		Debounce:    cfg.Debounce,
		Source:      sourceFor(cfg),
		Locator:     loc,
		Logger:      log,
	})
	// All-motion tracking reports hovers with no button held.
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	r, ok := finalModel.(tui.Model).Selected()
	if !ok {
		// User cancelled.
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatRecord(r))
	return nil
}

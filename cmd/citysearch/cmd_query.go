package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/widget"
	"github.com/spf13/cobra"
)

var (
	querySelect int
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Print the suggestions for a query",
	Long: "Runs the same matching as the interactive search and prints the suggestions.\n" +
		"With --select N the Nth suggestion is committed and the map actions are printed.",
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)
	out := cmd.OutOrStdout()

	c := catalog.LoadOrEmpty(commandContext(cmd), sourceFor(cfg), log)

	w := widget.New(cfg.WidgetOptions(), &printViewport{w: out}, log)
	w.AttachCatalog(c)
	matches := w.Search(strings.Join(args, " "))

	if querySelect > 0 {
		if querySelect > len(matches) {
			return fmt.Errorf("--select %d: only %d suggestion(s)", querySelect, len(matches))
		}
		r, _ := w.Click(querySelect - 1)
		fmt.Fprintf(out, "selected: %s\n", formatRecord(r))
		return nil
	}

	if queryJSON {
		return writeJSON(out, matches)
	}
	writeMatches(out, matches)
	return nil
}

// writeMatches prints one numbered suggestion per line.
func writeMatches(w io.Writer, matches []catalog.LocationRecord) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	width := 0
	for _, r := range matches {
		width = max(width, len(r.Title()))
	}
	for i, r := range matches {
		fmt.Fprintf(w, "%2d. %-*s  %s  %s\n", i+1, width, r.Title(), r.ZIP, r.Timezone)
	}
}

type jsonRecord struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	StateName string  `json:"state_name"`
	ZIP       string  `json:"zip"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timezone  string  `json:"timezone"`
}

func writeJSON(w io.Writer, matches []catalog.LocationRecord) error {
	out := make([]jsonRecord, 0, len(matches))
	for _, r := range matches {
		out = append(out, jsonRecord{
			City:      r.City,
			State:     r.StateCode,
			StateName: r.StateName,
			ZIP:       r.ZIP,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Timezone:  r.Timezone,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatRecord is the one-line summary printed after a selection.
func formatRecord(r catalog.LocationRecord) string {
	return fmt.Sprintf("%s (%.4f, %.4f) %s", r.Display(), r.Latitude, r.Longitude, r.Timezone)
}

// printViewport is a widget viewport that narrates map actions as text.
type printViewport struct {
	w io.Writer
}

func (p *printViewport) Recenter(lat, lon float64, zoom int) {
	fmt.Fprintf(p.w, "recenter: %.4f, %.4f zoom %d\n", lat, lon, zoom)
}

func (p *printViewport) PlaceMarker(lat, lon float64, label string) {
	fmt.Fprintf(p.w, "marker: %.4f, %.4f %s\n", lat, lon, strings.ReplaceAll(label, "\n", " | "))
}

func (p *printViewport) PlaceUserMarker(lat, lon float64, label string) {
	fmt.Fprintf(p.w, "you: %.4f, %.4f %s\n", lat, lon, strings.ReplaceAll(label, "\n", " | "))
}

func (p *printViewport) RemoveMarker() {}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	queryCmd.Flags().IntVar(&querySelect, "select", 0, "Commit the Nth suggestion (1-based)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print suggestions as JSON")
}

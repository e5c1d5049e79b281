package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/spf13/cobra"
)

var errLocateOff = errors.New("locating is off; set --locate-mode=static or --locate-mode=ip")

const locateTimeout = 10 * time.Second

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show your position and the nearest known city",
	Args:  cobra.NoArgs,
	RunE:  runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loc := locatorFor(cfg)
	if loc == nil {
		return errLocateOff
	}
	log := newLogger(cfg, os.Stderr)

	ctx, cancel := context.WithTimeout(commandContext(cmd), locateTimeout)
	defer cancel()
	pos, err := loc.Locate(ctx)
	if err != nil {
		log.LocateFailed(err)
		return fmt.Errorf("unable to retrieve your location: %w", err)
	}

	c := catalog.LoadOrEmpty(commandContext(cmd), sourceFor(cfg), log)
	writeLocation(cmd.OutOrStdout(), c, pos)
	return nil
}

// writeLocation prints pos and, when the catalog has one, the nearest city.
func writeLocation(w io.Writer, c *catalog.Catalog, pos geolocate.Position) {
	fmt.Fprintf(w, "position: %s\n", pos)
	r, km, ok := geolocate.Nearest(c, pos)
	if !ok {
		fmt.Fprintln(w, "nearest:  unknown")
		return
	}
	fmt.Fprintf(w, "nearest:  %s (%.1f km)\n", r.Display(), km)
}

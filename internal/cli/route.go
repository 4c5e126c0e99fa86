package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/geo"
	"github.com/evcraddock/vino-route/internal/prospect"
	"github.com/evcraddock/vino-route/internal/route"
)

// newFetcher builds the prospect source. Tests replace it.
var newFetcher = func(ctx context.Context) (route.Fetcher, error) {
	return prospect.NewClient(ctx, os.Getenv("VR_GEMINI_API_KEY"), getGeminiModel())
}

func newRouteCmd() *cobra.Command {
	var near string

	cmd := &cobra.Command{
		Use:   "route <location>",
		Short: "Generate a sales route near a location",
		Long: `Ask Gemini for liquor stores near a location and show them with your
visit history. Prospects you have visited before are marked with *.
The list is remembered, so 'vr mark' can refer to a business by its # number.

Requires VR_GEMINI_API_KEY.

Examples:
  vr route "Decatur, GA"
  vr route "Decatur, GA" --near 33.7748,-84.2963`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, args[0], near)
		},
	}

	cmd.Flags().StringVar(&near, "near", "", "sort nearest first from this lat,lon")

	return cmd
}

func runRoute(cmd *cobra.Command, location, near string) error {
	var origin *geo.Point
	if near != "" {
		p, err := geo.ParsePoint(near)
		if err != nil {
			return fmt.Errorf("invalid --near: %w", err)
		}
		origin = &p
	}

	username, err := requireUser()
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cmd.Context())
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	rt, err := route.NewService(fetcher, l).Generate(cmd.Context(), username, location)
	if err != nil {
		return err
	}

	if origin != nil {
		rt.SortByDistance(*origin)
	}

	if err := saveLastRoute(database, username, rt.Prospects()); err != nil {
		slog.Warn("remembering route", "user", username, "error", err)
	}

	visited, total := rt.Progress()
	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{
			"prospects": rt.Prospects(),
			"visited":   visited,
			"total":     total,
		})
	}

	return printRoute(out(cmd), rt.Prospects(), visited, total)
}

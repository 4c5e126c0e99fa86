package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/logging"
	"github.com/evcraddock/vino-route/internal/prospect"
	"github.com/evcraddock/vino-route/internal/route"
	"github.com/evcraddock/vino-route/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API server.

Environment:
  VR_GEMINI_API_KEY  Gemini API key (route generation is disabled without it)
  VR_GEMINI_MODEL    Gemini model (default gemini-2.5-flash)
  VR_DEV_MODE        "true" for human-readable debug logs
  VR_ROUTE_TTL       how long idle routes are kept (default 12h)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	cfg, err := web.ConfigFromEnv()
	if err != nil {
		return err
	}
	logging.Setup(cfg.DevMode)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	var fetcher route.Fetcher
	if cfg.GeminiAPIKey != "" {
		model := cfg.GeminiModel
		if model == "" {
			model = getGeminiModel()
		}
		c, err := prospect.NewClient(cmd.Context(), cfg.GeminiAPIKey, model)
		if err != nil {
			return err
		}
		fetcher = c
	} else {
		slog.Warn("VR_GEMINI_API_KEY not set, route generation disabled")
	}

	return web.NewServer(database, fetcher, cfg).ListenAndServe(port)
}

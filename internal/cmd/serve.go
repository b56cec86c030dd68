package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dativo-io/shroud/internal/config"
	"github.com/dativo-io/shroud/internal/engine"
	"github.com/dativo-io/shroud/internal/server"
)

var (
	serveAddr  string
	serveRules string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over HTTP",
	Long: `Serve starts an HTTP API exposing POST /v1/process and
POST /v1/classify for sidecar and gateway deployments.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "recognizer rules file layered over the embedded defaults")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr == "" {
		serveAddr = cfg.ListenAddr
	}
	if serveRules == "" {
		serveRules = cfg.RulesFile
	}

	var opts []engine.Option
	if serveRules != "" {
		opts = append(opts, engine.WithRulesFile(serveRules))
	}
	eng, err := engine.New(opts...)
	if err != nil {
		return err
	}

	log.Info().
		Str("rules_file", serveRules).
		Int("rate_limit_rps", cfg.RateLimitRPS).
		Msg("starting_server")

	srv := server.New(eng,
		server.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		server.WithVersion(resolvedVersion()),
	)
	return srv.ListenAndServe(serveAddr)
}

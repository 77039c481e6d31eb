package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/server"
	"github.com/jonathan/betabot/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing guidance parsing, board inspection and route synthesis.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides BETABOT_PORT, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := appConfig.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	parser, err := newParser(appConfig.Rules)
	if err != nil {
		return err
	}
	positions, err := loadPositions(appConfig.Positions)
	if err != nil {
		return err
	}
	bank, err := loadBank(ctx, appConfig.RouteBank)
	if err != nil {
		return err
	}
	source, cleanup, err := newRouteSource(ctx, appConfig.Synthesizer, bank, 0)
	if err != nil {
		return err
	}
	defer cleanup()

	boards := geometry.NewCache(geometry.NewLoader(nil, logger))
	if appConfig.Board != "" {
		// Fail fast on a bad board instead of on the first request.
		board, err := boards.Get(ctx, appConfig.Board)
		if err != nil {
			return err
		}
		logger.Info("board loaded", zap.String("source", appConfig.Board), zap.Int("holds", board.Len()))
	} else {
		logger.Warn("no board configured; board endpoints will return 503")
	}

	srv, err := server.New(server.Config{
		Port:        port,
		BoardSource: appConfig.Board,
		Timeout:     appConfig.Timeout(),
		RateLimit:   ratelimit.LoadConfig(os.Getenv),
	}, server.Deps{
		Parser:    parser,
		Boards:    boards,
		Source:    source,
		Positions: positions,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

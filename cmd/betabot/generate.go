package main

import (
	"context"
	"strings"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/observability"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/synthesis"
	"github.com/jonathan/betabot/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var generateCmd = &cobra.Command{
	Use:   "generate [request text...]",
	Short: "Synthesize a route from a setter's request",
	Long: `Parse the request, pick holds with the configured synthesizer (local route bank or
the external generator) and print the role-colored route.`,
	RunE: runGenerate,
}

var (
	generateJSON        bool
	generateLED         bool
	generateSynthesizer string
	generateBank        string
	generateSeed        uint64
)

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print JSON instead of formatted output")
	generateCmd.Flags().BoolVar(&generateLED, "led", false, "Include the LED position/role frame")
	generateCmd.Flags().StringVar(&generateSynthesizer, "synthesizer", "", "local or external (overrides config)")
	generateCmd.Flags().StringVar(&generateBank, "bank", "", "Route bank path or URL (overrides config)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Seed for tie-breaking among equally good routes")
	rootCmd.AddCommand(generateCmd)
}

type generateOutput struct {
	Guidance types.Guidance      `json:"guidance"`
	Route    *types.Route        `json:"route"`
	LED      []palette.Placement `json:"led,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if timeout := appConfig.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	kind := appConfig.Synthesizer
	if generateSynthesizer != "" {
		kind = generateSynthesizer
	}
	bankSource := appConfig.RouteBank
	if generateBank != "" {
		bankSource = generateBank
	}

	parser, err := newParser(appConfig.Rules)
	if err != nil {
		return err
	}

	var (
		board     *geometry.Board
		bank      []synthesis.BankRoute
		positions palette.PositionResolver
	)
	g, gctx := errgroup.WithContext(ctx)
	if appConfig.Board != "" {
		g.Go(func() error {
			var err error
			board, err = requireBoard(gctx)
			return err
		})
	}
	if kind != string(synthesis.KindExternal) {
		g.Go(func() error {
			var err error
			bank, err = loadBank(gctx, bankSource)
			return err
		})
	}
	if generateLED {
		g.Go(func() error {
			var err error
			positions, err = loadPositions(appConfig.Positions)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	source, cleanup, err := newRouteSource(ctx, kind, bank, generateSeed)
	if err != nil {
		return err
	}
	defer cleanup()

	guidance := parser.Parse(strings.Join(args, " "))
	route, err := source.Synthesize(ctx, guidance, board)
	if err != nil {
		return err
	}
	logger.Debug("route synthesized",
		zap.String("route_id", route.ID.String()),
		zap.String("source", route.Source),
		zap.Int("holds", len(route.Holds)),
	)

	out := generateOutput{Guidance: guidance, Route: route}
	if generateLED {
		if out.LED, err = palette.LEDConfig(route, positions); err != nil {
			return err
		}
	}

	if generateJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintGuidance(&out.Guidance)
	printer.PrintRoute(out.Route)
	if generateLED {
		printer.PrintLEDConfig(out.LED)
	}
	return nil
}

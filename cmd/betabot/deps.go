package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/guidance"
	"github.com/jonathan/betabot/internal/llm"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/synthesis"
)

// newParser returns the default parser, or one over the rule table at path.
func newParser(path string) (*guidance.Parser, error) {
	if path == "" {
		return guidance.DefaultParser(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	set, err := guidance.LoadRules(f)
	if err != nil {
		return nil, err
	}
	return guidance.NewParser(set), nil
}

// requireBoard loads the configured board.
func requireBoard(ctx context.Context) (*geometry.Board, error) {
	if appConfig.Board == "" {
		return nil, fmt.Errorf("no board configured (use --board or set BETABOT_BOARD)")
	}
	return geometry.NewLoader(nil, logger).Load(ctx, appConfig.Board)
}

// loadBank returns the route bank at source, or the built-in bank when source is empty.
func loadBank(ctx context.Context, source string) ([]synthesis.BankRoute, error) {
	if source == "" {
		return synthesis.DefaultBank()
	}
	return synthesis.LoadBank(ctx, source, nil)
}

// loadPositions reads the hold id to LED position map at path. Empty path means numeric ids.
func loadPositions(path string) (palette.PositionResolver, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions file: %w", err)
	}
	return palette.ParsePositionMap(data)
}

// newRouteSource builds the configured synthesizer. The returned func releases the
// generator client, if any.
func newRouteSource(ctx context.Context, kind string, bank []synthesis.BankRoute, seed uint64) (synthesis.RouteSource, func(), error) {
	opts := synthesis.Options{
		Kind:   synthesis.Kind(kind),
		Bank:   bank,
		Tier:   llm.ModelTier(appConfig.ModelTier),
		Logger: logger,
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(seed, seed))
	}

	cleanup := func() {}
	if opts.Kind == synthesis.KindExternal && appConfig.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), appConfig.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		opts.Client = client
		cleanup = func() { _ = client.Close() }
	}

	source, err := synthesis.NewSource(opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return source, cleanup, nil
}

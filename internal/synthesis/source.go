// Package synthesis turns guidance and board geometry into a role-colored route, either by
// choosing from a bank of pre-built routes or by asking a generative model.
package synthesis

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/llm"
	"github.com/jonathan/betabot/internal/types"
	"go.uber.org/zap"
)

// RouteSource synthesizes one route per call.
type RouteSource interface {
	Synthesize(ctx context.Context, g types.Guidance, board *geometry.Board) (*types.Route, error)
}

// Kind selects a RouteSource implementation.
type Kind string

// Source kinds.
const (
	KindLocal    Kind = "local"
	KindExternal Kind = "external"
)

// Options configures NewSource.
type Options struct {
	Kind Kind
	// Bank is required for KindLocal
	Bank []BankRoute
	// Client may be nil for KindExternal, which then returns the placeholder route
	Client llm.Client
	Tier   llm.ModelTier
	Rand   *rand.Rand
	Logger *zap.Logger
}

// NewSource builds the RouteSource named by opts.Kind. An empty kind means local.
func NewSource(opts Options) (RouteSource, error) {
	switch opts.Kind {
	case KindLocal, "":
		local, err := NewLocal(opts.Bank, opts.Rand, opts.Logger)
		if err != nil {
			return nil, err
		}
		return local, nil
	case KindExternal:
		return NewExternal(opts.Client, opts.Tier, opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown synthesizer %q", opts.Kind)
	}
}

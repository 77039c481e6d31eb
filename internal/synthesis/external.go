package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/llm"
	"github.com/jonathan/betabot/internal/logging"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/prompts"
	"github.com/jonathan/betabot/internal/schemas"
	"github.com/jonathan/betabot/internal/types"
	"go.uber.org/zap"
)

// SourceExternal tags routes produced by the generative model.
const SourceExternal = "external"

// PlaceholderSummary marks the fixed route returned when no API key is configured.
const PlaceholderSummary = "Placeholder selection returned because GEMINI_API_KEY is not configured."

const noneProvided = "(none provided)"

// External asks a generative model to select holds. Without a client it returns the
// placeholder route.
type External struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewExternal creates an external source. client may be nil.
func NewExternal(client llm.Client, tier llm.ModelTier, logger *zap.Logger) *External {
	if tier == "" {
		tier = llm.TierStandard
	}
	return &External{client: client, tier: tier, logger: logging.OrNop(logger)}
}

// Synthesize implements RouteSource. The call is bounded only by ctx.
func (e *External) Synthesize(ctx context.Context, g types.Guidance, board *geometry.Board) (*types.Route, error) {
	if e.client == nil {
		e.logger.Warn("generator not configured, returning placeholder route")
		return Placeholder(), nil
	}
	if board == nil || board.Len() == 0 {
		return nil, &GenerationError{Message: "board geometry is required"}
	}

	prompt, err := BuildPrompt(g, board)
	if err != nil {
		return nil, &GenerationError{Message: "failed to build prompt", Cause: err}
	}

	e.logger.Debug("requesting hold selection",
		zap.String("model", e.client.GetModel(e.tier)),
		zap.Int("prompt_bytes", len(prompt)),
	)
	text, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, &GenerationError{Message: "generator request failed", Cause: err}
	}

	route, dropped, err := ParseSelection(text, board)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		e.logger.Warn("dropped generated holds",
			zap.String("route_id", route.ID.String()),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(route.Holds)),
		)
	}
	return route, nil
}

// Placeholder returns the fixed three-hold route used when the generator is unavailable.
func Placeholder() *types.Route {
	holds := []struct {
		id   string
		role types.Role
	}{
		{"A1", types.RoleStart},
		{"C5", types.RoleIntermediate},
		{"E7", types.RoleFinish},
	}

	route := &types.Route{
		ID:          uuid.New(),
		Name:        "Placeholder",
		Summary:     PlaceholderSummary,
		Source:      SourceExternal,
		Placeholder: true,
	}
	for _, h := range holds {
		route.Holds = append(route.Holds, types.RouteHold{ID: h.id, Color: palette.ColorFor(h.role), Role: h.role})
	}
	return route
}

// BuildPrompt renders the hold selection prompt for g over board.
func BuildPrompt(g types.Guidance, board *geometry.Board) (string, error) {
	template, err := prompts.Get(prompts.RoutingFile, prompts.HoldSelectionKey)
	if err != nil {
		return "", err
	}

	holds := board.Holds()
	boardJSON, err := geometry.CirclesJSON(holds)
	if err != nil {
		return "", fmt.Errorf("failed to encode board: %w", err)
	}

	return prompts.Format(template, map[string]string{
		"Palette":           paletteHint(),
		"BoardStats":        statsHint(geometry.ComputeStats(holds)),
		"BoardJSON":         string(boardJSON),
		"SelectionGuidance": orNone(g.SelectionGuidance),
		"SetterNotes":       orNone(g.SetterNotes),
	})
}

func paletteHint() string {
	parts := make([]string, 0, len(palette.Palette))
	for _, e := range palette.Palette {
		parts = append(parts, fmt.Sprintf("%s for %s", e.Color, e.Role))
	}
	return strings.Join(parts, ", ")
}

func statsHint(stats types.BoardStats) string {
	return fmt.Sprintf("%d holds, y from %d (top) to %d (bottom); top holds %s; middle holds %s; bottom holds %s",
		stats.Count, stats.MinY, stats.MaxY,
		strings.Join(stats.TopHolds, ", "),
		strings.Join(stats.MiddleHolds, ", "),
		strings.Join(stats.BottomHolds, ", "))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noneProvided
	}
	return s
}

// holdID accepts a hold id written as a JSON string or integer.
type holdID string

func (h *holdID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*h = holdID(strings.TrimSpace(s))
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("hold id must be a string or integer: %s", data)
	}
	*h = holdID(strconv.FormatInt(n, 10))
	return nil
}

type selection struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Holds   []struct {
		ID    holdID `json:"id"`
		Color string `json:"color"`
		Usage string `json:"usage"`
		Notes string `json:"notes"`
	} `json:"holds"`
}

// ParseSelection adapts a generator response into a route. The response may be bare JSON or
// contain a ```json fenced block. Repeated ids and ids not on board are dropped and counted;
// a nil board keeps every id. A response with no usable holds is a GenerationError.
func ParseSelection(text string, board *geometry.Board) (route *types.Route, dropped int, err error) {
	payload := llm.ExtractJSON(text)
	if payload == "" {
		return nil, 0, &GenerationError{Message: "empty response"}
	}
	if err := schemas.ValidateHoldSelection(payload); err != nil {
		var docErr *schemas.DocumentError
		if errors.As(err, &docErr) {
			return nil, 0, &GenerationError{Message: "malformed response", Cause: err}
		}
		return nil, 0, &GenerationError{Message: "response does not match the hold selection schema", Cause: err}
	}

	var sel selection
	if err := json.Unmarshal([]byte(payload), &sel); err != nil {
		return nil, 0, &GenerationError{Message: "failed to decode response", Cause: err}
	}

	route = &types.Route{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(sel.Name),
		Summary: strings.TrimSpace(sel.Summary),
		Source:  SourceExternal,
	}
	seen := make(map[string]bool, len(sel.Holds))
	for _, h := range sel.Holds {
		id := string(h.ID)
		if seen[id] || (board != nil && !board.Has(id)) {
			dropped++
			continue
		}
		seen[id] = true

		role := roleFor(h.Color, h.Usage)
		route.Holds = append(route.Holds, types.RouteHold{
			ID:    id,
			Color: palette.ColorFor(role),
			Role:  role,
			Notes: strings.TrimSpace(h.Notes),
		})
	}

	if len(route.Holds) == 0 {
		return nil, dropped, &GenerationError{Message: "response contains no usable holds"}
	}
	return route, dropped, nil
}

// roleFor prefers a palette color, then a usage naming a role, then intermediate.
func roleFor(color, usage string) types.Role {
	if id, ok := palette.Lookup(color); ok {
		return palette.Palette[id].Role
	}
	switch role := types.Role(strings.ToLower(strings.TrimSpace(usage))); role {
	case types.RoleStart, types.RoleIntermediate, types.RoleFinish, types.RoleFoot:
		return role
	}
	return types.RoleIntermediate
}

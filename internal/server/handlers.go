package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/guidance"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// TextRequest carries a setter's free-text request.
type TextRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// GuidanceResponse is the parsed form of a request.
type GuidanceResponse struct {
	Guidance types.Guidance  `json:"guidance"`
	Matches  []guidance.Match `json:"matches"`
}

// ZoneRequest is an ad-hoc vertical band.
type ZoneRequest struct {
	Name string `json:"name"`
	MinY int    `json:"min_y"`
	MaxY int    `json:"max_y" validate:"gtefield=MinY"`
}

// FilterRequest selects holds by custom zones and predefined zone names.
type FilterRequest struct {
	Zones     []ZoneRequest `json:"zones" validate:"dive"`
	ZoneNames []string      `json:"zone_names"`
}

// FilterResponse lists the selected holds.
type FilterResponse struct {
	Holds   []types.Hold `json:"holds"`
	Compact string       `json:"compact"`
	Count   int          `json:"count"`
}

// RouteResponse is a synthesized route with its LED frame.
type RouteResponse struct {
	Guidance types.Guidance      `json:"guidance"`
	Route    *types.Route        `json:"route"`
	LED      []palette.Placement `json:"led,omitempty"`
	LEDError string              `json:"led_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, GuidanceResponse{
		Guidance: s.parser.Parse(req.Text),
		Matches:  nonNil(s.parser.Match(req.Text)),
	})
}

func (s *Server) handleBoardStats(w http.ResponseWriter, r *http.Request) {
	board, err := s.board(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, geometry.ComputeStats(board.Holds()))
}

func (s *Server) handleBoardFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	zones, err := resolveZones(req)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	board, err := s.board(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	holds := geometry.FilterByZones(board.Holds(), zones)
	s.jsonResponse(w, http.StatusOK, FilterResponse{
		Holds:   holds,
		Compact: geometry.FormatCompact(holds),
		Count:   len(holds),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	ctx := r.Context()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var board *geometry.Board
	if s.cfg.BoardSource != "" {
		var err error
		if board, err = s.board(ctx); err != nil {
			s.failure(w, r, err)
			return
		}
	}

	g := s.parser.Parse(req.Text)
	route, err := s.source.Synthesize(ctx, g, board)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	resp := RouteResponse{Guidance: g, Route: route}
	led, err := palette.LEDConfig(route, s.positions)
	if err != nil {
		s.logger.Warn("route has no LED frame", zap.String("route_id", route.ID.String()), zap.Error(err))
		resp.LEDError = err.Error()
	} else {
		resp.LED = led
	}

	s.logger.Info("route synthesized",
		zap.String("route_id", route.ID.String()),
		zap.String("source", route.Source),
		zap.Int("holds", len(route.Holds)),
		zap.Bool("placeholder", route.Placeholder),
	)
	s.jsonResponse(w, http.StatusOK, resp)
}

// board returns the configured board, or a LoadError when none is configured.
func (s *Server) board(ctx context.Context) (*geometry.Board, error) {
	if s.cfg.BoardSource == "" {
		return nil, &geometry.LoadError{Source: "(unset)", Message: "no board configured"}
	}
	return s.boards.Get(ctx, s.cfg.BoardSource)
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// resolveZones combines custom zones with named predefined ones.
func resolveZones(req FilterRequest) ([]types.Zone, error) {
	if len(req.Zones) == 0 && len(req.ZoneNames) == 0 {
		return nil, &ErrValidation{Field: "zones", Message: "at least one zone or zone name is required"}
	}

	zones := make([]types.Zone, 0, len(req.Zones)+len(req.ZoneNames))
	for _, z := range req.Zones {
		zones = append(zones, types.Zone{Name: z.Name, MinY: z.MinY, MaxY: z.MaxY})
	}
	for _, name := range req.ZoneNames {
		z, ok := geometry.ZoneByName(name)
		if !ok {
			return nil, &ErrValidation{
				Field:   "zone_names",
				Message: fmt.Sprintf("unknown zone %q (known: %s)", name, knownZones()),
			}
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func knownZones() string {
	names := make([]string, 0, 4)
	for _, z := range geometry.DefaultZones() {
		names = append(names, z.Name)
	}
	return strings.Join(names, ", ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

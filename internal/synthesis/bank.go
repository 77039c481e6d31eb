package synthesis

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/betabot/internal/fetch"
	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/types"
)

// DefaultBankSource names the embedded route bank in errors and logs.
const DefaultBankSource = "(embedded)"

//go:embed data/routes.json
var defaultBank []byte

// BankHold is a hold of a pre-built route with its source color category.
type BankHold struct {
	types.Hold
	Color string `json:"color,omitempty"`
}

// BankRoute is a pre-built route the local source can choose from.
type BankRoute struct {
	Name  string     `json:"name,omitempty"`
	Grade string     `json:"grade" validate:"required"`
	Angle int        `json:"angle" validate:"gte=0,lte=90"`
	Holds []BankHold `json:"-" validate:"min=1"`
}

type bankHoldJSON struct {
	CX    *float64 `json:"cx"`
	CY    *float64 `json:"cy"`
	Color string   `json:"color,omitempty"`
}

// UnmarshalJSON accepts holds either as an object keyed by hold id or as a list of such
// objects, which are merged.
func (r *BankRoute) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Grade string          `json:"grade"`
		Angle int             `json:"angle"`
		Holds json.RawMessage `json:"holds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	holds, err := decodeBankHolds(raw.Holds)
	if err != nil {
		return err
	}

	*r = BankRoute{
		Name:  strings.TrimSpace(raw.Name),
		Grade: strings.ToLower(strings.TrimSpace(raw.Grade)),
		Angle: raw.Angle,
		Holds: holds,
	}
	return nil
}

// MarshalJSON writes holds in the keyed object form.
func (r BankRoute) MarshalJSON() ([]byte, error) {
	holds := make(map[string]bankHoldJSON, len(r.Holds))
	for _, h := range r.Holds {
		x, y := float64(h.X), float64(h.Y)
		holds[h.ID] = bankHoldJSON{CX: &x, CY: &y, Color: h.Color}
	}
	return json.Marshal(struct {
		Name  string                  `json:"name,omitempty"`
		Grade string                  `json:"grade"`
		Angle int                     `json:"angle"`
		Holds map[string]bankHoldJSON `json:"holds"`
	}{r.Name, r.Grade, r.Angle, holds})
}

func decodeBankHolds(data json.RawMessage) ([]BankHold, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var buckets []map[string]bankHoldJSON
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &buckets); err != nil {
			return nil, fmt.Errorf("invalid holds: %w", err)
		}
	} else {
		var bucket map[string]bankHoldJSON
		if err := json.Unmarshal(trimmed, &bucket); err != nil {
			return nil, fmt.Errorf("invalid holds: %w", err)
		}
		buckets = append(buckets, bucket)
	}

	merged := make(map[string]BankHold)
	for _, bucket := range buckets {
		for id, h := range bucket {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, fmt.Errorf("hold with empty id")
			}
			if h.CX == nil || h.CY == nil {
				return nil, fmt.Errorf("hold %s is missing cx or cy", id)
			}
			x, okX := geometry.RoundCoord(*h.CX)
			y, okY := geometry.RoundCoord(*h.CY)
			if !okX || !okY {
				return nil, fmt.Errorf("hold %s has out-of-range coordinates", id)
			}
			merged[id] = BankHold{
				Hold:  types.Hold{ID: id, X: x, Y: y},
				Color: strings.ToLower(strings.TrimSpace(h.Color)),
			}
		}
	}

	holds := make([]BankHold, 0, len(merged))
	for _, h := range merged {
		holds = append(holds, h)
	}
	sort.Slice(holds, func(i, j int) bool {
		return geometry.LessID(holds[i].ID, holds[j].ID)
	})
	return holds, nil
}

// DecodeBank parses and validates a JSON route bank. source is only used in errors.
func DecodeBank(source string, data []byte) ([]BankRoute, error) {
	var routes []BankRoute
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, &BankError{Source: source, Message: "malformed route bank", Cause: err}
	}
	if len(routes) == 0 {
		return nil, &BankError{Source: source, Message: "route bank is empty"}
	}

	validate := validator.New()
	for i := range routes {
		if err := validate.Struct(&routes[i]); err != nil {
			return nil, &BankError{Source: source, Message: fmt.Sprintf("invalid route %d", i), Cause: err}
		}
	}
	return routes, nil
}

// LoadBank reads a route bank from a file path or URL.
func LoadBank(ctx context.Context, source string, opts *fetch.Options) ([]BankRoute, error) {
	result, err := fetch.Read(ctx, source, opts)
	if err != nil {
		return nil, &BankError{Source: source, Message: "source unreachable", Cause: err}
	}
	return DecodeBank(source, result.Body)
}

// DefaultBank returns the route bank built into the binary.
func DefaultBank() ([]BankRoute, error) {
	return DecodeBank(DefaultBankSource, defaultBank)
}

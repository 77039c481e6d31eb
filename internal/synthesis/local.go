package synthesis

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/logging"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/types"
	"go.uber.org/zap"
)

// SourceLocal tags routes chosen from the route bank.
const SourceLocal = "local"

// maxStarts caps the start holds of a bank route.
const maxStarts = 2

var (
	gradePattern = regexp.MustCompile(`\bv\s?(1[0-7]|[0-9])\b`)
	anglePattern = regexp.MustCompile(`\b(0|20|25|30|35|40|45)\b`)
)

// categoryRoles maps bank color categories onto palette roles. Start and finish are
// positional, so no category maps to them.
var categoryRoles = map[string]types.Role{
	"cyan":         types.RoleIntermediate,
	"hand":         types.RoleIntermediate,
	"intermediate": types.RoleIntermediate,
	"orange":       types.RoleFoot,
	"foot":         types.RoleFoot,
}

// Want is what a request asks of a bank route. Empty Grade and HasAngle false mean no
// preference.
type Want struct {
	Grade    string
	Angle    int
	HasAngle bool
}

// ParseWant extracts the desired grade ("v5") and wall angle from request text.
func ParseWant(text string) Want {
	lower := strings.ToLower(text)

	var want Want
	if m := gradePattern.FindStringSubmatch(lower); m != nil {
		want.Grade = "v" + m[1]
	}
	if m := anglePattern.FindStringSubmatch(lower); m != nil {
		want.Angle, _ = strconv.Atoi(m[1])
		want.HasAngle = true
	}
	return want
}

// Score rates how well route fits want: +2 for the grade, +2 for the exact angle or +1
// within 5 degrees.
func Score(route BankRoute, want Want) int {
	score := 0
	if want.Grade != "" && strings.EqualFold(route.Grade, want.Grade) {
		score += 2
	}
	if want.HasAngle {
		switch diff := abs(route.Angle - want.Angle); {
		case diff == 0:
			score += 2
		case diff <= 5:
			score++
		}
	}
	return score
}

// Select picks a bank index for want. When some route scores above zero the pick is uniform
// among the best; otherwise it is cursor modulo the bank size and next is cursor+1. A nil
// rng uses the package-level source. Select returns -1 for an empty bank.
func Select(bank []BankRoute, want Want, cursor int, rng *rand.Rand) (index, next int) {
	if len(bank) == 0 {
		return -1, cursor
	}

	best := 0
	var top []int
	for i, route := range bank {
		s := Score(route, want)
		switch {
		case s > best:
			best = s
			top = append(top[:0], i)
		case s == best && s > 0:
			top = append(top, i)
		}
	}

	if best > 0 {
		if rng != nil {
			return top[rng.IntN(len(top))], cursor
		}
		return top[rand.IntN(len(top))], cursor
	}

	i := cursor % len(bank)
	if i < 0 {
		i += len(bank)
	}
	return i, cursor + 1
}

// AssignRoles colors a bank route's holds. The highest hold is the finish, the (up to) two
// lowest remaining holds are starts, and the rest take their category's role or alternate
// between intermediate and foot. Output keeps the input order.
func AssignRoles(holds []BankHold) []types.RouteHold {
	if len(holds) == 0 {
		return nil
	}

	roles := make(map[string]types.Role, len(holds))

	finish := holds[0]
	for _, h := range holds[1:] {
		if h.Y < finish.Y {
			finish = h
		}
	}
	roles[finish.ID] = types.RoleFinish

	lowest := make([]BankHold, len(holds))
	copy(lowest, holds)
	sort.SliceStable(lowest, func(i, j int) bool { return lowest[i].Y > lowest[j].Y })
	starts := 0
	for _, h := range lowest {
		if starts == maxStarts {
			break
		}
		if _, taken := roles[h.ID]; taken {
			continue
		}
		roles[h.ID] = types.RoleStart
		starts++
	}

	out := make([]types.RouteHold, 0, len(holds))
	alternate := 0
	for _, h := range holds {
		role, ok := roles[h.ID]
		if !ok {
			role, ok = categoryRoles[h.Color]
			if !ok {
				role = types.RoleIntermediate
				if alternate%2 == 1 {
					role = types.RoleFoot
				}
				alternate++
			}
		}
		out = append(out, types.RouteHold{ID: h.ID, Color: palette.ColorFor(role), Role: role})
	}
	return out
}

// RouteName formats a bank route as "V5 @ 40°".
func RouteName(route BankRoute) string {
	return fmt.Sprintf("%s @ %d°", strings.ToUpper(route.Grade), route.Angle)
}

// Local synthesizes routes from a bank of pre-built routes. It is safe for concurrent use.
type Local struct {
	bank   []BankRoute
	rng    *rand.Rand
	logger *zap.Logger

	mu     sync.Mutex
	cursor int
}

// NewLocal creates a local source. A nil rng uses the package-level source.
func NewLocal(bank []BankRoute, rng *rand.Rand, logger *zap.Logger) (*Local, error) {
	if len(bank) == 0 {
		return nil, &BankError{Source: "(local)", Message: "route bank is empty"}
	}
	routes := make([]BankRoute, len(bank))
	copy(routes, bank)
	return &Local{bank: routes, rng: rng, logger: logging.OrNop(logger)}, nil
}

// Synthesize implements RouteSource. Board coordinates override the bank's for holds the
// board knows; board may be nil.
func (l *Local) Synthesize(ctx context.Context, g types.Guidance, board *geometry.Board) (*types.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want := ParseWant(g.Text())

	l.mu.Lock()
	index, next := Select(l.bank, want, l.cursor, l.rng)
	cycled := next != l.cursor
	l.cursor = next
	l.mu.Unlock()

	chosen := l.bank[index]
	holds := make([]BankHold, len(chosen.Holds))
	copy(holds, chosen.Holds)
	if board != nil {
		for i, h := range holds {
			if bh, ok := board.Get(h.ID); ok {
				holds[i].Hold = bh
			}
		}
	}

	route := &types.Route{
		ID:     uuid.New(),
		Name:   RouteName(chosen),
		Source: SourceLocal,
		Holds:  AssignRoles(holds),
	}
	route.Summary = fmt.Sprintf("Grade %s • Angle %d°. %d holds.", strings.ToUpper(chosen.Grade), chosen.Angle, len(route.Holds))

	l.logger.Debug("bank route selected",
		zap.String("route_id", route.ID.String()),
		zap.String("bank_route", chosen.Name),
		zap.String("want_grade", want.Grade),
		zap.Bool("round_robin", cycled),
		zap.Int("holds", len(route.Holds)),
	)
	return route, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

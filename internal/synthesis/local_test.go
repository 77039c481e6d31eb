package synthesis

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bankHold(id string, y int, color string) BankHold {
	return BankHold{Hold: types.Hold{ID: id, X: 10, Y: y}, Color: color}
}

func testBank() []BankRoute {
	return []BankRoute{
		{Name: "a", Grade: "v2", Angle: 25, Holds: []BankHold{bankHold("1", 100, ""), bankHold("2", 900, "")}},
		{Name: "b", Grade: "v5", Angle: 40, Holds: []BankHold{bankHold("3", 100, ""), bankHold("4", 900, "")}},
		{Name: "c", Grade: "v5", Angle: 40, Holds: []BankHold{bankHold("5", 100, ""), bankHold("6", 900, "")}},
		{Name: "d", Grade: "v8", Angle: 45, Holds: []BankHold{bankHold("7", 100, ""), bankHold("8", 900, "")}},
	}
}

func TestParseWant(t *testing.T) {
	tests := []struct {
		text string
		want Want
	}{
		{text: "v5 crimpy route", want: Want{Grade: "v5"}},
		{text: "V 12 at 40°", want: Want{Grade: "v12", Angle: 40, HasAngle: true}},
		{text: "something at 45 degrees", want: Want{Angle: 45, HasAngle: true}},
		{text: "v17 on a flat 0 board", want: Want{Grade: "v17", Angle: 0, HasAngle: true}},
		{text: "v18 or v20", want: Want{}},
		{text: "level 5 at 50", want: Want{}},
		{text: "", want: Want{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWant(tt.text))
		})
	}
}

func TestScore(t *testing.T) {
	route := BankRoute{Grade: "v5", Angle: 40}

	tests := []struct {
		name string
		want Want
		exp  int
	}{
		{name: "grade and angle", want: Want{Grade: "v5", Angle: 40, HasAngle: true}, exp: 4},
		{name: "grade and near angle", want: Want{Grade: "v5", Angle: 35, HasAngle: true}, exp: 3},
		{name: "near angle only", want: Want{Angle: 45, HasAngle: true}, exp: 1},
		{name: "far angle", want: Want{Angle: 20, HasAngle: true}, exp: 0},
		{name: "other grade", want: Want{Grade: "v6"}, exp: 0},
		{name: "no preference", want: Want{}, exp: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exp, Score(route, tt.want))
		})
	}
}

func TestSelect_RoundRobinVisitsEveryRouteOnce(t *testing.T) {
	bank := testBank()
	cursor := 0

	for cycle := 0; cycle < 3; cycle++ {
		seen := make(map[int]int)
		for range bank {
			var index int
			index, cursor = Select(bank, Want{}, cursor, nil)
			seen[index]++
		}
		assert.Len(t, seen, len(bank), "cycle %d", cycle)
		for index, n := range seen {
			assert.Equal(t, 1, n, "route %d in cycle %d", index, cycle)
		}
	}
}

func TestSelect_MatchDoesNotAdvanceCursor(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	index, next := Select(testBank(), Want{Grade: "v8"}, 5, rng)
	assert.Equal(t, 3, index)
	assert.Equal(t, 5, next)
}

func TestSelect_UniformAmongTies(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	want := Want{Grade: "v5", Angle: 40, HasAngle: true}

	seen := make(map[int]int)
	for i := 0; i < 200; i++ {
		index, _ := Select(testBank(), want, 0, rng)
		seen[index]++
	}
	assert.Len(t, seen, 2)
	assert.Positive(t, seen[1])
	assert.Positive(t, seen[2])
}

func TestSelect_EmptyBank(t *testing.T) {
	index, next := Select(nil, Want{}, 7, nil)
	assert.Equal(t, -1, index)
	assert.Equal(t, 7, next)
}

func TestAssignRoles(t *testing.T) {
	holds := []BankHold{
		bankHold("A", 100, "cyan"),
		bankHold("B", 500, ""),
		bankHold("C", 900, "cyan"),
		bankHold("D", 1000, "orange"),
		bankHold("E", 700, "orange"),
		bankHold("F", 600, "green"),
		bankHold("G", 650, ""),
	}

	got := AssignRoles(holds)

	roles := make([]types.Role, 0, len(got))
	for _, h := range got {
		roles = append(roles, h.Role)
		assert.Equal(t, palette.ColorFor(h.Role), h.Color)
	}
	assert.Equal(t, []types.Role{
		types.RoleFinish,       // A highest
		types.RoleIntermediate, // B alternates, first
		types.RoleStart,        // C second lowest
		types.RoleStart,        // D lowest
		types.RoleFoot,         // E orange
		types.RoleFoot,         // F unmapped color alternates, second
		types.RoleIntermediate, // G alternates, third
	}, roles)
}

func TestAssignRoles_FinishIsNeverAStart(t *testing.T) {
	got := AssignRoles([]BankHold{bankHold("1", 300, ""), bankHold("2", 800, "")})
	require.Len(t, got, 2)
	assert.Equal(t, types.RoleFinish, got[0].Role)
	assert.Equal(t, types.RoleStart, got[1].Role)

	single := AssignRoles([]BankHold{bankHold("1", 300, "")})
	require.Len(t, single, 1)
	assert.Equal(t, types.RoleFinish, single[0].Role)

	assert.Nil(t, AssignRoles(nil))
}

func TestAssignRoles_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	colors := []string{"", "cyan", "orange", "green", "purple", "hand", "foot"}

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(15)
		holds := make([]BankHold, 0, n)
		for i := 0; i < n; i++ {
			holds = append(holds, bankHold(fmt.Sprintf("%d", i), rng.IntN(1140), colors[rng.IntN(len(colors))]))
		}

		route := &types.Route{Holds: AssignRoles(holds)}
		assert.Equal(t, 1, route.CountRole(types.RoleFinish))
		assert.LessOrEqual(t, route.CountRole(types.RoleStart), 2)
		assert.Equal(t, min(n-1, 2), route.CountRole(types.RoleStart))

		ids := make(map[string]bool)
		for _, h := range route.Holds {
			assert.False(t, ids[h.ID], "duplicate id %s", h.ID)
			ids[h.ID] = true
			assert.True(t, palette.IsMember(h.Color), h.Color)
		}
	}
}

func TestLocal_SynthesizeDefaultBank(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)
	local, err := NewLocal(bank, rand.New(rand.NewPCG(1, 1)), nil)
	require.NoError(t, err)

	route, err := local.Synthesize(context.Background(), types.Guidance{SelectionGuidance: "x", SetterNotes: "v5 at 40°"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "V5 @ 40°", route.Name)
	assert.Equal(t, fmt.Sprintf("Grade V5 • Angle 40°. %d holds.", len(route.Holds)), route.Summary)
	assert.Equal(t, SourceLocal, route.Source)
	assert.False(t, route.Placeholder)
	assert.Equal(t, 1, route.CountRole(types.RoleFinish))
	assert.Equal(t, 2, route.CountRole(types.RoleStart))
}

func TestLocal_RoundRobin(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)
	local, err := NewLocal(bank, nil, nil)
	require.NoError(t, err)

	names := make(map[string]int)
	for range bank {
		route, err := local.Synthesize(context.Background(), types.Guidance{SetterNotes: "something fun"}, nil)
		require.NoError(t, err)
		names[route.Name]++
	}
	assert.Len(t, names, len(bank))

	route, err := local.Synthesize(context.Background(), types.Guidance{}, nil)
	require.NoError(t, err)
	assert.Equal(t, RouteName(bank[0]), route.Name)
}

func TestLocal_BoardCoordinatesWin(t *testing.T) {
	bank := []BankRoute{{Grade: "v1", Angle: 40, Holds: []BankHold{bankHold("1", 100, ""), bankHold("2", 900, "")}}}
	local, err := NewLocal(bank, nil, nil)
	require.NoError(t, err)

	// on this board hold 2 sits above hold 1
	board := geometry.NewBoard([]types.Hold{{ID: "1", X: 0, Y: 1000}, {ID: "2", X: 0, Y: 50}})
	route, err := local.Synthesize(context.Background(), types.Guidance{}, board)
	require.NoError(t, err)

	assert.Equal(t, types.RoleStart, route.Holds[0].Role)
	assert.Equal(t, types.RoleFinish, route.Holds[1].Role)
}

func TestLocal_ConcurrentCallers(t *testing.T) {
	local, err := NewLocal(testBank(), nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := local.Synthesize(context.Background(), types.Guidance{}, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	local.mu.Lock()
	defer local.mu.Unlock()
	assert.Equal(t, 40, local.cursor)
}

func TestLocal_Errors(t *testing.T) {
	_, err := NewLocal(nil, nil, nil)
	assert.Error(t, err)

	local, err := NewLocal(testBank(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = local.Synthesize(ctx, types.Guidance{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

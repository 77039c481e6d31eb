package main

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/synthesis"
	"github.com/jonathan/betabot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeGenerate(t *testing.T, out string) generateOutput {
	t.Helper()
	var got generateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.NotNil(t, got.Route)
	return got
}

func TestGenerate_LocalBank(t *testing.T) {
	out, err := execute(t, "generate", "--json", "--led", "--seed", "7", "v5", "crimpy")
	require.NoError(t, err)

	got := decodeGenerate(t, out)
	assert.Equal(t, "V5 @ 40°", got.Route.Name)
	assert.Equal(t, synthesis.SourceLocal, got.Route.Source)
	assert.Equal(t, 1, got.Route.CountRole(types.RoleFinish))
	require.Len(t, got.LED, len(got.Route.Holds))
	for i, p := range got.LED {
		assert.Equal(t, palette.Resolve(got.Route.Holds[i].Color), p.RoleID)
	}
}

func TestGenerate_Formatted(t *testing.T) {
	out, err := execute(t, "generate", "v5")
	require.NoError(t, err)
	assert.Contains(t, out, "GUIDANCE")
	assert.Contains(t, out, "V5 @ 40°")
}

func TestGenerate_PositionMap(t *testing.T) {
	bank := writeFile(t, "bank.json", `[{"name":"tiny","grade":"v2","angle":30,"holds":{
		"10":{"cx":100,"cy":1000,"color":"cyan"},
		"11":{"cx":120,"cy":600,"color":"orange"},
		"12":{"cx":140,"cy":100,"color":"cyan"}}}]`)
	positions := writeFile(t, "positions.json", `{"10":1,"11":2,"12":3}`)
	cfg := writeFile(t, "config.json", `{"route_bank":"`+bank+`","positions":"`+positions+`"}`)

	out, err := execute(t, "--config", cfg, "generate", "--json", "--led", "anything")
	require.NoError(t, err)

	got := decodeGenerate(t, out)
	require.Len(t, got.LED, 3)
	positionsSeen := map[int]bool{}
	for _, p := range got.LED {
		positionsSeen[p.Position] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, positionsSeen)
}

func TestGenerate_ExternalWithoutKeyReturnsPlaceholder(t *testing.T) {
	out, err := execute(t, "generate", "--json", "--synthesizer", "external", "v4")
	require.NoError(t, err)

	got := decodeGenerate(t, out)
	assert.True(t, got.Route.Placeholder)
	assert.Equal(t, synthesis.PlaceholderSummary, got.Route.Summary)
	assert.Len(t, got.Route.Holds, 3)
}

func TestGenerate_SynthesizerFromConfig(t *testing.T) {
	cfg := writeFile(t, "config.json", `{"synthesizer":"external"}`)

	out, err := execute(t, "--config", cfg, "generate", "--json", "v4")
	require.NoError(t, err)
	assert.True(t, decodeGenerate(t, out).Route.Placeholder)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown synthesizer", []string{"generate", "--synthesizer", "magic", "v3"}, "unknown synthesizer"},
		{"missing bank", []string{"generate", "--bank", "/nonexistent/bank.json", "v3"}, "route bank"},
		{"missing board", []string{"--board", "/nonexistent/board.txt", "generate", "v3"}, "board"},
		{"placeholder has no LED codes", []string{"generate", "--synthesizer", "external", "--led", "v3"}, "no position code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRoot_InvalidEnvironment(t *testing.T) {
	cfg := writeFile(t, "config.json", `{"synthesizer":"bogus"}`)
	_, err := execute(t, "--config", cfg, "parse", "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

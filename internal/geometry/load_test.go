package geometry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/betabot/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBoard(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Compact(t *testing.T) {
	path := writeBoard(t, "circles-compact.txt", "1:10,20|2:30,40|bad")

	board, err := NewLoader(nil, nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, board.Len())
}

func TestLoader_CirclesJSON(t *testing.T) {
	path := writeBoard(t, "circles.json", `{
		"1090": {"cx": 40, "cy": 1120, "r": 12},
		"1200": {"cx": 500.4, "cy": 60},
		"1300": {"cx": "oops", "cy": 60},
		"1400": {"cy": 60}
	}`)

	board, err := NewLoader(nil, nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, board.Len())

	h, ok := board.Get("1200")
	require.True(t, ok)
	assert.Equal(t, 500, h.X)
	assert.Equal(t, 60, h.Y)
}

func TestLoader_SVG(t *testing.T) {
	path := writeBoard(t, "board.svg", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1200 1200">
		<circle id="1090" cx="40" cy="1120" r="12"/>
		<circle id="1091" cx="80.5" cy="1060" r="12"/>
		<circle cx="1" cy="1" r="12"/>
		<rect id="frame" x="0" y="0" width="10" height="10"/>
	</svg>`)

	board, err := NewLoader(nil, nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, board.Len())

	h, ok := board.Get("1091")
	require.True(t, ok)
	assert.Equal(t, 81, h.X)
}

func TestLoader_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("A1:10,1100|B2:10,900"))
	}))
	defer server.Close()

	board, err := NewLoader(nil, nil).Load(context.Background(), server.URL+"/circles-compact.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, board.Len())
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  func(t *testing.T) string
		message string
	}{
		{
			name:    "missing file",
			source:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") },
			message: "source unreachable",
		},
		{
			name:    "no valid entries",
			source:  func(t *testing.T) string { return writeBoard(t, "bad.txt", "x|y:z,w|") },
			message: "no valid holds",
		},
		{
			name:    "empty file",
			source:  func(t *testing.T) string { return writeBoard(t, "empty.txt", "") },
			message: "no valid holds",
		},
		{
			name:    "broken JSON",
			source:  func(t *testing.T) string { return writeBoard(t, "bad.json", `{"1": {"cx": 1,`) },
			message: "malformed board definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil, nil).Load(context.Background(), tt.source(t))
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Contains(t, loadErr.Message, tt.message)
		})
	}
}

func TestLoader_UnreachableURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewLoader(nil, nil).Load(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, CirclesFormat, DetectFormat([]byte("  {\"1\":{}}")))
	assert.Equal(t, SVGFormat, DetectFormat([]byte("\n<svg></svg>")))
	assert.Equal(t, CompactFormat, DetectFormat([]byte("1:2,3")))
	assert.Equal(t, CompactFormat, DetectFormat(nil))
}

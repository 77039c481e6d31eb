package geometry

import (
	"bytes"
	"context"

	"github.com/jonathan/betabot/internal/fetch"
	"github.com/jonathan/betabot/internal/logging"
	"github.com/jonathan/betabot/internal/types"
	"go.uber.org/zap"
)

// Format identifies a board definition encoding.
type Format string

// Supported board encodings.
const (
	CompactFormat Format = "compact"
	CirclesFormat Format = "circles"
	SVGFormat     Format = "svg"
)

// Loader reads board definitions from files or URLs.
type Loader struct {
	fetchOpts *fetch.Options
	logger    *zap.Logger
}

// NewLoader creates a Loader. Nil options use fetch defaults; a nil logger discards output.
func NewLoader(opts *fetch.Options, logger *zap.Logger) *Loader {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Loader{fetchOpts: opts, logger: logging.OrNop(logger)}
}

// Load reads source (a path or http(s) URL) and decodes it into a Board.
func (l *Loader) Load(ctx context.Context, source string) (*Board, error) {
	result, err := fetch.Read(ctx, source, l.fetchOpts)
	if err != nil {
		return nil, &LoadError{Source: source, Message: "source unreachable", Cause: err}
	}
	return l.Decode(source, result.Body)
}

// Decode sniffs the encoding of data and decodes it. Invalid entries are dropped and logged;
// a definition with no valid entries is a LoadError.
func (l *Loader) Decode(source string, data []byte) (*Board, error) {
	format := DetectFormat(data)

	var (
		holds   []types.Hold
		dropped int
		err     error
	)
	switch format {
	case CirclesFormat:
		holds, dropped, err = ParseCirclesJSON(data)
	case SVGFormat:
		holds, dropped, err = ParseSVG(data)
	default:
		holds, dropped = ParseCompact(string(data))
	}
	if err != nil {
		return nil, &LoadError{Source: source, Message: "malformed board definition", Cause: err}
	}

	if dropped > 0 {
		l.logger.Warn("dropped invalid board entries",
			zap.String("source", source),
			zap.String("format", string(format)),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(holds)),
		)
	}
	if len(holds) == 0 {
		return nil, &LoadError{Source: source, Message: "no valid holds"}
	}

	board := NewBoard(holds)
	l.logger.Debug("board loaded",
		zap.String("source", source),
		zap.String("format", string(format)),
		zap.Int("holds", board.Len()),
	)
	return board, nil
}

// DetectFormat guesses the board encoding from the first non-space byte.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return CompactFormat
	case trimmed[0] == '{':
		return CirclesFormat
	case trimmed[0] == '<':
		return SVGFormat
	default:
		return CompactFormat
	}
}

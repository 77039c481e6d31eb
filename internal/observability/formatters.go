// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintGuidance outputs the parsed guidance and its display notes.
func (p *Printer) PrintGuidance(g *types.Guidance) {
	if g == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Selection guidance:\n")
	for _, part := range strings.Split(g.SelectionGuidance, ". ") {
		sb.WriteString(fmt.Sprintf("  • %s\n", part))
	}
	if len(g.Notes) > 0 {
		sb.WriteString("\nNotes:\n")
		for _, note := range g.Notes {
			sb.WriteString(fmt.Sprintf("  • %s\n", note))
		}
	}
	if g.SetterNotes != "" {
		sb.WriteString(fmt.Sprintf("\nRequest: %q\n", g.SetterNotes))
	}

	p.printBox("GUIDANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBoardStats outputs the vertical extent of a board and its sample holds.
func (p *Printer) PrintBoardStats(stats *types.BoardStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Holds:    %d\n", stats.Count))
	sb.WriteString(fmt.Sprintf("Y range:  %d to %d (%d px)\n", stats.MinY, stats.MaxY, stats.YRange))
	sb.WriteString(fmt.Sprintf("Middle:   %d\n", stats.MiddleY))
	sb.WriteString(fmt.Sprintf("Top:      %s\n", orDash(stats.TopHolds)))
	sb.WriteString(fmt.Sprintf("Middle:   %s\n", orDash(stats.MiddleHolds)))
	sb.WriteString(fmt.Sprintf("Bottom:   %s", orDash(stats.BottomHolds)))

	p.printBox("BOARD", sb.String())
}

// PrintRoute outputs a synthesized route, listing holds top role first.
func (p *Printer) PrintRoute(route *types.Route) {
	if route == nil {
		return
	}

	var sb strings.Builder
	if route.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", route.Name))
	}
	sb.WriteString(fmt.Sprintf("Source:   %s", route.Source))
	if route.Placeholder {
		sb.WriteString(" (placeholder)")
	}
	sb.WriteString("\n")
	if route.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", route.Summary))
	}
	sb.WriteString("\n")

	for _, role := range []types.Role{types.RoleFinish, types.RoleIntermediate, types.RoleFoot, types.RoleStart} {
		var ids []string
		for _, h := range route.Holds {
			if h.Role == role {
				ids = append(ids, h.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		shown := ids[:min(len(ids), maxItemsToShow)]
		line := fmt.Sprintf("%-13s %s %s", string(role)+":", palette.ColorFor(role), strings.Join(shown, ", "))
		if len(ids) > maxItemsToShow {
			line += fmt.Sprintf(" +%d", len(ids)-maxItemsToShow)
		}
		sb.WriteString(line + "\n")
	}

	p.printBox("ROUTE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLEDConfig outputs the LED frame sent to the board.
func (p *Printer) PrintLEDConfig(placements []palette.Placement) {
	if len(placements) == 0 {
		return
	}

	var sb strings.Builder
	for i, pl := range placements {
		sb.WriteString(fmt.Sprintf("position %-6d role %d (%s)", pl.Position, pl.RoleID, palette.Palette[pl.RoleID].Role))
		if i < len(placements)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LED FRAME", sb.String())
}

func orDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/observability"
	"github.com/jonathan/betabot/internal/types"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Inspect and convert board definitions",
}

var boardStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the board's holds",
	Args:  cobra.NoArgs,
	RunE:  runBoardStats,
}

var boardFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List holds within zones",
	Long: `List holds whose y falls within any selected zone, in compact format.
Predefined zones: start, intermediate, finish, foothold. --min/--max add a custom zone.`,
	Args: cobra.NoArgs,
	RunE: runBoardFilter,
}

var boardConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Re-encode the board as compact text or circles JSON",
	Args:  cobra.NoArgs,
	RunE:  runBoardConvert,
}

var boardNearestCmd = &cobra.Command{
	Use:   "nearest <x> <y>",
	Short: "Find the hold closest to a board coordinate",
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardNearest,
}

var boardCalibrateCmd = &cobra.Command{
	Use:   "calibrate <holdA> <imageXA> <imageYA> <holdB> <imageXB> <imageYB>",
	Short: "Derive the board-to-image transform from two reference holds",
	Args:  cobra.ExactArgs(6),
	RunE:  runBoardCalibrate,
}

var (
	boardJSON     bool
	filterZones   string
	filterMin     int
	filterMax     int
	convertFormat string
)

func init() {
	boardCmd.PersistentFlags().BoolVar(&boardJSON, "json", false, "Print JSON instead of formatted output")

	boardFilterCmd.Flags().StringVar(&filterZones, "zones", "", "Comma-separated predefined zone names")
	boardFilterCmd.Flags().IntVar(&filterMin, "min", 0, "Custom zone minimum y (inclusive)")
	boardFilterCmd.Flags().IntVar(&filterMax, "max", 0, "Custom zone maximum y (inclusive)")

	boardConvertCmd.Flags().StringVar(&convertFormat, "to", string(geometry.CompactFormat), "Output format: compact or circles")

	boardCmd.AddCommand(boardStatsCmd, boardFilterCmd, boardConvertCmd, boardNearestCmd, boardCalibrateCmd)
	rootCmd.AddCommand(boardCmd)
}

func runBoardStats(cmd *cobra.Command, _ []string) error {
	board, err := requireBoard(cmd.Context())
	if err != nil {
		return err
	}

	stats := geometry.ComputeStats(board.Holds())
	if boardJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBoardStats(&stats)
	return nil
}

func runBoardFilter(cmd *cobra.Command, _ []string) error {
	var zones []types.Zone
	for _, name := range strings.Split(filterZones, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		z, ok := geometry.ZoneByName(name)
		if !ok {
			return fmt.Errorf("unknown zone %q", strings.TrimSpace(name))
		}
		zones = append(zones, z)
	}
	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		if !cmd.Flags().Changed("max") {
			filterMax = filterMin
		}
		if filterMax < filterMin {
			return fmt.Errorf("--max (%d) must not be below --min (%d)", filterMax, filterMin)
		}
		zones = append(zones, types.Zone{Name: "custom", MinY: filterMin, MaxY: filterMax})
	}
	if len(zones) == 0 {
		return fmt.Errorf("select at least one zone with --zones or --min/--max")
	}

	board, err := requireBoard(cmd.Context())
	if err != nil {
		return err
	}

	holds := geometry.FilterByZones(board.Holds(), zones)
	if boardJSON {
		return writeJSON(cmd.OutOrStdout(), holds)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), geometry.FormatCompact(holds))
	return err
}

func runBoardConvert(cmd *cobra.Command, _ []string) error {
	board, err := requireBoard(cmd.Context())
	if err != nil {
		return err
	}

	switch geometry.Format(strings.ToLower(convertFormat)) {
	case geometry.CompactFormat:
		_, err = fmt.Fprintln(cmd.OutOrStdout(), board.Compact())
		return err
	case geometry.CirclesFormat:
		data, err := geometry.CirclesJSON(board.Holds())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	default:
		return fmt.Errorf("unsupported output format %q (want compact or circles)", convertFormat)
	}
}

func runBoardNearest(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	board, err := requireBoard(cmd.Context())
	if err != nil {
		return err
	}

	hold, ok := board.Nearest(x, y)
	if !ok {
		return fmt.Errorf("board has no holds")
	}
	if boardJSON {
		return writeJSON(cmd.OutOrStdout(), hold)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d,%d\n", hold.ID, hold.X, hold.Y)
	return err
}

func runBoardCalibrate(cmd *cobra.Command, args []string) error {
	board, err := requireBoard(cmd.Context())
	if err != nil {
		return err
	}

	holdA, imageA, err := referencePoint(board, args[0:3])
	if err != nil {
		return err
	}
	holdB, imageB, err := referencePoint(board, args[3:6])
	if err != nil {
		return err
	}

	t, err := geometry.Calibrate(holdA, imageA, holdB, imageB)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), t)
}

// referencePoint parses "<holdID> <imageX> <imageY>".
func referencePoint(board *geometry.Board, args []string) (types.Hold, geometry.Point, error) {
	hold, ok := board.Get(args[0])
	if !ok {
		return types.Hold{}, geometry.Point{}, fmt.Errorf("hold %q is not on the board", args[0])
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return types.Hold{}, geometry.Point{}, fmt.Errorf("invalid image x %q: %w", args[1], err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return types.Hold{}, geometry.Point{}, fmt.Errorf("invalid image y %q: %w", args[2], err)
	}
	return hold, geometry.Point{X: x, Y: y}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

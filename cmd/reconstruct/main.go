// Package main implements the reconstruct command: it reads a detections
// JSON file produced by the detector agent, optionally an elevation grid
// JSON, and writes the reconstructed 3D scene as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/kru2710shna/SpaceFigureAI/calibration"
	"github.com/kru2710shna/SpaceFigureAI/detection"
	"github.com/kru2710shna/SpaceFigureAI/elevation"
	"github.com/kru2710shna/SpaceFigureAI/scene"
)

func main() {
	app := &cli.App{
		Name:  "reconstruct",
		Usage: "reconstruct a 3D scene from blueprint detections",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Value: "-", Usage: "detections JSON file, or - for stdin"},
			&cli.StringFlag{Name: "elevation", Usage: "optional elevation grid JSON file ([[...],[...]])"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "output file, or - for stdout"},
			&cli.Float64Flag{Name: "meters-per-pixel", Usage: "manual scale override"},
			&cli.Float64Flag{Name: "pixels-per-meter", Usage: "manual scale override (inverse)"},
			&cli.StringFlag{Name: "reference-label", Usage: "substring that selects the calibration reference"},
			&cli.Float64Flag{Name: "reference-height", Usage: "real height of the calibration reference in meters"},
			&cli.Float64Flag{Name: "target-max-elevation", Usage: "upper bound of the normalized elevation range in meters"},
			&cli.Float64Flag{Name: "camera-distance", Usage: "camera distance multiplier"},
			&cli.IntFlag{Name: "image-width", Usage: "source image width in pixels"},
			&cli.IntFlag{Name: "image-height", Usage: "source image height in pixels"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: runReconstruct,
	}
	if err := app.Run(os.Args); err != nil {
		// the caller parses stdout as JSON, keep the error machine readable
		//nolint:errcheck
		json.NewEncoder(os.Stdout).Encode(map[string]string{"error": err.Error()})
		os.Exit(1)
	}
}

func runReconstruct(c *cli.Context) error {
	logger := golog.NewLogger("reconstruct")
	if c.Bool("debug") {
		logger = golog.NewDebugLogger("reconstruct")
	}

	dets, err := readDetections(c.String("input"))
	if err != nil {
		return err
	}
	grid, err := readElevation(c.String("elevation"))
	if err != nil {
		return err
	}

	cfg := &scene.Config{
		ImageWidth:                c.Int("image-width"),
		ImageHeight:               c.Int("image-height"),
		ReferenceLabel:            c.String("reference-label"),
		ReferenceRealHeightMeters: c.Float64("reference-height"),
		TargetMaxElevationMeters:  c.Float64("target-max-elevation"),
		CameraDistanceMultiplier:  c.Float64("camera-distance"),
		Logger:                    logger,
	}

	result, err := reconstruct(c, dets, grid, cfg)
	if err != nil {
		return err
	}
	logger.Infow("scene reconstructed",
		"objects", len(result.Objects),
		"skipped", result.Skipped,
		"metersPerPixel", result.MetersPerPixel,
	)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(c.String("output"), out)
}

// reconstruct picks the calibration path: a manual scale override when one
// of the scale flags was given (exactly one, as with the upstream agent),
// reference-based calibration otherwise.
func reconstruct(c *cli.Context, dets []detection.Detection, grid *elevation.Grid, cfg *scene.Config) (*scene.Result, error) {
	mppSet := c.IsSet("meters-per-pixel")
	ppmSet := c.IsSet("pixels-per-meter")
	if mppSet && ppmSet {
		return nil, errors.New("provide only one of --meters-per-pixel and --pixels-per-meter")
	}
	switch {
	case mppSet:
		scale, err := calibration.NewScaleContext(c.Float64("meters-per-pixel"))
		if err != nil {
			return nil, err
		}
		return scene.ReconstructWithScale(dets, scale, grid, cfg)
	case ppmSet:
		scale, err := calibration.NewScaleContextFromPixelsPerMeter(c.Float64("pixels-per-meter"))
		if err != nil {
			return nil, err
		}
		return scene.ReconstructWithScale(dets, scale, grid, cfg)
	default:
		return scene.Reconstruct(dets, grid, cfg)
	}
}

func readDetections(path string) ([]detection.Detection, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		//nolint:gosec
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open detections file")
		}
		defer f.Close()
		r = f
	}
	return detection.DecodeAll(r)
}

func readElevation(path string) (*elevation.Grid, error) {
	if path == "" {
		return nil, nil
	}
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read elevation file")
	}
	var values [][]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "cannot decode elevation grid")
	}
	return elevation.NewGrid(values)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Command calibrate computes the calibration for a box given on the command
// line, prints it, and optionally writes the overlay as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mapscale/internal/app"
	"mapscale/internal/calibration"
	"mapscale/internal/config"
	"mapscale/internal/logging"
	"mapscale/internal/mark"
	"mapscale/internal/transform"
	"mapscale/internal/version"
	"mapscale/pkg/geometry"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing "+config.FileName)
	marksFile := flag.String("marks", "", "Path to marks JSON (default: config or map API)")
	imageFile := flag.String("image", "", "Path to map image (default: config or map API)")
	boxArg := flag.String("box", "", "Box in image pixels: x1,y1,x2,y2 (default: whole image)")
	viewportArg := flag.String("viewport", "", "Export size WxH (default: image size)")
	out := flag.String("out", "", "Write the overlay to this PNG file")
	list := flag.Bool("list", false, "Print every mark in image pixels")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if *marksFile != "" {
		cfg.Marks.File = *marksFile
	}
	if *imageFile != "" {
		cfg.Image.File = *imageFile
	}

	var viewport transform.Viewport
	if *viewportArg != "" {
		viewport, err = parseViewport(*viewportArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -viewport: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.Setup(cfg.LogLevel, os.Stderr)
	state := app.NewState(cfg, logger)

	if err := state.Fetch(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load inputs: %v\n", err)
		os.Exit(1)
	}
	sess := state.Session
	if sess == nil {
		fmt.Fprintln(os.Stderr, app.ErrNotReady)
		os.Exit(1)
	}

	if *boxArg != "" {
		box, err := parseBox(*boxArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -box: %v\n", err)
			os.Exit(1)
		}
		sess.SetBox(box)
	}

	box := sess.Box()
	calib := sess.Calibration()
	fmt.Printf("Image:  %gx%g\n", sess.Image().Width, sess.Image().Height)
	fmt.Printf("Marks:  %d\n", sess.Marks().Len())
	fmt.Printf("Box:    %s - %s\n", box.TopLeft, box.BottomRight)
	if err := calib.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Calibration: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Scale:  %s\n", calib.Scale)
	fmt.Printf("Offset: %s\n", calib.Offset)

	if *list {
		printMarks(sess.Marks(), calib)
	}

	if *out != "" {
		if err := state.Export(*out, viewport); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
	}
}

func printMarks(marks *mark.Store, calib calibration.Calibration) {
	fmt.Printf("\n%-24s %-24s %10s %10s\n", "ID", "Name", "X", "Y")
	marks.Each(func(m mark.Mark) {
		p := transform.MarkToImage(m.Location.XY(), calib)
		fmt.Printf("%-24s %-24s %10.1f %10.1f\n", truncate(m.ID, 24), truncate(m.Name, 24), p.X, p.Y)
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

// parseBox reads "x1,y1,x2,y2". The corners may be given in any order.
func parseBox(s string) (calibration.Box, error) {
	v, err := parseFloats(s, ",", 4)
	if err != nil {
		return calibration.Box{}, err
	}
	x1, y1, x2, y2 := v[0], v[1], v[2], v[3]
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return calibration.Box{
		TopLeft:     geometry.NewPoint2D(x1, y1),
		BottomRight: geometry.NewPoint2D(x2, y2),
	}, nil
}

// parseViewport reads "WxH" with both sides positive.
func parseViewport(s string) (transform.Viewport, error) {
	v, err := parseFloats(strings.ToLower(s), "x", 2)
	if err != nil {
		return transform.Viewport{}, err
	}
	size := geometry.NewSize(v[0], v[1])
	if !size.IsPositive() {
		return transform.Viewport{}, fmt.Errorf("size must be positive, got %q", s)
	}
	return size, nil
}

func parseFloats(s, sep string, n int) ([]float64, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		if !geometry.NewPoint2D(v, 0).IsFinite() {
			return nil, fmt.Errorf("value %d is not finite", i+1)
		}
		out[i] = v
	}
	return out, nil
}

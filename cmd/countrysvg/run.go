package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/GDS-IMS/qgis-resources/internal/atlas"
	"github.com/GDS-IMS/qgis-resources/internal/render"
)

const (
	// The boundary dataset is read from the working directory.
	datasetPath = "countries.json"

	defaultCode = "ETH"
	defaultSize = 800

	formatSVG = "svg"
	formatPNG = "png"
)

var errHelpRequested = errors.New("help requested")

type options struct {
	codes  []string
	width  int
	height int
	output string
	all    bool
	outDir string
	format string
	color  string
}

func parseFlags(args []string) (options, error) {
	flags := pflag.NewFlagSet("countrysvg", pflag.ContinueOnError)
	flags.SortFlags = false
	// Unrecognized options warn instead of aborting.
	flags.ParseErrorsWhitelist.UnknownFlags = true

	iso3 := flags.StringP("iso3", "i", defaultCode, "comma-separated ISO3 codes to highlight")
	width := flags.StringP("width", "w", "", "output width in pixels (default 800)")
	height := flags.String("height", "", "output height in pixels (default 800)")
	output := flags.StringP("output", "o", "", "output path (default <codes>.svg)")
	all := flags.Bool("all", false, "render one image per main-territory country")
	outDir := flags.StringP("outdir", "d", ".", "output directory for --all")
	format := flags.StringP("format", "f", formatSVG, "output format: svg or png")
	color := flags.String("color", render.DefaultHighlightColor, "highlight color")
	help := flags.BoolP("help", "h", false, "print usage")

	flags.Usage = func() {
		fmt.Fprintf(os.Stdout, "Usage: countrysvg [options]\n\nRenders an orthographic globe from %s, highlighting the selected countries.\n\n", datasetPath)
		flags.SetOutput(os.Stdout)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if *help {
		flags.Usage()
		return options{}, errHelpRequested
	}

	warnUnknownFlags(flags, args)

	opts := options{
		codes:  splitCodes(*iso3),
		width:  lenientSize("width", *width),
		height: lenientSize("height", *height),
		all:    *all,
		outDir: *outDir,
		color:  *color,
	}
	if len(opts.codes) == 0 {
		opts.codes = []string{defaultCode}
	}

	opts.format = strings.ToLower(*format)
	opts.output = *output
	if !flags.Changed("format") && strings.EqualFold(filepath.Ext(opts.output), ".png") {
		opts.format = formatPNG
	}
	if opts.format != formatSVG && opts.format != formatPNG {
		return options{}, fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.output == "" {
		opts.output = strings.Join(opts.codes, "-") + "." + opts.format
	}
	return opts, nil
}

func run(opts options) error {
	a, err := atlas.Load(datasetPath)
	if err != nil {
		return err
	}

	if opts.all {
		return runBatch(a, opts)
	}
	return runSingle(a, opts)
}

func runSingle(a *atlas.Atlas, opts options) error {
	markup, unmatched := render.Compose(a, render.Request{
		Highlight: opts.codes,
		Width:     opts.width,
		Height:    opts.height,
		Color:     opts.color,
	})
	warnUnmatched(unmatched)
	return writeImage(opts.output, markup, opts)
}

func runBatch(a *atlas.Atlas, opts options) error {
	if _, err := os.Stat(opts.outDir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		logrus.Infof("created %s", opts.outDir)
	}

	for _, f := range a.Features {
		if f.Secondary {
			continue
		}
		markup, _ := render.Compose(a, render.Request{
			Highlight: []string{f.Code},
			Width:     opts.width,
			Height:    opts.height,
			Color:     opts.color,
		})
		path := filepath.Join(opts.outDir, f.Code+"."+opts.format)
		if err := writeImage(path, markup, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeImage(path, markup string, opts options) error {
	if opts.format == formatPNG {
		if err := render.WritePNG(path, markup, opts.width, opts.height); err != nil {
			return err
		}
	} else if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Infof("wrote %s", path)
	return nil
}

func warnUnmatched(codes []string) {
	for _, code := range codes {
		logrus.Warnf("no feature with code %q; nothing will be highlighted for it", code)
	}
}

// splitCodes normalizes a comma-separated code list: trimmed, uppercased,
// empties dropped.
func splitCodes(raw string) []string {
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// lenientSize parses a dimension flag, falling back to the default with a
// warning instead of aborting on a bad value.
func lenientSize(name, value string) int {
	if value == "" {
		return defaultSize
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logrus.Warnf("ignoring %s %q: not a positive integer, using %d", name, value, defaultSize)
		return defaultSize
	}
	return n
}

func warnUnknownFlags(flags *pflag.FlagSet, args []string) {
	for _, arg := range args {
		if arg == "--" {
			return
		}
		switch {
		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if i := strings.Index(name, "="); i >= 0 {
				name = name[:i]
			}
			if name != "" && flags.Lookup(name) == nil {
				logrus.Warnf("ignoring unrecognized option --%s", name)
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if flags.ShorthandLookup(arg[1:2]) == nil {
				logrus.Warnf("ignoring unrecognized option -%s", arg[1:2])
			}
		}
	}
}

// Package render composes orthographic globe scenes and serializes them
// to SVG markup or PNG images.
package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/GDS-IMS/qgis-resources/internal/atlas"
	"github.com/GDS-IMS/qgis-resources/internal/ortho"
)

// DefaultHighlightColor fills highlighted countries unless overridden.
const DefaultHighlightColor = "#d62728"

const (
	neutralColor   = "#cccccc"
	oceanColor     = "#ffffff"
	graticuleColor = "#ffffff"

	graticuleStep = 30
)

// Request describes one rendered image.
type Request struct {
	Highlight []string // codes to highlight, already uppercased
	Width     int
	Height    int
	Color     string // highlight color; DefaultHighlightColor when empty
}

// Compose renders the scene for one request and returns the SVG markup
// together with the highlight codes that matched no loaded feature. The
// view is centered on the matched features' union bounding box midpoint;
// with no match the view keeps the default center. Compose is a pure
// function of the catalogue and the request.
func Compose(a *atlas.Atlas, req Request) (string, []string) {
	color := req.Color
	if color == "" {
		color = DefaultHighlightColor
	}

	matched, unmatched := a.Match(req.Highlight)
	proj := ortho.New(req.Width, req.Height)
	if len(matched) > 0 {
		center := atlas.Center(matched)
		proj.SetRotation(-center.Lon(), -center.Lat())
	}

	highlighted := make(map[string]bool, len(req.Highlight))
	for _, code := range req.Highlight {
		highlighted[code] = true
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(req.Width, req.Height)

	// Back to front: ocean disc, country paths, graticule on top.
	cx, cy := proj.Translate()
	canvas.Circle(int(cx), int(cy), int(proj.Scale()), fmt.Sprintf(`fill="%s"`, oceanColor))

	for _, f := range a.Features {
		d := proj.PathData(f.Geometry)
		if d == "" {
			continue
		}
		fill := neutralColor
		if highlighted[f.Code] {
			fill = color
		}
		canvas.Path(d, fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="0.5"`, fill, fill))
	}

	canvas.Path(proj.GraticulePath(graticuleStep),
		fmt.Sprintf(`fill="none" stroke="%s" stroke-width="1"`, graticuleColor))

	canvas.End()
	return buf.String(), unmatched
}

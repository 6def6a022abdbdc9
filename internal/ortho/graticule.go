package ortho

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Sampling interval along graticule lines, degrees.
const graticuleSampling = 2.5

// GraticulePath returns SVG path data for meridians and parallels at the
// given spacing in degrees. Only visible runs are emitted; the pen lifts
// wherever a line crosses the horizon.
func (p *Projection) GraticulePath(step float64) string {
	var b strings.Builder
	for lon := -180.0; lon < 180; lon += step {
		p.appendPolyline(&b, meridian(lon))
	}
	for lat := -90 + step; lat < 90; lat += step {
		p.appendPolyline(&b, parallel(lat))
	}
	return b.String()
}

func (p *Projection) appendPolyline(b *strings.Builder, line []orb.Point) {
	pen := false
	for _, pt := range line {
		x, y, visible := p.Project(pt.Lon(), pt.Lat())
		if !visible {
			pen = false
			continue
		}
		cmd := byte('L')
		if !pen {
			cmd = 'M'
			pen = true
		}
		fmt.Fprintf(b, "%c%.2f,%.2f", cmd, x, y)
	}
}

func meridian(lon float64) []orb.Point {
	line := make([]orb.Point, 0, int(180/graticuleSampling)+1)
	for lat := -90.0; lat <= 90; lat += graticuleSampling {
		line = append(line, orb.Point{lon, lat})
	}
	return line
}

func parallel(lat float64) []orb.Point {
	line := make([]orb.Point, 0, int(360/graticuleSampling)+1)
	for lon := -180.0; lon <= 180; lon += graticuleSampling {
		line = append(line, orb.Point{lon, lat})
	}
	return line
}

package ortho

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// PathData serializes the visible part of a polygonal geometry as SVG path
// data. Rings entirely on the far hemisphere are dropped; hidden vertices
// of partially visible rings are clamped to the horizon. The empty string
// means nothing of the geometry is visible.
func (p *Projection) PathData(geom orb.Geometry) string {
	var b strings.Builder
	switch g := geom.(type) {
	case orb.Polygon:
		p.appendPolygon(&b, g)
	case orb.MultiPolygon:
		for _, poly := range g {
			p.appendPolygon(&b, poly)
		}
	}
	return b.String()
}

func (p *Projection) appendPolygon(b *strings.Builder, poly orb.Polygon) {
	for _, ring := range poly {
		p.appendRing(b, ring)
	}
}

func (p *Projection) appendRing(b *strings.Builder, ring orb.Ring) {
	if len(ring) == 0 || !p.anyVisible(ring) {
		return
	}
	for i, pt := range ring {
		x, y := p.clamped(pt.Lon(), pt.Lat())
		cmd := byte('L')
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(b, "%c%.2f,%.2f", cmd, x, y)
	}
	b.WriteByte('Z')
}

func (p *Projection) anyVisible(ring orb.Ring) bool {
	for _, pt := range ring {
		if _, _, visible := p.Project(pt.Lon(), pt.Lat()); visible {
			return true
		}
	}
	return false
}

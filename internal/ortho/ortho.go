// Package ortho maps lon/lat geometry onto a 2-D canvas under an
// orthographic (single visible hemisphere) view.
package ortho

import "math"

// Projection is an orthographic projection onto a width x height canvas.
// The sphere radius is min(width, height)/2 - 2 and the view is clipped at
// 90 degrees from its center.
type Projection struct {
	width, height int
	scale         float64
	cx, cy        float64

	rotLon, rotLat   float64 // rotation as set, degrees
	lon0, lat0       float64 // view center, radians
	sinLat0, cosLat0 float64
}

// New returns a projection with the identity rotation.
func New(width, height int) *Projection {
	side := width
	if height < side {
		side = height
	}
	p := &Projection{
		width:  width,
		height: height,
		scale:  float64(side)/2 - 2,
		cx:     float64(width) / 2,
		cy:     float64(height) / 2,
	}
	p.SetRotation(0, 0)
	return p
}

// SetRotation sets the projection rotation in degrees. Centering the view
// on a point (lon, lat) corresponds to SetRotation(-lon, -lat).
func (p *Projection) SetRotation(lon, lat float64) {
	p.rotLon, p.rotLat = lon, lat
	p.lon0 = radians(-lon)
	p.lat0 = radians(-lat)
	p.sinLat0, p.cosLat0 = math.Sincos(p.lat0)
}

// Rotation returns the rotation previously set, in degrees.
func (p *Projection) Rotation() (lon, lat float64) {
	return p.rotLon, p.rotLat
}

// Scale returns the projected sphere radius in canvas units.
func (p *Projection) Scale() float64 {
	return p.scale
}

// Translate returns the canvas coordinates of the projection center.
func (p *Projection) Translate() (x, y float64) {
	return p.cx, p.cy
}

// Project maps a lon/lat position to canvas coordinates. visible is false
// for positions on the far hemisphere.
func (p *Projection) Project(lon, lat float64) (x, y float64, visible bool) {
	sx, sy, cosc := p.sphere(lon, lat)
	return p.cx + p.scale*sx, p.cy - p.scale*sy, cosc >= 0
}

// clamped is Project with far-hemisphere positions pushed onto the horizon
// circle, keeping partially hidden rings closed.
func (p *Projection) clamped(lon, lat float64) (x, y float64) {
	sx, sy, cosc := p.sphere(lon, lat)
	if cosc < 0 {
		r := math.Hypot(sx, sy)
		if r == 0 {
			// Antipode of the view center; any horizon point will do.
			sx, sy = 0, -1
		} else {
			sx, sy = sx/r, sy/r
		}
	}
	return p.cx + p.scale*sx, p.cy - p.scale*sy
}

// sphere returns the unit-sphere view coordinates of a position and the
// cosine of its angular distance from the view center.
func (p *Projection) sphere(lon, lat float64) (x, y, cosc float64) {
	dLon := radians(lon) - p.lon0
	phi := radians(lat)
	sinPhi, cosPhi := math.Sincos(phi)
	cosDLon := math.Cos(dLon)

	x = cosPhi * math.Sin(dLon)
	y = p.cosLat0*sinPhi - p.sinLat0*cosPhi*cosDLon
	cosc = p.sinLat0*sinPhi + p.cosLat0*cosPhi*cosDLon
	return x, y, cosc
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

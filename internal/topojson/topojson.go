// Package topojson decodes TopoJSON topologies into standalone GeoJSON
// features. Shared boundary arcs are expanded once at parse time; feature
// extraction then stitches rings from arc indexes, honoring the ~i
// complement convention for reversed arcs.
package topojson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrEmptyTopology reports a topology without any named object collection.
var ErrEmptyTopology = errors.New("topology contains no object collections")

type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type document struct {
	Type      string                  `json:"type"`
	Objects   map[string]geometryNode `json:"objects"`
	Arcs      [][][]float64           `json:"arcs"`
	Transform *transform              `json:"transform"`
}

// geometryNode covers both object collections and individual geometries;
// the populated fields depend on Type.
type geometryNode struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Arcs       json.RawMessage        `json:"arcs"`
	Geometries []geometryNode         `json:"geometries"`
}

// Topology is a decoded TopoJSON document with its arcs expanded to
// absolute lon/lat positions.
type Topology struct {
	names   []string
	objects map[string]geometryNode
	arcs    [][]orb.Point
}

// Parse decodes a TopoJSON document. It fails with ErrEmptyTopology when
// the document carries no named object collections.
func Parse(data []byte) (*Topology, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}
	if len(doc.Objects) == 0 {
		return nil, ErrEmptyTopology
	}

	names, err := collectionNames(data)
	if err != nil {
		return nil, fmt.Errorf("scan object names: %w", err)
	}

	arcs, err := expandArcs(doc.Arcs, doc.Transform)
	if err != nil {
		return nil, err
	}

	return &Topology{names: names, objects: doc.Objects, arcs: arcs}, nil
}

// Names returns the object collection names in document order.
func (t *Topology) Names() []string {
	return t.names
}

// Has reports whether a collection with the given name exists.
func (t *Topology) Has(name string) bool {
	_, ok := t.objects[name]
	return ok
}

// Features extracts the named collection as a flat feature list.
// Geometries other than Polygon and MultiPolygon are skipped.
func (t *Topology) Features(name string) ([]*geojson.Feature, error) {
	node, ok := t.objects[name]
	if !ok {
		return nil, fmt.Errorf("no object collection %q", name)
	}

	nodes := []geometryNode{node}
	if node.Type == "GeometryCollection" {
		nodes = node.Geometries
	}

	features := make([]*geojson.Feature, 0, len(nodes))
	for _, n := range nodes {
		geom, err := t.geometry(n)
		if err != nil {
			return nil, err
		}
		if geom == nil {
			continue
		}
		f := geojson.NewFeature(geom)
		f.ID = n.ID
		if n.Properties != nil {
			f.Properties = geojson.Properties(n.Properties)
		}
		features = append(features, f)
	}
	return features, nil
}

func (t *Topology) geometry(n geometryNode) (orb.Geometry, error) {
	switch n.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(n.Arcs, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon arcs: %w", err)
		}
		return t.polygon(rings)
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(n.Arcs, &polys); err != nil {
			return nil, fmt.Errorf("decode multipolygon arcs: %w", err)
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			poly, err := t.polygon(rings)
			if err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return mp, nil
	}
	return nil, nil
}

func (t *Topology) polygon(rings [][]int) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, indexes := range rings {
		ring, err := t.stitch(indexes)
		if err != nil {
			return nil, err
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

// stitch concatenates arcs into one ring. Each arc after the first starts
// on the previous arc's endpoint, so that duplicate is dropped.
func (t *Topology) stitch(indexes []int) (orb.Ring, error) {
	var ring orb.Ring
	for i, idx := range indexes {
		pts, err := t.arc(idx)
		if err != nil {
			return nil, err
		}
		if i > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		ring = append(ring, pts...)
	}
	return ring, nil
}

func (t *Topology) arc(idx int) ([]orb.Point, error) {
	reversed := false
	if idx < 0 {
		idx = -1 - idx
		reversed = true
	}
	if idx >= len(t.arcs) {
		return nil, fmt.Errorf("arc index %d out of range", idx)
	}
	src := t.arcs[idx]
	if !reversed {
		return src, nil
	}
	out := make([]orb.Point, len(src))
	for i, pt := range src {
		out[len(src)-1-i] = pt
	}
	return out, nil
}

// expandArcs converts raw arcs to absolute positions. With a transform the
// coordinates are quantized deltas; without one they are already absolute.
func expandArcs(raw [][][]float64, tr *transform) ([][]orb.Point, error) {
	arcs := make([][]orb.Point, 0, len(raw))
	for i, arc := range raw {
		line := make([]orb.Point, 0, len(arc))
		x, y := 0.0, 0.0
		for _, pos := range arc {
			if len(pos) < 2 {
				return nil, fmt.Errorf("arc %d: position has %d coordinates", i, len(pos))
			}
			if tr != nil {
				x += pos[0]
				y += pos[1]
				line = append(line, orb.Point{
					x*tr.Scale[0] + tr.Translate[0],
					y*tr.Scale[1] + tr.Translate[1],
				})
			} else {
				line = append(line, orb.Point{pos[0], pos[1]})
			}
		}
		arcs = append(arcs, line)
	}
	return arcs, nil
}

// collectionNames recovers the order of the "objects" keys from the raw
// document, since Go map iteration would lose it.
func collectionNames(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("topology is not a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "objects" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		if _, err := dec.Token(); err != nil { // consume '{'
			return nil, err
		}
		var names []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := nameTok.(string)
			names = append(names, name)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return names, nil
	}
	return nil, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

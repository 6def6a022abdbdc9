package topojson

import (
	"errors"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

const quantizedTopology = `{
	"type": "Topology",
	"transform": {"scale": [1, 1], "translate": [10, 20]},
	"objects": {
		"countries": {
			"type": "GeometryCollection",
			"geometries": [
				{
					"type": "Polygon",
					"arcs": [[0]],
					"id": "aaa",
					"properties": {"iso3": "AAA", "secondary": false}
				}
			]
		}
	},
	"arcs": [
		[[0, 0], [4, 0], [0, 4], [-4, 0], [0, -4]]
	]
}`

func TestParseQuantizedPolygon(t *testing.T) {
	topo, err := Parse([]byte(quantizedTopology))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	features, err := topo.Features("countries")
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}

	f := features[0]
	if f.ID != "aaa" {
		t.Fatalf("id: expected %q, got %v", "aaa", f.ID)
	}
	if got := f.Properties["iso3"]; got != "AAA" {
		t.Fatalf("iso3 property: expected %q, got %v", "AAA", got)
	}

	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected orb.Polygon, got %T", f.Geometry)
	}
	want := orb.Ring{
		{10, 20}, {14, 20}, {14, 24}, {10, 24}, {10, 20},
	}
	if len(poly) != 1 || !reflect.DeepEqual(poly[0], want) {
		t.Fatalf("ring: expected %v, got %v", want, poly)
	}
}

func TestParseAbsoluteArcs(t *testing.T) {
	data := `{
		"type": "Topology",
		"objects": {
			"shapes": {"type": "Polygon", "arcs": [[0]]}
		},
		"arcs": [
			[[1.5, 2.5], [3.5, 2.5], [3.5, 4.5], [1.5, 2.5]]
		]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	features, err := topo.Features("shapes")
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	poly := features[0].Geometry.(orb.Polygon)
	want := orb.Ring{{1.5, 2.5}, {3.5, 2.5}, {3.5, 4.5}, {1.5, 2.5}}
	if !reflect.DeepEqual(poly[0], want) {
		t.Fatalf("ring: expected %v, got %v", want, poly[0])
	}
}

func TestStitchAndReversal(t *testing.T) {
	// Two arcs sharing endpoints; the second ring walks arc 0 backwards
	// via the complement index.
	data := `{
		"type": "Topology",
		"objects": {
			"shapes": {
				"type": "GeometryCollection",
				"geometries": [
					{"type": "Polygon", "arcs": [[0, 1]]},
					{"type": "Polygon", "arcs": [[-1, -2]]}
				]
			}
		},
		"arcs": [
			[[0, 0], [4, 0], [4, 4]],
			[[4, 4], [0, 4], [0, 0]]
		]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	features, err := topo.Features("shapes")
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}

	forward := features[0].Geometry.(orb.Polygon)[0]
	wantForward := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	if !reflect.DeepEqual(forward, wantForward) {
		t.Fatalf("stitched ring: expected %v, got %v", wantForward, forward)
	}

	backward := features[1].Geometry.(orb.Polygon)[0]
	wantBackward := orb.Ring{{4, 4}, {4, 0}, {0, 0}, {0, 4}, {4, 4}}
	if !reflect.DeepEqual(backward, wantBackward) {
		t.Fatalf("reversed ring: expected %v, got %v", wantBackward, backward)
	}
}

func TestParseMultiPolygon(t *testing.T) {
	data := `{
		"type": "Topology",
		"objects": {
			"shapes": {"type": "MultiPolygon", "arcs": [[[0]], [[1]]]}
		},
		"arcs": [
			[[0, 0], [1, 0], [1, 1], [0, 0]],
			[[5, 5], [6, 5], [6, 6], [5, 5]]
		]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	features, err := topo.Features("shapes")
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	mp, ok := features[0].Geometry.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("expected orb.MultiPolygon, got %T", features[0].Geometry)
	}
	if len(mp) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(mp))
	}
}

func TestParseSkipsNonPolygonGeometries(t *testing.T) {
	data := `{
		"type": "Topology",
		"objects": {
			"shapes": {
				"type": "GeometryCollection",
				"geometries": [
					{"type": "Point", "coordinates": [0, 0]},
					{"type": "Polygon", "arcs": [[0]]}
				]
			}
		},
		"arcs": [
			[[0, 0], [1, 0], [1, 1], [0, 0]]
		]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	features, err := topo.Features("shapes")
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected point to be skipped, got %d features", len(features))
	}
}

func TestParseEmptyTopology(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no objects key", `{"type": "Topology", "arcs": []}`},
		{"empty objects", `{"type": "Topology", "objects": {}, "arcs": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); !errors.Is(err, ErrEmptyTopology) {
				t.Fatalf("expected ErrEmptyTopology, got %v", err)
			}
		})
	}
}

func TestNamesDocumentOrder(t *testing.T) {
	data := `{
		"type": "Topology",
		"objects": {
			"zzz": {"type": "Polygon", "arcs": [[0]]},
			"aaa": {"type": "Polygon", "arcs": [[0]]}
		},
		"arcs": [
			[[0, 0], [1, 0], [1, 1], [0, 0]]
		]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"zzz", "aaa"}
	if !reflect.DeepEqual(topo.Names(), want) {
		t.Fatalf("names: expected %v, got %v", want, topo.Names())
	}
	if !topo.Has("zzz") || topo.Has("countries") {
		t.Fatalf("Has: unexpected membership results")
	}
}

func TestArcIndexOutOfRange(t *testing.T) {
	data := `{
		"type": "Topology",
		"objects": {"shapes": {"type": "Polygon", "arcs": [[3]]}},
		"arcs": [[[0, 0], [1, 1]]]
	}`

	topo, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := topo.Features("shapes"); err == nil {
		t.Fatal("expected error for out-of-range arc index")
	}
}

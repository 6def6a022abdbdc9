// Package atlas loads the country boundary catalogue used by the renderer.
package atlas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/paulmach/orb"

	"github.com/GDS-IMS/qgis-resources/internal/topojson"
)

const (
	// Dataset property keys.
	codeProperty      = "iso3"
	secondaryProperty = "secondary"

	// Preferred object collection; datasets with other shapes fall back
	// to their first collection.
	countriesCollection = "countries"
)

// ErrDatasetNotFound reports a missing boundary dataset file.
var ErrDatasetNotFound = errors.New("boundary dataset not found")

// Feature is one country or territory boundary.
type Feature struct {
	Code      string
	Secondary bool
	Geometry  orb.MultiPolygon
}

// Atlas holds the feature list in dataset order, immutable after Load.
type Atlas struct {
	Features []Feature
}

// Load reads and decodes the boundary dataset at path.
func Load(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	topo, err := topojson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	name := countriesCollection
	if !topo.Has(name) {
		name = topo.Names()[0]
	}

	decoded, err := topo.Features(name)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	features := make([]Feature, 0, len(decoded))
	for _, f := range decoded {
		geom := multiPolygon(f.Geometry)
		if geom == nil {
			continue
		}
		// Missing properties yield zero values rather than a load error.
		code, _ := f.Properties[codeProperty].(string)
		features = append(features, Feature{
			Code:      code,
			Secondary: boolProperty(f.Properties, secondaryProperty),
			Geometry:  geom,
		})
	}
	return &Atlas{Features: features}, nil
}

// Match returns the features whose code appears in codes (in the order the
// codes were given, secondary territories included) plus the codes that
// matched nothing. Matching is case-sensitive; callers normalize upstream.
func (a *Atlas) Match(codes []string) (matched []Feature, unmatched []string) {
	for _, code := range codes {
		found := false
		for _, f := range a.Features {
			if f.Code == code {
				matched = append(matched, f)
				found = true
			}
		}
		if !found {
			unmatched = append(unmatched, code)
		}
	}
	return matched, unmatched
}

// Center returns the midpoint of the union of the features' bounding boxes.
func Center(features []Feature) orb.Point {
	bound := features[0].Geometry.Bound()
	for _, f := range features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound.Center()
}

func multiPolygon(geom orb.Geometry) orb.MultiPolygon {
	switch g := geom.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}
	case orb.MultiPolygon:
		return g
	}
	return nil
}

func boolProperty(props map[string]interface{}, key string) bool {
	switch v := props[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	}
	return false
}

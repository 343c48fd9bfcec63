// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Polygons is the contents of a "<mode>_polygons.json" annotation file.
type Polygons struct {
	ImgHeight int             `json:"imgHeight"`
	ImgWidth  int             `json:"imgWidth"`
	Objects   []PolygonObject `json:"objects"`
}

// PolygonObject is one annotated object: its class name and outline as (x, y) vertices.
type PolygonObject struct {
	Label   string       `json:"label"`
	Polygon [][2]float64 `json:"polygon"`
}

// ReadPolygons parses a polygon annotation file.
func ReadPolygons(path string) (*Polygons, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read polygons file %q", path)
	}
	polygons := &Polygons{}
	if err = json.Unmarshal(contents, polygons); err != nil {
		return nil, errors.Wrapf(err, "failed to parse polygons file %q", path)
	}
	return polygons, nil
}

// Polygons returns the polygon annotations of the example at index. The dataset must have been
// configured with the Polygon target.
func (ds *Dataset) Polygons(index int) (*Polygons, error) {
	if ds.target != Polygon {
		return nil, errors.Wrapf(ErrUnsupportedTarget, "Polygons() requires target %s, dataset has %s",
			Polygon, ds.target)
	}
	entry, err := ds.Entry(index)
	if err != nil {
		return nil, err
	}
	return ReadPolygons(entry.LabelPath)
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package taxonomy defines the fixed, ordered list of label classes of the dataset and
// the lookup tables it induces: raw label id -> train id -> visualization color.
//
// The order of the classes is the schema: raw ids and train ids are assigned by position,
// so reordering the definition is a breaking change for every label file and model
// trained on them.
//
// Usage:
//
//	t := taxonomy.Default()
//	trainIDs, err := t.EncodeImage(rawLabel)
//	colors, err := t.DecodeImage(trainIDs)
package taxonomy

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const (
	// IgnoreID is the train id (and raw label value) meaning "exclude this pixel from training/evaluation".
	IgnoreID = 255

	// BackgroundID is the raw id of the synthetic "background" class.
	BackgroundID = -1

	// BackgroundName is the name of the synthetic class appended at the end of every taxonomy.
	BackgroundName = "background"
)

// ColorLabel associates a hex color code (e.g. "#2ca02c") with a class name.
//
// A taxonomy is defined by an ordered slice of ColorLabel: the position in the slice is the
// raw id of the class.
type ColorLabel struct {
	Hex, Name string
}

// Meta holds the coarse grouping metadata of a class.
type Meta struct {
	Category     string
	CategoryID   int
	HasInstances bool
}

// DefaultMeta is used for classes without explicit metadata.
var DefaultMeta = Meta{Category: "flat", CategoryID: 1}

// Class describes one semantic class of the taxonomy.
type Class struct {
	Name string

	// ID is the raw label id, as stored in label files. The background class uses BackgroundID.
	ID int

	// TrainID is the dense id used as learning target, or IgnoreID.
	TrainID int

	Category     string
	CategoryID   int
	HasInstances bool
	IgnoreInEval bool

	// Color used for visualization only. Alpha is always 0xFF.
	Color color.RGBA
}

// Ignored returns whether the class is excluded from the train/eval target space.
func (c Class) Ignored() bool {
	return c.TrainID == IgnoreID
}

// Hex returns the color of the class as "#rrggbb".
func (c Class) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
}

// String implements fmt.Stringer.
func (c Class) String() string {
	return fmt.Sprintf("%s(id=%d, train_id=%d, %s)", c.Name, c.ID, c.TrainID, c.Hex())
}

// Table is the immutable class taxonomy plus its derived lookup tables.
//
// It is safe for concurrent use, since nothing changes after New: accessors return copies.
type Table struct {
	// classes in canonical order, with the background class last.
	classes []Class

	// rawToTrain maps a raw id (0..N-1) to its train id. It has one extra trailing
	// slot (index N) holding IgnoreID: raw values of IgnoreID are redirected there.
	rawToTrain []uint8

	// trainToColor maps a train id (0..K-1) to its color, in taxonomy order. It has one extra
	// trailing black entry (index K): train ids of IgnoreID are redirected there.
	trainToColor []color.RGBA

	byName map[string]int
}

// New builds a Table from the ordered color/name pairs.
//
// Raw id and train id of each class are its position in pairs. The metadata meta[i] is used
// for the i-th class, if given, otherwise DefaultMeta. A background class (raw id -1, train id
// IgnoreID, black) is appended at the end.
//
// Errors are only returned for malformed definitions: invalid hex colors, repeated colors or
// names, or too many classes to be stored in 8-bit label files.
func New(pairs []ColorLabel, meta []Meta) (*Table, error) {
	if len(pairs) == 0 {
		return nil, errors.New("taxonomy requires at least one class")
	}
	if len(pairs) >= IgnoreID {
		return nil, errors.Errorf("taxonomy with %d classes doesn't fit 8-bit label ids, max is %d",
			len(pairs), IgnoreID-1)
	}
	if len(meta) > len(pairs) {
		return nil, errors.Errorf("taxonomy has metadata for %d classes, but only %d classes defined",
			len(meta), len(pairs))
	}
	t := &Table{
		classes: make([]Class, 0, len(pairs)+1),
		byName:  make(map[string]int, len(pairs)+1),
	}
	seenColors := make(map[color.RGBA]string, len(pairs))
	for id, pair := range pairs {
		rgba, err := parseHex(pair.Hex)
		if err != nil {
			return nil, errors.WithMessagef(err, "class #%d %q", id, pair.Name)
		}
		name := strings.TrimSpace(pair.Name)
		if name == "" {
			return nil, errors.Errorf("class #%d (%s) has an empty name", id, pair.Hex)
		}
		if prev, found := seenColors[rgba]; found {
			return nil, errors.Errorf("class #%d %q uses color %s already used by %q", id, name, pair.Hex, prev)
		}
		seenColors[rgba] = name
		if _, found := t.byName[name]; found || name == BackgroundName {
			return nil, errors.Errorf("class #%d: name %q defined more than once", id, name)
		}
		m := DefaultMeta
		if id < len(meta) {
			m = meta[id]
		}
		t.byName[name] = len(t.classes)
		t.classes = append(t.classes, Class{
			Name:         name,
			ID:           id,
			TrainID:      id,
			Category:     m.Category,
			CategoryID:   m.CategoryID,
			HasInstances: m.HasInstances,
			Color:        rgba,
		})
	}
	t.byName[BackgroundName] = len(t.classes)
	t.classes = append(t.classes, Class{
		Name:         BackgroundName,
		ID:           BackgroundID,
		TrainID:      IgnoreID,
		Category:     "void",
		CategoryID:   0,
		IgnoreInEval: true,
		Color:        color.RGBA{A: 0xFF},
	})
	t.buildLookups()
	return t, nil
}

// Classes returns a copy of the classes in canonical order, with the background class last.
func (t *Table) Classes() []Class {
	return slices.Clone(t.classes)
}

// RawToTrain returns a copy of the raw id to train id lookup table, with its trailing IgnoreID slot.
func (t *Table) RawToTrain() []uint8 {
	return slices.Clone(t.rawToTrain)
}

// TrainToColor returns a copy of the train id to color lookup table, with its trailing black entry.
func (t *Table) TrainToColor() []color.RGBA {
	return slices.Clone(t.trainToColor)
}

// buildLookups derives RawToTrain and TrainToColor from the classes, in taxonomy order.
func (t *Table) buildLookups() {
	numRaw := 0
	for _, c := range t.classes {
		if c.ID >= 0 {
			numRaw = max(numRaw, c.ID+1)
		}
	}
	t.rawToTrain = make([]uint8, numRaw+1)
	for ii := range t.rawToTrain {
		t.rawToTrain[ii] = IgnoreID
	}
	for _, c := range t.classes {
		if c.ID >= 0 {
			t.rawToTrain[c.ID] = uint8(c.TrainID)
		}
	}

	t.trainToColor = make([]color.RGBA, 0, len(t.classes))
	for _, c := range t.classes {
		if !c.Ignored() {
			t.trainToColor = append(t.trainToColor, c.Color)
		}
	}
	t.trainToColor = append(t.trainToColor, color.RGBA{A: 0xFF})
}

func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

// NumClasses returns K, the number of classes used as training targets.
func (t *Table) NumClasses() int {
	return len(t.trainToColor) - 1
}

// NumRawIDs returns N, the number of non-negative raw ids. Raw values of IgnoreID are
// redirected to index N of RawToTrain.
func (t *Table) NumRawIDs() int {
	return len(t.rawToTrain) - 1
}

// ByName returns the class with the given name.
func (t *Table) ByName(name string) (Class, bool) {
	idx, found := t.byName[name]
	if !found {
		return Class{}, false
	}
	return t.classes[idx], true
}

// ByID returns the class with the given raw id. BackgroundID returns the background class.
func (t *Table) ByID(id int) (Class, bool) {
	for _, c := range t.classes {
		if c.ID == id {
			return c, true
		}
	}
	return Class{}, false
}

// ByTrainID returns the (first) class mapped to the given train id.
func (t *Table) ByTrainID(trainID int) (Class, bool) {
	for _, c := range t.classes {
		if c.TrainID == trainID {
			return c, true
		}
	}
	return Class{}, false
}

// TrainClasses returns the classes used as training targets, in train id order.
func (t *Table) TrainClasses() []Class {
	classes := make([]Class, 0, t.NumClasses())
	for _, c := range t.classes {
		if !c.Ignored() {
			classes = append(classes, c)
		}
	}
	return classes
}

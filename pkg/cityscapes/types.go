// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSplit is returned when the split is not one of Train, Val or Test.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrInvalidTargetType is returned for an unknown TargetType.
	ErrInvalidTargetType = errors.New("invalid target type")

	// ErrInvalidMode is returned for an empty ground-truth mode.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrDatasetNotFound is returned when the images or targets directory of the split is missing.
	ErrDatasetNotFound = errors.New("dataset not found or incomplete")

	// ErrIndexOutOfRange is returned when accessing an example outside of [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnsupportedTarget is returned when an operation doesn't apply to the dataset TargetType.
	ErrUnsupportedTarget = errors.New("unsupported target type for operation")
)

// Split of the dataset.
type Split string

const (
	Train Split = "train"
	Val   Split = "val"
	Test  Split = "test"
)

// Splits lists all valid splits.
var Splits = []Split{Train, Val, Test}

// Valid returns whether s is one of the known splits.
func (s Split) Valid() bool {
	switch s {
	case Train, Val, Test:
		return true
	}
	return false
}

// ParseSplit converts a string to a Split, or returns ErrInvalidSplit.
func ParseSplit(s string) (Split, error) {
	split := Split(s)
	if !split.Valid() {
		return "", errors.Wrapf(ErrInvalidSplit, "split %q: use %q, %q or %q", s, Train, Val, Test)
	}
	return split, nil
}

// Modes usually found in Cityscapes layouts. Any non-empty directory name is accepted though.
const (
	ModeFine   = "gtFine"
	ModeCoarse = "gtCoarse"
)

// TargetType selects which label file is paired with each image.
//
//go:generate go tool enumer -type=TargetType -transform=snake -values -text -json -yaml -output=gen_targettype_enumer.go types.go
type TargetType int8

const (
	Semantic TargetType = iota
	Instance
	Color
	Polygon
	Depth
)

// TargetTypes lists all valid target types.
var TargetTypes = TargetTypeValues()

// Valid returns whether t is a known TargetType.
func (t TargetType) Valid() bool {
	return t.IsATargetType()
}

// ParseTargetType converts the name of a target type ("semantic", "instance", ...) to its TargetType.
func ParseTargetType(s string) (TargetType, error) {
	t, err := TargetTypeString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTargetType, "target type %q: valid values are %v", s, TargetTypeStrings())
	}
	return t, nil
}

// Suffix returns the suffix of the label file names for the given mode, e.g. "gtFine_labelIds.png".
func (t TargetType) Suffix(mode string) (string, error) {
	var suffix string
	switch t {
	case Semantic:
		suffix = "labelIds.png"
	case Instance:
		suffix = "instanceIds.png"
	case Color:
		suffix = "color.png"
	case Polygon:
		suffix = "polygons.json"
	case Depth:
		suffix = "disparity.png"
	default:
		return "", errors.Wrapf(ErrInvalidTargetType, "no label file suffix for %s", t)
	}
	return mode + "_" + suffix, nil
}

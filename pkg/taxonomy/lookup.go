// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ErrMalformedLabel is returned when a label holds a value that is neither a valid id nor IgnoreID.
var ErrMalformedLabel = errors.New("malformed label")

// rawIndex returns the index into RawToTrain for the raw label value v.
func (t *Table) rawIndex(v int) (int, bool) {
	if v == IgnoreID {
		return t.NumRawIDs(), true
	}
	return v, v >= 0 && v < t.NumRawIDs()
}

// trainIndex returns the index into TrainToColor for the train id v.
func (t *Table) trainIndex(v int) (int, bool) {
	if v == IgnoreID {
		return t.NumClasses(), true
	}
	return v, v >= 0 && v < t.NumClasses()
}

// EncodeID converts one raw label value to its train id. IgnoreID maps to IgnoreID.
func (t *Table) EncodeID(raw int) (int, error) {
	idx, ok := t.rawIndex(raw)
	if !ok {
		return 0, errors.Wrapf(ErrMalformedLabel, "raw label value %d is not a valid id (0 to %d) or %d",
			raw, t.NumRawIDs()-1, IgnoreID)
	}
	return int(t.rawToTrain[idx]), nil
}

// DecodeID returns the visualization color of a train id. IgnoreID maps to black.
func (t *Table) DecodeID(trainID int) (color.RGBA, error) {
	idx, ok := t.trainIndex(trainID)
	if !ok {
		return color.RGBA{}, errors.Wrapf(ErrMalformedLabel, "train id %d is not valid (0 to %d) or %d",
			trainID, t.NumClasses()-1, IgnoreID)
	}
	return t.trainToColor[idx], nil
}

// EncodeInPlace converts raw label values to train ids, overwriting pixels.
//
// Values equal to IgnoreID are redirected to the trailing slot of RawToTrain and come out
// as IgnoreID. Any other value outside the raw id range fails with ErrMalformedLabel; in that
// case pixels is left partially converted and must be discarded.
func EncodeInPlace[T constraints.Integer](t *Table, pixels []T) error {
	for ii, v := range pixels {
		idx, ok := t.rawIndex(int(v))
		if !ok {
			return errors.Wrapf(ErrMalformedLabel, "raw label value %d at pixel offset %d", int(v), ii)
		}
		pixels[ii] = T(t.rawToTrain[idx])
	}
	return nil
}

// Decode converts train ids to their visualization colors.
func Decode[T constraints.Integer](t *Table, trainIDs []T) ([]color.RGBA, error) {
	colors := make([]color.RGBA, len(trainIDs))
	for ii, v := range trainIDs {
		idx, ok := t.trainIndex(int(v))
		if !ok {
			return nil, errors.Wrapf(ErrMalformedLabel, "train id %d at pixel offset %d", int(v), ii)
		}
		colors[ii] = t.trainToColor[idx]
	}
	return colors, nil
}

// EncodeImage returns a new label image with the train ids of the raw label image.
// The raw image is not modified.
func (t *Table) EncodeImage(raw *image.Gray) (*image.Gray, error) {
	encoded := image.NewGray(raw.Rect)
	width := raw.Rect.Dx()
	for y := 0; y < raw.Rect.Dy(); y++ {
		src := raw.Pix[y*raw.Stride : y*raw.Stride+width]
		dst := encoded.Pix[y*encoded.Stride : y*encoded.Stride+width]
		copy(dst, src)
		if err := EncodeInPlace(t, dst); err != nil {
			return nil, errors.WithMessagef(err, "row %d", y)
		}
	}
	return encoded, nil
}

// DecodeImage converts a train id image into an RGB visualization.
func (t *Table) DecodeImage(trainIDs *image.Gray) (*image.RGBA, error) {
	img := image.NewRGBA(trainIDs.Rect)
	width := trainIDs.Rect.Dx()
	for y := 0; y < trainIDs.Rect.Dy(); y++ {
		row := trainIDs.Pix[y*trainIDs.Stride : y*trainIDs.Stride+width]
		colors, err := Decode(t, row)
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", y)
		}
		dst := img.Pix[y*img.Stride:]
		for x, c := range colors {
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = c.R, c.G, c.B, c.A
		}
	}
	return img, nil
}

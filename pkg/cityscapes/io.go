// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/pkg/errors"
)

// listFiles returns the names of the non-directory entries of dir, in directory listing order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan directory %q", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func readAnyImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %q", path)
	}
	return img, nil
}

// ReadImage reads an input image and converts it to RGB (*image.NRGBA, opaque if the file has
// no alpha channel).
func ReadImage(path string) (*image.NRGBA, error) {
	img, err := readAnyImage(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// ReadLabel reads a single-channel label image of raw ids.
//
// Grayscale (8 or 16 bits) and paletted files are accepted: for paletted files the palette index
// is the id. Anything else fails with taxonomy.ErrMalformedLabel.
func ReadLabel(path string) (*image.Gray, error) {
	img, err := readAnyImage(path)
	if err != nil {
		return nil, err
	}
	label, err := ToLabel(img)
	if err != nil {
		return nil, errors.WithMessagef(err, "label file %q", path)
	}
	return label, nil
}

// ToLabel converts a decoded label image to a *image.Gray of ids, without any color conversion.
//
// It accepts *image.Gray (returned as is), *image.Paletted (palette indices), *image.Gray16 with
// values up to 255, and RGB images whose channels are all equal, as produced by resizing or
// flipping a label with imaging.
func ToLabel(img image.Image) (*image.Gray, error) {
	switch src := img.(type) {
	case *image.Gray:
		return src, nil
	case *image.Paletted:
		label := image.NewGray(src.Rect)
		width := src.Rect.Dx()
		for y := 0; y < src.Rect.Dy(); y++ {
			copy(label.Pix[y*label.Stride:y*label.Stride+width], src.Pix[y*src.Stride:y*src.Stride+width])
		}
		return label, nil
	case *image.Gray16:
		label := image.NewGray(src.Rect)
		for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
			for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
				v := src.Gray16At(x, y).Y
				if v > 0xFF {
					return nil, errors.Wrapf(taxonomy.ErrMalformedLabel, "16-bit label value %d at (%d, %d) doesn't fit 8-bit ids", v, x, y)
				}
				label.SetGray(x, y, color.Gray{Y: uint8(v)})
			}
		}
		return label, nil
	case *image.NRGBA:
		return grayFromChannels(src.Rect, src.Pix, src.Stride)
	case *image.RGBA:
		return grayFromChannels(src.Rect, src.Pix, src.Stride)
	}
	return nil, errors.Wrapf(taxonomy.ErrMalformedLabel, "label must be a single-channel image, got %T", img)
}

// grayFromChannels converts 4-channel pixels with R == G == B to single-channel ids.
func grayFromChannels(rect image.Rectangle, pix []uint8, stride int) (*image.Gray, error) {
	label := image.NewGray(rect)
	width := rect.Dx()
	for y := 0; y < rect.Dy(); y++ {
		row := pix[y*stride : y*stride+4*width]
		dst := label.Pix[y*label.Stride:]
		for x := 0; x < width; x++ {
			r, g, b := row[4*x], row[4*x+1], row[4*x+2]
			if r != g || g != b {
				return nil, errors.Wrapf(taxonomy.ErrMalformedLabel,
					"label pixel (%d, %d) has color (%d, %d, %d), labels must be single-channel",
					rect.Min.X+x, rect.Min.Y+y, r, g, b)
			}
			dst[x] = r
		}
	}
	return label, nil
}

// WriteImage saves img, the format is selected by the file extension (".png" for labels:
// lossy formats corrupt ids).
func WriteImage(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "failed to save image to %q", path)
	}
	return nil
}

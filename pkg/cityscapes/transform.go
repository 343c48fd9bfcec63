// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/pkg/errors"
)

// Augmentation resizes and randomly flips images together with their labels.
//
// Images are resized with Lanczos, labels with nearest neighbor so that ids are never
// interpolated into other (or invalid) ids.
type Augmentation struct {
	// Width and Height to resize to. Resizing is disabled if either is 0.
	Width, Height int

	// FlipRandomly flips image and label horizontally with 50% probability.
	FlipRandomly bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAugmentation creates an Augmentation. If seed is 0, the current time is used.
func NewAugmentation(width, height int, flipRandomly bool, seed int64) *Augmentation {
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	return &Augmentation{
		Width:        width,
		Height:       height,
		FlipRandomly: flipRandomly,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (a *Augmentation) flip() bool {
	if !a.FlipRandomly {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	return a.rng.Intn(2) == 1
}

// Apply implements PairedTransform. It is safe for concurrent use.
//
// Gray and 16-bit gray labels (semantic, instance and depth ids) keep their concrete type and exact
// values. 16-bit color labels are rejected with taxonomy.ErrMalformedLabel, since resizing them
// through 8-bit channels would corrupt them.
func (a *Augmentation) Apply(img, label image.Image) (image.Image, image.Image, error) {
	size := img.Bounds().Size()
	if size != label.Bounds().Size() {
		return nil, nil, errors.Errorf("image size %v and label size %v differ", size, label.Bounds().Size())
	}
	if a.Width > 0 && a.Height > 0 {
		size = image.Pt(a.Width, a.Height)
		img = imaging.Resize(img, a.Width, a.Height, imaging.Lanczos)
	}
	flip := a.flip()
	if flip {
		img = imaging.FlipH(img)
	}
	label, err := nearestLabel(label, size.X, size.Y, flip)
	if err != nil {
		return nil, nil, err
	}
	return img, label, nil
}

// nearestLabel resizes label to width x height with nearest neighbor sampling, and optionally flips
// it horizontally.
func nearestLabel(label image.Image, width, height int, flip bool) (image.Image, error) {
	switch l := label.(type) {
	case *image.Gray:
		dst := image.NewGray(image.Rect(0, 0, width, height))
		remapPixels(dst.Pix, dst.Stride, l.Pix, l.Stride, l.Rect.Size(), 1, flip)
		return dst, nil
	case *image.Gray16:
		dst := image.NewGray16(image.Rect(0, 0, width, height))
		remapPixels(dst.Pix, dst.Stride, l.Pix, l.Stride, l.Rect.Size(), 2, flip)
		return dst, nil
	case *image.RGBA64, *image.NRGBA64:
		return nil, errors.Wrapf(taxonomy.ErrMalformedLabel, "can't transform 16-bit color label %T", label)
	}
	if label.Bounds().Size() != image.Pt(width, height) {
		label = imaging.Resize(label, width, height, imaging.NearestNeighbor)
	}
	if flip {
		label = imaging.FlipH(label)
	}
	return label, nil
}

// remapPixels fills dst, of size given by its stride and length, sampling the nearest src pixel.
// Each pixel has bpp bytes.
func remapPixels(dst []uint8, dstStride int, src []uint8, srcStride int, srcSize image.Point, bpp int, flip bool) {
	if dstStride == 0 {
		return
	}
	width, height := dstStride/bpp, len(dst)/dstStride
	for y := range height {
		sy := (2*y + 1) * srcSize.Y / (2 * height)
		for x := range width {
			sx := (2*x + 1) * srcSize.X / (2 * width)
			if flip {
				sx = srcSize.X - 1 - sx
			}
			copy(dst[y*dstStride+x*bpp:y*dstStride+(x+1)*bpp], src[sy*srcStride+sx*bpp:])
		}
	}
}

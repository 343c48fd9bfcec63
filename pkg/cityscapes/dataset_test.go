// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureWidth, fixtureHeight = 2, 2

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func grayImage(pix ...uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fixtureWidth, fixtureHeight))
	copy(img.Pix, pix)
	return img
}

func rgbImage(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fixtureWidth, fixtureHeight))
	for y := range fixtureHeight {
		for x := range fixtureWidth {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// createFixture creates a dataset with:
//
//   - city "aachen" with 2 images and their labels (plus a stray non-image file);
//   - city "bonn" with 1 image but no labels directory.
func createFixture(t *testing.T) (root string) {
	t.Helper()
	root = t.TempDir()
	images := filepath.Join(root, ImagesDir, "train")
	labels := filepath.Join(root, ModeFine, "train")
	writePNG(t, filepath.Join(images, "aachen", "aachen_000001_leftImg8bit.png"), rgbImage(color.NRGBA{R: 10, A: 0xFF}))
	writePNG(t, filepath.Join(images, "aachen", "aachen_000002_leftImg8bit.png"), rgbImage(color.NRGBA{G: 20, A: 0xFF}))
	require.NoError(t, os.WriteFile(filepath.Join(images, "aachen", "notes.txt"), []byte("not an image"), 0644))
	writePNG(t, filepath.Join(images, "bonn", "bonn_000001_leftImg8bit.png"), rgbImage(color.NRGBA{B: 30, A: 0xFF}))

	writePNG(t, filepath.Join(labels, "aachen", "aachen_000001_gtFine_labelIds.png"), grayImage(0, 1, 18, taxonomy.IgnoreID))
	writePNG(t, filepath.Join(labels, "aachen", "aachen_000002_gtFine_labelIds.png"), grayImage(19, 19, 2, 3))
	return
}

func findEntry(t *testing.T, ds *Dataset, suffix string) int {
	t.Helper()
	for ii, entry := range ds.Entries() {
		if strings.HasSuffix(entry.ImagePath, suffix) {
			return ii
		}
	}
	t.Fatalf("no entry with image %q", suffix)
	return -1
}

func TestNewInvalidSplit(t *testing.T) {
	root := createFixture(t)
	_, err := New(root).Split("bogus").Done()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSplit))

	_, err = ParseSplit("bogus")
	assert.True(t, errors.Is(err, ErrInvalidSplit))
	split, err := ParseSplit("val")
	require.NoError(t, err)
	assert.Equal(t, Val, split)
}

func TestNewDatasetNotFound(t *testing.T) {
	root := createFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, ImagesDir)))
	_, err := New(root).Done()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatasetNotFound))

	root = createFixture(t)
	_, err = New(root).Mode(ModeCoarse).Done()
	assert.True(t, errors.Is(err, ErrDatasetNotFound), "missing gtCoarse directory")

	_, err = New(root).Split(Val).Done()
	assert.True(t, errors.Is(err, ErrDatasetNotFound), "missing val split")
}

func TestNewInvalidConfig(t *testing.T) {
	root := createFixture(t)
	_, err := New(root).Target(TargetType(42)).Done()
	assert.True(t, errors.Is(err, ErrInvalidTargetType))

	_, err = ParseTargetType("lidar")
	assert.True(t, errors.Is(err, ErrInvalidTargetType))

	_, err = New(root).Mode("").Done()
	assert.True(t, errors.Is(err, ErrInvalidMode))
}

func TestIndex(t *testing.T) {
	root := createFixture(t)
	ds, err := New(root).Done()
	require.NoError(t, err)

	// The "bonn" image has no labels directory, so it is not indexed.
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"aachen"}, ds.Cities())
	assert.Equal(t, "Cityscapes gtFine/train (semantic)", ds.Name())
	assert.Same(t, taxonomy.Default(), ds.Taxonomy())

	idx := findEntry(t, ds, "aachen_000002_leftImg8bit.png")
	entry, err := ds.Entry(idx)
	require.NoError(t, err)
	assert.Equal(t, "aachen", entry.City)
	assert.Equal(t, filepath.Join(root, ImagesDir, "train", "aachen", "aachen_000002_leftImg8bit.png"), entry.ImagePath)
	assert.Equal(t, filepath.Join(root, ModeFine, "train", "aachen", "aachen_000002_gtFine_labelIds.png"), entry.LabelPath)

	// Entries returns a copy.
	entries := ds.Entries()
	entries[0].City = "changed"
	e0, _ := ds.Entry(0)
	assert.Equal(t, "aachen", e0.City)
}

func TestTargetSuffixes(t *testing.T) {
	root := createFixture(t)
	want := map[TargetType]string{
		Semantic: "aachen_000001_gtFine_labelIds.png",
		Instance: "aachen_000001_gtFine_instanceIds.png",
		Color:    "aachen_000001_gtFine_color.png",
		Polygon:  "aachen_000001_gtFine_polygons.json",
		Depth:    "aachen_000001_gtFine_disparity.png",
	}
	for _, target := range TargetTypes {
		t.Run(target.String(), func(t *testing.T) {
			ds, err := New(root).Target(target).Done()
			require.NoError(t, err)
			entry, err := ds.Entry(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
			require.NoError(t, err)
			assert.Equal(t, want[target], filepath.Base(entry.LabelPath))

			parsed, err := ParseTargetType(target.String())
			require.NoError(t, err)
			assert.Equal(t, target, parsed)
		})
	}
}

func TestGet(t *testing.T) {
	root := createFixture(t)
	ds, err := New(root).Done()
	require.NoError(t, err)

	ex, err := ds.Get(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
	require.NoError(t, err)
	require.IsType(t, &image.NRGBA{}, ex.Image)
	assert.Equal(t, color.NRGBA{R: 10, A: 0xFF}, ex.Image.(*image.NRGBA).NRGBAAt(1, 1))
	require.IsType(t, &image.Gray{}, ex.Label)
	assert.Equal(t, []uint8{0, 1, 18, taxonomy.IgnoreID}, ex.Label.(*image.Gray).Pix)

	_, err = ds.Get(ds.Len())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = ds.Get(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestGetMalformedLabel(t *testing.T) {
	root := createFixture(t)
	writePNG(t, filepath.Join(root, ModeFine, "train", "aachen", "aachen_000002_gtFine_labelIds.png"), grayImage(0, 77, 0, 0))
	ds, err := New(root).Done()
	require.NoError(t, err)
	_, err = ds.Get(findEntry(t, ds, "aachen_000002_leftImg8bit.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxonomy.ErrMalformedLabel))
}

func TestGetMissingLabel(t *testing.T) {
	root := createFixture(t)
	missing := filepath.Join(root, ModeFine, "train", "aachen", "aachen_000002_gtFine_labelIds.png")
	require.NoError(t, os.Remove(missing))
	ds, err := New(root).Done()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len(), "label files are not checked while indexing")

	_, err = ds.Get(findEntry(t, ds, "aachen_000002_leftImg8bit.png"))
	require.Error(t, err)

	entries, err := ds.MissingLabels()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, missing, entries[0].LabelPath)
}

func TestGetWithTransform(t *testing.T) {
	root := createFixture(t)
	flipBoth := func(img, label image.Image) (image.Image, image.Image, error) {
		return imaging.FlipH(img), imaging.FlipH(label), nil
	}
	ds, err := New(root).Transform(flipBoth).Done()
	require.NoError(t, err)
	ex, err := ds.Get(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
	require.NoError(t, err)
	// Raw 0, 1 / 18, 255 flipped horizontally, then encoded.
	assert.Equal(t, []uint8{1, 0, taxonomy.IgnoreID, 18}, ex.Label.(*image.Gray).Pix)

	failing := func(img, label image.Image) (image.Image, image.Image, error) {
		return nil, nil, errors.New("boom")
	}
	ds, err = New(root).Transform(failing).Done()
	require.NoError(t, err)
	_, err = ds.Get(0)
	require.ErrorContains(t, err, "boom")
}

func TestGetWithAugmentation(t *testing.T) {
	root := createFixture(t)
	aug := NewAugmentation(4, 6, true, 42)
	ds, err := New(root).Transform(aug.Apply).Done()
	require.NoError(t, err)
	for range 5 {
		ex, err := ds.Get(findEntry(t, ds, "aachen_000002_leftImg8bit.png"))
		require.NoError(t, err)
		assert.Equal(t, image.Pt(4, 6), ex.Image.Bounds().Size())
		label := ex.Label.(*image.Gray)
		assert.Equal(t, image.Pt(4, 6), label.Bounds().Size())
		for _, v := range label.Pix {
			assert.Contains(t, []uint8{19, 2, 3}, v, "nearest neighbor resizing must only produce original ids")
		}
	}
}

func TestGetInstanceWithAugmentation(t *testing.T) {
	root := createFixture(t)
	instances := image.NewGray16(image.Rect(0, 0, fixtureWidth, fixtureHeight))
	ids := []uint16{26001, 26002, 7, 0xFFFF}
	for ii, id := range ids {
		instances.SetGray16(ii%fixtureWidth, ii/fixtureWidth, color.Gray16{Y: id})
	}
	writePNG(t, filepath.Join(root, ModeFine, "train", "aachen", "aachen_000001_gtFine_instanceIds.png"), instances)

	ds, err := New(root).Target(Instance).Transform(NewAugmentation(2, 2, false, 1).Apply).Done()
	require.NoError(t, err)
	ex, err := ds.Get(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
	require.NoError(t, err)
	label, ok := ex.Label.(*image.Gray16)
	require.Truef(t, ok, "instance label should stay 16 bits, got %T", ex.Label)
	assert.Equal(t, uint16(26001), label.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(0xFFFF), label.Gray16At(1, 1).Y)

	ds, err = New(root).Target(Instance).Transform(NewAugmentation(4, 6, true, 7).Apply).Done()
	require.NoError(t, err)
	for range 5 {
		ex, err = ds.Get(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
		require.NoError(t, err)
		label = ex.Label.(*image.Gray16)
		require.Equal(t, image.Pt(4, 6), label.Bounds().Size())
		for y := range 6 {
			for x := range 4 {
				assert.Contains(t, ids, label.Gray16At(x, y).Y)
			}
		}
	}
}

func TestNearestLabel(t *testing.T) {
	label := image.NewGray16(image.Rect(0, 0, 2, 1))
	label.SetGray16(0, 0, color.Gray16{Y: 1000})
	label.SetGray16(1, 0, color.Gray16{Y: 2000})

	resized, err := nearestLabel(label, 4, 2, false)
	require.NoError(t, err)
	got := resized.(*image.Gray16)
	for y := range 2 {
		assert.Equal(t, []uint16{1000, 1000, 2000, 2000}, []uint16{
			got.Gray16At(0, y).Y, got.Gray16At(1, y).Y, got.Gray16At(2, y).Y, got.Gray16At(3, y).Y})
	}

	flipped, err := nearestLabel(label, 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(2000), flipped.(*image.Gray16).Gray16At(0, 0).Y)
	assert.Equal(t, uint16(1000), flipped.(*image.Gray16).Gray16At(1, 0).Y)

	sub := grayImage(1, 2, 3, 4).SubImage(image.Rect(0, 1, 2, 2))
	flippedGray, err := nearestLabel(sub, 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 3}, flippedGray.(*image.Gray).Pix)

	_, err = nearestLabel(image.NewRGBA64(image.Rect(0, 0, 2, 1)), 2, 1, false)
	assert.True(t, errors.Is(err, taxonomy.ErrMalformedLabel))
}

func TestParseTargetType(t *testing.T) {
	for _, name := range []string{"semantic", "instance", "color", "polygon", "depth"} {
		target, err := ParseTargetType(name)
		require.NoError(t, err)
		assert.Equal(t, name, target.String())
		assert.True(t, target.Valid())
	}
	assert.False(t, TargetType(42).Valid())
	assert.Equal(t, "TargetType(42)", TargetType(42).String())

	var target TargetType
	require.NoError(t, json.Unmarshal([]byte(`"depth"`), &target))
	assert.Equal(t, Depth, target)
	_, err := ParseTargetType("lidar")
	assert.True(t, errors.Is(err, ErrInvalidTargetType))
}

func TestGetOtherTargets(t *testing.T) {
	root := createFixture(t)
	colorLabel := rgbImage(color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xFF})
	writePNG(t, filepath.Join(root, ModeFine, "train", "aachen", "aachen_000001_gtFine_color.png"), colorLabel)
	ds, err := New(root).Target(Color).Done()
	require.NoError(t, err)
	ex, err := ds.Get(findEntry(t, ds, "aachen_000001_leftImg8bit.png"))
	require.NoError(t, err)
	r, g, b, _ := ex.Label.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0x2c, 0xa0, 0x2c}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestPolygons(t *testing.T) {
	root := createFixture(t)
	jsonPath := filepath.Join(root, ModeFine, "train", "aachen", "aachen_000001_gtFine_polygons.json")
	contents := `{"imgHeight": 2, "imgWidth": 2, "objects": [{"label": "asphalt", "polygon": [[0, 0], [1, 0], [1, 1.5]]}]}`
	require.NoError(t, os.WriteFile(jsonPath, []byte(contents), 0644))

	ds, err := New(root).Target(Polygon).Done()
	require.NoError(t, err)
	idx := findEntry(t, ds, "aachen_000001_leftImg8bit.png")
	polygons, err := ds.Polygons(idx)
	require.NoError(t, err)
	assert.Equal(t, 2, polygons.ImgHeight)
	require.Len(t, polygons.Objects, 1)
	assert.Equal(t, "asphalt", polygons.Objects[0].Label)
	assert.Equal(t, [][2]float64{{0, 0}, {1, 0}, {1, 1.5}}, polygons.Objects[0].Polygon)

	_, err = ds.Get(idx)
	assert.True(t, errors.Is(err, ErrUnsupportedTarget))

	semantic, err := New(root).Done()
	require.NoError(t, err)
	_, err = semantic.Polygons(0)
	assert.True(t, errors.Is(err, ErrUnsupportedTarget))
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package cityscapes indexes a segmentation dataset stored in the Cityscapes directory layout
// and serves (image, label) examples, with labels converted to train ids by a taxonomy.Table.
//
// The expected layout is:
//
//	root/
//	  leftImg8bit/<split>/<city>/<name>_leftImg8bit.png
//	  <mode>/<split>/<city>/<name>_<mode>_<targetSuffix>
//
// Usage example:
//
//	ds, err := cityscapes.New("~/data/mcubes").Split(cityscapes.Val).Done()
//	if err != nil { ... }
//	for ii := range ds.Len() {
//		example, err := ds.Get(ii)
//		...
//	}
package cityscapes

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gomlx/cityscapes/pkg/support/fsutil"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// ImagesDir is the top-level directory of the input images.
	ImagesDir = "leftImg8bit"

	// ImageSuffix is the suffix of every input image file name.
	ImageSuffix = "_leftImg8bit.png"
)

// Entry pairs an input image with its label file.
type Entry struct {
	City      string
	ImagePath string
	LabelPath string
}

// Example is one loaded entry of the Dataset.
type Example struct {
	Image image.Image

	// Label for the Semantic target is a *image.Gray with train ids. For other target types it
	// is the label image as decoded from disk (after the optional transform).
	Label image.Image
}

// PairedTransform is applied jointly to an image and its raw label, before the label is encoded.
// It must keep both aligned: any geometric change to the image must be applied to the label.
type PairedTransform func(img, label image.Image) (image.Image, image.Image, error)

// Config for a Dataset. Create it with New, configure it with its methods and build the
// Dataset with Done.
type Config struct {
	root      string
	split     Split
	mode      string
	target    TargetType
	taxonomy  *taxonomy.Table
	transform PairedTransform
}

// New starts the configuration of a Dataset rooted at root. A leading "~" in root is replaced by
// the user's home directory.
//
// Defaults: split Train, mode ModeFine, target Semantic and the taxonomy.Default() classes.
func New(root string) *Config {
	return &Config{
		root:   root,
		split:  Train,
		mode:   ModeFine,
		target: Semantic,
	}
}

// Split selects the split to index. Validated in Done.
func (c *Config) Split(split Split) *Config {
	c.split = split
	return c
}

// Mode selects the label set variant, which is also the name of its top-level directory
// (e.g.: ModeFine, ModeCoarse).
func (c *Config) Mode(mode string) *Config {
	c.mode = mode
	return c
}

// Target selects the type of label file paired with each image.
func (c *Config) Target(target TargetType) *Config {
	c.target = target
	return c
}

// Taxonomy sets the classes used to encode the labels. Default is taxonomy.Default().
func (c *Config) Taxonomy(t *taxonomy.Table) *Config {
	c.taxonomy = t
	return c
}

// Transform sets a transformation applied to each image and label by Dataset.Get.
func (c *Config) Transform(fn PairedTransform) *Config {
	c.transform = fn
	return c
}

// Done validates the configuration and scans the directories, returning the indexed Dataset.
//
// It fails with ErrInvalidSplit, ErrInvalidMode, ErrInvalidTargetType or ErrDatasetNotFound;
// no partial Dataset is ever returned.
func (c *Config) Done() (*Dataset, error) {
	if !c.split.Valid() {
		return nil, errors.Wrapf(ErrInvalidSplit, "split %q: use %q, %q or %q", c.split, Train, Val, Test)
	}
	if strings.TrimSpace(c.mode) == "" || strings.ContainsRune(c.mode, filepath.Separator) {
		return nil, errors.Wrapf(ErrInvalidMode, "mode %q must be a plain directory name (e.g. %q)", c.mode, ModeFine)
	}
	labelSuffix, err := c.target.Suffix(c.mode)
	if err != nil {
		return nil, err
	}
	root, err := fsutil.ReplaceTildeInDir(c.root)
	if err != nil {
		return nil, err
	}
	tbl := c.taxonomy
	if tbl == nil {
		tbl = taxonomy.Default()
	}

	ds := &Dataset{
		root:        root,
		split:       c.split,
		mode:        c.mode,
		target:      c.target,
		taxonomy:    tbl,
		transform:   c.transform,
		imagesDir:   filepath.Join(root, ImagesDir, string(c.split)),
		targetsDir:  filepath.Join(root, c.mode, string(c.split)),
		labelSuffix: labelSuffix,
	}
	for _, dir := range []string{ds.imagesDir, ds.targetsDir} {
		isDir, err := fsutil.IsDir(dir)
		if err != nil {
			return nil, err
		}
		if !isDir {
			return nil, errors.Wrapf(ErrDatasetNotFound,
				"directory %q missing: make sure all required folders for split %q and mode %q are inside %q",
				dir, ds.split, ds.mode, root)
		}
	}
	if err = ds.scan(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Dataset is an index of the (image, label) file pairs of one split.
//
// The index is built once by Config.Done and never changes, so Dataset can be read concurrently,
// as long as the configured PairedTransform is safe for concurrent use.
type Dataset struct {
	root, mode            string
	split                 Split
	target                TargetType
	taxonomy              *taxonomy.Table
	transform             PairedTransform
	imagesDir, targetsDir string
	labelSuffix           string

	entries []Entry
	cities  []string
}

// scan lists the cities present both under imagesDir and targetsDir, and pairs each image
// with its label file name. Order is the directory listing order.
func (ds *Dataset) scan() error {
	cities, err := fsutil.SubDirs(ds.imagesDir)
	if err != nil {
		return err
	}
	for _, city := range cities {
		imgDir := filepath.Join(ds.imagesDir, city)
		targetDir := filepath.Join(ds.targetsDir, city)
		isDir, err := fsutil.IsDir(targetDir)
		if err != nil {
			return err
		}
		if !isDir {
			klog.Warningf("cityscapes: skipping city %q, no labels directory %q", city, targetDir)
			continue
		}
		names, err := listFiles(imgDir)
		if err != nil {
			return err
		}
		count := 0
		for _, name := range names {
			stem, found := strings.CutSuffix(name, ImageSuffix)
			if !found {
				klog.V(2).Infof("cityscapes: ignoring %q, not a %q image", filepath.Join(imgDir, name), ImageSuffix)
				continue
			}
			ds.entries = append(ds.entries, Entry{
				City:      city,
				ImagePath: filepath.Join(imgDir, name),
				LabelPath: filepath.Join(targetDir, stem+"_"+ds.labelSuffix),
			})
			count++
		}
		if count > 0 {
			ds.cities = append(ds.cities, city)
		}
		klog.V(1).Infof("cityscapes: %s/%s city %q has %d examples", ds.mode, ds.split, city, count)
	}
	return nil
}

// Name returns a description of the dataset.
func (ds *Dataset) Name() string {
	return fmt.Sprintf("Cityscapes %s/%s (%s)", ds.mode, ds.split, ds.target)
}

// Root directory of the dataset, with "~" expanded.
func (ds *Dataset) Root() string { return ds.root }

// Split of the dataset.
func (ds *Dataset) Split() Split { return ds.split }

// Mode (label set variant) of the dataset.
func (ds *Dataset) Mode() string { return ds.mode }

// Target type of the labels.
func (ds *Dataset) Target() TargetType { return ds.target }

// Taxonomy used to encode labels.
func (ds *Dataset) Taxonomy() *taxonomy.Table { return ds.taxonomy }

// Len returns the number of indexed examples.
func (ds *Dataset) Len() int { return len(ds.entries) }

// Cities returns the cities with at least one indexed example, in scan order.
func (ds *Dataset) Cities() []string {
	return append([]string(nil), ds.cities...)
}

// Entries returns a copy of all indexed entries, in index order.
func (ds *Dataset) Entries() []Entry {
	return append([]Entry(nil), ds.entries...)
}

// Entry returns the file paths of the example at index.
func (ds *Dataset) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(ds.entries) {
		return Entry{}, errors.Wrapf(ErrIndexOutOfRange, "index %d, dataset %q has %d examples",
			index, ds.Name(), len(ds.entries))
	}
	return ds.entries[index], nil
}

// Get loads the image and label of the example at index, applies the configured PairedTransform
// and, for the Semantic target, encodes the label into train ids.
//
// Polygon targets are not images: use Polygons instead.
func (ds *Dataset) Get(index int) (ex Example, err error) {
	entry, err := ds.Entry(index)
	if err != nil {
		return
	}
	if ds.target == Polygon {
		err = errors.Wrapf(ErrUnsupportedTarget, "Get() of example %d: %s labels are not images, use Polygons()",
			index, ds.target)
		return
	}
	var img, label image.Image
	img, err = ReadImage(entry.ImagePath)
	if err != nil {
		return
	}
	if ds.target == Semantic {
		label, err = ReadLabel(entry.LabelPath)
	} else {
		label, err = readAnyImage(entry.LabelPath)
	}
	if err != nil {
		return
	}
	if ds.transform != nil {
		img, label, err = ds.transform(img, label)
		if err != nil {
			err = errors.WithMessagef(err, "transform of example %d (%q)", index, entry.ImagePath)
			return
		}
	}
	if ds.target == Semantic {
		var raw *image.Gray
		raw, err = ToLabel(label)
		if err != nil {
			err = errors.WithMessagef(err, "label of example %d (%q)", index, entry.LabelPath)
			return
		}
		label, err = ds.taxonomy.EncodeImage(raw)
		if err != nil {
			err = errors.WithMessagef(err, "failed to encode label %q", entry.LabelPath)
			return
		}
	}
	ex = Example{Image: img, Label: label}
	return
}

// MissingLabels returns the entries whose label file doesn't exist. Indexing only derives the
// label file names, it doesn't check for them.
func (ds *Dataset) MissingLabels() ([]Entry, error) {
	var missing []Entry
	for _, entry := range ds.entries {
		exists, err := fsutil.FileExists(entry.LabelPath)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, entry)
		}
	}
	return missing, nil
}

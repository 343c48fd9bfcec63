// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package layout converts a flat segmentation dataset (one directory of images, one of labels and
// per-split lists of names) into the Cityscapes layout read by package cityscapes.
//
// It is a one-shot offline migration: there is no resume, and the first failure aborts the run.
package layout

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/cityscapes/pkg/cityscapes"
	"github.com/gomlx/cityscapes/pkg/support/fsutil"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Config of a conversion. Start from DefaultConfig.
type Config struct {
	// SourceRoot holds ImagesSubdir, LabelsSubdir and ListsSubdir.
	SourceRoot string

	// ImagesSubdir and LabelsSubdir hold "<name>.png" files.
	ImagesSubdir, LabelsSubdir string

	// ListsSubdir holds one "<split>.txt" per split, with one name per line.
	ListsSubdir string

	// DestRoot is the root of the Cityscapes layout to create.
	DestRoot string

	// Mode is the name of the labels directory, e.g. cityscapes.ModeFine.
	Mode string

	// Splits to convert.
	Splits []cityscapes.Split

	// ShowProgress displays a progress bar per split.
	ShowProgress bool
}

// DefaultConfig returns the configuration for the multimodal material dataset layout.
func DefaultConfig(sourceRoot, destRoot string) Config {
	return Config{
		SourceRoot:   sourceRoot,
		ImagesSubdir: "polL_color",
		LabelsSubdir: "GT",
		ListsSubdir:  "list_folder",
		DestRoot:     destRoot,
		Mode:         cityscapes.ModeFine,
		Splits:       cityscapes.Splits,
	}
}

// City returns the grouping token of an entry name: the text before its first "_".
func City(name string) string {
	city, _, _ := strings.Cut(name, "_")
	return city
}

// ReadList reads the entry names of a list file, skipping blank lines.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open list %q", path)
	}
	defer func() { _ = f.Close() }()
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read list %q", path)
	}
	return names, nil
}

// Convert copies every listed image and label into the Cityscapes layout:
//
//	<images>/<name>.png -> DestRoot/leftImg8bit/<split>/<city>/<name>_leftImg8bit.png
//	<labels>/<name>.png -> DestRoot/<mode>/<split>/<city>/<name>_<mode>_labelIds.png
//
// It returns the number of examples converted per split. Existing files are overwritten.
func Convert(cfg Config) (map[cityscapes.Split]int, error) {
	if cfg.Mode == "" {
		return nil, errors.Wrap(cityscapes.ErrInvalidMode, "conversion requires a mode")
	}
	srcRoot, err := fsutil.ReplaceTildeInDir(cfg.SourceRoot)
	if err != nil {
		return nil, err
	}
	destRoot, err := fsutil.ReplaceTildeInDir(cfg.DestRoot)
	if err != nil {
		return nil, err
	}
	labelSuffix, err := cityscapes.Semantic.Suffix(cfg.Mode)
	if err != nil {
		return nil, err
	}
	imagesDir := filepath.Join(srcRoot, cfg.ImagesSubdir)
	labelsDir := filepath.Join(srcRoot, cfg.LabelsSubdir)
	listsDir := filepath.Join(srcRoot, cfg.ListsSubdir)

	counts := make(map[cityscapes.Split]int, len(cfg.Splits))
	for _, split := range cfg.Splits {
		if !split.Valid() {
			return nil, errors.Wrapf(cityscapes.ErrInvalidSplit, "split %q", split)
		}
		names, err := ReadList(filepath.Join(listsDir, string(split)+".txt"))
		if err != nil {
			return nil, err
		}
		// Split directories exist even if the list is empty, so the split can be indexed.
		for _, dir := range []string{cityscapes.ImagesDir, cfg.Mode} {
			if err = os.MkdirAll(filepath.Join(destRoot, dir, string(split)), 0755); err != nil {
				return nil, errors.Wrapf(err, "failed to create %q directories", split)
			}
		}
		var bar *progressbar.ProgressBar
		if cfg.ShowProgress {
			bar = progressbar.NewOptions(len(names),
				progressbar.OptionSetDescription(string(split)),
				progressbar.OptionUseANSICodes(true),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("examples"),
				progressbar.OptionSetTheme(progressbar.ThemeUnicode),
			)
		}
		for _, name := range names {
			city := City(name)
			imgDst := filepath.Join(destRoot, cityscapes.ImagesDir, string(split), city, name+cityscapes.ImageSuffix)
			labelDst := filepath.Join(destRoot, cfg.Mode, string(split), city, name+"_"+labelSuffix)
			if err = fsutil.CopyFile(filepath.Join(imagesDir, name+".png"), imgDst); err != nil {
				return nil, errors.WithMessagef(err, "split %q, entry %q", split, name)
			}
			if err = fsutil.CopyFile(filepath.Join(labelsDir, name+".png"), labelDst); err != nil {
				return nil, errors.WithMessagef(err, "split %q, entry %q", split, name)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Close()
		}
		counts[split] = len(names)
		klog.V(1).Infof("layout: converted %d examples of split %q into %q", len(names), split, destRoot)
	}
	return counts, nil
}

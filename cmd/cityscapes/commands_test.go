// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/cityscapes/pkg/cityscapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.png")
	raw := image.NewGray(image.Rect(0, 0, 2, 1))
	raw.Pix = []uint8{0, 255}
	require.NoError(t, cityscapes.WriteImage(rawPath, raw))

	trainPath := filepath.Join(dir, "train.png")
	runEncode([]string{"-in", rawPath, "-out", trainPath})
	encoded, err := cityscapes.ReadLabel(trainPath)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255}, encoded.Pix)

	colorPath := filepath.Join(dir, "color.png")
	runDecode([]string{"-in", trainPath, "-out", colorPath})
	decoded, err := cityscapes.ReadImage(colorPath)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xFF}, decoded.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{A: 0xFF}, decoded.NRGBAAt(1, 0))
}

func TestEncodeMissingFlags(t *testing.T) {
	require.Panics(t, func() { runEncode(nil) })
}

func TestConvertAndIndex(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	for _, dir := range []string{"polL_color", "GT", "list_folder"} {
		require.NoError(t, os.MkdirAll(filepath.Join(src, dir), 0755))
	}
	require.NoError(t, cityscapes.WriteImage(filepath.Join(src, "polL_color", "scene_1.png"), img))
	require.NoError(t, cityscapes.WriteImage(filepath.Join(src, "GT", "scene_1.png"), img))
	for _, split := range cityscapes.Splits {
		require.NoError(t, os.WriteFile(filepath.Join(src, "list_folder", string(split)+".txt"), []byte("scene_1\n"), 0644))
	}
	runConvert([]string{"-src", src, "-dst", dst, "-progress=false"})

	labelPath := filepath.Join(dst, "gtFine", "val", "scene", "scene_1_gtFine_labelIds.png")
	_, err := os.Stat(labelPath)
	require.NoError(t, err)
	require.NotPanics(t, func() { runIndex([]string{"-root", dst, "-split", "val", "-verify"}) })

	require.NoError(t, os.Remove(labelPath))
	require.Panics(t, func() { runIndex([]string{"-root", dst, "-split", "val", "-verify"}) })
}

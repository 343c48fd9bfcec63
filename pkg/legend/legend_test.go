// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package legend

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestPlot(t *testing.T) {
	p, err := Plot(taxonomy.Default())
	require.NoError(t, err)
	assert.Equal(t, float64(taxonomy.Default().NumClasses()), p.Y.Max)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legend.png")
	require.NoError(t, Save(taxonomy.Default(), path, 0, 0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
	assert.Greater(t, cfg.Height, cfg.Width, "default legend is taller than wide")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(taxonomy.Default(), &buf, "svg", 3*vg.Inch, 5*vg.Inch))
	svg := buf.String()
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "asphalt")

	require.Error(t, Write(taxonomy.Default(), &buf, "bogus-format", 0, 0))
}

func TestTerminal(t *testing.T) {
	out := Terminal(taxonomy.Default())
	for _, want := range []string{"asphalt", "human body", "background", "#2ca02c", "255 (ignore)", "void (0)"} {
		assert.Contains(t, out, want)
	}
}

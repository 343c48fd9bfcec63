// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package legend renders the color legend of a taxonomy: as a chart (PNG, SVG, PDF, ...) with
// gonum/plot, or as a colored table for the terminal with lipgloss.
package legend

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultWidth and DefaultHeight of the legend chart.
var (
	DefaultWidth  = 4 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Plot creates a chart with one color swatch per training class, in taxonomy order from the
// bottom up, each followed by the class name.
func Plot(t *taxonomy.Table) (*plot.Plot, error) {
	classes := t.TrainClasses()
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 3
	p.Y.Min, p.Y.Max = 0, float64(len(classes))

	labelXYs := make(plotter.XYs, len(classes))
	names := make([]string, len(classes))
	for ii, c := range classes {
		y := float64(ii)
		swatch, err := plotter.NewPolygon(plotter.XYs{{X: 0, Y: y}, {X: 1, Y: y}, {X: 1, Y: y + 1}, {X: 0, Y: y + 1}})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create swatch for class %q", c.Name)
		}
		swatch.Color = c.Color
		swatch.LineStyle.Width = 0
		p.Add(swatch)
		labelXYs[ii] = plotter.XY{X: 1.2, Y: y + 0.5}
		names[ii] = c.Name
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: names})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create legend labels")
	}
	for ii := range labels.TextStyle {
		labels.TextStyle[ii].YAlign = draw.YCenter
	}
	p.Add(labels)
	return p, nil
}

// Save renders the legend chart to path, the format is taken from the file extension
// (".png", ".svg", ".pdf", ...). Zero width or height use DefaultWidth/DefaultHeight.
func Save(t *taxonomy.Table, path string, width, height vg.Length) error {
	p, err := Plot(t)
	if err != nil {
		return err
	}
	width, height = defaultSize(width, height)
	if err = p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save legend to %q", path)
	}
	return nil
}

// Write renders the legend chart in the given format ("png", "svg", ...) to w.
func Write(t *taxonomy.Table, w io.Writer, format string, width, height vg.Length) error {
	p, err := Plot(t)
	if err != nil {
		return err
	}
	width, height = defaultSize(width, height)
	writerTo, err := p.WriterTo(width, height, format)
	if err != nil {
		return errors.Wrapf(err, "failed to render legend as %q", format)
	}
	_, err = writerTo.WriteTo(w)
	return errors.Wrap(err, "failed to write legend")
}

func defaultSize(width, height vg.Length) (vg.Length, vg.Length) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
)

// Swatch returns a terminal block painted with the color of the class.
func Swatch(c taxonomy.Class) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
}

// Terminal renders the full taxonomy (including ignored classes) as a table for the terminal.
func Terminal(t *taxonomy.Table) string {
	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("Color", "ID", "Train ID", "Name", "Category", "Hex").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			if col == 1 || col == 2 {
				return numericStyle
			}
			return cellStyle
		})
	for _, c := range t.Classes() {
		trainID := strconv.Itoa(c.TrainID)
		if c.Ignored() {
			trainID += " (ignore)"
		}
		table.Row(Swatch(c), strconv.Itoa(c.ID), trainID, c.Name,
			fmt.Sprintf("%s (%d)", c.Category, c.CategoryID), c.Hex())
	}
	return table.Render()
}

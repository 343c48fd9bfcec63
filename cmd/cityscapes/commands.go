// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/cityscapes/internal/layout"
	"github.com/gomlx/cityscapes/pkg/cityscapes"
	"github.com/gomlx/cityscapes/pkg/legend"
	"github.com/gomlx/cityscapes/pkg/taxonomy"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

	headerRowStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).PaddingLeft(1).PaddingRight(1)
	evenRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).PaddingLeft(1).PaddingRight(1)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			switch {
			case row == lgtable.HeaderRow:
				return headerRowStyle
			case row%2 == 0:
				s = evenRowStyle
			default:
				s = oddRowStyle
			}
			if col == 0 {
				return s.Align(lipgloss.Left)
			}
			return s.Align(lipgloss.Right)
		})
}

// datasetFlags are the flags shared by commands that open a dataset.
type datasetFlags struct {
	root, split, mode, target *string
}

func addDatasetFlags(fs *flag.FlagSet) datasetFlags {
	return datasetFlags{
		root:   fs.String("root", "~/data/cityscapes", "Root directory of the dataset."),
		split:  fs.String("split", string(cityscapes.Train), "Split to index: train, val or test."),
		mode:   fs.String("mode", cityscapes.ModeFine, "Label set variant, e.g. gtFine or gtCoarse."),
		target: fs.String("target", cityscapes.Semantic.String(), "Target type: semantic, instance, color, polygon or depth."),
	}
}

func (f datasetFlags) open() *cityscapes.Dataset {
	split := must.M1(cityscapes.ParseSplit(*f.split))
	target := must.M1(cityscapes.ParseTargetType(*f.target))
	return must.M1(cityscapes.New(*f.root).Split(split).Mode(*f.mode).Target(target).Done())
}

func runIndex(args []string) {
	fs := newFlagSet("index")
	dsFlags := addDatasetFlags(fs)
	verify := fs.Bool("verify", false, "Check that every label file exists, and list the missing ones.")
	list := fs.Bool("list", false, "Print every image/label pair.")
	must.M(fs.Parse(args))

	ds := dsFlags.open()
	fmt.Println(titleStyle.Render(ds.Name()))

	perCity := make(map[string]int)
	for _, entry := range ds.Entries() {
		perCity[entry.City]++
		if *list {
			fmt.Printf("%s\t%s\n", entry.ImagePath, entry.LabelPath)
		}
	}
	table := newPlainTable().Headers("City", "Examples")
	for _, city := range ds.Cities() {
		table.Row(city, humanize.Comma(int64(perCity[city])))
	}
	table.Row("total", humanize.Comma(int64(ds.Len())))
	fmt.Println(table.Render())

	if *verify {
		missing := must.M1(ds.MissingLabels())
		for _, entry := range missing {
			fmt.Printf("missing label: %s (image %s)\n", entry.LabelPath, entry.ImagePath)
		}
		if len(missing) > 0 {
			must.M(errors.Errorf("%s of %s label files are missing",
				humanize.Comma(int64(len(missing))), humanize.Comma(int64(ds.Len()))))
		}
		klog.Infof("All %s label files present.", humanize.Comma(int64(ds.Len())))
	}
}

func runClasses(args []string) {
	fs := newFlagSet("classes")
	format := fs.String("format", "table", "Output format: table, yaml or json.")
	must.M(fs.Parse(args))

	tbl := taxonomy.Default()
	switch strings.ToLower(*format) {
	case "table":
		fmt.Println(legend.Terminal(tbl))
	case "yaml":
		must.M(tbl.WriteYAML(os.Stdout))
	case "json":
		must.M(tbl.WriteJSON(os.Stdout))
	default:
		must.M(errors.Errorf("unknown -format=%q, use table, yaml or json", *format))
	}
}

func runLegend(args []string) {
	fs := newFlagSet("legend")
	output := fs.String("o", "legend.png", "Output file. The format is taken from the extension (png, svg, pdf, ...).")
	width := fs.Float64("width", 4, "Width in inches.")
	height := fs.Float64("height", 6, "Height in inches.")
	must.M(fs.Parse(args))

	must.M(legend.Save(taxonomy.Default(), *output, vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch))
	klog.Infof("Legend saved to %q", *output)
}

// labelIO parses the -in/-out flags of encode and decode.
func labelIO(name string, args []string) (in, out string) {
	fs := newFlagSet(name)
	inFlag := fs.String("in", "", "Input label image (PNG).")
	outFlag := fs.String("out", "", "Output image (PNG).")
	must.M(fs.Parse(args))
	if *inFlag == "" || *outFlag == "" {
		must.M(errors.Errorf("%s requires -in and -out", name))
	}
	return *inFlag, *outFlag
}

func runEncode(args []string) {
	in, out := labelIO("encode", args)
	raw := must.M1(cityscapes.ReadLabel(in))
	encoded := must.M1(taxonomy.Default().EncodeImage(raw))
	must.M(cityscapes.WriteImage(out, encoded))
	klog.Infof("Train ids of %q saved to %q", in, out)
}

func runDecode(args []string) {
	in, out := labelIO("decode", args)
	trainIDs := must.M1(cityscapes.ReadLabel(in))
	colors := must.M1(taxonomy.Default().DecodeImage(trainIDs))
	must.M(cityscapes.WriteImage(out, colors))
	klog.Infof("Colors of %q saved to %q", in, out)
}

func runConvert(args []string) {
	fs := newFlagSet("convert")
	src := fs.String("src", "", "Source dataset root, with the images, labels and lists subdirectories.")
	dst := fs.String("dst", "", "Destination root of the Cityscapes layout.")
	cfg := layout.DefaultConfig("", "")
	fs.StringVar(&cfg.ImagesSubdir, "images", cfg.ImagesSubdir, "Subdirectory of -src with the images.")
	fs.StringVar(&cfg.LabelsSubdir, "labels", cfg.LabelsSubdir, "Subdirectory of -src with the labels.")
	fs.StringVar(&cfg.ListsSubdir, "lists", cfg.ListsSubdir, "Subdirectory of -src with the <split>.txt lists.")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Label set variant, name of the labels directory.")
	fs.BoolVar(&cfg.ShowProgress, "progress", true, "Display a progress bar.")
	must.M(fs.Parse(args))
	if *src == "" || *dst == "" {
		must.M(errors.New("convert requires -src and -dst"))
	}
	cfg.SourceRoot, cfg.DestRoot = *src, *dst

	counts := must.M1(layout.Convert(cfg))
	for _, split := range cfg.Splits {
		klog.Infof("%-5s: %s examples", split, humanize.Comma(int64(counts[split])))
	}
	klog.Infof("Dataset converted to Cityscapes layout in %q", *dst)
}

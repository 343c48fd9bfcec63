// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// cityscapes inspects and prepares segmentation datasets in the Cityscapes layout.
//
// Usage:
//
//	cityscapes [-v=1] <command> [flags]
//
// Commands:
//
//   - index: index a split and report the number of examples per city.
//   - classes: list the label taxonomy (table, YAML or JSON).
//   - legend: save the color legend chart.
//   - encode: convert a raw label image to train ids.
//   - decode: convert a train id image to its visualization colors.
//   - convert: copy a flat dataset into the Cityscapes layout.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// command is one sub-command of the tool.
type command struct {
	help string
	run  func(args []string)
}

var commands = map[string]command{
	"index":   {"Index a split and report examples per city.", runIndex},
	"classes": {"List the label taxonomy.", runClasses},
	"legend":  {"Save the color legend chart.", runLegend},
	"encode":  {"Convert a raw label image to train ids.", runEncode},
	"decode":  {"Convert a train id image to colors.", runDecode},
	"convert": {"Copy a flat dataset into the Cityscapes layout.", runConvert},
}

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage: %s [flags] <command> [command flags]\n\nCommands:\n", os.Args[0])
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %-8s %s\n", name, commands[name].help)
	}
	_, _ = fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) == 0 {
		klog.Errorf("Missing command. See '%s -help'.", os.Args[0])
		os.Exit(1)
	}
	cmd, found := commands[args[0]]
	if !found {
		klog.Errorf("Unknown command %q. See '%s -help'.", args[0], os.Args[0])
		os.Exit(1)
	}
	err := exceptions.TryCatch[error](func() { cmd.run(args[1:]) })
	if err != nil {
		klog.Errorf("%s failed:\n%+v", args[0], err)
		klog.Flush()
		os.Exit(1)
	}
}

// newFlagSet creates the flag set of a command, which exits on parsing errors.
func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

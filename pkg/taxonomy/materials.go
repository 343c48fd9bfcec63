// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"sync"

	"github.com/janpfeifer/must"
)

// This file contains the built-in material segmentation taxonomy.

var (
	// MaterialColors is the ordered color -> label mapping of the built-in taxonomy.
	// The position is the raw id (and the train id) of the class: do not reorder.
	MaterialColors = []ColorLabel{
		{"#2ca02c", "asphalt"},
		{"#1f77b4", "concrete"},
		{"#ff7f0e", "metal"},
		{"#d62728", "road marking"},
		{"#8c564b", "fabric, leather"},
		{"#7f7f7f", "glass"},
		{"#bcbd22", "plaster"},
		{"#ff9896", "plastic"},
		{"#17becf", "rubber"},
		{"#aec7e8", "sand"},
		{"#c49c94", "gravel"},
		{"#c5b0d5", "ceramic"},
		{"#f7b6d2", "cobblestone"},
		{"#c7c7c7", "brick"},
		{"#dbdb8d", "grass"},
		{"#9edae5", "wood"},
		{"#393b79", "leaf"},
		{"#6b6ecf", "water"},
		{"#9c9ede", "human body"},
		{"#637939", "sky"},
	}

	nature = Meta{Category: "nature", CategoryID: 4}

	// MaterialMeta holds the category metadata of MaterialColors, same order.
	MaterialMeta = []Meta{
		DefaultMeta, DefaultMeta, DefaultMeta, DefaultMeta,
		DefaultMeta, DefaultMeta, DefaultMeta, DefaultMeta,
		DefaultMeta, DefaultMeta, DefaultMeta, DefaultMeta,
		DefaultMeta, DefaultMeta, DefaultMeta, DefaultMeta,
		nature, // leaf
		nature, // water
		{Category: "human", CategoryID: 6, HasInstances: true},
		{Category: "sky", CategoryID: 5},
	}
)

// Default returns the built-in material taxonomy: 20 training classes plus background.
//
// It is built once, and it panics if the built-in definition is malformed.
var Default = sync.OnceValue(func() *Table {
	return must.M1(New(MaterialColors, MaterialMeta))
})

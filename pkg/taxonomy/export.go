// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// classRecord is the serialized form of a Class.
type classRecord struct {
	Name         string `yaml:"name" json:"name"`
	ID           int    `yaml:"id" json:"id"`
	TrainID      int    `yaml:"train_id" json:"train_id"`
	Category     string `yaml:"category" json:"category"`
	CategoryID   int    `yaml:"category_id" json:"category_id"`
	HasInstances bool   `yaml:"has_instances" json:"has_instances"`
	IgnoreInEval bool   `yaml:"ignore_in_eval" json:"ignore_in_eval"`
	Color        string `yaml:"color" json:"color"`
}

func (t *Table) records() []classRecord {
	records := make([]classRecord, len(t.classes))
	for ii, c := range t.classes {
		records[ii] = classRecord{
			Name:         c.Name,
			ID:           c.ID,
			TrainID:      c.TrainID,
			Category:     c.Category,
			CategoryID:   c.CategoryID,
			HasInstances: c.HasInstances,
			IgnoreInEval: c.IgnoreInEval,
			Color:        c.Hex(),
		}
	}
	return records
}

// WriteYAML writes the classes, in taxonomy order, as a YAML list.
func (t *Table) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.records()); err != nil {
		return errors.Wrap(err, "failed to encode taxonomy as YAML")
	}
	return errors.Wrap(enc.Close(), "failed to flush taxonomy YAML")
}

// WriteJSON writes the classes, in taxonomy order, as an indented JSON list.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(t.records()), "failed to encode taxonomy as JSON")
}

// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/chassis-cli/chassis/lib/schema"
)

// Resolver derives typed fields from the raw flag bag after validation
// succeeds. Resolvers must be pure functions of the bag: they may read
// several source-key synonyms (a flag and its alias) but never mutate
// the input.
type Resolver func(raw map[string]any) schema.Values

// Preset is a reusable, composable bundle of flag definitions plus an
// optional schema for their validation and a resolver that folds the
// raw values into the command's typed input. It replaces the ad hoc
// pattern of a config struct re-declared flag by flag on every command
// that needs it.
type Preset struct {
	// ID identifies the preset for deduplication: composing two
	// presets with the same ID keeps only the first.
	ID string

	// Options are the flag definitions the preset contributes.
	Options []FlagDefinition

	// Schema optionally validates the preset's own fields. Its field
	// subset is picked from the shared raw bag and validated
	// independently of the command's input schema.
	Schema *schema.Object

	// Resolve composes additional typed fields into the input.
	Resolve Resolver

	// sources lists the leaf presets a composed preset was built
	// from, so nested composition can flatten and deduplicate.
	sources []*Preset
}

// contributors returns the leaf presets behind p: itself for a plain
// preset, the flattened source list for a composed one.
func (p *Preset) contributors() []*Preset {
	if len(p.sources) == 0 {
		return []*Preset{p}
	}
	return p.sources
}

// Compose merges presets in input order into one bundle. Contributing
// leaf presets are deduplicated by ID before concatenating, first
// occurrence wins, and composed arguments are flattened first — so
// composition is idempotent: Compose(a, Compose(a, b)) yields the same
// option set as Compose(a, b). Option lists are concatenated and the
// merged resolver runs every source resolver in order, shallow-merging
// outputs left to right: later resolvers intentionally overwrite
// earlier keys, independent of the dedup-by-ID rule.
func Compose(presets ...*Preset) *Preset {
	seen := make(map[string]bool)
	var unique []*Preset
	for _, preset := range presets {
		if preset == nil {
			continue
		}
		for _, source := range preset.contributors() {
			if seen[source.ID] {
				continue
			}
			seen[source.ID] = true
			unique = append(unique, source)
		}
	}

	merged := &Preset{sources: unique}
	var ids []string
	var resolvers []Resolver
	for _, source := range unique {
		ids = append(ids, source.ID)
		merged.Options = append(merged.Options, source.Options...)
		if source.Resolve != nil {
			resolvers = append(resolvers, source.Resolve)
		}
	}
	merged.ID = strings.Join(ids, "+")
	merged.Resolve = func(raw map[string]any) schema.Values {
		var values schema.Values
		for _, resolve := range resolvers {
			values = schema.Merge(values, resolve(raw))
		}
		return values
	}
	return merged
}

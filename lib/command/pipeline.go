// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/chassis-cli/chassis/lib/schema"
)

// validatorSource is one schema's claim on the raw flag bag: the
// schema plus the field names it owns. The list of pairs is computed
// once at build time, so the merge step never duck-types on the raw
// object at invocation time.
type validatorSource struct {
	object *schema.Object
	fields []string
}

// pipeline is the pre-handler stage built once per command: merged
// validation across the input schema and preset schemas, preset
// resolvers, and the optional context factory.
type pipeline struct {
	sources   []validatorSource
	resolvers []Resolver
	factory   ContextFactory
}

// run validates raw flags, composes preset-resolved fields, and builds
// the handler context value. Any failure aborts before the handler:
// the caller routes the error through the shared exit path.
//
// With no schemas at all, validation is skipped and the input stays
// nil. With exactly one schema it validates the whole bag directly.
// With several, each schema validates its own field subset picked from
// the bag and the results are shallow-merged; the first failing schema
// aborts with its own error.
func (p pipeline) run(ctx context.Context, raw map[string]any) (schema.Values, any, error) {
	var input schema.Values

	switch len(p.sources) {
	case 0:
		// No schema anywhere: the handler receives nil input.
	case 1:
		validated, err := p.sources[0].object.Validate(raw)
		if err != nil {
			return nil, nil, Validationf("invalid input: %w", err)
		}
		input = validated
	default:
		for _, source := range p.sources {
			subset := pickFields(raw, source.fields)
			validated, err := source.object.Validate(subset)
			if err != nil {
				return nil, nil, Validationf("invalid input: %w", err)
			}
			input = schema.Merge(input, validated)
		}
	}

	// Preset resolvers compose additional typed fields into the same
	// input object. They read the raw bag, not the validated values.
	for _, resolve := range p.resolvers {
		input = schema.Merge(input, resolve(raw))
	}

	var custom any
	if p.factory != nil {
		factoryInput := input
		if factoryInput == nil {
			factoryInput = schema.Values(raw)
		}
		built, err := p.factory(ctx, factoryInput)
		if err != nil {
			var categorized *Error
			if errors.As(err, &categorized) {
				return nil, nil, err
			}
			return nil, nil, Internalf("context factory: %w", err)
		}
		custom = built
	}

	return input, custom, nil
}

// pickFields copies the named keys (when present) out of the raw bag.
func pickFields(raw map[string]any, fields []string) map[string]any {
	subset := make(map[string]any, len(fields))
	for _, name := range fields {
		if value, ok := raw[name]; ok {
			subset[name] = value
		}
	}
	return subset
}

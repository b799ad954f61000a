// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/chassis-cli/chassis/lib/schema"
)

// Builder assembles a leaf command in two phases. The accumulation
// phase only records intent — summary, explicit options, input schema,
// presets, factories, safety metadata, relations. [Builder.Build]
// finalizes once: it applies flag derivation deterministically (an
// explicit set of already-declared long flags threaded through the
// whole step, so call order between Option and Input never matters),
// guarantees --dry-run on destructive commands, and produces the
// immutable [Command]. Building twice panics.
type Builder struct {
	name        string
	argSpec     []string
	summary     string
	description string
	examples    []Example

	options []FlagDefinition
	input   *schema.Object
	presets []*Preset

	factory      ContextFactory
	successHints HintFunc
	errorHints   HintFunc
	render       RenderFunc

	readOnly    bool
	idempotent  bool
	destructive bool
	relations   []Relation

	paginated bool
	pageLimit int

	built bool
}

// New starts a builder for a leaf command. argSpec names positional
// arguments for the usage line, e.g. New("add", "<title>").
func New(name string, argSpec ...string) *Builder {
	return &Builder{name: name, argSpec: argSpec}
}

// Summary sets the one-line description.
func (b *Builder) Summary(summary string) *Builder {
	b.summary = summary
	return b
}

// Description sets the detailed help text.
func (b *Builder) Description(description string) *Builder {
	b.description = description
	return b
}

// Example adds a usage example to the help output.
func (b *Builder) Example(description, commandLine string) *Builder {
	b.examples = append(b.examples, Example{Description: description, Command: commandLine})
	return b
}

// Option declares explicit flags. Explicit declarations always win:
// a schema field or preset option with the same long flag is skipped
// at build time, regardless of the order Option and Input were called.
func (b *Builder) Option(definitions ...FlagDefinition) *Builder {
	b.options = append(b.options, definitions...)
	return b
}

// Input declares the command's input schema. Flag derivation from the
// schema is deferred to Build.
func (b *Builder) Input(object *schema.Object) *Builder {
	b.input = object
	return b
}

// Use attaches presets. Presets registered earlier win over presets
// registered later for the same flag; duplicate preset IDs keep only
// the first occurrence.
func (b *Builder) Use(presets ...*Preset) *Builder {
	b.presets = append(b.presets, presets...)
	return b
}

// ContextFactory sets the handler-context factory, invoked with the
// validated input after the pipeline succeeds.
func (b *Builder) ContextFactory(factory ContextFactory) *Builder {
	b.factory = factory
	return b
}

// OnSuccess sets the success hint function, called with the handler
// result.
func (b *Builder) OnSuccess(hints HintFunc) *Builder {
	b.successHints = hints
	return b
}

// OnError sets the error hint function, called with the handler error.
func (b *Builder) OnError(hints HintFunc) *Builder {
	b.errorHints = hints
	return b
}

// Render sets the human-output renderer used outside JSON mode.
func (b *Builder) Render(render RenderFunc) *Builder {
	b.render = render
	return b
}

// ReadOnly records that the command only reads state. Only true values
// produce metadata on the built command.
func (b *Builder) ReadOnly(readOnly bool) *Builder {
	b.readOnly = readOnly
	return b
}

// Idempotent records that repeated identical calls converge.
func (b *Builder) Idempotent(idempotent bool) *Builder {
	b.idempotent = idempotent
	return b
}

// Destructive marks the command as potentially destroying data. A
// destructive command is guaranteed a --dry-run boolean flag, added at
// build time unless one is already declared by another source.
func (b *Builder) Destructive(destructive bool) *Builder {
	b.destructive = destructive
	return b
}

// RelatedTo declares an action-graph edge to another command by its
// unqualified name. description may be empty; hints then fall back to
// a generic string.
func (b *Builder) RelatedTo(target, description string) *Builder {
	b.relations = append(b.relations, Relation{Target: target, Description: description})
	return b
}

// Paginate opts the command into automatic result truncation: --limit
// and --offset flags are added (unless already declared) and array
// results are paged by the runner. defaultLimit zero means no limit
// unless the user passes one.
func (b *Builder) Paginate(defaultLimit int) *Builder {
	b.paginated = true
	b.pageLimit = defaultLimit
	return b
}

// Build finalizes the command with its handler. Derivation rules run
// exactly once, in fixed precedence: explicit options, preset options
// in registration order, schema-derived flags, pagination flags, then
// the destructive --dry-run guarantee.
func (b *Builder) Build(handler Handler) *Command {
	if b.built {
		panic(fmt.Sprintf("command.Builder(%q): Build called twice", b.name))
	}
	b.built = true
	if handler == nil {
		panic(fmt.Sprintf("command.Builder(%q): nil handler", b.name))
	}

	declared := make(map[string]bool)
	var flags []FlagDefinition
	addFlags := func(definitions ...FlagDefinition) {
		for _, definition := range definitions {
			if declared[definition.LongFlag] {
				continue
			}
			declared[definition.LongFlag] = true
			flags = append(flags, definition)
		}
	}

	addFlags(b.options...)

	kept := flattenPresets(b.presets)
	for _, preset := range kept {
		addFlags(preset.Options...)
	}

	if b.input != nil {
		// DeriveFlags consults and extends the declared set itself.
		flags = append(flags, DeriveFlags(b.input, declared)...)
	}

	if b.paginated {
		limitFlag := NumberFlag("limit", "maximum number of results to return")
		if b.pageLimit > 0 {
			limitFlag = limitFlag.WithDefault(float64(b.pageLimit))
		}
		addFlags(limitFlag, NumberFlag("offset", "number of results to skip"))
	}

	if b.destructive {
		addFlags(BoolFlag("dryRun", "preview the operation without applying changes"))
	}

	var metadata *Metadata
	if b.readOnly || b.idempotent {
		metadata = &Metadata{ReadOnly: b.readOnly, Idempotent: b.idempotent}
	}

	built := &Command{
		Name:         b.name,
		Summary:      b.summary,
		Description:  b.description,
		ArgSpec:      b.argSpec,
		Examples:     b.examples,
		Flags:        flags,
		Input:        b.input,
		Meta:         metadata,
		Destructive:  b.destructive,
		Related:      b.relations,
		handler:      handler,
		presets:      kept,
		successHints: b.successHints,
		errorHints:   b.errorHints,
		render:       b.render,
		paginated:    b.paginated,
	}
	built.pipeline = buildPipeline(b.input, kept, b.factory)
	return built
}

// flattenPresets expands composed presets into their leaf contributors
// and deduplicates by ID, first occurrence winning.
func flattenPresets(presets []*Preset) []*Preset {
	seen := make(map[string]bool)
	var kept []*Preset
	for _, preset := range presets {
		if preset == nil {
			continue
		}
		for _, source := range preset.contributors() {
			if seen[source.ID] {
				continue
			}
			seen[source.ID] = true
			kept = append(kept, source)
		}
	}
	return kept
}

// buildPipeline computes the (schema, fieldNames) validator pairs and
// resolver chain once, at build time.
func buildPipeline(input *schema.Object, presets []*Preset, factory ContextFactory) pipeline {
	var sources []validatorSource
	if input != nil {
		sources = append(sources, validatorSource{object: input, fields: input.FieldNames()})
	}
	var resolvers []Resolver
	for _, preset := range presets {
		if preset.Schema != nil {
			sources = append(sources, validatorSource{object: preset.Schema, fields: preset.Schema.FieldNames()})
		}
		if preset.Resolve != nil {
			resolvers = append(resolvers, preset.Resolve)
		}
	}
	return pipeline{sources: sources, resolvers: resolvers, factory: factory}
}

// Group declares a command group with nested subcommands.
func Group(name, summary string, subcommands ...*Command) *Command {
	return &Command{Name: name, Summary: summary, Subcommands: subcommands}
}

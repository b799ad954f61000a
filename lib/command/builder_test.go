// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/chassis-cli/chassis/lib/schema"
)

func noopHandler(ctx *Context) (any, error) { return nil, nil }

func longFlags(built *Command) []string {
	flags := make([]string, len(built.Flags))
	for i, definition := range built.Flags {
		flags[i] = definition.LongFlag
	}
	return flags
}

func TestBuild_FlagPrecedence(t *testing.T) {
	type input struct {
		Format string `json:"format" enum:"json,text" default:"text" desc:"schema-derived"`
		Extra  string `json:"extra" optional:"true"`
	}

	preset := &Preset{
		ID: "p",
		Options: []FlagDefinition{
			StringFlag("format", "preset copy, must lose to explicit"),
			StringFlag("presetOnly", ""),
		},
	}

	built := New("demo").
		Option(EnumFlag("format", "explicit copy", "json", "text", "yaml")).
		Use(preset).
		Input(schema.MustNew(input{})).
		Build(noopHandler)

	flags := longFlags(built)
	want := []string{"format", "preset-only", "extra"}
	if len(flags) != len(want) {
		t.Fatalf("flags = %v, want %v", flags, want)
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Fatalf("flags = %v, want %v", flags, want)
		}
	}

	// The surviving format flag is the explicit one.
	format, _ := findDefinition(built.Flags, "format")
	if format.Usage != "explicit copy" || len(format.Enum) != 3 {
		t.Errorf("explicit option lost to a later source: %+v", format)
	}
}

func TestBuild_OptionInputOrderIrrelevant(t *testing.T) {
	type input struct {
		Format string `json:"format" default:"text"`
	}
	explicit := StringFlag("format", "explicit copy")

	optionFirst := New("a").Option(explicit).Input(schema.MustNew(input{})).Build(noopHandler)
	inputFirst := New("b").Input(schema.MustNew(input{})).Option(explicit).Build(noopHandler)

	for _, built := range []*Command{optionFirst, inputFirst} {
		if len(built.Flags) != 1 {
			t.Fatalf("%s: flags = %v, want the single explicit flag", built.Name, longFlags(built))
		}
		if built.Flags[0].Usage != "explicit copy" {
			t.Errorf("%s: explicit flag lost: %+v", built.Name, built.Flags[0])
		}
	}
}

func TestBuild_DestructiveGetsDryRun(t *testing.T) {
	built := New("remove").Destructive(true).Build(noopHandler)

	dryRun, ok := findDefinition(built.Flags, "dry-run")
	if !ok {
		t.Fatalf("destructive command has no --dry-run: %v", longFlags(built))
	}
	if !dryRun.Boolean {
		t.Errorf("dry-run is not boolean: %+v", dryRun)
	}

	// An existing dry-run declaration is not duplicated.
	withOwn := New("remove").
		Option(BoolFlag("dryRun", "custom wording")).
		Destructive(true).
		Build(noopHandler)
	count := 0
	for _, flag := range longFlags(withOwn) {
		if flag == "dry-run" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("dry-run declared %d times", count)
	}
	if flag, _ := findDefinition(withOwn.Flags, "dry-run"); flag.Usage != "custom wording" {
		t.Errorf("explicit dry-run lost: %+v", flag)
	}
}

func TestBuild_PaginateFlags(t *testing.T) {
	built := New("list").Paginate(25).Build(noopHandler)

	limit, ok := findDefinition(built.Flags, "limit")
	if !ok {
		t.Fatalf("no --limit: %v", longFlags(built))
	}
	if limit.Default != float64(25) {
		t.Errorf("limit default = %v, want 25", limit.Default)
	}
	if _, ok := findDefinition(built.Flags, "offset"); !ok {
		t.Errorf("no --offset: %v", longFlags(built))
	}

	unlimited := New("list").Paginate(0).Build(noopHandler)
	if limit, _ := findDefinition(unlimited.Flags, "limit"); limit.Default != nil {
		t.Errorf("zero default limit should leave the flag defaultless: %+v", limit)
	}
}

func TestBuild_MetadataOnlyWhenSet(t *testing.T) {
	if built := New("plain").Build(noopHandler); built.Meta != nil {
		t.Errorf("metadata attached with nothing set: %+v", built.Meta)
	}
	if built := New("plain").ReadOnly(false).Idempotent(false).Build(noopHandler); built.Meta != nil {
		t.Errorf("metadata attached with only false values: %+v", built.Meta)
	}

	built := New("list").ReadOnly(true).Build(noopHandler)
	if built.Meta == nil || !built.Meta.ReadOnly || built.Meta.Idempotent {
		t.Errorf("metadata = %+v, want readOnly only", built.Meta)
	}
}

func TestBuild_PanicsOnMisuse(t *testing.T) {
	assertPanics := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: no panic", name)
			}
		}()
		f()
	}

	builder := New("once")
	builder.Build(noopHandler)
	assertPanics("double build", func() { builder.Build(noopHandler) })
	assertPanics("nil handler", func() { New("broken").Build(nil) })
}

func TestGroup(t *testing.T) {
	leaf := New("list").Build(noopHandler)
	group := Group("task", "manage tasks", leaf)

	if group.Runnable() {
		t.Errorf("group should not be runnable")
	}
	if group.findSubcommand("list") != leaf {
		t.Errorf("subcommand lookup failed")
	}
	if group.findSubcommand("missing") != nil {
		t.Errorf("lookup of missing subcommand should return nil")
	}
}

func TestWalkLeaves(t *testing.T) {
	tree := Group("root", "",
		Group("task", "",
			New("list").Build(noopHandler),
			New("add").Build(noopHandler)),
		New("version").Build(noopHandler))

	var paths []string
	tree.walkLeaves(nil, func(path []string, leaf *Command) {
		paths = append(paths, joinPath(path))
	})

	want := []string{"task list", "task add", "version"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}
}

func joinPath(path []string) string {
	joined := ""
	for i, segment := range path {
		if i > 0 {
			joined += " "
		}
		joined += segment
	}
	return joined
}

// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/chassis-cli/chassis/lib/schema"
)

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Relation declares a "related next action" link to another command by
// its unqualified name. Unresolvable targets degrade to graph warnings
// at build time, never errors.
type Relation struct {
	Target      string
	Description string
}

// Metadata describes operational safety properties. It is attached to
// a command only when at least one property was explicitly set to
// true, so consumers can distinguish "known safe" from "unspecified".
type Metadata struct {
	// ReadOnly is true when the command only reads state.
	ReadOnly bool `json:"readOnly,omitempty"`

	// Idempotent is true when repeated calls with identical arguments
	// converge to the same result.
	Idempotent bool `json:"idempotent,omitempty"`
}

// RenderFunc is the narrow rendering collaborator hook: it consumes an
// already-validated, already-truncated result and writes human output.
// Commands without one fall back to the JSON envelope.
type RenderFunc func(w io.Writer, result any) error

// Command is a built, immutable command or command group. Groups carry
// Subcommands; leaves carry a handler and the finalized flag set. Use
// [New] and [Builder.Build] to construct leaves; groups can be
// declared literally.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is a one-line description shown in the parent's help
	// listing.
	Summary string

	// Description is the detailed help text for the command itself.
	Description string

	// ArgSpec names the positional arguments for the usage line,
	// e.g. "<file>".
	ArgSpec []string

	// Examples are shown in help output after the description.
	Examples []Example

	// Subcommands are nested commands dispatched by the first
	// positional argument.
	Subcommands []*Command

	// Flags is the finalized, deduplicated flag list: explicit
	// options, preset options, schema-derived flags, and the
	// destructive --dry-run guarantee, in that precedence order.
	Flags []FlagDefinition

	// Input is the declared input schema, nil when the command takes
	// no schema-validated input.
	Input *schema.Object

	// Meta is the safety metadata, nil unless some property is true.
	Meta *Metadata

	// Destructive marks commands that may irreversibly remove data.
	// Destructive commands always have a --dry-run flag.
	Destructive bool

	// Related are the outgoing action-graph declarations.
	Related []Relation

	handler      Handler
	pipeline     pipeline
	presets      []*Preset
	successHints HintFunc
	errorHints   HintFunc
	render       RenderFunc
	paginated    bool
}

// AddCommand attaches subcommands to a group.
func (c *Command) AddCommand(subcommands ...*Command) *Command {
	c.Subcommands = append(c.Subcommands, subcommands...)
	return c
}

// Runnable reports whether the command has a handler.
func (c *Command) Runnable() bool { return c.handler != nil }

// findSubcommand returns the direct subcommand with the given name.
func (c *Command) findSubcommand(name string) *Command {
	for _, subcommand := range c.Subcommands {
		if subcommand.Name == name {
			return subcommand
		}
	}
	return nil
}

// walkLeaves visits every runnable command in the tree, depth-first,
// with its path relative to the tree root (the program name excluded).
func (c *Command) walkLeaves(prefix []string, visit func(path []string, leaf *Command)) {
	if c.Runnable() {
		visit(prefix, c)
	}
	for _, subcommand := range c.Subcommands {
		subPath := append(append([]string{}, prefix...), subcommand.Name)
		subcommand.walkLeaves(subPath, visit)
	}
}

// newFlagSet builds the pflag set for one invocation: the command's
// finalized flags plus the runner's global flags. Built fresh per
// invocation so parses never share state.
func (c *Command) newFlagSet(name string, globals []FlagDefinition) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	for _, definition := range c.Flags {
		definition.Register(flagSet)
	}
	for _, definition := range globals {
		if _, taken := findDefinition(c.Flags, definition.LongFlag); taken {
			continue
		}
		definition.Register(flagSet)
	}
	return flagSet
}

// PrintHelp writes structured help output to w. fullName is the
// program-prefixed command path.
func (c *Command) PrintHelp(w io.Writer, fullName string) {
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	fmt.Fprintf(w, "Usage:\n  %s\n", c.usageLine(fullName))

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, subcommand := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", subcommand.Name, subcommand.Summary)
		}
		tw.Flush()
	}

	if len(c.Flags) > 0 {
		fmt.Fprintf(w, "\nFlags:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, definition := range c.Flags {
			fmt.Fprintf(tw, "  %s\t%s\n", definition.FlagString, flagHelp(definition))
		}
		tw.Flush()
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", fullName)
	}
}

// usageLine synthesizes the usage string from the command path,
// positional argument spec, and shape.
func (c *Command) usageLine(fullName string) string {
	parts := []string{fullName}
	if len(c.Subcommands) > 0 && !c.Runnable() {
		parts = append(parts, "<command>")
	}
	parts = append(parts, c.ArgSpec...)
	if len(c.Flags) > 0 || c.Runnable() {
		parts = append(parts, "[flags]")
	}
	return strings.Join(parts, " ")
}

// flagHelp renders one flag's help column: usage text plus required
// and default markers.
func flagHelp(definition FlagDefinition) string {
	help := definition.Usage
	if definition.Required {
		help = strings.TrimSpace(help + " (required)")
	} else if definition.Default != nil && !definition.Boolean {
		help = strings.TrimSpace(help + fmt.Sprintf(" (default %v)", definition.Default))
	}
	return help
}

// isHelpArg returns true for common help flag variants.
func isHelpArg(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chassis-cli/chassis/lib/actiongraph"
	"github.com/chassis-cli/chassis/lib/output"
	"github.com/chassis-cli/chassis/lib/schema"
)

// jsonEnvVar is the environment equivalent of the global --json flag.
const jsonEnvVar = "CHASSIS_JSON"

// Runner executes a command tree: it dispatches argv to a leaf,
// parses flags through pflag, runs the validation/context pipeline,
// invokes the handler, and applies the output contract (single
// envelope or NDJSON stream), appending action-graph hints around
// handler completion.
type Runner struct {
	// Program is the binary name, used for help text, node-qualified
	// hint commands, and pagination hints.
	Program string

	// Root is the command tree root (a group; its Name is ignored in
	// favor of Program).
	Root *Command

	// Stdout receives envelopes, streams, and rendered results.
	// Stderr receives help, human-mode errors, and hint text.
	// Both default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Logger defaults to [NewLogger].
	Logger *slog.Logger

	// BaseContext is the parent context for handler invocations.
	// Defaults to context.Background.
	BaseContext context.Context

	// Exit is the exit collaborator: called exactly once, with code 1,
	// when the pre-handler pipeline fails. When nil, Execute returns
	// an *ExitError instead so callers own the process exit.
	Exit func(code int)

	// JSON forces structured output mode regardless of the --json
	// flag or CHASSIS_JSON.
	JSON bool

	// FilePointerThreshold and TempDir configure truncation spillover
	// for paginated commands. Zero values use the package defaults.
	FilePointerThreshold int
	TempDir              string

	graph *actiongraph.Graph
}

// outputMode describes how one invocation reports its outcome.
type outputMode struct {
	json   bool
	stream bool
}

// Execute dispatches args and runs the selected command. The returned
// error is either a dispatch/usage error (print it and exit non-zero)
// or an *ExitError for outcomes that already produced their own
// output.
func (r *Runner) Execute(args []string) error {
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Logger == nil {
		r.Logger = NewLogger()
	}
	if r.Root == nil {
		return fmt.Errorf("runner for %q has no command tree", r.Program)
	}
	return r.dispatch(r.Root, args, nil)
}

// dispatch walks the command tree by consuming leading positional
// words, printing help and suggesting near-miss names along the way.
func (r *Runner) dispatch(current *Command, args []string, path []string) error {
	fullName := r.displayName(path)

	if len(args) > 0 && isHelpArg(args[0]) {
		current.PrintHelp(r.Stderr, fullName)
		return nil
	}

	if len(current.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		if subcommand := current.findSubcommand(name); subcommand != nil {
			return r.dispatch(subcommand, args[1:], append(path, name))
		}
		if suggestion := suggestSubcommand(name, current); suggestion != "" {
			return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
				name, suggestion, fullName)
		}
		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", name, fullName)
	}

	if !current.Runnable() {
		current.PrintHelp(r.Stderr, fullName)
		if len(args) == 0 {
			return fmt.Errorf("subcommand required")
		}
		return fmt.Errorf("subcommand required (got flag %q)", args[0])
	}

	return r.runLeaf(current, path, args)
}

// runLeaf parses flags and takes one leaf command through the full
// data flow: raw flags, pipeline, handler, output contract.
func (r *Runner) runLeaf(leaf *Command, path []string, args []string) error {
	nodePath := strings.Join(path, " ")
	fullName := r.displayName(path)

	globals := globalFlagDefinitions()
	flagSet := leaf.newFlagSet(fullName, globals)
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		message := err.Error()
		if strings.Contains(message, "unknown flag") {
			if suggestion := suggestFlag(args, leaf.newFlagSet(fullName, globals)); suggestion != "" {
				return fmt.Errorf("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
					message, suggestion, fullName)
			}
		}
		return fmt.Errorf("%s\n\nRun '%s --help' for usage.", message, fullName)
	}
	positional := flagSet.Args()

	raw := rawFlagValues(append(append([]FlagDefinition{}, leaf.Flags...), globals...), flagSet)
	mode := r.resolveMode(raw)

	// The stream opens before the pipeline so a validation failure
	// still produces a well-formed start/terminal sequence.
	var stream *output.Stream
	if mode.stream {
		stream = output.NewStream(r.Stdout, nodePath)
		if err := stream.Start(); err != nil {
			return err
		}
	}

	baseContext := r.BaseContext
	if baseContext == nil {
		baseContext = context.Background()
	}

	// Pre-handler validation: enum enforcement for explicit options,
	// then the schema/preset/context pipeline. Failures short-circuit
	// through the exit collaborator; neither the context factory nor
	// the handler runs after a validation failure.
	pipelineErr := validateEnumFlags(leaf.Flags, flagSet)
	var input schema.Values
	var custom any
	if pipelineErr == nil {
		input, custom, pipelineErr = leaf.pipeline.run(baseContext, raw)
	}
	if pipelineErr != nil {
		hints := r.errorHintsFor(leaf, nodePath, pipelineErr)
		envelope := output.Failure(nodePath, pipelineErr.Error(), string(categoryOf(pipelineErr)), hints)
		r.emitOutcome(mode, stream, envelope, leaf, nil)
		if r.Exit != nil {
			r.Exit(1)
			return nil
		}
		return &ExitError{Code: 1}
	}

	invocation := &Context{
		Context: baseContext,
		Command: leaf,
		Args:    positional,
		Input:   input,
		Raw:     raw,
		Custom:  custom,
		Logger:  r.Logger.With("command", nodePath),
		DryRun:  leaf.Destructive && raw["dryRun"] == true,
	}
	if stream != nil {
		invocation.emit = func(event output.StreamEvent) { stream.Emit(event) }
	}

	result, handlerErr := leaf.handler(invocation)
	if handlerErr != nil {
		hints := r.errorHintsFor(leaf, nodePath, handlerErr)
		envelope := output.Failure(nodePath, handlerErr.Error(), string(categoryOf(handlerErr)), hints)
		r.emitOutcome(mode, stream, envelope, leaf, nil)
		return &ExitError{Code: 1}
	}

	var hints []output.Hint
	if leaf.successHints != nil {
		hints = append(hints, leaf.successHints(result)...)
	}
	hints = append(hints, r.actionGraph().SuccessHints(nodePath)...)

	rendered := result
	if leaf.paginated {
		truncation := output.Truncate(result, output.Options{
			Limit:                intFromRaw(raw, "limit"),
			Offset:               intFromRaw(raw, "offset"),
			Command:              fullName,
			FilePointerThreshold: r.FilePointerThreshold,
			TempDir:              r.TempDir,
		})
		hints = append(hints, truncation.Hints...)
		rendered = truncation.Data
		if truncation.Metadata != nil {
			result = output.Paged{Data: truncation.Data, Metadata: truncation.Metadata}
		} else {
			result = truncation.Data
		}
	}

	envelope := output.Success(nodePath, result, hints)
	r.emitOutcome(mode, stream, envelope, leaf, rendered)
	return nil
}

// emitOutcome writes the terminal outcome in the invocation's mode.
// The envelope is built once and identical across modes; streaming
// only changes the framing.
func (r *Runner) emitOutcome(mode outputMode, stream *output.Stream, envelope output.Envelope, leaf *Command, rendered any) {
	if stream != nil {
		if err := stream.Close(envelope); err != nil {
			r.Logger.Error("stream close failed", "error", err)
		}
		return
	}

	if mode.json {
		if err := output.WriteJSON(r.Stdout, envelope); err != nil {
			r.Logger.Error("envelope write failed", "error", err)
		}
		return
	}

	// Human mode: render success through the narrow rendering hook
	// when one exists, otherwise fall back to the JSON envelope.
	// Errors and hints go to stderr.
	if envelope.OK && leaf.render != nil {
		if err := leaf.render(r.Stdout, rendered); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
		}
	} else if envelope.OK {
		if err := output.WriteJSON(r.Stdout, envelope); err != nil {
			r.Logger.Error("envelope write failed", "error", err)
		}
	} else {
		fmt.Fprintf(r.Stderr, "error: %s\n", envelope.Error.Message)
	}
	for _, hint := range envelope.Hints {
		if hint.Command != "" {
			fmt.Fprintf(r.Stderr, "hint: %s: %s\n", hint.Description, hint.Command)
		} else {
			fmt.Fprintf(r.Stderr, "hint: %s\n", hint.Description)
		}
	}
}

// errorHintsFor collects command-specific and graph error hints.
func (r *Runner) errorHintsFor(leaf *Command, nodePath string, err error) []output.Hint {
	var hints []output.Hint
	if leaf.errorHints != nil {
		hints = append(hints, leaf.errorHints(err)...)
	}
	return append(hints, r.actionGraph().ErrorHints(nodePath)...)
}

// resolveMode computes the output mode from runner config, the
// CHASSIS_JSON environment toggle, and the global flags.
func (r *Runner) resolveMode(raw map[string]any) outputMode {
	mode := outputMode{json: r.JSON}
	if enabled, err := strconv.ParseBool(os.Getenv(jsonEnvVar)); err == nil && enabled {
		mode.json = true
	}
	if raw["json"] == true {
		mode.json = true
	}
	if raw["stream"] == true {
		mode.stream = true
	}
	return mode
}

// actionGraph builds the graph once per runner from the current tree
// snapshot. The tree is immutable after assembly, so caching by
// runner identity is safe.
func (r *Runner) actionGraph() *actiongraph.Graph {
	if r.graph != nil {
		return r.graph
	}
	var nodes []actiongraph.Node
	r.Root.walkLeaves(nil, func(path []string, leaf *Command) {
		node := actiongraph.Node{Path: strings.Join(path, " ")}
		for _, relation := range leaf.Related {
			node.Related = append(node.Related, actiongraph.Declaration{
				Target:      relation.Target,
				Description: relation.Description,
			})
		}
		nodes = append(nodes, node)
	})
	r.graph = actiongraph.Build(r.Program, nodes)
	for _, warning := range r.graph.Warnings {
		r.Logger.Warn("action graph", "warning", warning)
	}
	return r.graph
}

// displayName is the program-prefixed command path for help and hints.
func (r *Runner) displayName(path []string) string {
	if len(path) == 0 {
		return r.Program
	}
	return r.Program + " " + strings.Join(path, " ")
}

// globalFlagDefinitions are registered on every leaf unless the leaf
// declares the same long flag itself.
func globalFlagDefinitions() []FlagDefinition {
	return []FlagDefinition{
		BoolFlag("json", "output as JSON"),
		BoolFlag("stream", "stream NDJSON events"),
	}
}

// intFromRaw reads a numeric raw flag value as an int, zero when
// absent.
func intFromRaw(raw map[string]any, name string) int {
	if value, ok := raw[name].(float64); ok {
		return int(value)
	}
	return 0
}

// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package actiongraph

import (
	"fmt"
	"strings"

	"github.com/chassis-cli/chassis/lib/output"
)

// Declaration is one relatedTo link on a command: an unqualified target
// command name and an optional human description for the hint.
type Declaration struct {
	Target      string
	Description string
}

// Node is one leaf command presented to Build: its space-joined full
// path and its outgoing relation declarations.
type Node struct {
	Path    string
	Related []Declaration
}

// Edge is one resolved or unresolved relation. From is always a node
// path. For resolved edges To is the target's full path; for edges
// whose target did not match exactly one node, To keeps the raw
// declared target so the intent is preserved, and Resolved is false.
type Edge struct {
	From        string
	To          string
	Description string
	Resolved    bool
}

// Graph is a directed graph over registered commands, built once per
// command-tree snapshot and read-only afterward. Self-edges and cycles
// are valid shapes: targets are resolved eagerly at build time into
// either a node path or a warning, so neighbor queries never traverse
// and need no visited-set bookkeeping.
type Graph struct {
	Program  string
	Nodes    []string
	Edges    []Edge
	Warnings []string

	outgoing map[string][]int
}

// Build constructs the graph from a command-tree snapshot. Unresolved
// and ambiguous targets are recorded as warnings, never errors — the
// graph must remain buildable with dangling, self-referential, or
// cyclic links.
func Build(program string, nodes []Node) *Graph {
	graph := &Graph{
		Program:  program,
		outgoing: make(map[string][]int),
	}

	for _, node := range nodes {
		graph.Nodes = append(graph.Nodes, node.Path)
	}

	for _, node := range nodes {
		for _, declaration := range node.Related {
			edge := Edge{
				From:        node.Path,
				To:          declaration.Target,
				Description: declaration.Description,
			}
			matches := graph.resolve(declaration.Target)
			switch len(matches) {
			case 1:
				edge.To = matches[0]
				edge.Resolved = true
			case 0:
				graph.Warnings = append(graph.Warnings, fmt.Sprintf(
					"related target %q declared by %q does not match any command", declaration.Target, node.Path))
			default:
				graph.Warnings = append(graph.Warnings, fmt.Sprintf(
					"related target %q declared by %q matches %d commands", declaration.Target, node.Path, len(matches)))
			}
			graph.outgoing[node.Path] = append(graph.outgoing[node.Path], len(graph.Edges))
			graph.Edges = append(graph.Edges, edge)
		}
	}

	return graph
}

// resolve matches an unqualified target against the node set: an exact
// full-path match wins, otherwise all nodes whose final path segment
// equals the target.
func (g *Graph) resolve(target string) []string {
	var matches []string
	for _, path := range g.Nodes {
		if path == target {
			return []string{path}
		}
		segments := strings.Split(path, " ")
		if segments[len(segments)-1] == target {
			matches = append(matches, path)
		}
	}
	return matches
}

// SuccessHints returns "what to run next" hints for the command that
// just succeeded: one per resolved outgoing edge, self-edges excluded.
func (g *Graph) SuccessHints(path string) []output.Hint {
	return g.neighborHints(path, "related command")
}

// ErrorHints returns recovery suggestions for the command that just
// failed, drawn from the same neighbor set as success hints.
func (g *Graph) ErrorHints(path string) []output.Hint {
	return g.neighborHints(path, "this related command may help")
}

func (g *Graph) neighborHints(path, fallback string) []output.Hint {
	var hints []output.Hint
	for _, edgeIndex := range g.outgoing[path] {
		edge := g.Edges[edgeIndex]
		if !edge.Resolved || edge.To == edge.From {
			continue
		}
		description := edge.Description
		if description == "" {
			description = fallback
		}
		hints = append(hints, output.Hint{
			Description: description,
			Command:     g.Program + " " + edge.To,
		})
	}
	return hints
}

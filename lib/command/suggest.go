// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggestionThreshold is the maximum edit distance for a did-you-mean
// suggestion. Distance 3 catches transpositions, dropped characters,
// and extra characters without proposing unrelated names.
const suggestionThreshold = 3

// closestMatch returns the candidate nearest to input within the
// suggestion threshold, or "" when nothing is close enough.
func closestMatch(input string, candidates []string) string {
	best := ""
	bestDistance := suggestionThreshold + 1
	for _, candidate := range candidates {
		distance := editDistance(input, candidate)
		if distance < bestDistance {
			bestDistance = distance
			best = candidate
		}
	}
	return best
}

// suggestSubcommand proposes the closest subcommand name for an
// unknown command word.
func suggestSubcommand(unknown string, parent *Command) string {
	names := make([]string, len(parent.Subcommands))
	for i, subcommand := range parent.Subcommands {
		names[i] = subcommand.Name
	}
	return closestMatch(unknown, names)
}

// suggestFlag finds the first unrecognized flag in args and proposes
// the closest defined long flag, formatted with its -- prefix. Returns
// "" when no good suggestion exists.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var defined []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		defined = append(defined, flag.Name)
	})

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if index := strings.IndexByte(name, '='); index >= 0 {
			name = name[:index]
		}
		if name == "" || flagSet.Lookup(name) != nil {
			continue
		}
		if best := closestMatch(name, defined); best != "" {
			return "--" + best
		}
		// Only the first unrecognized flag gets a suggestion.
		break
	}
	return ""
}

// editDistance computes the Levenshtein distance between two strings
// using a single rolling row, O(min(m,n)) space.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}
	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}
		previous = current
	}
	return previous[len(a)]
}

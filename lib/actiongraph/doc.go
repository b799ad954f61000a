// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package actiongraph builds a directed graph over a command tree from
// per-command relatedTo declarations, used purely to generate "related
// next action" hints around handler completion. It is not an execution
// dependency graph: only direct-neighbor queries exist, no transitive
// closure is ever computed.
package actiongraph

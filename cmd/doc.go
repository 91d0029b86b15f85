// Package cmd implements the command-line interface esc. It provides a
// hierarchical command structure for inspecting and changing the aliases of a
// cluster.
//
// The package is organized into several subpackages:
//
//   - alias: Commands for alias operations (get, add, remove, exists) and a
//     benchmark of these calls (perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// The transport is selected with --transport. The memory transport serves the
// alias APIs from an in-process registry, which lets the commands run without
// a cluster.
//
// See esc -help for a list of all commands.
package cmd

// Package cmd implements the command-line interface of dAttr. It provides a
// hierarchical command structure with operations for running the server and
// editing the hosted subjects as a client.
//
// The package is organized into several subpackages:
//
//   - ct: Commands for the color table registry (show, add, rm, active, reset, watch, perf)
//   - query: Commands for the query list (add, show)
//   - serve: Commands for starting and configuring the dAttr server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dattr -help for a list of all commands.
package cmd

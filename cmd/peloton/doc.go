// Package main hosts the peloton CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into update runs,
// snapshot inspection, history queries, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

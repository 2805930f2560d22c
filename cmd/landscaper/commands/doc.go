// Package commands defines the landscaper CLI and wires dependencies for subcommands.
//
// Commands
//
//   - show     Print a landscape as a tree
//   - apply    Run a YAML edit script against a landscape
//   - join     Follow the edits of other participants of a landscape
//   - push     Upload a landscape snapshot to the relay or the local store
//
// # Implementation
//
// The root command merges the YAML config file with flags and builds an
// app.Wire before any subcommand runs. A landscape argument is either a path
// to a JSON snapshot or a token resolved through the configured store.
package commands

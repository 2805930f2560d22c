// Package app wires application dependencies for the CLI.
//
// It builds the logger, the landscape store and, per opened landscape, the
// restructure session with its replication dispatcher and relay connection.
// Edit scripts (YAML) are parsed and applied here so every command drives a
// session the same way.
package app

// Package cli implements the command-line interface for poker-board.
//
// The cli package provides the Cobra-based CLI: list prints the filtered
// board as text, JSON, YAML or iCalendar; serve runs the HTTP server; version
// prints the build version. It coordinates the config, source, board and
// server packages.
package cli

// Package logging constructs the slog loggers used throughout prism.
//
// Output is either a human-oriented console format or JSON, selected
// by configuration. Every logger carries a run_id attribute so log
// lines from concurrent prism processes (a primary and its
// secondaries share a log directory) can be told apart.
package logging

// Package eventlog defines the operator-facing event model and fans events out
// to independent sinks, such as the terminal renderer and the append-only log file.
package eventlog

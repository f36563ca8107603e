// Package ui renders operator-facing output on the terminal and collects
// interactive confirmations.
//
// ConsoleRenderer is an eventlog sink that styles events and candidate tables
// with lipgloss when writing to a terminal and falls back to plain text
// otherwise. ConsoleCommandEventLogger narrates git invocations through the
// diagnostic logger.
package ui

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/temirov/prune-gone/internal/eventlog"
)

const (
	consoleLineTemplateConstant     = "%s\n"
	consoleWarningPrefixConstant    = "WARNING: "
	consoleErrorPrefixConstant      = "ERROR: "
	consoleTableCellPaddingConstant = 2
	consoleTableIndentConstant      = 2
	consoleHighlightedValueConstant = "stale"
	consoleSuccessColorConstant     = "2"
	consoleWarningColorConstant     = "3"
	consoleErrorColorConstant       = "1"
	consoleHighlightColorConstant   = "3"
	consoleTableHeaderColorConstant = "6"
	consoleLineSeparatorConstant    = "\n"
)

// ConsoleRendererOption customizes a ConsoleRenderer.
type ConsoleRendererOption func(*ConsoleRenderer)

// WithColor forces styled output on or off.
func WithColor(enabled bool) ConsoleRendererOption {
	return func(renderer *ConsoleRenderer) {
		renderer.colorEnabled = enabled
	}
}

// ConsoleRenderer is an eventlog.Sink that writes events to a terminal.
type ConsoleRenderer struct {
	writer       io.Writer
	colorEnabled bool
	styles       consoleStyles
}

type consoleStyles struct {
	success   lipgloss.Style
	warning   lipgloss.Style
	failure   lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	highlight lipgloss.Style
}

// NewConsoleRenderer constructs a renderer for the writer. Styling is enabled
// only when the writer is a terminal unless overridden with WithColor.
func NewConsoleRenderer(writer io.Writer, options ...ConsoleRendererOption) *ConsoleRenderer {
	if writer == nil {
		writer = io.Discard
	}
	renderer := &ConsoleRenderer{writer: writer, colorEnabled: IsTerminal(writer)}
	for _, option := range options {
		if option != nil {
			option(renderer)
		}
	}
	renderer.styles = newConsoleStyles(renderer.colorEnabled)
	return renderer
}

// IsTerminal reports whether the writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func newConsoleStyles(colorEnabled bool) consoleStyles {
	cell := lipgloss.NewStyle().PaddingRight(consoleTableCellPaddingConstant)
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return consoleStyles{success: plain, warning: plain, failure: plain, header: cell, cell: cell, highlight: cell}
	}
	return consoleStyles{
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color(consoleSuccessColorConstant)),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(consoleWarningColorConstant)),
		failure:   lipgloss.NewStyle().Foreground(lipgloss.Color(consoleErrorColorConstant)).Bold(true),
		header:    cell.Bold(true).Foreground(lipgloss.Color(consoleTableHeaderColorConstant)),
		cell:      cell,
		highlight: cell.Foreground(lipgloss.Color(consoleHighlightColorConstant)),
	}
}

// Emit renders the event message and, when present, its table.
func (renderer *ConsoleRenderer) Emit(event eventlog.Event) {
	if renderer == nil {
		return
	}

	if len(event.Message) > 0 {
		renderer.writeLine(renderer.styleMessage(event))
	}
	if event.Table != nil && len(event.Table.Rows) > 0 {
		renderer.writeLine(renderer.renderTable(*event.Table))
	}
}

func (renderer *ConsoleRenderer) styleMessage(event eventlog.Event) string {
	switch event.Level {
	case eventlog.LevelSuccess:
		return renderer.styles.success.Render(event.Message)
	case eventlog.LevelWarning:
		return renderer.styles.warning.Render(consoleWarningPrefixConstant + event.Message)
	case eventlog.LevelError:
		return renderer.styles.failure.Render(consoleErrorPrefixConstant + event.Message)
	default:
		return event.Message
	}
}

func (renderer *ConsoleRenderer) renderTable(content eventlog.Table) string {
	rows := content.Rows
	styles := renderer.styles
	candidateTable := table.New().
		Headers(content.Headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row int, column int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			if row >= 0 && row < len(rows) && column < len(rows[row]) && rows[row][column] == consoleHighlightedValueConstant {
				return styles.highlight
			}
			return styles.cell
		})

	indentation := strings.Repeat(" ", consoleTableIndentConstant)
	renderedLines := strings.Split(candidateTable.String(), consoleLineSeparatorConstant)
	for lineIndex, renderedLine := range renderedLines {
		renderedLines[lineIndex] = indentation + strings.TrimRight(renderedLine, " ")
	}
	return strings.Join(renderedLines, consoleLineSeparatorConstant)
}

func (renderer *ConsoleRenderer) writeLine(line string) {
	fmt.Fprintf(renderer.writer, consoleLineTemplateConstant, line)
}

package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-gone/internal/eventlog"
	"github.com/temirov/prune-gone/internal/ui"
)

func TestConsoleRendererWritesPlainMessages(testInstance *testing.T) {
	testCases := []struct {
		name           string
		event          eventlog.Event
		expectedOutput string
	}{
		{
			name:           "info",
			event:          eventlog.Event{Level: eventlog.LevelInfo, Message: "Processing /repo"},
			expectedOutput: "Processing /repo\n",
		},
		{
			name:           "success",
			event:          eventlog.Event{Level: eventlog.LevelSuccess, Message: "Deleted feature/x"},
			expectedOutput: "Deleted feature/x\n",
		},
		{
			name:           "warning",
			event:          eventlog.Event{Level: eventlog.LevelWarning, Message: "no repositories found"},
			expectedOutput: "WARNING: no repositories found\n",
		},
		{
			name:           "error",
			event:          eventlog.Event{Level: eventlog.LevelError, Message: "not a repository"},
			expectedOutput: "ERROR: not a repository\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output := &bytes.Buffer{}
			renderer := ui.NewConsoleRenderer(output)

			renderer.Emit(testCase.event)

			require.Equal(testInstance, testCase.expectedOutput, output.String())
		})
	}
}

func TestConsoleRendererRendersCandidateTable(testInstance *testing.T) {
	output := &bytes.Buffer{}
	renderer := ui.NewConsoleRenderer(output, ui.WithColor(false))

	renderer.Emit(eventlog.Event{
		Level:   eventlog.LevelInfo,
		Message: "2 branches with a gone upstream",
		Table: &eventlog.Table{
			Headers: []string{"BRANCH", "LAST COMMIT", "AUTHOR", "STALE"},
			Rows: [][]string{
				{"feature/x", "2024-03-03 10:00", "Ada", ""},
				{"feature/y", "2024-01-20 10:00", "Grace", "stale"},
			},
		},
	})

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(testInstance, lines, 4)
	require.Equal(testInstance, "2 branches with a gone upstream", lines[0])
	require.True(testInstance, strings.HasPrefix(lines[1], "  BRANCH"))
	require.Contains(testInstance, lines[2], "feature/x")
	require.Contains(testInstance, lines[3], "feature/y")
	require.True(testInstance, strings.HasSuffix(lines[3], "stale"))
	require.NotContains(testInstance, output.String(), "\x1b[")
}

func TestConsoleRendererSkipsEmptyTables(testInstance *testing.T) {
	output := &bytes.Buffer{}
	renderer := ui.NewConsoleRenderer(output)

	renderer.Emit(eventlog.Event{Message: "nothing", Table: &eventlog.Table{Headers: []string{"BRANCH"}}})

	require.Equal(testInstance, "nothing\n", output.String())
}

func TestIsTerminalRejectsNonFileWriters(testInstance *testing.T) {
	require.False(testInstance, ui.IsTerminal(&bytes.Buffer{}))
}

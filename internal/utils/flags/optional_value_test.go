package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testFallbackLogPathConstant = "/opt/prune-gone/prune-gone.log"
)

func newOptionalValueCommand(logPath *string) *cobra.Command {
	command := &cobra.Command{}
	AddOptionalStringFlag(command.Flags(), logPath, LogFileFlagName, LogFileFlagShorthand, testFallbackLogPathConstant, LogFileFlagUsage)
	command.Flags().BoolP(AssumeYesFlagName, AssumeYesFlagShorthand, false, AssumeYesFlagUsage)
	command.Flags().IntP(StaleDaysFlagName, StaleDaysFlagShorthand, 30, StaleDaysFlagUsage)
	return command
}

func TestOptionalStringFlagParsing(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   string
		expectedChanged bool
		expectedArgs    []string
	}{
		{name: "Absent", arguments: []string{"--yes"}, expectedValue: "", expectedChanged: false, expectedArgs: []string{}},
		{name: "OmittedValueAtEnd", arguments: []string{"--log"}, expectedValue: testFallbackLogPathConstant, expectedChanged: true, expectedArgs: []string{}},
		{name: "OmittedValueBeforeFlag", arguments: []string{"--log", "--yes"}, expectedValue: testFallbackLogPathConstant, expectedChanged: true, expectedArgs: []string{}},
		{name: "SeparateValue", arguments: []string{"--log", "run.log", "--yes"}, expectedValue: "run.log", expectedChanged: true, expectedArgs: []string{}},
		{name: "AssignedValue", arguments: []string{"--log=run.log"}, expectedValue: "run.log", expectedChanged: true, expectedArgs: []string{}},
		{name: "ShorthandSeparateValue", arguments: []string{"-l", "run.log"}, expectedValue: "run.log", expectedChanged: true, expectedArgs: []string{}},
		{name: "ShorthandOmittedValue", arguments: []string{"-y", "-l"}, expectedValue: testFallbackLogPathConstant, expectedChanged: true, expectedArgs: []string{}},
		{name: "TerminatorStopsRewriting", arguments: []string{"--", "--log", "run.log"}, expectedValue: "", expectedChanged: false, expectedArgs: []string{"--log", "run.log"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var logPath string
			command := newOptionalValueCommand(&logPath)

			parseError := command.ParseFlags(NormalizeOptionalValueArguments(command.Flags(), testCase.arguments))
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, logPath)
			require.Equal(t, testCase.expectedChanged, command.Flags().Changed(LogFileFlagName))
			require.Equal(t, testCase.expectedArgs, command.Flags().Args())
		})
	}
}

func TestNormalizeOptionalValueArgumentsLeavesOtherFlagsAlone(t *testing.T) {
	var logPath string
	command := newOptionalValueCommand(&logPath)

	normalized := NormalizeOptionalValueArguments(command.Flags(), []string{"--stale-days", "7", "-y", "true", "--unknown", "value"})
	require.Equal(t, []string{"--stale-days", "7", "-y", "true", "--unknown", "value"}, normalized)
	require.Nil(t, NormalizeOptionalValueArguments(command.Flags(), nil))
}

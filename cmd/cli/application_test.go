package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-gone/cmd/cli"
	"github.com/temirov/prune-gone/internal/branches"
	"github.com/temirov/prune-gone/internal/execshell"
	"github.com/temirov/prune-gone/internal/repos/shared"
	"github.com/temirov/prune-gone/internal/utils"
)

const (
	workTreeArgumentsConstant      = "rev-parse --is-inside-work-tree"
	currentBranchArgumentsConstant = "symbolic-ref --quiet HEAD"
	forEachRefSubcommandConstant   = "for-each-ref"
	branchRecordTemplateConstant   = "main\x00origin/main\x00\x00%d\x00Alice Example\x00abc123\n"
	unscriptedExitCodeConstant     = 128
	logFileNameConstant            = "prune.log"
	allClearFragmentConstant       = "No branches with a gone upstream"
	runSummaryFragmentConstant     = "1 repositories found, 1 processed"
	usageFragmentConstant          = "Usage:"
	staleDaysUsageFragmentConstant = "--stale-days"
	logLevelUsageFragmentConstant  = "--log-level"
	debugLogFragmentConstant       = "logger initialized"
)

var referenceTime = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

type scriptedGitExecutor struct {
	responses map[string]string
	calls     [][]string
}

func newAllClearExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{responses: map[string]string{
		workTreeArgumentsConstant:      "true\n",
		currentBranchArgumentsConstant: "refs/heads/main\n",
		forEachRefSubcommandConstant:   fmt.Sprintf(branchRecordTemplateConstant, referenceTime.Unix()),
	}}
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.calls = append(executor.calls, details.Arguments)

	key := strings.Join(details.Arguments, " ")
	if len(details.Arguments) > 0 && details.Arguments[0] == forEachRefSubcommandConstant {
		key = forEachRefSubcommandConstant
	}
	output, found := executor.responses[key]
	if !found {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  execshell.ExecutionResult{ExitCode: unscriptedExitCodeConstant},
		}
	}
	return execshell.ExecutionResult{StandardOutput: output}, nil
}

type applicationFixture struct {
	application *cli.Application
	executor    *scriptedGitExecutor
	output      *bytes.Buffer
	diagnostics *bytes.Buffer
}

func newApplicationFixture(testInstance *testing.T, defaultLogFilePath string) applicationFixture {
	testInstance.Helper()

	executor := newAllClearExecutor()
	output := &bytes.Buffer{}
	diagnostics := &bytes.Buffer{}
	builder := &branches.CommandBuilder{
		Executor:           executor,
		Clock:              shared.FixedClock{Instant: referenceTime},
		WorkingDirectory:   testInstance.TempDir(),
		DefaultLogFilePath: defaultLogFilePath,
	}

	application := cli.NewApplication(
		cli.WithCommandBuilder(builder),
		cli.WithLoggerFactory(utils.NewLoggerFactoryWithDestination(diagnostics)),
		cli.WithStreams(strings.NewReader(""), output, output),
	)
	return applicationFixture{application: application, executor: executor, output: output, diagnostics: diagnostics}
}

func (fixture applicationFixture) execute(arguments ...string) error {
	return fixture.application.ExecuteWithArguments(context.Background(), arguments)
}

func TestApplicationHelpIgnoresInvalidArguments(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "long_help_alone", arguments: []string{"--help"}},
		{name: "short_help_with_unknown_flag", arguments: []string{"--bogus", "-h"}},
		{name: "help_with_invalid_stale_days", arguments: []string{"--stale-days", "0", "--help"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Parallel()

			fixture := newApplicationFixture(testInstance, "")
			require.NoError(testInstance, fixture.execute(testCase.arguments...))

			output := fixture.output.String()
			require.Contains(testInstance, output, usageFragmentConstant)
			require.Contains(testInstance, output, staleDaysUsageFragmentConstant)
			require.Contains(testInstance, output, logLevelUsageFragmentConstant)
			require.Empty(testInstance, fixture.executor.calls)
		})
	}
}

func TestApplicationRejectsInvalidInvocations(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name          string
		arguments     []string
		expectedError error
	}{
		{name: "zero_stale_days", arguments: []string{"--stale-days", "0"}, expectedError: branches.ErrInvalidStaleDays},
		{name: "short_zero_stale_days", arguments: []string{"-s", "0", "--yes"}, expectedError: branches.ErrInvalidStaleDays},
		{name: "missing_folder", arguments: []string{"-f", "/definitely/not/here/prune-gone"}, expectedError: branches.ErrFolderNotFound},
		{name: "unknown_flag", arguments: []string{"--purge-everything"}},
		{name: "positional_argument", arguments: []string{"--yes", "extra"}},
		{name: "invalid_log_level", arguments: []string{"--log-level", "verbose"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Parallel()

			fixture := newApplicationFixture(testInstance, "")
			executionError := fixture.execute(testCase.arguments...)

			require.Error(testInstance, executionError)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedError)
			}
			require.Empty(testInstance, fixture.executor.calls)
		})
	}
}

func TestApplicationRunsSingleRepository(testInstance *testing.T) {
	testInstance.Parallel()

	fixture := newApplicationFixture(testInstance, "")
	require.NoError(testInstance, fixture.execute())

	output := fixture.output.String()
	require.Contains(testInstance, output, allClearFragmentConstant)
	require.Contains(testInstance, output, runSummaryFragmentConstant)
	require.Empty(testInstance, fixture.diagnostics.String())
}

func TestApplicationAcceptsSpaceSeparatedLogPath(testInstance *testing.T) {
	testInstance.Parallel()

	logFilePath := filepath.Join(testInstance.TempDir(), logFileNameConstant)
	fixture := newApplicationFixture(testInstance, "")

	require.NoError(testInstance, fixture.execute("--log", logFilePath, "--yes"))

	logContents, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(logContents), allClearFragmentConstant)
	require.Contains(testInstance, string(logContents), runSummaryFragmentConstant)
}

func TestApplicationLogFlagWithoutValueUsesDefaultPath(testInstance *testing.T) {
	testInstance.Parallel()

	defaultLogFilePath := filepath.Join(testInstance.TempDir(), "bin", logFileNameConstant)
	fixture := newApplicationFixture(testInstance, defaultLogFilePath)

	require.NoError(testInstance, fixture.execute("-l", "--yes"))

	_, statError := os.Stat(defaultLogFilePath)
	require.NoError(testInstance, statError)
}

func TestApplicationDebugLoggingWritesDiagnostics(testInstance *testing.T) {
	testInstance.Parallel()

	fixture := newApplicationFixture(testInstance, "")
	require.NoError(testInstance, fixture.execute("--log-level", "DEBUG", "--log-format", "structured"))

	require.Contains(testInstance, fixture.diagnostics.String(), debugLogFragmentConstant)
}

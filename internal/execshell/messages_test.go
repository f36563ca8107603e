package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesGitCommands(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	testCases := []struct {
		name            string
		arguments       []string
		result          ExecutionResult
		stage           messageStage
		expectedMessage string
	}{
		{
			name:            "work_tree_start",
			arguments:       []string{"rev-parse", "--is-inside-work-tree"},
			stage:           messageStageStart,
			expectedMessage: "Analyzing repository at /workspace/repo",
		},
		{
			name:            "current_branch_success",
			arguments:       []string{"symbolic-ref", "--quiet", "HEAD"},
			result:          ExecutionResult{StandardOutput: "refs/heads/main\n"},
			stage:           messageStageSuccess,
			expectedMessage: "Current branch in /workspace/repo is main",
		},
		{
			name:            "revision_start_strips_peel",
			arguments:       []string{"rev-parse", "--verify", "refs/heads/feature/x^{commit}"},
			stage:           messageStageStart,
			expectedMessage: "Resolving feature/x in /workspace/repo",
		},
		{
			name:            "ancestry_failure",
			arguments:       []string{"merge-base", "--is-ancestor", "abc", "def"},
			result:          ExecutionResult{ExitCode: 1},
			stage:           messageStageFailure,
			expectedMessage: "abc is not merged into def in /workspace/repo (exit code 1)",
		},
		{
			name:            "force_delete_start",
			arguments:       []string{"branch", "-D", "feature/y"},
			stage:           messageStageStart,
			expectedMessage: "Force removing local branch feature/y in /workspace/repo",
		},
		{
			name:            "safe_delete_failure",
			arguments:       []string{"branch", "-d", "feature/y"},
			result:          ExecutionResult{ExitCode: 1, StandardError: "error: the branch 'feature/y' is not fully merged\n"},
			stage:           messageStageFailure,
			expectedMessage: "Failed to remove local branch feature/y in /workspace/repo (exit code 1: error: the branch 'feature/y' is not fully merged)",
		},
		{
			name:            "generic_fallback",
			arguments:       []string{"status"},
			stage:           messageStageSuccess,
			expectedMessage: "Completed git status (in /workspace/repo)",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/workspace/repo"},
			}
			message := formatter.buildMessage(command, testCase.result, nil, testCase.stage)
			require.Equal(testInstance, testCase.expectedMessage, message)
		})
	}
}

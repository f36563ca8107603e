package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/prune-gone/internal/execshell"
)

const (
	gitRevParseSubcommandConstant      = "rev-parse"
	gitWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitVerifyFlagConstant              = "--verify"
	gitQuietFlagConstant               = "--quiet"
	gitSymbolicRefSubcommandConstant   = "symbolic-ref"
	gitForEachRefSubcommandConstant    = "for-each-ref"
	gitFormatFlagTemplateConstant      = "--format=%s"
	gitLocalBranchesPrefixConstant     = "refs/heads/"
	gitMergeBaseSubcommandConstant     = "merge-base"
	gitIsAncestorFlagConstant          = "--is-ancestor"
	gitBranchSubcommandConstant        = "branch"
	gitSafeDeleteFlagConstant          = "-d"
	gitForceDeleteFlagConstant         = "-D"
	gitHeadReferenceConstant           = "HEAD"
	gitCommitPeelTemplateConstant      = "%s^{commit}"
	gitWorkTreeAffirmativeConstant     = "true"
	gitNotFullyMergedMarkerConstant    = "not fully merged"
	gitConditionNotMetExitCodeConstant = 1

	gitExecutorNotConfiguredMessageConstant = "git executor not configured"
	repositoryPathRequiredMessageConstant   = "repository path required"
	referenceRequiredMessageConstant        = "reference required"
	branchNameRequiredMessageConstant       = "branch name required"
	workTreeQueryTemplateConstant           = "check work tree %s: %w"
	headStateQueryTemplateConstant          = "resolve HEAD in %s: %w"
	branchListingTemplateConstant           = "list branches in %s: %w"
	referenceResolutionTemplateConstant     = "resolve %s in %s: %w"
	emptyResolvedCommitTemplateConstant     = "resolve %s in %s: empty object id"
	branchNameRequiredTemplateConstant      = "%w: %s"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrReferenceRequired indicates an empty reference or branch name.
var ErrReferenceRequired = errors.New(referenceRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by RepositoryManager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// HeadState describes what HEAD points at.
type HeadState struct {
	BranchName string
	Detached   bool
	Commit     string
}

// RepositoryManager performs branch-level git operations.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsWorkTree reports whether repositoryPath is inside a git work tree. A
// refusal from git yields false without an error; failure to run git is an error.
func (manager *RepositoryManager) IsWorkTree(executionContext context.Context, repositoryPath string) (bool, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return false, ErrRepositoryPathRequired
	}

	result, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			return false, nil
		}
		return false, fmt.Errorf(workTreeQueryTemplateConstant, repositoryPath, executionError)
	}
	return strings.TrimSpace(result.StandardOutput) == gitWorkTreeAffirmativeConstant, nil
}

// ResolveHead returns the current branch name or, when HEAD is detached, the commit it points at.
func (manager *RepositoryManager) ResolveHead(executionContext context.Context, repositoryPath string) (HeadState, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return HeadState{}, ErrRepositoryPathRequired
	}

	result, executionError := manager.executeGit(executionContext, repositoryPath, gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitHeadReferenceConstant)
	if executionError == nil {
		return HeadState{BranchName: strings.TrimPrefix(strings.TrimSpace(result.StandardOutput), gitLocalBranchesPrefixConstant)}, nil
	}
	if !isConditionNotMet(executionError) {
		return HeadState{}, fmt.Errorf(headStateQueryTemplateConstant, repositoryPath, executionError)
	}

	headCommit, resolveError := manager.ResolveCommit(executionContext, repositoryPath, gitHeadReferenceConstant)
	if resolveError != nil {
		return HeadState{}, fmt.Errorf(headStateQueryTemplateConstant, repositoryPath, resolveError)
	}
	return HeadState{Detached: true, Commit: headCommit}, nil
}

// ListBranchRecords enumerates local branches with tracking state, last commit time, author, and tip.
func (manager *RepositoryManager) ListBranchRecords(executionContext context.Context, repositoryPath string) ([]BranchRecord, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	result, executionError := manager.executeGit(
		executionContext,
		repositoryPath,
		gitForEachRefSubcommandConstant,
		fmt.Sprintf(gitFormatFlagTemplateConstant, BranchRecordFormatConstant),
		gitLocalBranchesPrefixConstant,
	)
	if executionError != nil {
		return nil, fmt.Errorf(branchListingTemplateConstant, repositoryPath, executionError)
	}

	records, parseError := ParseBranchRecords(result.StandardOutput)
	if parseError != nil {
		return nil, fmt.Errorf(branchListingTemplateConstant, repositoryPath, parseError)
	}
	return records, nil
}

// ResolveCommit returns the commit object id the reference points at.
func (manager *RepositoryManager) ResolveCommit(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return "", ErrRepositoryPathRequired
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return "", ErrReferenceRequired
	}

	result, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, fmt.Sprintf(gitCommitPeelTemplateConstant, trimmedReference))
	if executionError != nil {
		return "", fmt.Errorf(referenceResolutionTemplateConstant, trimmedReference, repositoryPath, executionError)
	}

	commit := strings.TrimSpace(result.StandardOutput)
	if len(commit) == 0 {
		return "", fmt.Errorf(emptyResolvedCommitTemplateConstant, trimmedReference, repositoryPath)
	}
	return commit, nil
}

// ResolveBranchCommit returns the commit the local branch points at. The
// branch is addressed by its full reference so a tag of the same name is not
// picked instead.
func (manager *RepositoryManager) ResolveBranchCommit(executionContext context.Context, repositoryPath string, branchName string) (string, error) {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return "", ErrReferenceRequired
	}
	return manager.ResolveCommit(executionContext, repositoryPath, gitLocalBranchesPrefixConstant+trimmedBranchName)
}

// IsAncestor checks whether ancestor is reachable from descendant. A
// condition-not-met outcome means the ancestor is not merged.
func (manager *RepositoryManager) IsAncestor(executionContext context.Context, repositoryPath string, ancestor string, descendant string) OperationResult {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return OperationResult{Outcome: OutcomeFailed, Failure: ErrRepositoryPathRequired}
	}
	if len(strings.TrimSpace(ancestor)) == 0 || len(strings.TrimSpace(descendant)) == 0 {
		return OperationResult{Outcome: OutcomeFailed, Failure: ErrReferenceRequired}
	}

	_, executionError := manager.executeGit(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, gitIsAncestorFlagConstant, ancestor, descendant)
	if executionError == nil {
		return OperationResult{Outcome: OutcomeSucceeded}
	}
	if isConditionNotMet(executionError) {
		return OperationResult{Outcome: OutcomeConditionNotMet, Detail: describeStandardError(executionError)}
	}
	return OperationResult{Outcome: OutcomeFailed, Detail: describeStandardError(executionError), Failure: executionError}
}

// DeleteBranch removes a branch only when it is fully merged. Git refusing
// because the branch is unmerged is reported as condition-not-met.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) OperationResult {
	return manager.deleteBranch(executionContext, repositoryPath, branchName, gitSafeDeleteFlagConstant)
}

// ForceDeleteBranch removes a branch regardless of its merge status.
func (manager *RepositoryManager) ForceDeleteBranch(executionContext context.Context, repositoryPath string, branchName string) OperationResult {
	return manager.deleteBranch(executionContext, repositoryPath, branchName, gitForceDeleteFlagConstant)
}

func (manager *RepositoryManager) deleteBranch(executionContext context.Context, repositoryPath string, branchName string, deletionFlag string) OperationResult {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return OperationResult{Outcome: OutcomeFailed, Failure: ErrRepositoryPathRequired}
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return OperationResult{Outcome: OutcomeFailed, Failure: fmt.Errorf(branchNameRequiredTemplateConstant, ErrReferenceRequired, branchNameRequiredMessageConstant)}
	}

	_, executionError := manager.executeGit(executionContext, repositoryPath, gitBranchSubcommandConstant, deletionFlag, trimmedBranchName)
	if executionError == nil {
		return OperationResult{Outcome: OutcomeSucceeded}
	}

	detail := describeStandardError(executionError)
	if deletionFlag == gitSafeDeleteFlagConstant && strings.Contains(detail, gitNotFullyMergedMarkerConstant) {
		return OperationResult{Outcome: OutcomeConditionNotMet, Detail: detail}
	}
	return OperationResult{Outcome: OutcomeFailed, Detail: detail, Failure: executionError}
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
}

func isConditionNotMet(executionError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(executionError, &failedError) {
		return false
	}
	return failedError.Result.ExitCode == gitConditionNotMetExitCodeConstant
}

func describeStandardError(executionError error) string {
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		return strings.TrimSpace(failedError.Result.StandardError)
	}
	if executionError == nil {
		return ""
	}
	return executionError.Error()
}

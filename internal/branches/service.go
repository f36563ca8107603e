package branches

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/prune-gone/internal/eventlog"
	"github.com/temirov/prune-gone/internal/gitrepo"
	"github.com/temirov/prune-gone/internal/repos/filesystem"
	"github.com/temirov/prune-gone/internal/repos/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	prompterMissingMessageConstant          = "confirmation prompter not configured"
	repositoryInaccessibleMessageConstant   = "repository path is not accessible"
	notRepositoryMessageConstant            = "not a git repository"
	forceNotPermittedMessageConstant        = "force deletion not permitted by configuration"

	repositoryInaccessibleTemplateConstant = "%w: %s: %v"
	repositoryNotDirectoryTemplateConstant = "%w: %s is not a directory"
	notRepositoryTemplateConstant          = "%w: %s"
	passInterruptedTemplateConstant        = "processing of %s interrupted: %w"

	processingRepositoryTemplateConstant = "Processing %s"
	allClearTemplateConstant             = "No branches with a gone upstream in %s"
	candidateTableTemplateConstant       = "Branches with a gone upstream in %s:"
	candidateTableDryRunTemplateConstant = "Branches with a gone upstream in %s (dry run, nothing will be deleted):"
	nothingToDoTemplateConstant          = "All %d candidate branches in %s are stale and --exclude-stale is set; nothing to delete"
	deletionPromptTemplateConstant       = "Delete %d branches in %s? [y/N] "
	forcePromptTemplateConstant          = "Branch %s is not fully merged. Force delete? [y/N] "
	cancelledTemplateConstant            = "Cancelled; no branches deleted in %s"
	promptFailureTemplateConstant        = "Unable to read confirmation: %v"
	unreadableCommitTimeTemplateConstant = "Skipping %s: %v"
	unknownMergeStatusTemplateConstant   = "Unable to determine whether %s is merged: %v"
	unknownMergeStatusDetailConstant     = "merge status unknown"
	outcomeMessageTemplateConstant       = "%s: %s"
	outcomeDetailTemplateConstant        = "%s: %s (%s)"
	completedSummaryTemplateConstant     = "Summary for %s: %d found, %d deleted (%d safe, %d forced), %d skipped, %d failed"
	dryRunSummaryTemplateConstant        = "Summary for %s (dry run): %d found, %d would be deleted, %d skipped"

	candidateTableBranchHeaderConstant     = "BRANCH"
	candidateTableLastCommitHeaderConstant = "LAST COMMIT"
	candidateTableAuthorHeaderConstant     = "AUTHOR"
	candidateTableStaleHeaderConstant      = "STALE"
	candidateTableStaleMarkerConstant      = "stale"
	candidateTableTimeLayoutConstant       = "2006-01-02 15:04"

	headReferenceConstant = "HEAD"

	repositoryFieldConstant   = "repository"
	branchFieldConstant       = "branch"
	outcomeFieldConstant      = "outcome"
	foundFieldConstant        = "found"
	deletedSafeFieldConstant  = "deleted_safe"
	deletedForceFieldConstant = "deleted_force"
	wouldDeleteFieldConstant  = "would_delete"
	skippedFieldConstant      = "skipped"
	failedFieldConstant       = "failed"

	candidateClassifiedLogMessageConstant = "candidate classified"
	passFailedLogMessageConstant          = "repository pass failed"
	ageDaysLogFieldConstant               = "age_days"
	staleLogFieldConstant                 = "stale"
	mergedLogFieldConstant                = "merged"
	mergeKnownLogFieldConstant            = "merge_status_known"
	errorLogFieldConstant                 = "error"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrPrompterNotConfigured indicates the confirmation prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrRepositoryInaccessible indicates that the repository path could not be read.
var ErrRepositoryInaccessible = errors.New(repositoryInaccessibleMessageConstant)

// ErrNotRepository indicates that the path is not inside a git work tree.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// ErrForceNotPermitted indicates a forced delete was requested without --force-delete.
var ErrForceNotPermitted = errors.New(forceNotPermittedMessageConstant)

// RepositoryManager exposes the git operations the cleaner relies on.
type RepositoryManager interface {
	IsWorkTree(executionContext context.Context, repositoryPath string) (bool, error)
	ResolveHead(executionContext context.Context, repositoryPath string) (gitrepo.HeadState, error)
	ListBranchRecords(executionContext context.Context, repositoryPath string) ([]gitrepo.BranchRecord, error)
	ResolveBranchCommit(executionContext context.Context, repositoryPath string, branchName string) (string, error)
	IsAncestor(executionContext context.Context, repositoryPath string, ancestor string, descendant string) gitrepo.OperationResult
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) gitrepo.OperationResult
	ForceDeleteBranch(executionContext context.Context, repositoryPath string, branchName string) gitrepo.OperationResult
}

// Dependencies enumerates external collaborators of the cleaner.
type Dependencies struct {
	RepositoryManager RepositoryManager
	FileSystem        PathStatter
	Prompter          shared.ConfirmationPrompter
	Clock             shared.Clock
	Events            *eventlog.Dispatcher
	Logger            *zap.Logger
}

// Service prunes branches whose upstream is gone, one repository at a time.
type Service struct {
	repositoryManager RepositoryManager
	fileSystem        PathStatter
	prompter          shared.ConfirmationPrompter
	clock             shared.Clock
	events            *eventlog.Dispatcher
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}

	service := &Service{
		repositoryManager: dependencies.RepositoryManager,
		fileSystem:        dependencies.FileSystem,
		prompter:          dependencies.Prompter,
		clock:             dependencies.Clock,
		events:            dependencies.Events,
		logger:            dependencies.Logger,
	}
	if service.fileSystem == nil {
		service.fileSystem = filesystem.OSFileSystem{}
	}
	if service.clock == nil {
		service.clock = shared.SystemClock{}
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	return service, nil
}

// CleanRepository runs one pass over repositoryPath. The returned result is
// failed only when the path is inaccessible, is not a repository, or git
// could not list its branches; individual branch failures are recorded as
// outcomes. Every pass that is not failed ends with a summary event.
func (service *Service) CleanRepository(executionContext context.Context, repositoryPath string, configuration Configuration) RepositoryResult {
	result := RepositoryResult{RepositoryPath: repositoryPath}
	service.events.Info(fmt.Sprintf(processingRepositoryTemplateConstant, repositoryPath), eventlog.String(repositoryFieldConstant, repositoryPath))

	head, enterError := service.enter(executionContext, repositoryPath)
	if enterError != nil {
		return service.fail(result, enterError)
	}

	candidates, scanError := service.scan(executionContext, repositoryPath, head, configuration)
	if scanError != nil {
		return service.fail(result, scanError)
	}
	result.Found = len(candidates)

	if len(candidates) == 0 {
		result.Status = RepositoryStatusAllClear
		service.events.Success(fmt.Sprintf(allClearTemplateConstant, repositoryPath), eventlog.String(repositoryFieldConstant, repositoryPath))
		service.emitSummary(result, configuration)
		return result
	}

	service.emitCandidateTable(repositoryPath, candidates, configuration)

	deletableCount := countDeletable(candidates, configuration)
	if deletableCount == 0 {
		for _, candidate := range candidates {
			result.Outcomes = append(result.Outcomes, BranchOutcome{BranchName: candidate.Record.Name, Kind: OutcomeSkipped, SkipReason: SkipReasonStale})
		}
		result.Status = RepositoryStatusNothingToDo
		service.events.Info(fmt.Sprintf(nothingToDoTemplateConstant, len(candidates), repositoryPath), eventlog.String(repositoryFieldConstant, repositoryPath))
		service.emitSummary(result, configuration)
		return result
	}

	confirmationPolicy := shared.ConfirmationPolicyFromBool(configuration.AssumeYes)
	if !configuration.DryRun && confirmationPolicy.ShouldPrompt() {
		if !service.confirm(fmt.Sprintf(deletionPromptTemplateConstant, deletableCount, repositoryPath)) {
			result.Status = RepositoryStatusCancelled
			service.events.Warning(fmt.Sprintf(cancelledTemplateConstant, repositoryPath), eventlog.String(repositoryFieldConstant, repositoryPath))
			service.emitSummary(result, configuration)
			return result
		}
	}

	for _, candidate := range candidates {
		if contextError := executionContext.Err(); contextError != nil {
			return service.fail(result, fmt.Errorf(passInterruptedTemplateConstant, repositoryPath, contextError))
		}
		outcome := service.processCandidate(executionContext, repositoryPath, candidate, head, configuration)
		result.Outcomes = append(result.Outcomes, outcome)
		service.emitOutcome(repositoryPath, outcome)
	}

	result.Status = RepositoryStatusCompleted
	service.emitSummary(result, configuration)
	return result
}

func (service *Service) enter(executionContext context.Context, repositoryPath string) (gitrepo.HeadState, error) {
	info, statError := service.fileSystem.Stat(repositoryPath)
	if statError != nil {
		return gitrepo.HeadState{}, fmt.Errorf(repositoryInaccessibleTemplateConstant, ErrRepositoryInaccessible, repositoryPath, statError)
	}
	if !info.IsDir() {
		return gitrepo.HeadState{}, fmt.Errorf(repositoryNotDirectoryTemplateConstant, ErrRepositoryInaccessible, repositoryPath)
	}

	isWorkTree, workTreeError := service.repositoryManager.IsWorkTree(executionContext, repositoryPath)
	if workTreeError != nil {
		return gitrepo.HeadState{}, workTreeError
	}
	if !isWorkTree {
		return gitrepo.HeadState{}, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, repositoryPath)
	}

	return service.repositoryManager.ResolveHead(executionContext, repositoryPath)
}

func (service *Service) scan(executionContext context.Context, repositoryPath string, head gitrepo.HeadState, configuration Configuration) ([]Candidate, error) {
	records, listError := service.repositoryManager.ListBranchRecords(executionContext, repositoryPath)
	if listError != nil {
		return nil, listError
	}

	now := service.clock.Now()
	candidates := make([]Candidate, 0, len(records))
	for _, record := range records {
		if !record.UpstreamGone() {
			continue
		}
		if pointsAtHead(record, head) {
			continue
		}
		if !record.HasCommitTime() {
			service.events.Warning(
				fmt.Sprintf(unreadableCommitTimeTemplateConstant, record.Name, record.CommitTimeError),
				eventlog.String(repositoryFieldConstant, repositoryPath),
				eventlog.String(branchFieldConstant, record.Name),
			)
			continue
		}

		candidate := newCandidate(record, now, configuration.StaleDays)
		mergeResult := service.repositoryManager.IsAncestor(executionContext, repositoryPath, tipReference(record), headReferenceConstant)
		if mergeResult.Failed() {
			service.events.Warning(
				fmt.Sprintf(unknownMergeStatusTemplateConstant, record.Name, mergeResult.Failure),
				eventlog.String(repositoryFieldConstant, repositoryPath),
				eventlog.String(branchFieldConstant, record.Name),
			)
		} else {
			candidate.MergeStatusKnown = true
			candidate.IsMerged = mergeResult.Succeeded()
		}

		service.logger.Debug(
			candidateClassifiedLogMessageConstant,
			zap.String(repositoryFieldConstant, repositoryPath),
			zap.String(branchFieldConstant, record.Name),
			zap.Int64(ageDaysLogFieldConstant, candidate.AgeDays),
			zap.Bool(staleLogFieldConstant, candidate.IsStale),
			zap.Bool(mergedLogFieldConstant, candidate.IsMerged),
			zap.Bool(mergeKnownLogFieldConstant, candidate.MergeStatusKnown),
		)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (service *Service) processCandidate(executionContext context.Context, repositoryPath string, candidate Candidate, head gitrepo.HeadState, configuration Configuration) BranchOutcome {
	branchName := candidate.Record.Name
	if configuration.ExcludeStale && candidate.IsStale {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeSkipped, SkipReason: SkipReasonStale}
	}

	protected, protectionError := service.isProtected(executionContext, repositoryPath, branchName, head)
	if protectionError != nil {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeFailed, Detail: protectionError.Error(), Failure: protectionError}
	}
	if protected {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeSkipped, SkipReason: SkipReasonProtected}
	}

	if configuration.DryRun {
		return predictOutcome(candidate, configuration)
	}

	deletion := service.repositoryManager.DeleteBranch(executionContext, repositoryPath, branchName)
	switch {
	case deletion.Succeeded():
		return BranchOutcome{BranchName: branchName, Kind: OutcomeDeletedSafe}
	case deletion.ConditionNotMet():
		return service.handleUnmerged(executionContext, repositoryPath, branchName, configuration)
	default:
		return failedOutcome(branchName, deletion)
	}
}

func (service *Service) handleUnmerged(executionContext context.Context, repositoryPath string, branchName string, configuration Configuration) BranchOutcome {
	forcePolicy := shared.ForceDeletionPolicyFromBool(configuration.ForceDelete)
	if forcePolicy.ForceWithoutAsking() {
		return service.forceDeleteByPolicy(executionContext, repositoryPath, branchName, forcePolicy)
	}

	confirmationPolicy := shared.ConfirmationPolicyFromBool(configuration.AssumeYes)
	if confirmationPolicy.ShouldAssumeYes() {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeSkipped, SkipReason: SkipReasonRequiresForce}
	}

	answer := service.confirm(fmt.Sprintf(forcePromptTemplateConstant, branchName))
	return service.forceDeleteAfterConfirmation(executionContext, repositoryPath, branchName, confirmationPolicy, answer)
}

// forceDeleteByPolicy removes an unmerged branch because --force-delete was given.
func (service *Service) forceDeleteByPolicy(executionContext context.Context, repositoryPath string, branchName string, policy shared.ForceDeletionPolicy) BranchOutcome {
	if !policy.ForceWithoutAsking() {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeFailed, Detail: forceNotPermittedMessageConstant, Failure: ErrForceNotPermitted}
	}
	deletion := service.repositoryManager.ForceDeleteBranch(executionContext, repositoryPath, branchName)
	if !deletion.Succeeded() {
		return failedOutcome(branchName, deletion)
	}
	return BranchOutcome{BranchName: branchName, Kind: OutcomeDeletedForce}
}

// forceDeleteAfterConfirmation removes an unmerged branch only after the operator answered yes for that branch.
func (service *Service) forceDeleteAfterConfirmation(executionContext context.Context, repositoryPath string, branchName string, policy shared.ConfirmationPolicy, answer bool) BranchOutcome {
	if !policy.ShouldPrompt() || !answer {
		return BranchOutcome{BranchName: branchName, Kind: OutcomeSkipped, SkipReason: SkipReasonDeclined}
	}
	deletion := service.repositoryManager.ForceDeleteBranch(executionContext, repositoryPath, branchName)
	if !deletion.Succeeded() {
		return failedOutcome(branchName, deletion)
	}
	return BranchOutcome{BranchName: branchName, Kind: OutcomeDeletedForce}
}

func (service *Service) isProtected(executionContext context.Context, repositoryPath string, branchName string, head gitrepo.HeadState) (bool, error) {
	if !head.Detached {
		return branchName == head.BranchName, nil
	}
	commit, resolveError := service.repositoryManager.ResolveBranchCommit(executionContext, repositoryPath, branchName)
	if resolveError != nil {
		return false, resolveError
	}
	return commit == head.Commit, nil
}

func (service *Service) confirm(prompt string) bool {
	confirmed, promptError := service.prompter.Confirm(prompt)
	if promptError != nil {
		service.events.Warning(fmt.Sprintf(promptFailureTemplateConstant, promptError))
		return false
	}
	return confirmed
}

func (service *Service) fail(result RepositoryResult, failure error) RepositoryResult {
	result.Status = RepositoryStatusFailed
	result.Failure = failure
	service.logger.Debug(passFailedLogMessageConstant, zap.String(repositoryFieldConstant, result.RepositoryPath), zap.String(errorLogFieldConstant, failure.Error()))
	return result
}

func (service *Service) emitCandidateTable(repositoryPath string, candidates []Candidate, configuration Configuration) {
	table := &eventlog.Table{
		Headers: []string{
			candidateTableBranchHeaderConstant,
			candidateTableLastCommitHeaderConstant,
			candidateTableAuthorHeaderConstant,
			candidateTableStaleHeaderConstant,
		},
	}
	for _, candidate := range candidates {
		staleMarker := ""
		if candidate.IsStale {
			staleMarker = candidateTableStaleMarkerConstant
		}
		table.Rows = append(table.Rows, []string{
			candidate.Record.Name,
			candidate.Record.CommitTime.Format(candidateTableTimeLayoutConstant),
			candidate.Record.Author,
			staleMarker,
		})
	}

	messageTemplate := candidateTableTemplateConstant
	if configuration.DryRun {
		messageTemplate = candidateTableDryRunTemplateConstant
	}
	message := fmt.Sprintf(messageTemplate, repositoryPath)
	service.events.Emit(eventlog.Event{
		Level:   eventlog.LevelInfo,
		Message: message,
		Fields:  []eventlog.Field{eventlog.String(repositoryFieldConstant, repositoryPath), eventlog.Int(foundFieldConstant, len(candidates))},
		Table:   table,
	})
}

func (service *Service) emitOutcome(repositoryPath string, outcome BranchOutcome) {
	message := fmt.Sprintf(outcomeMessageTemplateConstant, outcome.BranchName, outcome.Label())
	if len(outcome.Detail) > 0 {
		message = fmt.Sprintf(outcomeDetailTemplateConstant, outcome.BranchName, outcome.Label(), outcome.Detail)
	}

	event := eventlog.Event{
		Level:   eventlog.LevelInfo,
		Message: message,
		Fields: []eventlog.Field{
			eventlog.String(repositoryFieldConstant, repositoryPath),
			eventlog.String(branchFieldConstant, outcome.BranchName),
			eventlog.String(outcomeFieldConstant, outcome.Label()),
		},
	}
	switch {
	case outcome.Kind == OutcomeDeletedSafe || outcome.Kind == OutcomeDeletedForce:
		event.Level = eventlog.LevelSuccess
	case outcome.Kind == OutcomeFailed:
		event.Level = eventlog.LevelError
	case outcome.Kind == OutcomeSkipped && outcome.SkipReason == SkipReasonRequiresForce:
		event.Level = eventlog.LevelWarning
	}
	service.events.Emit(event)
}

func (service *Service) emitSummary(result RepositoryResult, configuration Configuration) {
	if configuration.DryRun {
		service.events.Info(
			fmt.Sprintf(dryRunSummaryTemplateConstant, result.RepositoryPath, result.Found, result.WouldDelete(), result.Skipped()),
			eventlog.String(repositoryFieldConstant, result.RepositoryPath),
			eventlog.Int(foundFieldConstant, result.Found),
			eventlog.Int(wouldDeleteFieldConstant, result.WouldDelete()),
			eventlog.Int(skippedFieldConstant, result.Skipped()),
		)
		return
	}

	deletedSafe := result.DeletedSafe()
	deletedForce := result.DeletedForce()
	service.events.Info(
		fmt.Sprintf(completedSummaryTemplateConstant, result.RepositoryPath, result.Found, deletedSafe+deletedForce, deletedSafe, deletedForce, result.Skipped(), result.FailedBranches()),
		eventlog.String(repositoryFieldConstant, result.RepositoryPath),
		eventlog.Int(foundFieldConstant, result.Found),
		eventlog.Int(deletedSafeFieldConstant, deletedSafe),
		eventlog.Int(deletedForceFieldConstant, deletedForce),
		eventlog.Int(skippedFieldConstant, result.Skipped()),
		eventlog.Int(failedFieldConstant, result.FailedBranches()),
	)
}

// predictOutcome mirrors the delete step without touching the repository. A
// candidate whose merge status is unknown is predicted as unmerged.
func predictOutcome(candidate Candidate, configuration Configuration) BranchOutcome {
	branchName := candidate.Record.Name
	detail := ""
	if !candidate.MergeStatusKnown {
		detail = unknownMergeStatusDetailConstant
	}
	switch {
	case candidate.MergeStatusKnown && candidate.IsMerged:
		return BranchOutcome{BranchName: branchName, Kind: OutcomeWouldDeleteSafe}
	case configuration.ForceDelete:
		return BranchOutcome{BranchName: branchName, Kind: OutcomeWouldDeleteForce, Detail: detail}
	default:
		return BranchOutcome{BranchName: branchName, Kind: OutcomeSkipped, SkipReason: SkipReasonRequiresForce, Detail: detail}
	}
}

func failedOutcome(branchName string, operation gitrepo.OperationResult) BranchOutcome {
	detail := operation.Detail
	if len(detail) == 0 && operation.Failure != nil {
		detail = operation.Failure.Error()
	}
	return BranchOutcome{BranchName: branchName, Kind: OutcomeFailed, Detail: detail, Failure: operation.Failure}
}

func countDeletable(candidates []Candidate, configuration Configuration) int {
	if !configuration.ExcludeStale {
		return len(candidates)
	}
	deletable := 0
	for _, candidate := range candidates {
		if !candidate.IsStale {
			deletable++
		}
	}
	return deletable
}

func pointsAtHead(record gitrepo.BranchRecord, head gitrepo.HeadState) bool {
	if head.Detached {
		return len(head.Commit) > 0 && record.Commit == head.Commit
	}
	return record.Name == head.BranchName
}

func tipReference(record gitrepo.BranchRecord) string {
	if len(record.Commit) > 0 {
		return record.Commit
	}
	return record.Name
}

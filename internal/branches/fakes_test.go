package branches_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/temirov/prune-gone/internal/eventlog"
	"github.com/temirov/prune-gone/internal/gitrepo"
)

const (
	secondsPerDay              = 86400
	commitIdentifierTemplate   = "commit-%s"
	notFullyMergedTemplate     = "error: the branch '%s' is not fully merged"
	defaultAuthorName          = "Alice Example"
	mainBranchName             = "main"
	mergedBranchName           = "feature/x"
	unmergedStaleBranchName    = "feature/y"
	trackingBranchName         = "feature/tracking"
	untrackedBranchName        = "scratch"
	deleteFailureDetail        = "error: cannot lock ref"
	mergeBaseFailureMessage    = "merge-base exploded"
	mergedBranchAgeDays        = 2
	unmergedStaleBranchAgeDays = 45
)

var referenceTime = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func commitIdentifier(branchName string) string {
	return fmt.Sprintf(commitIdentifierTemplate, branchName)
}

func branchRecord(name string, ageDays int64, trackingState gitrepo.TrackingState) gitrepo.BranchRecord {
	commitSeconds := referenceTime.Unix() - ageDays*secondsPerDay - 3600
	return gitrepo.BranchRecord{
		Name:              name,
		Upstream:          "origin/" + name,
		TrackingState:     trackingState,
		CommitUnixSeconds: commitSeconds,
		CommitTime:        time.Unix(commitSeconds, 0).UTC(),
		Author:            defaultAuthorName,
		Commit:            commitIdentifier(name),
	}
}

type fakeRepositoryManager struct {
	workTree         bool
	workTreeError    error
	head             gitrepo.HeadState
	headError        error
	records          []gitrepo.BranchRecord
	listError        error
	unmerged         map[string]bool
	ancestorFailure  error
	deleteFailures   map[string]bool
	forceFailures    map[string]bool
	resolvedCommits  map[string]string
	safeDeleteCalls  []string
	forceDeleteCalls []string
	removedBranches  []string
}

func newFakeRepositoryManager(records ...gitrepo.BranchRecord) *fakeRepositoryManager {
	return &fakeRepositoryManager{
		workTree:        true,
		head:            gitrepo.HeadState{BranchName: mainBranchName},
		records:         records,
		unmerged:        map[string]bool{},
		deleteFailures:  map[string]bool{},
		forceFailures:   map[string]bool{},
		resolvedCommits: map[string]string{},
	}
}

func (manager *fakeRepositoryManager) IsWorkTree(context.Context, string) (bool, error) {
	return manager.workTree, manager.workTreeError
}

func (manager *fakeRepositoryManager) ResolveHead(context.Context, string) (gitrepo.HeadState, error) {
	return manager.head, manager.headError
}

func (manager *fakeRepositoryManager) ListBranchRecords(context.Context, string) ([]gitrepo.BranchRecord, error) {
	if manager.listError != nil {
		return nil, manager.listError
	}
	remaining := make([]gitrepo.BranchRecord, 0, len(manager.records))
	for _, record := range manager.records {
		if !manager.removed(record.Name) {
			remaining = append(remaining, record)
		}
	}
	return remaining, nil
}

func (manager *fakeRepositoryManager) ResolveBranchCommit(_ context.Context, _ string, branchName string) (string, error) {
	if commit, found := manager.resolvedCommits[branchName]; found {
		return commit, nil
	}
	return commitIdentifier(branchName), nil
}

func (manager *fakeRepositoryManager) IsAncestor(_ context.Context, _ string, ancestor string, _ string) gitrepo.OperationResult {
	if manager.ancestorFailure != nil {
		return gitrepo.OperationResult{Outcome: gitrepo.OutcomeFailed, Failure: manager.ancestorFailure}
	}
	for _, record := range manager.records {
		if record.Commit == ancestor && manager.unmerged[record.Name] {
			return gitrepo.OperationResult{Outcome: gitrepo.OutcomeConditionNotMet}
		}
	}
	return gitrepo.OperationResult{Outcome: gitrepo.OutcomeSucceeded}
}

func (manager *fakeRepositoryManager) DeleteBranch(_ context.Context, _ string, branchName string) gitrepo.OperationResult {
	manager.safeDeleteCalls = append(manager.safeDeleteCalls, branchName)
	if manager.deleteFailures[branchName] {
		return gitrepo.OperationResult{Outcome: gitrepo.OutcomeFailed, Detail: deleteFailureDetail, Failure: errors.New(deleteFailureDetail)}
	}
	if manager.unmerged[branchName] {
		return gitrepo.OperationResult{Outcome: gitrepo.OutcomeConditionNotMet, Detail: fmt.Sprintf(notFullyMergedTemplate, branchName)}
	}
	manager.removedBranches = append(manager.removedBranches, branchName)
	return gitrepo.OperationResult{Outcome: gitrepo.OutcomeSucceeded}
}

func (manager *fakeRepositoryManager) ForceDeleteBranch(_ context.Context, _ string, branchName string) gitrepo.OperationResult {
	manager.forceDeleteCalls = append(manager.forceDeleteCalls, branchName)
	if manager.forceFailures[branchName] {
		return gitrepo.OperationResult{Outcome: gitrepo.OutcomeFailed, Detail: deleteFailureDetail, Failure: errors.New(deleteFailureDetail)}
	}
	manager.removedBranches = append(manager.removedBranches, branchName)
	return gitrepo.OperationResult{Outcome: gitrepo.OutcomeSucceeded}
}

func (manager *fakeRepositoryManager) removed(branchName string) bool {
	for _, removedBranch := range manager.removedBranches {
		if removedBranch == branchName {
			return true
		}
	}
	return false
}

type scriptedPrompter struct {
	answers     []bool
	promptError error
	prompts     []string
}

func (prompter *scriptedPrompter) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	if prompter.promptError != nil {
		return false, prompter.promptError
	}
	if len(prompter.answers) == 0 {
		return false, nil
	}
	answer := prompter.answers[0]
	prompter.answers = prompter.answers[1:]
	return answer, nil
}

type recordingSink struct {
	events []eventlog.Event
}

func (sink *recordingSink) Emit(event eventlog.Event) {
	sink.events = append(sink.events, event)
}

func (sink *recordingSink) messages(level eventlog.Level) []string {
	var messages []string
	for _, event := range sink.events {
		if event.Level == level {
			messages = append(messages, event.Message)
		}
	}
	return messages
}

func (sink *recordingSink) tables() []*eventlog.Table {
	var tables []*eventlog.Table
	for _, event := range sink.events {
		if event.Table != nil {
			tables = append(tables, event.Table)
		}
	}
	return tables
}

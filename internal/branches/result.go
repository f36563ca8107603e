package branches

import (
	"time"

	"github.com/temirov/prune-gone/internal/gitrepo"
)

const (
	repositoryStatusCompletedConstant   = "completed"
	repositoryStatusAllClearConstant    = "all-clear"
	repositoryStatusNothingToDoConstant = "nothing-to-do"
	repositoryStatusCancelledConstant   = "cancelled"
	repositoryStatusFailedConstant      = "failed"

	outcomeDeletedSafeLabelConstant      = "deleted (safe)"
	outcomeDeletedForceLabelConstant     = "deleted (force)"
	outcomeWouldDeleteSafeLabelConstant  = "would delete (safe)"
	outcomeWouldDeleteForceLabelConstant = "would delete (force)"
	outcomeSkippedLabelConstant          = "skipped"
	outcomeFailedLabelConstant           = "failed"

	skipReasonStaleLabelConstant         = "stale"
	skipReasonProtectedLabelConstant     = "protected"
	skipReasonRequiresForceLabelConstant = "would require force"
	skipReasonDeclinedLabelConstant      = "user declined"

	secondsPerDayConstant = 86400
)

// RepositoryStatus summarizes how a repository pass ended.
type RepositoryStatus string

// Supported repository statuses.
const (
	RepositoryStatusCompleted   RepositoryStatus = repositoryStatusCompletedConstant
	RepositoryStatusAllClear    RepositoryStatus = repositoryStatusAllClearConstant
	RepositoryStatusNothingToDo RepositoryStatus = repositoryStatusNothingToDoConstant
	RepositoryStatusCancelled   RepositoryStatus = repositoryStatusCancelledConstant
	RepositoryStatusFailed      RepositoryStatus = repositoryStatusFailedConstant
)

// OutcomeKind classifies what happened to one candidate branch.
type OutcomeKind int

// Supported outcome kinds.
const (
	OutcomeDeletedSafe OutcomeKind = iota
	OutcomeDeletedForce
	OutcomeWouldDeleteSafe
	OutcomeWouldDeleteForce
	OutcomeSkipped
	OutcomeFailed
)

// String returns the display label of the outcome kind.
func (kind OutcomeKind) String() string {
	switch kind {
	case OutcomeDeletedSafe:
		return outcomeDeletedSafeLabelConstant
	case OutcomeDeletedForce:
		return outcomeDeletedForceLabelConstant
	case OutcomeWouldDeleteSafe:
		return outcomeWouldDeleteSafeLabelConstant
	case OutcomeWouldDeleteForce:
		return outcomeWouldDeleteForceLabelConstant
	case OutcomeSkipped:
		return outcomeSkippedLabelConstant
	default:
		return outcomeFailedLabelConstant
	}
}

// SkipReason explains a skipped outcome.
type SkipReason int

// Supported skip reasons.
const (
	SkipReasonNone SkipReason = iota
	SkipReasonStale
	SkipReasonProtected
	SkipReasonRequiresForce
	SkipReasonDeclined
)

// String returns the display label of the skip reason.
func (reason SkipReason) String() string {
	switch reason {
	case SkipReasonStale:
		return skipReasonStaleLabelConstant
	case SkipReasonProtected:
		return skipReasonProtectedLabelConstant
	case SkipReasonRequiresForce:
		return skipReasonRequiresForceLabelConstant
	case SkipReasonDeclined:
		return skipReasonDeclinedLabelConstant
	default:
		return ""
	}
}

// Candidate is a branch whose upstream is gone, annotated with derived facts.
// IsMerged is meaningful only when MergeStatusKnown is set.
type Candidate struct {
	Record           gitrepo.BranchRecord
	AgeDays          int64
	IsStale          bool
	IsMerged         bool
	MergeStatusKnown bool
}

// newCandidate derives age and staleness. Age is the number of whole days since the last commit.
func newCandidate(record gitrepo.BranchRecord, now time.Time, staleDays int) Candidate {
	ageDays := (now.Unix() - record.CommitUnixSeconds) / secondsPerDayConstant
	if ageDays < 0 {
		ageDays = 0
	}
	return Candidate{
		Record:  record,
		AgeDays: ageDays,
		IsStale: ageDays > int64(staleDays),
	}
}

// BranchOutcome records the result of processing one candidate.
type BranchOutcome struct {
	BranchName string
	Kind       OutcomeKind
	SkipReason SkipReason
	Detail     string
	Failure    error
}

// Label renders the outcome for reports, including the skip reason.
func (outcome BranchOutcome) Label() string {
	if outcome.Kind == OutcomeSkipped && outcome.SkipReason != SkipReasonNone {
		return outcome.Kind.String() + " (" + outcome.SkipReason.String() + ")"
	}
	return outcome.Kind.String()
}

// RepositoryResult captures one repository pass.
type RepositoryResult struct {
	RepositoryPath string
	Status         RepositoryStatus
	Found          int
	Outcomes       []BranchOutcome
	Failure        error
}

// Failed reports whether the pass itself failed.
func (result RepositoryResult) Failed() bool {
	return result.Status == RepositoryStatusFailed
}

// Count returns the number of outcomes of the given kind.
func (result RepositoryResult) Count(kind OutcomeKind) int {
	count := 0
	for _, outcome := range result.Outcomes {
		if outcome.Kind == kind {
			count++
		}
	}
	return count
}

// SkippedCount returns the number of outcomes skipped for the given reason.
func (result RepositoryResult) SkippedCount(reason SkipReason) int {
	count := 0
	for _, outcome := range result.Outcomes {
		if outcome.Kind == OutcomeSkipped && outcome.SkipReason == reason {
			count++
		}
	}
	return count
}

// DeletedSafe returns the number of branches removed by the safe delete.
func (result RepositoryResult) DeletedSafe() int {
	return result.Count(OutcomeDeletedSafe)
}

// DeletedForce returns the number of branches removed by the forced delete.
func (result RepositoryResult) DeletedForce() int {
	return result.Count(OutcomeDeletedForce)
}

// WouldDelete returns the number of branches a dry run would remove.
func (result RepositoryResult) WouldDelete() int {
	return result.Count(OutcomeWouldDeleteSafe) + result.Count(OutcomeWouldDeleteForce)
}

// Skipped returns the number of skipped branches.
func (result RepositoryResult) Skipped() int {
	return result.Count(OutcomeSkipped)
}

// FailedBranches returns the number of branches whose deletion failed.
func (result RepositoryResult) FailedBranches() int {
	return result.Count(OutcomeFailed)
}

// RunSummary aggregates every repository pass of a run.
type RunSummary struct {
	RepositoriesFound     int
	RepositoriesProcessed int
	Results               []RepositoryResult
}

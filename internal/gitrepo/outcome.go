package gitrepo

// OperationOutcome tags the meaning of a git invocation.
type OperationOutcome int

const (
	// OutcomeSucceeded indicates the operation completed.
	OutcomeSucceeded OperationOutcome = iota
	// OutcomeConditionNotMet indicates git refused because a precondition did not hold, such as an unmerged branch.
	OutcomeConditionNotMet
	// OutcomeFailed indicates the operation could not be completed.
	OutcomeFailed
)

const (
	outcomeSucceededLabelConstant       = "succeeded"
	outcomeConditionNotMetLabelConstant = "condition-not-met"
	outcomeFailedLabelConstant          = "failed"
)

// String returns the outcome label.
func (outcome OperationOutcome) String() string {
	switch outcome {
	case OutcomeSucceeded:
		return outcomeSucceededLabelConstant
	case OutcomeConditionNotMet:
		return outcomeConditionNotMetLabelConstant
	default:
		return outcomeFailedLabelConstant
	}
}

// OperationResult reports the outcome of a git operation together with the
// diagnostic text git produced and, for failures, the underlying error.
type OperationResult struct {
	Outcome OperationOutcome
	Detail  string
	Failure error
}

// Succeeded reports whether the operation completed.
func (result OperationResult) Succeeded() bool {
	return result.Outcome == OutcomeSucceeded
}

// ConditionNotMet reports whether git declined the operation on a precondition.
func (result OperationResult) ConditionNotMet() bool {
	return result.Outcome == OutcomeConditionNotMet
}

// Failed reports whether the operation could not be completed.
func (result OperationResult) Failed() bool {
	return result.Outcome == OutcomeFailed
}

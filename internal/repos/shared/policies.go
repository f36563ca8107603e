package shared

// ConfirmationPolicy describes whether destructive steps wait for an interactive answer.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt requires an interactive answer before each destructive step.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes treats every question as answered with yes.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool maps the --yes flag onto a ConfirmationPolicy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the user must be asked.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy == ConfirmationPrompt
}

// ShouldAssumeYes reports whether confirmations are implied.
func (policy ConfirmationPolicy) ShouldAssumeYes() bool {
	return policy == ConfirmationAssumeYes
}

// ForceDeletionPolicy describes how branches rejected by the safe delete are handled.
type ForceDeletionPolicy int

const (
	// ForceDeletionAsk offers a forced delete only after a safe delete is refused.
	ForceDeletionAsk ForceDeletionPolicy = iota
	// ForceDeletionEnabled force deletes unmerged branches without a separate question.
	ForceDeletionEnabled
)

// ForceDeletionPolicyFromBool maps the --force-delete flag onto a ForceDeletionPolicy.
func ForceDeletionPolicyFromBool(forceDelete bool) ForceDeletionPolicy {
	if forceDelete {
		return ForceDeletionEnabled
	}
	return ForceDeletionAsk
}

// ForceWithoutAsking reports whether unmerged branches are force deleted directly.
func (policy ForceDeletionPolicy) ForceWithoutAsking() bool {
	return policy == ForceDeletionEnabled
}

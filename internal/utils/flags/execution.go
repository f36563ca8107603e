// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecutionDefaults describes default values of the flags controlling whether and how branches are deleted.
type ExecutionDefaults struct {
	DryRun      bool
	AssumeYes   bool
	ForceDelete bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun      ExecutionFlagDefinition
	AssumeYes   ExecutionFlagDefinition
	ForceDelete ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions returns the standard dry-run, yes and force-delete definitions.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:      ExecutionFlagDefinition{Name: DryRunFlagName, Shorthand: DryRunFlagShorthand, Usage: DryRunFlagUsage, Enabled: true},
		AssumeYes:   ExecutionFlagDefinition{Name: AssumeYesFlagName, Shorthand: AssumeYesFlagShorthand, Usage: AssumeYesFlagUsage, Enabled: true},
		ForceDelete: ExecutionFlagDefinition{Name: ForceDeleteFlagName, Shorthand: ForceDeleteFlagShorthand, Usage: ForceDeleteFlagUsage, Enabled: true},
	}
}

// BindExecutionFlags attaches execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()

	bindBoolFlag(flagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(flagSet, definitions.AssumeYes, defaults.AssumeYes)
	bindBoolFlag(flagSet, definitions.ForceDelete, defaults.ForceDelete)
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

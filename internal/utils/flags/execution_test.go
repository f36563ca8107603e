package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindExecutionFlags(t *testing.T) {
	command := &cobra.Command{}
	BindExecutionFlags(command, ExecutionDefaults{}, DefaultExecutionFlagDefinitions())

	require.NoError(t, command.ParseFlags([]string{"-n", "-y", "-D"}))

	for _, flagName := range []string{DryRunFlagName, AssumeYesFlagName, ForceDeleteFlagName} {
		value, lookupError := command.Flags().GetBool(flagName)
		require.NoError(t, lookupError)
		require.True(t, value, flagName)
	}
	require.Nil(t, command.PersistentFlags().Lookup(DryRunFlagName))
}

func TestBindExecutionFlagsSkipsDisabledDefinitions(t *testing.T) {
	command := &cobra.Command{}
	definitions := DefaultExecutionFlagDefinitions()
	definitions.ForceDelete.Enabled = false
	BindExecutionFlags(command, ExecutionDefaults{}, definitions)

	require.NotNil(t, command.Flags().Lookup(DryRunFlagName))
	require.Nil(t, command.Flags().Lookup(ForceDeleteFlagName))
	require.NotPanics(t, func() { BindExecutionFlags(nil, ExecutionDefaults{}, definitions) })
}

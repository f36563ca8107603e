package utils_test

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-gone/internal/utils"
)

const (
	testStaleDaysFlagConstant      = "stale-days"
	testTimeoutFlagConstant        = "command-timeout"
	testFolderFlagConstant         = "folder"
	testRecursiveFlagConstant      = "recursive"
	testCaseFlagDefaultsConstant   = "flag_definitions_supply_defaults"
	testCaseLoaderDefaultsConstant = "loader_defaults_override_flag_definitions"
	testCaseUserFlagsConstant      = "user_flags_override_defaults"
)

type flagConfigurationFixture struct {
	StaleDays      int           `mapstructure:"stale-days"`
	CommandTimeout time.Duration `mapstructure:"command-timeout"`
	Folder         string        `mapstructure:"folder"`
	Recursive      bool          `mapstructure:"recursive"`
}

func newFixtureFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("fixture", pflag.ContinueOnError)
	flagSet.Int(testStaleDaysFlagConstant, 30, "")
	flagSet.Duration(testTimeoutFlagConstant, 2*time.Minute, "")
	flagSet.String(testFolderFlagConstant, "", "")
	flagSet.Bool(testRecursiveFlagConstant, false, "")
	return flagSet
}

func TestFlagConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		defaultValues map[string]any
		expected      flagConfigurationFixture
	}{
		{
			name:     testCaseFlagDefaultsConstant,
			expected: flagConfigurationFixture{StaleDays: 30, CommandTimeout: 2 * time.Minute},
		},
		{
			name:          testCaseLoaderDefaultsConstant,
			defaultValues: map[string]any{testStaleDaysFlagConstant: 45, testTimeoutFlagConstant: "30s"},
			expected:      flagConfigurationFixture{StaleDays: 45, CommandTimeout: 30 * time.Second},
		},
		{
			name:          testCaseUserFlagsConstant,
			arguments:     []string{"--stale-days", "7", "--command-timeout", "90s", "--folder", "/repos", "--recursive"},
			defaultValues: map[string]any{testStaleDaysFlagConstant: 45},
			expected:      flagConfigurationFixture{StaleDays: 7, CommandTimeout: 90 * time.Second, Folder: "/repos", Recursive: true},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			flagSet := newFixtureFlagSet()
			require.NoError(testInstance, flagSet.Parse(testCase.arguments))

			var loaded flagConfigurationFixture
			loadError := utils.NewFlagConfigurationLoader().LoadConfiguration(flagSet, testCase.defaultValues, &loaded)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expected, loaded)
		})
	}
}

func TestFlagConfigurationLoaderValidatesInputs(testInstance *testing.T) {
	loader := utils.NewFlagConfigurationLoader()

	require.ErrorIs(testInstance, loader.LoadConfiguration(nil, nil, &flagConfigurationFixture{}), utils.ErrFlagSetNotProvided)
	require.ErrorIs(testInstance, loader.LoadConfiguration(newFixtureFlagSet(), nil, nil), utils.ErrConfigurationTargetNotProvided)
}

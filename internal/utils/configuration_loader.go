package utils

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagSetNotProvidedMessageConstant             = "flag set not provided"
	configurationTargetNotProvidedMessageConstant = "configuration target not provided"
	configurationBindErrorTemplateConstant        = "failed to bind flags: %w"
	configurationUnmarshalErrorTemplateConstant   = "failed to parse configuration: %w"
	sliceDecodeSeparatorConstant                  = ","
)

// ErrFlagSetNotProvided indicates LoadConfiguration was called without a flag set.
var ErrFlagSetNotProvided = errors.New(flagSetNotProvidedMessageConstant)

// ErrConfigurationTargetNotProvided indicates LoadConfiguration was called without a destination.
var ErrConfigurationTargetNotProvided = errors.New(configurationTargetNotProvidedMessageConstant)

// FlagConfigurationLoader resolves command configuration from parsed command-line
// flags layered over defaults. Configuration files and environment variables are
// deliberately not consulted.
type FlagConfigurationLoader struct {
	decodeHooks []mapstructure.DecodeHookFunc
}

// NewFlagConfigurationLoader creates a loader decoding durations and comma-separated lists.
func NewFlagConfigurationLoader(additionalHooks ...mapstructure.DecodeHookFunc) *FlagConfigurationLoader {
	decodeHooks := []mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(sliceDecodeSeparatorConstant),
	}
	for _, hook := range additionalHooks {
		if hook != nil {
			decodeHooks = append(decodeHooks, hook)
		}
	}
	return &FlagConfigurationLoader{decodeHooks: decodeHooks}
}

// LoadConfiguration populates targetConfiguration from the flag set. Flags the
// user set take precedence over defaultValues, which take precedence over the
// flag definitions' own defaults. Keys match the flag names.
func (loader *FlagConfigurationLoader) LoadConfiguration(flagSet *pflag.FlagSet, defaultValues map[string]any, targetConfiguration any) error {
	if flagSet == nil {
		return ErrFlagSetNotProvided
	}
	if targetConfiguration == nil {
		return ErrConfigurationTargetNotProvided
	}

	viperInstance := viper.New()
	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if bindError := viperInstance.BindPFlags(flagSet); bindError != nil {
		return fmt.Errorf(configurationBindErrorTemplateConstant, bindError)
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(loader.decodeHooks...)))
	if unmarshalError != nil {
		return fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}
	return nil
}

package flags

import (
	"strings"

	"github.com/spf13/pflag"
)

const (
	longFlagPrefixConstant          = "--"
	shortFlagPrefixConstant         = "-"
	flagValueAssignmentConstant     = "="
	argumentTerminatorConstant      = "--"
	booleanFlagValueTypeConstant    = "bool"
	optionalValueUsageSuffixLiteral = " (FILE is optional)"
)

// AddOptionalStringFlag registers a string flag whose value may be omitted, in
// which case fallbackValue is used. Combine with NormalizeOptionalValueArguments
// so "--flag value" is accepted alongside "--flag=value".
func AddOptionalStringFlag(flagSet *pflag.FlagSet, target *string, name string, shorthand string, fallbackValue string, usage string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}

	if len(shorthand) > 0 {
		flagSet.StringVarP(target, name, shorthand, "", usage+optionalValueUsageSuffixLiteral)
	} else {
		flagSet.StringVar(target, name, "", usage+optionalValueUsageSuffixLiteral)
	}

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = fallbackValue
}

// NormalizeOptionalValueArguments rewrites "--flag value" to "--flag=value" for
// every non-boolean flag in flagSet that accepts an omitted value, so the
// following token is consumed as the value instead of a positional argument.
// Arguments after "--" are left untouched.
func NormalizeOptionalValueArguments(flagSet *pflag.FlagSet, arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if index+1 < len(arguments) && acceptsOptionalValue(flagSet, current) && !strings.HasPrefix(arguments[index+1], shortFlagPrefixConstant) {
			normalized = append(normalized, current+flagValueAssignmentConstant+arguments[index+1])
			index += 2
			continue
		}

		normalized = append(normalized, current)
		index++
	}

	return normalized
}

func acceptsOptionalValue(flagSet *pflag.FlagSet, argument string) bool {
	if flagSet == nil || strings.Contains(argument, flagValueAssignmentConstant) {
		return false
	}

	var flag *pflag.Flag
	switch {
	case strings.HasPrefix(argument, longFlagPrefixConstant):
		name := strings.TrimPrefix(argument, longFlagPrefixConstant)
		if len(name) == 0 {
			return false
		}
		flag = flagSet.Lookup(name)
	case strings.HasPrefix(argument, shortFlagPrefixConstant):
		shorthand := strings.TrimPrefix(argument, shortFlagPrefixConstant)
		if len(shorthand) != 1 {
			return false
		}
		flag = flagSet.ShorthandLookup(shorthand)
	default:
		return false
	}

	if flag == nil || len(flag.NoOptDefVal) == 0 {
		return false
	}
	return flag.Value.Type() != booleanFlagValueTypeConstant
}

package eventlog

import "strconv"

// Level classifies an event for presentation.
type Level int

// Supported event levels.
const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

const (
	levelInfoLabelConstant    = "info"
	levelSuccessLabelConstant = "success"
	levelWarningLabelConstant = "warning"
	levelErrorLabelConstant   = "error"
)

// String returns the level label.
func (level Level) String() string {
	switch level {
	case LevelSuccess:
		return levelSuccessLabelConstant
	case LevelWarning:
		return levelWarningLabelConstant
	case LevelError:
		return levelErrorLabelConstant
	default:
		return levelInfoLabelConstant
	}
}

// Field is an ordered key/value annotation attached to an event.
type Field struct {
	Key   string
	Value string
}

// String builds a textual field.
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int builds a numeric field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: strconv.Itoa(value)}
}

// Table is tabular content attached to an event.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Event is a single operator-facing report.
type Event struct {
	Level   Level
	Message string
	Fields  []Field
	Table   *Table
}

// Field returns the value of the named field.
func (event Event) Field(key string) (string, bool) {
	for _, field := range event.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

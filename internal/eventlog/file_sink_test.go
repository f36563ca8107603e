package eventlog_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-gone/internal/eventlog"
)

const (
	fileSinkTestTimestampConstant = "[2024-03-05T14:30:00Z] "
)

type fixedClock struct {
	instant time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.instant
}

func (clock fixedClock) NewTicker(duration time.Duration) *time.Ticker {
	return time.NewTicker(duration)
}

type closeRecordingBuffer struct {
	bytes.Buffer
	closed bool
}

func (buffer *closeRecordingBuffer) Close() error {
	buffer.closed = true
	return nil
}

func newTestFileSink(testInstance *testing.T, destination *closeRecordingBuffer) *eventlog.FileSink {
	testInstance.Helper()
	offsetZone := time.FixedZone("UTC+2", 2*60*60)
	sink, creationError := eventlog.NewFileSink(destination, eventlog.WithClock(fixedClock{instant: time.Date(2024, time.March, 5, 16, 30, 0, 0, offsetZone)}))
	require.NoError(testInstance, creationError)
	return sink
}

func TestFileSinkWritesPlainTimestampedLines(testInstance *testing.T) {
	testCases := []struct {
		name           string
		event          eventlog.Event
		expectedOutput string
	}{
		{
			name:           "info",
			event:          eventlog.Event{Level: eventlog.LevelInfo, Message: "Processing /repo"},
			expectedOutput: fileSinkTestTimestampConstant + "Processing /repo\n",
		},
		{
			name:           "success_drops_fields",
			event:          eventlog.Event{Level: eventlog.LevelSuccess, Message: "Deleted feature/x", Fields: []eventlog.Field{eventlog.String("branch", "feature/x")}},
			expectedOutput: fileSinkTestTimestampConstant + "Deleted feature/x\n",
		},
		{
			name:           "warning_prefix",
			event:          eventlog.Event{Level: eventlog.LevelWarning, Message: "not a repository"},
			expectedOutput: fileSinkTestTimestampConstant + "WARNING: not a repository\n",
		},
		{
			name:           "error_prefix",
			event:          eventlog.Event{Level: eventlog.LevelError, Message: "failed"},
			expectedOutput: fileSinkTestTimestampConstant + "ERROR: failed\n",
		},
		{
			name: "table_rows",
			event: eventlog.Event{
				Level:   eventlog.LevelInfo,
				Message: "Candidates",
				Table:   &eventlog.Table{Headers: []string{"BRANCH", "AUTHOR"}, Rows: [][]string{{"feature/x", "Ada"}}},
			},
			expectedOutput: fileSinkTestTimestampConstant + "Candidates\n" +
				fileSinkTestTimestampConstant + "BRANCH  AUTHOR\n" +
				fileSinkTestTimestampConstant + "feature/x  Ada\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			destination := &closeRecordingBuffer{}
			sink := newTestFileSink(testInstance, destination)

			sink.Emit(testCase.event)

			require.Equal(testInstance, testCase.expectedOutput, destination.String())
			require.NotContains(testInstance, destination.String(), "\x1b[")
		})
	}
}

func TestFileSinkCloseClosesDestination(testInstance *testing.T) {
	destination := &closeRecordingBuffer{}
	sink := newTestFileSink(testInstance, destination)

	require.NoError(testInstance, sink.Close())
	require.True(testInstance, destination.closed)
}

func TestNewFileSinkRequiresDestination(testInstance *testing.T) {
	sink, creationError := eventlog.NewFileSink(nil)
	require.ErrorIs(testInstance, creationError, eventlog.ErrLogWriterNotConfigured)
	require.Nil(testInstance, sink)
}

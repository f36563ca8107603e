package eventlog

import (
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fileSinkTimeKeyConstant          = "time"
	fileSinkMessageKeyConstant       = "message"
	fileSinkConsoleSeparatorConstant = " "
	fileSinkTimestampPrefixConstant  = "["
	fileSinkTimestampSuffixConstant  = "]"
	fileSinkWarningPrefixConstant    = "WARNING: "
	fileSinkErrorPrefixConstant      = "ERROR: "
	fileSinkTableCellSeparator       = "  "
	fileSinkWriterRequiredMessage    = "log file writer not configured"
)

// ErrLogWriterNotConfigured indicates a FileSink was constructed without a destination.
var ErrLogWriterNotConfigured = errors.New(fileSinkWriterRequiredMessage)

// FileSinkOption customizes a FileSink.
type FileSinkOption func(*fileSinkSettings)

type fileSinkSettings struct {
	clock zapcore.Clock
}

// WithClock overrides the timestamp source.
func WithClock(clock zapcore.Clock) FileSinkOption {
	return func(settings *fileSinkSettings) {
		if clock != nil {
			settings.clock = clock
		}
	}
}

// FileSink writes events as plain text lines of the form "[timestamp] message"
// with UTC RFC 3339 timestamps. Table rows are written one per line.
type FileSink struct {
	logger *zap.Logger
	closer io.Closer
}

// NewFileSink constructs a FileSink over the destination. The destination is
// closed by Close when it implements io.Closer.
func NewFileSink(destination io.Writer, options ...FileSinkOption) (*FileSink, error) {
	if destination == nil {
		return nil, ErrLogWriterNotConfigured
	}

	settings := fileSinkSettings{clock: zapcore.DefaultClock}
	for _, option := range options {
		if option != nil {
			option(&settings)
		}
	}

	encoderConfiguration := zapcore.EncoderConfig{
		TimeKey:          fileSinkTimeKeyConstant,
		MessageKey:       fileSinkMessageKeyConstant,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       encodeBracketedUTCTime,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: fileSinkConsoleSeparatorConstant,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfiguration), zapcore.AddSync(destination), zapcore.DebugLevel)

	sink := &FileSink{logger: zap.New(core, zap.WithClock(settings.clock))}
	if closer, closable := destination.(io.Closer); closable {
		sink.closer = closer
	}
	return sink, nil
}

// Emit writes the event message, followed by any table rows.
func (sink *FileSink) Emit(event Event) {
	if sink == nil || sink.logger == nil {
		return
	}

	message := event.Message
	switch event.Level {
	case LevelWarning:
		message = fileSinkWarningPrefixConstant + message
	case LevelError:
		message = fileSinkErrorPrefixConstant + message
	}
	if len(strings.TrimSpace(message)) > 0 {
		sink.write(event.Level, message)
	}

	if event.Table == nil {
		return
	}
	if len(event.Table.Headers) > 0 {
		sink.write(event.Level, strings.Join(event.Table.Headers, fileSinkTableCellSeparator))
	}
	for _, row := range event.Table.Rows {
		sink.write(event.Level, strings.Join(row, fileSinkTableCellSeparator))
	}
}

// Close flushes buffered output and closes the destination.
func (sink *FileSink) Close() error {
	if sink == nil {
		return nil
	}
	syncError := sink.logger.Sync()
	if sink.closer == nil {
		return syncError
	}
	return errors.Join(syncError, sink.closer.Close())
}

func (sink *FileSink) write(level Level, message string) {
	switch level {
	case LevelWarning:
		sink.logger.Warn(message)
	case LevelError:
		sink.logger.Error(message)
	default:
		sink.logger.Info(message)
	}
}

func encodeBracketedUTCTime(timestamp time.Time, encoder zapcore.PrimitiveArrayEncoder) {
	encoder.AppendString(fileSinkTimestampPrefixConstant + timestamp.UTC().Format(time.RFC3339) + fileSinkTimestampSuffixConstant)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prune-gone/internal/branches"
	"github.com/temirov/prune-gone/internal/utils"
	"github.com/temirov/prune-gone/internal/utils/flags"
)

const (
	helpLongFlagConstant                = "--help"
	helpShortFlagConstant               = "-h"
	argumentTerminatorConstant          = "--"
	loggerCreationErrorTemplateConstant = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant     = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant   = "unable to build command: %w"
	loggerInitializedMessageConstant    = "logger initialized"
	logLevelFieldConstant               = "log_level"
	logFormatFieldConstant              = "log_format"
	workingDirectoryFieldConstant       = "working_directory"
)

// ApplicationOption customizes an Application.
type ApplicationOption func(*applicationSettings)

type applicationSettings struct {
	commandBuilder *branches.CommandBuilder
	loggerFactory  *utils.LoggerFactory
	input          io.Reader
	output         io.Writer
	errorOutput    io.Writer
}

// WithCommandBuilder replaces the default command builder.
func WithCommandBuilder(builder *branches.CommandBuilder) ApplicationOption {
	return func(settings *applicationSettings) {
		if builder != nil {
			settings.commandBuilder = builder
		}
	}
}

// WithLoggerFactory replaces the diagnostic logger factory.
func WithLoggerFactory(factory *utils.LoggerFactory) ApplicationOption {
	return func(settings *applicationSettings) {
		if factory != nil {
			settings.loggerFactory = factory
		}
	}
}

// WithStreams redirects standard input, output, and error of the command.
func WithStreams(input io.Reader, output io.Writer, errorOutput io.Writer) ApplicationOption {
	return func(settings *applicationSettings) {
		settings.input = input
		settings.output = output
		settings.errorOutput = errorOutput
	}
}

// Application wires the Cobra root command and the diagnostic logger.
type Application struct {
	rootCommand        *cobra.Command
	buildError         error
	loggerFactory      *utils.LoggerFactory
	logger             *zap.Logger
	workingDirectory   string
	logLevelFlagValue  string
	logFormatFlagValue string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	settings := applicationSettings{loggerFactory: utils.NewLoggerFactory()}
	for _, option := range options {
		if option != nil {
			option(&settings)
		}
	}

	application := &Application{
		loggerFactory: settings.loggerFactory,
		logger:        zap.NewNop(),
	}

	commandBuilder := settings.commandBuilder
	if commandBuilder == nil {
		commandBuilder = defaultCommandBuilder()
	}
	if commandBuilder.LoggerProvider == nil {
		commandBuilder.LoggerProvider = func() *zap.Logger {
			return application.logger
		}
	}
	application.workingDirectory = commandBuilder.WorkingDirectory

	rootCommand, buildError := commandBuilder.Build()
	if buildError != nil {
		application.buildError = fmt.Errorf(commandBuildErrorTemplateConstant, buildError)
		return application
	}

	rootCommand.SetContext(context.Background())
	rootCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeLogger()
	}
	persistentFlags := rootCommand.PersistentFlags()
	flags.AddChoiceFlag(persistentFlags, &application.logLevelFlagValue, flags.LogLevelFlagName, string(utils.LogLevelError), utils.SupportedLogLevels(), flags.LogLevelFlagUsage)
	flags.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, flags.LogFormatFlagName, string(utils.LogFormatConsole), utils.SupportedLogFormats(), flags.LogFormatFlagUsage)

	if settings.input != nil {
		rootCommand.SetIn(settings.input)
	}
	if settings.output != nil {
		rootCommand.SetOut(settings.output)
	}
	if settings.errorOutput != nil {
		rootCommand.SetErr(settings.errorOutput)
	}

	application.rootCommand = rootCommand
	return application
}

// Execute builds an application, cancels it on SIGINT or SIGTERM, and runs it with the process arguments.
func Execute() error {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewApplication().ExecuteWithArguments(executionContext, os.Args[1:])
}

// ExecuteWithArguments runs the command with the provided arguments. A help
// request anywhere before "--" prints usage and succeeds, even when other
// arguments are invalid.
func (application *Application) ExecuteWithArguments(executionContext context.Context, arguments []string) error {
	if application.buildError != nil {
		return application.buildError
	}

	if helpRequested(arguments) {
		return application.rootCommand.Help()
	}

	normalizedArguments := flags.NormalizeOptionalValueArguments(application.rootCommand.Flags(), arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

func (application *Application) initializeLogger() error {
	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.logLevelFlagValue),
		utils.LogFormat(application.logFormatFlagValue),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	application.logger.Debug(
		loggerInitializedMessageConstant,
		zap.String(logLevelFieldConstant, application.logLevelFlagValue),
		zap.String(logFormatFieldConstant, application.logFormatFlagValue),
		zap.String(workingDirectoryFieldConstant, application.workingDirectory),
	)
	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func defaultCommandBuilder() *branches.CommandBuilder {
	builder := &branches.CommandBuilder{DefaultLogFilePath: defaultLogFilePath()}
	if workingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
		builder.WorkingDirectory = workingDirectory
	}
	return builder
}

func defaultLogFilePath() string {
	executablePath, executableError := os.Executable()
	if executableError != nil {
		return branches.DefaultLogFileNameConstant
	}
	return filepath.Join(filepath.Dir(executablePath), branches.DefaultLogFileNameConstant)
}

func helpRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == argumentTerminatorConstant {
			return false
		}
		if argument == helpLongFlagConstant || argument == helpShortFlagConstant {
			return true
		}
	}
	return false
}

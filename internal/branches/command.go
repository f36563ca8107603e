package branches

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prune-gone/internal/eventlog"
	"github.com/temirov/prune-gone/internal/execshell"
	"github.com/temirov/prune-gone/internal/gitrepo"
	"github.com/temirov/prune-gone/internal/repos/discovery"
	"github.com/temirov/prune-gone/internal/repos/filesystem"
	"github.com/temirov/prune-gone/internal/repos/shared"
	"github.com/temirov/prune-gone/internal/ui"
	"github.com/temirov/prune-gone/internal/utils"
	"github.com/temirov/prune-gone/internal/utils/flags"
	pathutils "github.com/temirov/prune-gone/internal/utils/path"
)

const (
	commandUseConstant              = "prune-gone"
	commandShortDescriptionConstant = "Delete local branches whose upstream branch is gone"
	commandLongDescriptionConstant  = `prune-gone lists local branches whose upstream was deleted on the remote and removes them.

By default it works on the repository in the current directory. With --folder it
processes every repository directly inside the folder, or every repository below
it with --recursive. Branches are removed with a safe delete first; unmerged
branches are force deleted only with --force-delete or after a per-branch answer.`
	logFilePermissionsConstant         = 0o644
	logFileOpenTemplateConstant        = "unable to open log file %s: %w"
	logFileCloseFailureMessageConstant = "unable to close log file"
	logFileFieldConstant               = "log_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command that prunes branches. Unset
// collaborators fall back to the operating system implementations.
type CommandBuilder struct {
	LoggerProvider     LoggerProvider
	Executor           gitrepo.GitExecutor
	Prompter           shared.ConfirmationPrompter
	Clock              shared.Clock
	FileSystem         shared.FileSystem
	FolderResolver     FolderResolver
	Scanner            RepositoryScanner
	WorkingDirectory   string
	DefaultLogFilePath string
}

// Build constructs the prune-gone command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagSet := command.Flags()
	flagSet.StringP(flags.FolderFlagName, flags.FolderFlagShorthand, "", flags.FolderFlagUsage)
	flagSet.BoolP(flags.RecursiveFlagName, flags.RecursiveFlagShorthand, false, flags.RecursiveFlagUsage)
	flagSet.Bool(flags.SkipNestedFlagName, false, flags.SkipNestedFlagUsage)
	flagSet.IntP(flags.StaleDaysFlagName, flags.StaleDaysFlagShorthand, defaults.StaleDays, flags.StaleDaysFlagUsage)
	flagSet.BoolP(flags.ExcludeStaleFlagName, flags.ExcludeStaleFlagShorthand, false, flags.ExcludeStaleFlagUsage)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())
	flags.AddOptionalStringFlag(flagSet, new(string), flags.LogFileFlagName, flags.LogFileFlagShorthand, builder.resolveDefaultLogFilePath(), flags.LogFileFlagUsage)
	flagSet.Duration(flags.CommandTimeoutFlagName, defaults.CommandTimeout, flags.CommandTimeoutFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	fileSystem := builder.resolveFileSystem()

	commandConfiguration := DefaultCommandConfiguration()
	loader := utils.NewFlagConfigurationLoader()
	if loadError := loader.LoadConfiguration(command.Flags(), DefaultConfigurationValues(), &commandConfiguration); loadError != nil {
		return loadError
	}

	configuration, resolveError := commandConfiguration.Resolve(ResolutionInputs{
		FolderResolver:     builder.resolveFolderResolver(),
		FileSystem:         fileSystem,
		WorkingDirectory:   builder.WorkingDirectory,
		LogRequested:       command.Flags().Changed(flags.LogFileFlagName),
		DefaultLogFilePath: builder.resolveDefaultLogFilePath(),
	})
	if resolveError != nil {
		return resolveError
	}

	events, dispatcherError := builder.buildDispatcher(command, configuration, fileSystem)
	if dispatcherError != nil {
		return dispatcherError
	}
	defer func() {
		if closeError := events.Close(); closeError != nil {
			logger.Warn(logFileCloseFailureMessageConstant, zap.String(logFileFieldConstant, configuration.LogFilePath), zap.Error(closeError))
		}
	}()

	executor, executorError := builder.resolveExecutor(logger, configuration)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		FileSystem:        fileSystem,
		Prompter:          builder.resolvePrompter(command),
		Clock:             builder.Clock,
		Events:            events,
		Logger:            logger,
	})
	if serviceError != nil {
		return serviceError
	}

	runner, runnerError := NewRunner(builder.resolveScanner(fileSystem), service, events)
	if runnerError != nil {
		return runnerError
	}

	_, runError := runner.Run(command.Context(), configuration)
	return runError
}

func (builder *CommandBuilder) buildDispatcher(command *cobra.Command, configuration Configuration, fileSystem shared.FileSystem) (*eventlog.Dispatcher, error) {
	events := eventlog.NewDispatcher(ui.NewConsoleRenderer(command.OutOrStdout()))
	if !configuration.LogEnabled {
		return events, nil
	}

	logWriter, openError := fileSystem.OpenAppend(configuration.LogFilePath, logFilePermissionsConstant)
	if openError != nil {
		return nil, fmt.Errorf(logFileOpenTemplateConstant, configuration.LogFilePath, openError)
	}

	fileSink, sinkError := eventlog.NewFileSink(logWriter)
	if sinkError != nil {
		_ = logWriter.Close()
		return nil, sinkError
	}
	events.AddSink(fileSink)
	return events, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger, configuration Configuration) (gitrepo.GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(
		logger,
		execshell.NewOSCommandRunner(),
		execshell.WithCommandTimeout(configuration.CommandTimeout),
		execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)),
	)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) shared.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return ui.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveFileSystem() shared.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.OSFileSystem{}
}

func (builder *CommandBuilder) resolveFolderResolver() FolderResolver {
	if builder.FolderResolver != nil {
		return builder.FolderResolver
	}
	return pathutils.NewFolderResolver()
}

func (builder *CommandBuilder) resolveScanner(fileSystem shared.FileSystem) RepositoryScanner {
	if builder.Scanner != nil {
		return builder.Scanner
	}
	return discovery.NewScannerWithFileSystem(fileSystem)
}

func (builder *CommandBuilder) resolveDefaultLogFilePath() string {
	if len(builder.DefaultLogFilePath) > 0 {
		return builder.DefaultLogFilePath
	}
	return DefaultLogFileNameConstant
}

package branches

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/temirov/prune-gone/internal/eventlog"
	"github.com/temirov/prune-gone/internal/repos/discovery"
)

const (
	scannerMissingMessageConstant       = "repository scanner not configured"
	cleanerMissingMessageConstant       = "repository cleaner not configured"
	runInterruptedTemplateConstant      = "run interrupted: %w"
	repositoryScanTemplateConstant      = "unable to discover repositories: %w"
	repositorySkippedTemplateConstant   = "Skipping %s: %v"
	noRepositoriesFoundTemplateConstant = "No git repositories found in %s"
	runSummaryTemplateConstant          = "%d repositories found, %d processed"
	repositoriesFoundFieldConstant      = "repositories_found"
	repositoriesProcessedFieldConstant  = "repositories_processed"
)

// ErrScannerNotConfigured indicates the repository scanner dependency was missing.
var ErrScannerNotConfigured = errors.New(scannerMissingMessageConstant)

// ErrCleanerNotConfigured indicates the repository cleaner dependency was missing.
var ErrCleanerNotConfigured = errors.New(cleanerMissingMessageConstant)

// RepositoryScanner yields repository roots lazily.
type RepositoryScanner interface {
	Repositories(options discovery.ScanOptions) iter.Seq2[string, error]
}

// RepositoryCleaner runs one pass over a repository.
type RepositoryCleaner interface {
	CleanRepository(executionContext context.Context, repositoryPath string, configuration Configuration) RepositoryResult
}

// Runner drives the scanner and the cleaner for a whole run.
type Runner struct {
	scanner RepositoryScanner
	cleaner RepositoryCleaner
	events  *eventlog.Dispatcher
}

// NewRunner constructs a Runner.
func NewRunner(scanner RepositoryScanner, cleaner RepositoryCleaner, events *eventlog.Dispatcher) (*Runner, error) {
	if scanner == nil {
		return nil, ErrScannerNotConfigured
	}
	if cleaner == nil {
		return nil, ErrCleanerNotConfigured
	}
	return &Runner{scanner: scanner, cleaner: cleaner, events: events}, nil
}

// Run processes every repository selected by the configuration. In
// multi-repository mode a failed pass is reported as a warning and the run
// continues; in single-repository mode it ends the run with an error.
func (runner *Runner) Run(executionContext context.Context, configuration Configuration) (RunSummary, error) {
	summary := RunSummary{}
	scanOptions := discovery.ScanOptions{
		WorkingDirectory:       configuration.WorkingDirectory,
		Folder:                 configuration.Folder,
		Recursive:              configuration.Recursive,
		SkipNestedRepositories: configuration.SkipNestedRepositories,
	}

	for repositoryPath, scanError := range runner.scanner.Repositories(scanOptions) {
		if scanError != nil {
			return summary, fmt.Errorf(repositoryScanTemplateConstant, scanError)
		}
		if contextError := executionContext.Err(); contextError != nil {
			return summary, fmt.Errorf(runInterruptedTemplateConstant, contextError)
		}

		summary.RepositoriesFound++
		result := runner.cleaner.CleanRepository(executionContext, repositoryPath, configuration)
		summary.Results = append(summary.Results, result)

		if result.Failed() {
			if !configuration.MultiRepository() {
				return summary, result.Failure
			}
			runner.events.Warning(
				fmt.Sprintf(repositorySkippedTemplateConstant, repositoryPath, result.Failure),
				eventlog.String(repositoryFieldConstant, repositoryPath),
			)
			continue
		}
		summary.RepositoriesProcessed++
	}

	if contextError := executionContext.Err(); contextError != nil {
		return summary, fmt.Errorf(runInterruptedTemplateConstant, contextError)
	}

	if configuration.MultiRepository() && summary.RepositoriesFound == 0 {
		runner.events.Warning(fmt.Sprintf(noRepositoriesFoundTemplateConstant, configuration.Folder))
	}

	runner.events.Info(
		fmt.Sprintf(runSummaryTemplateConstant, summary.RepositoriesFound, summary.RepositoriesProcessed),
		eventlog.Int(repositoriesFoundFieldConstant, summary.RepositoriesFound),
		eventlog.Int(repositoriesProcessedFieldConstant, summary.RepositoriesProcessed),
	)
	return summary, nil
}

package branches

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/ui"
)

const (
	forEachRefSubcommandConstant    = "for-each-ref"
	sortByCommitterDateFlagConstant = "--sort=-committerdate"
	countFlagTemplateConstant       = "--count=%d"
	formatFlagConstant              = "--format=%(refname:short)|%(committerdate:relative)"
	localBranchNamespaceConstant    = "refs/heads/"
	branchFieldSeparatorConstant    = "|"
	branchColumnHeaderConstant      = "Branch"
	lastChangeColumnHeaderConstant  = "Last Change"
	noBranchesMessageConstant       = "No branches found\n"
	listingErrorTemplateConstant    = "listing branches: %w"
	serviceLoggerRequiredMessage    = "branches service requires a logger"
	serviceExecutorRequiredMessage  = "branches service requires an executor"
)

// CommandExecutor is the executor slice needed by the branch listing.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service construction errors.
var (
	ErrLoggerRequired   = errors.New(serviceLoggerRequiredMessage)
	ErrExecutorRequired = errors.New(serviceExecutorRequiredMessage)
)

// Options parameterizes one branch listing.
type Options struct {
	Limit            int
	WorkingDirectory string
	Output           io.Writer
}

// Service renders recently changed local branches.
type Service struct {
	logger   *zap.Logger
	executor CommandExecutor
}

// NewService assembles the branch listing service.
func NewService(logger *zap.Logger, executor CommandExecutor) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}
	return &Service{logger: logger, executor: executor}, nil
}

// List prints the most recently committed local branches as a table, newest
// first, capped at the configured limit.
func (service *Service) List(executionContext context.Context, options Options) error {
	listResult, listError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			forEachRefSubcommandConstant,
			sortByCommitterDateFlagConstant,
			fmt.Sprintf(countFlagTemplateConstant, options.Limit),
			formatFlagConstant,
			localBranchNamespaceConstant,
		},
		WorkingDirectory: options.WorkingDirectory,
	})
	if listError != nil {
		return fmt.Errorf(listingErrorTemplateConstant, listError)
	}

	tableRows := parseBranchRows(listResult.StandardOutput)
	if len(tableRows) == 0 {
		fmt.Fprint(options.Output, noBranchesMessageConstant)
		return nil
	}

	fmt.Fprintln(options.Output, ui.RenderTable([]string{branchColumnHeaderConstant, lastChangeColumnHeaderConstant}, tableRows))
	return nil
}

func parseBranchRows(commandOutput string) [][]string {
	var tableRows [][]string
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		branchName, lastChange, separatorFound := strings.Cut(trimmedLine, branchFieldSeparatorConstant)
		if !separatorFound {
			tableRows = append(tableRows, []string{trimmedLine, ""})
			continue
		}
		tableRows = append(tableRows, []string{branchName, lastChange})
	}
	return tableRows
}

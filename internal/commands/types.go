// Package commands implements the unified command execution system for promptsmith.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the coordination layer between user interfaces (CLI, interactive TUI)
// and business logic (the generation service). It implements the Command Pattern to
// provide consistent command execution across interfaces while keeping the service
// surface out of interface code.
//
// KEY RESPONSIBILITIES:
// - Define the standardized command interface and execution flow
// - Convert interface-specific inputs into generation requests
// - Standardize response formats across all interfaces via CommandResult
// - Enable dynamic command registration for extensibility
//
// COMMAND FLOW:
// 1. Interface receives user input (CLI args, TUI interaction)
// 2. Interface converts input to command parameters
// 3. Command validates its parameters
// 4. Command executes business logic via the generation service
// 5. Results are formatted into a standardized CommandResult
// 6. Interface renders the CommandResult in its own display format
package commands

import (
	"context"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/generation"
)

// CommandResult represents the result of executing a command
type CommandResult struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code    string      `json:"code"`
	Type    string      `json:"type,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Command represents a unified command interface
type Command interface {
	Execute(ctx context.Context) (*CommandResult, error)
	Validate() error
	GetName() string
	GetDescription() string
}

// ServiceAwareCommand is implemented by commands needing service access
type ServiceAwareCommand interface {
	SetService(svc *generation.Service)
}

// CommandRegistry manages available commands
type CommandRegistry struct {
	commands map[string]func() Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]func() Command),
	}
}

// Register adds a command factory to the registry
func (r *CommandRegistry) Register(name string, factory func() Command) {
	r.commands[name] = factory
}

// Get retrieves a command factory by name
func (r *CommandRegistry) Get(name string) (func() Command, bool) {
	factory, exists := r.commands[name]
	return factory, exists
}

// List returns all available command names
func (r *CommandRegistry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}

// CommandExecutor provides a unified way to execute commands
type CommandExecutor struct {
	service  *generation.Service
	registry *CommandRegistry
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(svc *generation.Service) *CommandExecutor {
	executor := &CommandExecutor{
		service:  svc,
		registry: NewCommandRegistry(),
	}

	executor.registerCommands()

	return executor
}

// Execute runs a command by name. Failures come back inside the
// CommandResult; the error return is reserved for executor misuse.
func (e *CommandExecutor) Execute(ctx context.Context, commandName string, configure func(Command) error) (*CommandResult, error) {
	factory, exists := e.registry.Get(commandName)
	if !exists {
		appErr := errors.NotFoundError("Command", commandName)
		return errorResult(appErr), nil
	}

	cmd := factory()

	if aware, ok := cmd.(ServiceAwareCommand); ok {
		aware.SetService(e.service)
	}

	if configure != nil {
		if err := configure(cmd); err != nil {
			return errorResult(commandFault(err)), nil
		}
	}

	if err := cmd.Validate(); err != nil {
		return errorResult(commandFault(err)), nil
	}

	result, err := cmd.Execute(ctx)
	if err != nil {
		return errorResult(errors.GetAppError(err)), nil
	}

	return result, nil
}

// registerCommands registers all available commands
func (e *CommandExecutor) registerCommands() {
	e.registry.Register("generate", func() Command { return &GenerateCommand{} })
	e.registry.Register("validate", func() Command { return &ValidateTemplateCommand{} })
	e.registry.Register("list", func() Command { return &ListTemplatesCommand{} })
	e.registry.Register("refresh", func() Command { return &RefreshCommand{} })
	e.registry.Register("health", func() Command { return &HealthCheckCommand{} })
}

// FromResponse maps a generation response onto the command result shape
// shared by every interface. The CLI-facing {success, output, error}
// view is composed from this: Success carries over, the rendered
// content (Data.Content, summarized in Message) is the output, and
// ErrorInfo keeps kind/type/message for programmatic branching.
func FromResponse(resp generation.Response) *CommandResult {
	if resp.Success {
		return &CommandResult{
			Success: true,
			Data:    resp,
			Message: "Prompt generated from " + resp.TemplatePath,
		}
	}
	result := &CommandResult{Success: false}
	if resp.Error != nil {
		result.Error = &ErrorInfo{
			Code:    resp.Error.Kind,
			Type:    resp.Error.Type,
			Message: resp.Error.Message,
			Details: resp.Error.Details,
		}
	}
	return result
}

// commandFault classifies configure/validate failures. Plain errors keep
// their message under a configuration code instead of collapsing into the
// generic internal-error text.
func commandFault(err error) *errors.AppError {
	if errors.IsAppError(err) {
		return errors.GetAppError(err)
	}
	return errors.NewAppError(errors.ErrCodeConfigurationInvalid, err.Error())
}

func errorResult(appErr *errors.AppError) *CommandResult {
	info := &ErrorInfo{
		Code:    string(appErr.Code),
		Message: appErr.Message,
	}
	if appErr.Details != "" {
		info.Details = appErr.Details
	}
	return &CommandResult{Success: false, Error: info}
}

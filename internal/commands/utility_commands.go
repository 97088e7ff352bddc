// Package commands/utility_commands implements system utility and metadata commands.
//
// SYSTEM ARCHITECTURE ROLE:
// This module provides utility commands that support system operation and
// introspection. They complement the generation commands with template
// discovery, cache maintenance and health reporting.
//
// COMMAND IMPLEMENTATIONS:
// - ListTemplatesCommand: Enumerates the templates available in the repository
// - RefreshCommand: Invalidates the template and aggregate caches
// - HealthCheckCommand: Reports basic system status
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/promptsmith/promptsmith/internal/generation"
)

// ListTemplatesCommand lists all available templates
type ListTemplatesCommand struct {
	service *generation.Service
	Filter  string
}

func (c *ListTemplatesCommand) SetService(svc *generation.Service) {
	c.service = svc
}

func (c *ListTemplatesCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *ListTemplatesCommand) GetName() string {
	return "list"
}

func (c *ListTemplatesCommand) GetDescription() string {
	return "List all available templates"
}

func (c *ListTemplatesCommand) Execute(ctx context.Context) (*CommandResult, error) {
	listing, err := c.service.ListAvailableTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Data:    listing,
		Message: fmt.Sprintf("Found %d templates", listing.TotalCount),
	}, nil
}

// RefreshCommand invalidates the template and aggregate caches
type RefreshCommand struct {
	service *generation.Service
}

func (c *RefreshCommand) SetService(svc *generation.Service) {
	c.service = svc
}

func (c *RefreshCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *RefreshCommand) GetName() string {
	return "refresh"
}

func (c *RefreshCommand) GetDescription() string {
	return "Invalidate the template and aggregate caches"
}

func (c *RefreshCommand) Execute(ctx context.Context) (*CommandResult, error) {
	if err := c.service.RefreshTemplates(ctx); err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Message: "Template caches refreshed",
	}, nil
}

// HealthCheckCommand reports basic system status
type HealthCheckCommand struct {
	service *generation.Service
}

func (c *HealthCheckCommand) SetService(svc *generation.Service) {
	c.service = svc
}

func (c *HealthCheckCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *HealthCheckCommand) GetName() string {
	return "health"
}

func (c *HealthCheckCommand) GetDescription() string {
	return "Report system health status"
}

func (c *HealthCheckCommand) Execute(ctx context.Context) (*CommandResult, error) {
	listing, err := c.service.ListAvailableTemplates(ctx)
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		status["status"] = "degraded"
		status["error"] = err.Error()
	} else {
		status["templates"] = listing.TotalCount
	}
	return &CommandResult{
		Success: true,
		Data:    status,
		Message: fmt.Sprintf("Status: %s", status["status"]),
	}, nil
}

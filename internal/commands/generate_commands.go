// Package commands/generate_commands implements the prompt generation commands.
//
// SYSTEM ARCHITECTURE ROLE:
// This module contains the command implementations for generating and validating
// prompts, serving as the bridge between user interfaces and the generation
// service for everything that produces or checks a template.
//
// COMMAND IMPLEMENTATIONS:
// - GenerateCommand: Generates a prompt for a (directive, layer) pair with variables
// - ValidateTemplateCommand: Checks that the template a request denotes exists
//
// USAGE PATTERNS:
// - Commands implement Command and ServiceAwareCommand interfaces
// - Business logic is delegated to the generation service; commands focus on coordination
// - Results include both data and human-readable messages for interface display
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/promptsmith/promptsmith/internal/generation"
)

// GenerateCommand generates a prompt for a directive/layer pair
type GenerateCommand struct {
	service *generation.Service
	Request generation.Request
}

func (c *GenerateCommand) SetService(svc *generation.Service) {
	c.service = svc
}

func (c *GenerateCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	if strings.TrimSpace(c.Request.Directive) == "" {
		return fmt.Errorf("directive is required")
	}
	if strings.TrimSpace(c.Request.Layer) == "" {
		return fmt.Errorf("layer is required")
	}
	return nil
}

func (c *GenerateCommand) GetName() string {
	return "generate"
}

func (c *GenerateCommand) GetDescription() string {
	return "Generate a prompt from the template for a directive and layer"
}

func (c *GenerateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	resp := c.service.GeneratePrompt(ctx, c.Request)
	return FromResponse(resp), nil
}

// ValidateTemplateCommand checks that the template a request denotes exists
type ValidateTemplateCommand struct {
	service *generation.Service
	Request generation.Request
}

func (c *ValidateTemplateCommand) SetService(svc *generation.Service) {
	c.service = svc
}

func (c *ValidateTemplateCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	if strings.TrimSpace(c.Request.Directive) == "" {
		return fmt.Errorf("directive is required")
	}
	if strings.TrimSpace(c.Request.Layer) == "" {
		return fmt.Errorf("layer is required")
	}
	return nil
}

func (c *ValidateTemplateCommand) GetName() string {
	return "validate"
}

func (c *ValidateTemplateCommand) GetDescription() string {
	return "Validate that the template for a directive and layer exists"
}

func (c *ValidateTemplateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	report := c.service.ValidateTemplate(ctx, c.Request)
	if !report.Valid {
		return &CommandResult{
			Success: true,
			Data:    report,
			Message: "Template invalid: " + strings.Join(report.Errors, "; "),
		}, nil
	}
	return &CommandResult{
		Success: true,
		Data:    report,
		Message: "Template valid",
	}, nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/commands"
	"github.com/promptsmith/promptsmith/internal/generation"
	"github.com/promptsmith/promptsmith/internal/output"
	"github.com/promptsmith/promptsmith/internal/ui"
)

type generateFlags struct {
	vars        []string
	input       string
	destination string
	useSchema   bool
	adaptation  string
	fromLayer   string
	template    string
	noFallback  bool
	interactive bool
	preview     bool
}

func newGenerateCmd() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <directive> <layer>",
		Short: "Generate a prompt from the template for a directive and layer",
		Long: `Generate resolves the template for the given directive and layer,
merges variables from --var flags, piped stdin and resolved paths, and
prints the rendered prompt to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.vars, "var", nil, "Custom variable as name=value (repeatable)")
	cmd.Flags().StringVar(&flags.input, "input", "", "Input file path; sets the input_text_file variable")
	cmd.Flags().StringVar(&flags.destination, "destination", "", "Destination path; sets the destination_path variable")
	cmd.Flags().BoolVar(&flags.useSchema, "schema", false, "Resolve the schema path; sets the schema_file variable")
	cmd.Flags().StringVar(&flags.adaptation, "adaptation", "", "Adaptation suffix for the template filename")
	cmd.Flags().StringVar(&flags.fromLayer, "from-layer", "", "Source layer override for the template filename")
	cmd.Flags().StringVar(&flags.template, "template", "", "Custom template path, used verbatim")
	cmd.Flags().BoolVar(&flags.noFallback, "no-fallback", false, "Disable the adaptation fallback probe")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for variables the template references")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "Render the generated prompt as markdown")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, flags *generateFlags) error {
	custom, err := parseVarFlags(flags.vars)
	if err != nil {
		return err
	}

	req := generation.Request{
		Directive:          args[0],
		Layer:              args[1],
		FromLayer:          flags.fromLayer,
		Adaptation:         flags.adaptation,
		CustomTemplatePath: flags.template,
		PromptBaseDir:      flagPromptDir,
		InputPath:          flags.input,
		DestinationPath:    flags.destination,
		UseSchema:          flags.useSchema,
		NoFallback:         flags.noFallback,
		StdinText:          readPipedStdin(),
		CustomVariables:    custom,
	}

	if flags.interactive {
		if err := fillVariablesInteractively(cmd, &req); err != nil {
			return err
		}
	}

	result, err := executor.Execute(cmd.Context(), "generate", func(c commands.Command) error {
		c.(*commands.GenerateCommand).Request = req
		return nil
	})
	if err != nil {
		return err
	}
	if !result.Success {
		return commandError(result)
	}

	resp, ok := result.Data.(generation.Response)
	if !ok {
		return fmt.Errorf("unexpected generate result type %T", result.Data)
	}

	if flags.preview {
		output.Print(ui.RenderPreview(resp.Content))
	} else {
		output.Print(resp.Content)
		if !strings.HasSuffix(resp.Content, "\n") {
			output.Print("\n")
		}
	}
	output.Debug("generated", "template", resp.TemplatePath, "variables", len(resp.AppliedVariables))
	return nil
}

// fillVariablesInteractively asks for every template variable not
// already supplied by a flag, stdin or a reserved name.
func fillVariablesInteractively(cmd *cobra.Command, req *generation.Request) error {
	names, err := service.TemplateVariables(cmd.Context(), *req)
	if err != nil {
		return err
	}

	missing := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := req.CustomVariables[name]; ok {
			continue
		}
		if isProvidedStandard(name, req) {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return nil
	}

	values, err := ui.RunVariableForm(missing)
	if err != nil {
		return err
	}
	if values == nil {
		return fmt.Errorf("variable entry cancelled")
	}

	if req.CustomVariables == nil {
		req.CustomVariables = make(map[string]string)
	}
	for name, value := range values {
		req.CustomVariables[name] = value
	}
	return nil
}

func isProvidedStandard(name string, req *generation.Request) bool {
	switch name {
	case "input_text":
		return req.StdinText != ""
	case "input_text_file":
		return req.InputPath != ""
	case "destination_path":
		return req.DestinationPath != ""
	case "schema_file":
		return req.UseSchema
	}
	return false
}

// parseVarFlags splits repeated --var name=value flags
func parseVarFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	custom := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", pair)
		}
		custom[strings.TrimSpace(name)] = value
	}
	return custom, nil
}

// readPipedStdin returns piped stdin content, or empty when stdin is a
// terminal.
func readPipedStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return string(data)
}

// commandError converts a failed CommandResult into a CLI error
func commandError(result *commands.CommandResult) error {
	if result.Error == nil {
		return fmt.Errorf("command failed")
	}
	msg := result.Error.Message
	if details, ok := result.Error.Details.([]string); ok && len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	return fmt.Errorf("%s", msg)
}

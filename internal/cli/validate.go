package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemabind/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Kind   string `json:"kind,omitempty"`
	GoType string `json:"go_type,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema.cue>",
		Short: "Check a CUE schema without loading a document",
		Long: `Compile a CUE schema, check it for consistency and print the Go type
documents would be loaded into.

Exit codes:
  0 - Schema is valid
  1 - Schema is invalid
  2 - Command error`,
		Args:          commandArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	top, err := schema.LoadCUEFile(schemaPath)
	if err != nil {
		return invalidSchema(formatter, err)
	}
	target, err := schema.GoType(top)
	if err != nil {
		return invalidSchema(formatter, err)
	}
	return outputValidateSuccess(formatter, top, target.String())
}

func invalidSchema(f *OutputFormatter, err error) error {
	if ferr := f.Error(ErrCodeSchemaInvalid, err.Error(), compileDetails(err)); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitFailure, "invalid schema", err)
}

func outputValidateSuccess(f *OutputFormatter, top *schema.Type, goType string) error {
	if f.Format == "json" {
		return f.JSON(CLIResponse{
			Status: "ok",
			Data:   ValidationResult{Valid: true, Kind: top.Kind.String(), GoType: goType},
		})
	}

	fmt.Fprintf(f.Writer, "✓ Schema valid: top-level %s\n", top.Kind)
	f.VerboseLog("Go type: %s", goType)
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/canon"
	"github.com/roach88/schemabind/internal/schema"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	LogLevel          string `flag:"log-level" validate:"oneof=debug info notice warning error"`
	Dump              bool
	IgnoreUnknownKeys bool
	CaseInsensitive   bool
	NoAlias           bool

	root *RootOptions
}

func (o *LoadOptions) flags() binder.CfgFlags {
	flags := binder.CfgDefault
	if o.IgnoreUnknownKeys {
		flags |= binder.CfgIgnoreUnknownKeys
	}
	if o.CaseInsensitive {
		flags |= binder.CfgCaseInsensitive
	}
	if o.NoAlias {
		flags |= binder.CfgNoAlias
	}
	return flags
}

// dumper prints values without addresses so dumps are stable.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <document.yaml> <schema.cue>",
		Short: "Load a YAML document with a CUE schema",
		Long: `Load a YAML document into a typed value described by a CUE schema and
print the result as canonical JSON, or as a Go value dump with --dump.

The CUE file's top-level value is the root type, for example:

  kind:    "mapping"
  pointer: true
  fields: {
  	cakes: {kind: "sequence", entry: {kind: "string"}}
  }

Exit codes:
  0 - Document loaded
  1 - Document did not load (the binder's error is printed)
  2 - Command error (bad flags, invalid schema, etc.)`,
		Args:          commandArgs(cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.LogLevel = rootOpts.v.GetString("log-level")
			return runLoad(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LogLevel, "log-level", binder.LogWarning.String(), "binder log level (debug|info|notice|warning|error)")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print a Go value dump instead of JSON")
	cmd.Flags().BoolVar(&opts.IgnoreUnknownKeys, "ignore-unknown-keys", false, "skip mapping keys the schema does not declare")
	cmd.Flags().BoolVar(&opts.CaseInsensitive, "case-insensitive", false, "match mapping keys without regard to case")
	cmd.Flags().BoolVar(&opts.NoAlias, "no-alias", false, "reject documents that use YAML aliases")

	return cmd
}

func runLoad(opts *LoadOptions, docPath, schemaPath string, cmd *cobra.Command) (err error) {
	formatter := newFormatter(opts.root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := validateOptions(opts); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	level, err := binder.ParseLogLevel(opts.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	top, err := schema.LoadCUEFile(schemaPath)
	if err != nil {
		formatter.Error(ErrCodeSchemaInvalid, err.Error(), compileDetails(err))
		return WrapExitError(ExitCommandError, "compile schema", err)
	}
	target, err := schema.GoType(top)
	if err != nil {
		formatter.Error(ErrCodeSchemaInvalid, err.Error(), nil)
		return WrapExitError(ExitCommandError, "build target type", err)
	}
	formatter.VerboseLog("Target type: %s", target)

	mem := binder.NewCountingAllocator()
	cfg := &binder.Config{
		LogFn:    binder.SlogLogFn(diagnosticLogger(cmd)),
		LogLevel: level,
		Flags:    opts.flags(),
		Mem:      mem,
	}

	slot := reflect.New(target)
	var count int
	var countPtr *int
	if top.Kind == schema.KindSequence {
		countPtr = &count
	}

	if err := binder.LoadFile(docPath, cfg, top, slot.Interface(), countPtr); err != nil {
		code := binder.CodeOf(err)
		formatter.Error(ErrCodeLoadFailed, err.Error(), map[string]any{"status": binder.Strerror(code)})
		return WrapExitError(ExitFailure, binder.Strerror(code), err)
	}
	defer func() {
		if ferr := binder.Free(cfg, top, slot.Interface(), count); ferr != nil && err == nil {
			err = WrapExitError(ExitFailure, "free", ferr)
		}
		formatter.VerboseLog("Allocations: %d made, %d live", mem.Allocs(), mem.Live())
	}()

	return outputLoaded(formatter, opts.Dump, slot.Elem().Interface())
}

func outputLoaded(f *OutputFormatter, dump bool, value any) error {
	if dump {
		if f.Format == "json" {
			return f.JSON(CLIResponse{Status: "ok", Data: dumper.Sdump(value)})
		}
		dumper.Fdump(f.Writer, value)
		return nil
	}

	data, err := canon.Marshal(value)
	if err != nil {
		return WrapExitError(ExitFailure, "encode result", err)
	}
	if f.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: json.RawMessage(data)})
	}
	_, err = fmt.Fprintf(f.Writer, "%s\n", data)
	return err
}

// compileDetails extracts the field and line of a schema compile error.
func compileDetails(err error) map[string]any {
	var ce *schema.CompileError
	if !errors.As(err, &ce) {
		return nil
	}
	details := map[string]any{"field": ce.Field}
	if ce.Pos.IsValid() {
		details["line"] = ce.Pos.Line()
	}
	return details
}

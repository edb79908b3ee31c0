package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/widgetc/internal/compiler"
	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/xmltree"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	All bool // report every rule violation instead of the first
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one rejected rule.
type ValidationIssue struct {
	Code    string `json:"code"`
	Key     string `json:"key"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config.xml>",
		Short: "Validate a widget manifest without packaging it",
		Long: `Validate a widget's config.xml without pruning or signing checks.

By default validation stops at the first violated rule, exactly as
compile does. With --all every rule is checked and every violation is
listed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "list every rule violation")

	return cmd
}

func runValidate(opts *ValidateOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return formatter.CommandError(ErrCodeNotFound, fmt.Sprintf("reading manifest: %v", err), err)
	}
	formatter.VerboseLog("Validating %s (%d bytes)", manifestPath, len(data))

	errs := validateManifest(data, opts.All)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	return outputValidateSuccess(formatter, manifestPath)
}

// validateManifest returns the rule violations in data. Without all it
// returns at most one.
func validateManifest(data []byte, all bool) []*diag.Error {
	if !all {
		_, err := compiler.Compile(data, compiler.Options{})
		return asDiagErrors(err)
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return []*diag.Error{diag.Parse(err)}
	}
	// Normalization failures stop everything; there is no record to
	// validate further.
	cfg, err := compiler.Normalize(root, compiler.Options{})
	if err != nil {
		return asDiagErrors(err)
	}
	return compiler.ValidateAll(cfg)
}

func asDiagErrors(err error) []*diag.Error {
	if err == nil {
		return nil
	}
	if de, ok := diag.As(err); ok {
		return []*diag.Error{de}
	}
	return []*diag.Error{{Kind: diag.KindStructural, Code: ErrCodeGeneric, Err: err}}
}

func toIssues(errs []*diag.Error) []ValidationIssue {
	issues := make([]ValidationIssue, len(errs))
	for i, e := range errs {
		issues[i] = ValidationIssue{
			Code:    e.Code,
			Key:     string(e.Key),
			Field:   e.Field,
			Message: issueMessage(e),
		}
	}
	return issues
}

func issueMessage(e *diag.Error) string {
	if e.Key == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message()
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, manifestPath string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", manifestPath)
	return nil
}

// outputValidationErrors outputs one or more validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []*diag.Error) error {
	issues := toIssues(errs)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: issues,
			},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
			TraceID: formatter.TraceID,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Field != "" {
			fmt.Fprintf(formatter.Writer, "%s\n", issue.Field)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

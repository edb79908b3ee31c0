package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/packager"
	"github.com/roach88/widgetc/internal/session"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	SessionFlags
	Output  string // output file path
	Staging string // staging directory removed when the manifest does not parse
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <config.xml>",
		Short: "Compile a widget manifest to its packaging record",
		Long: `Compile a widget's config.xml into the normalized record.

The manifest is parsed and validated, feature whitelists are pruned
against the configured capability sources, signing prerequisites are
checked against the session and the record is checked against its
output schema before it is printed or written.

Exit codes:
  0 - Record produced (warnings may have been logged)
  1 - Manifest rejected (parse, structural or signing failure)
  2 - Command error (unreadable manifest, invalid session, etc.)

Examples:
  widgetc compile www/config.xml
  widgetc compile www/config.xml --session build.yaml -o record.json
  widgetc compile www/config.xml --build-id 42 --storepass secret --signing-dir ~/.rim`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	opts.SessionFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Staging, "staging", "", "staging directory to remove if the manifest cannot be parsed")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr()).With("trace_id", formatter.TraceID)

	sess, err := opts.SessionFlags.build()
	if err != nil {
		return formatter.CommandError(ErrCodeSession, err.Error(), err)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return formatter.CommandError(ErrCodeNotFound, fmt.Sprintf("reading manifest: %v", err), err)
	}
	logger.Debug("manifest read", "path", manifestPath, "bytes", len(data))

	caps, err := openCapabilities(ctx, sess, logger)
	if err != nil {
		return formatter.CommandError(ErrCodeRegistry, err.Error(), err)
	}
	defer closeLogged(caps, "capabilities", logger)

	res, err := packager.Run(ctx, data, packager.Request{
		Session:        sess,
		Capabilities:   caps.Source,
		GlobalFeatures: caps.GlobalFeatures,
		Logger:         logger,
	})
	if err != nil {
		de, ok := diag.As(err)
		if !ok {
			return formatter.CommandError(ErrCodeGeneric, err.Error(), err)
		}
		if de.Kind == diag.KindParse {
			cleanStaging(opts.Staging, logger)
		}
		logger.Debug("manifest rejected", "code", de.Code, "key", de.Key)
		return formatter.DiagError(de)
	}

	if err := ir.ValidateRecord(res.Config); err != nil {
		_ = formatter.Error(ErrCodeSchema, err.Error(), nil)
		return WrapExitError(ExitFailure, ErrCodeSchema, err)
	}

	if opts.Output != "" {
		if err := writeRecordToFile(res, opts.Output); err != nil {
			return formatter.CommandError(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), err)
		}
		logger.Debug("record written", "path", opts.Output)
	}

	return outputCompileSuccess(formatter, res, opts.Output)
}

// cleanStaging removes a staging directory left behind by an aborted
// package step.
func cleanStaging(dir string, logger *slog.Logger) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Error("failed to remove staging directory", "path", dir, "error", err)
		return
	}
	logger.Info("removed staging directory", "path", dir)
}

// outputCompileSuccess outputs a compiled record.
func outputCompileSuccess(formatter *OutputFormatter, res *packager.Result, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(res)
	}

	cfg := res.Config
	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %s %s\n\n", cfg.ID, cfg.Version)
	fmt.Fprintf(w, "  name:        %s\n", cfg.Name)
	if cfg.BuildID != "" {
		fmt.Fprintf(w, "  build id:    %s\n", cfg.BuildID)
	}
	fmt.Fprintf(w, "  content:     %s\n", cfg.Content)
	fmt.Fprintf(w, "  access:      %d entr%s\n", len(cfg.AccessList), plural(len(cfg.AccessList), "y", "ies"))
	fmt.Fprintf(w, "  fingerprint: %s\n", res.Fingerprint)

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(w, "\nWrote record to %s\n", outputFile)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// writeRecordToFile writes the record with its fingerprint as indented JSON.
func writeRecordToFile(res *packager.Result, filename string) error {
	// Indented for readability; the fingerprint is over the canonical form.
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// SessionFlags are the session overrides shared by compile-like commands.
type SessionFlags struct {
	File       string
	BuildID    string
	StorePass  string
	SigningDir string
	Features   []string
	ExtDir     string
	RegistryDB string
}

func (s *SessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.File, "session", "", "session file (.yaml or .cue)")
	cmd.Flags().StringVar(&s.BuildID, "build-id", "", "build id override")
	cmd.Flags().StringVar(&s.StorePass, "storepass", "", "signing keystore password")
	cmd.Flags().StringVar(&s.SigningDir, "signing-dir", "", "directory holding author.p12, barsigner.csk and barsigner.db")
	cmd.Flags().StringSliceVar(&s.Features, "feature", nil, "feature id that is always available (repeatable)")
	cmd.Flags().StringVar(&s.ExtDir, "ext-dir", "", "extension directory probed for <id>/manifest.json")
	cmd.Flags().StringVar(&s.RegistryDB, "registry-db", "", "SQLite feature catalog")
}

// build loads the session file, overlays the flags and resolves the
// credential artifacts.
func (s *SessionFlags) build() (*session.Session, error) {
	sess := &session.Session{}
	if s.File != "" {
		loaded, err := session.Load(s.File)
		if err != nil {
			return nil, err
		}
		sess = loaded
	}

	overlay(&sess.BuildID, s.BuildID)
	overlay(&sess.StorePass, s.StorePass)
	overlay(&sess.SigningDir, s.SigningDir)
	overlay(&sess.ExtDir, s.ExtDir)
	overlay(&sess.RegistryDB, s.RegistryDB)
	sess.Features = append(sess.Features, s.Features...)

	sess.ResolveArtifacts()
	return sess, nil
}

func overlay(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

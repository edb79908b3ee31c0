package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/widgetc/internal/registry"
)

// RegistryOptions holds flags shared by the registry subcommands.
type RegistryOptions struct {
	*RootOptions
	Database string // path to the SQLite feature catalog
}

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the SQLite feature catalog",
		Long: `Manage the feature catalog used to prune feature whitelists.

Features in the catalog count as installed capabilities. Features marked
--global are merged into every access entry in place of the built-in
mandatory feature table.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite feature catalog (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRegistryAddCommand(opts))
	cmd.AddCommand(newRegistryListCommand(opts))

	return cmd
}

func newRegistryAddCommand(opts *RegistryOptions) *cobra.Command {
	var feature registry.Feature

	cmd := &cobra.Command{
		Use:   "add <feature-id>",
		Short: "Register a feature in the catalog",
		Example: `  widgetc registry add blackberry.app --db features.db --global --required
  widgetc registry add blackberry.invoke --db features.db --version 1.0.0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			feature.ID = args[0]
			return runRegistryAdd(opts, feature, cmd)
		},
	}

	cmd.Flags().StringVar(&feature.Version, "version", "", "feature version")
	cmd.Flags().BoolVar(&feature.Global, "global", false, "merge into every access entry")
	cmd.Flags().BoolVar(&feature.Required, "required", false, "mark as required when merged globally")

	return cmd
}

func runRegistryAdd(opts *RegistryOptions, feature registry.Feature, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	catalog, err := registry.Open(opts.Database)
	if err != nil {
		return formatter.CommandError(ErrCodeRegistry, err.Error(), err)
	}
	defer closeLogged(catalog, "catalog", logger)

	if err := catalog.Register(cmd.Context(), feature); err != nil {
		return formatter.CommandError(ErrCodeRegistry, err.Error(), err)
	}
	logger.Debug("feature registered", "feature", feature.ID, "db", opts.Database)

	if formatter.Format == "json" {
		return formatter.Success(feature)
	}
	fmt.Fprintf(formatter.Writer, "✓ Registered %s\n", feature.ID)
	return nil
}

func newRegistryListCommand(opts *RegistryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List registered features",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryList(opts, cmd)
		},
	}
}

func runRegistryList(opts *RegistryOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	catalog, err := registry.Open(opts.Database)
	if err != nil {
		return formatter.CommandError(ErrCodeRegistry, err.Error(), err)
	}
	defer closeLogged(catalog, "catalog", logger)

	features, err := catalog.List(cmd.Context())
	if err != nil {
		return formatter.CommandError(ErrCodeRegistry, err.Error(), err)
	}

	if formatter.Format == "json" {
		if features == nil {
			features = []registry.Feature{}
		}
		return formatter.Success(features)
	}

	if len(features) == 0 {
		fmt.Fprintln(formatter.Writer, "No features registered.")
		return nil
	}
	for _, f := range features {
		fmt.Fprintf(formatter.Writer, "%s", f.ID)
		if f.Version != "" {
			fmt.Fprintf(formatter.Writer, " %s", f.Version)
		}
		if f.Global {
			fmt.Fprint(formatter.Writer, " [global")
			if f.Required {
				fmt.Fprint(formatter.Writer, ", required")
			}
			fmt.Fprint(formatter.Writer, "]")
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/searchkit/config"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/version"
	"github.com/spf13/cobra"
)

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

// app holds what the subcommands share once the root has loaded it.
type app struct {
	confPath string
	cfg      *config.Config
	rt       *runtime
	cleanup  func()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "searchkit",
		Short:         "Paginated reads over Elasticsearch and OpenSearch indices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := cmd.Annotations[skipConfig]; ok {
				return nil
			}
			return a.load()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.confPath, "conf", "c", "", "config file path")

	rootCmd.AddCommand(
		newSearchCommand(a),
		newCountCommand(a),
		newExportCommand(a),
		newIndexCommand(a),
		newDocCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	a.releaseAfter(rootCmd)

	return rootCmd
}

// releaseAfter closes the runtime when any command returns. Cobra skips
// PersistentPostRun once RunE has failed, so the release rides on RunE.
func (a *app) releaseAfter(c *cobra.Command) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return run(cmd, args)
		}
	}
	for _, sub := range c.Commands() {
		a.releaseAfter(sub)
	}
}

func (a *app) load() error {
	cfg, err := config.Init(a.confPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, cleanup, err := initRuntime()
	if err != nil {
		return err
	}
	a.cfg, a.rt, a.cleanup = rt.cfg, rt, cleanup
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// index binds name on the shared backend without touching the network.
func (a *app) index(name string) (*search.Index, error) {
	return search.NewIndex(a.rt.backend, search.IndexDefinition{IndexName: name}, search.WithConfig(a.cfg.Data.Search))
}

// precheck fails when the backend cannot be reached.
func precheck(ctx context.Context, idx *search.Index) error {
	if !idx.Available(ctx) {
		return search.ErrUnavailable
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			out, err := info.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

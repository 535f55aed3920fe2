package commands

import (
	"errors"
	"fmt"

	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/ecode"
	"github.com/spf13/cobra"
)

func newIndexCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Args:  cobra.NoArgs,
		Short: "Index lifecycle commands",
	}

	cmd.AddCommand(
		newIndexCreateCommand(a),
		newIndexExistsCommand(a),
		newIndexDeleteByQueryCommand(a),
	)
	return cmd
}

func newIndexCreateCommand(a *app) *cobra.Command {
	var index, mappingPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an index from a mapping file when it does not exist",
		Long: `Create an index from a mapping file when it does not exist.

The mapping file holds the field properties, either bare or under a
"properties" key. Shards and replicas come from data.search.index_settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := readJSON(cmd, mappingPath)
			if err != nil {
				return err
			}
			if props, ok := mapping["properties"].(map[string]any); ok {
				mapping = props
			}

			cfg := a.cfg.Data.Search
			def := search.IndexDefinition{
				IndexName:     index,
				Properties:    mapping,
				IndexSettings: search.SettingsFromConfig(cfg.IndexSettings),
			}
			idx, err := search.New(cmd.Context(), cfg, def)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index %s ready\n", idx.Name())
			return nil
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "mapping JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("mapping")
	return cmd
}

func newIndexExistsCommand(a *app) *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether an index exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			if err := precheck(ctx, idx); err != nil {
				return err
			}
			exists, err := idx.Exists(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{"index": idx.Name(), "exists": exists})
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func newIndexDeleteByQueryCommand(a *app) *cobra.Command {
	var index, queryPath string

	cmd := &cobra.Command{
		Use:   "delete-by-query",
		Short: "Delete every document matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if queryPath == "" {
				return errors.New(ecode.FieldIsRequired("--query"))
			}
			ctx := cmd.Context()
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			query, err := readQuery(cmd, queryPath)
			if err != nil {
				return err
			}
			if err := precheck(ctx, idx); err != nil {
				return err
			}
			n, err := idx.DeleteByQuery(ctx, query)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]int64{"deleted": n})
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "query body file, - for stdin")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

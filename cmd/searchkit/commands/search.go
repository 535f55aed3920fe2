package commands

import (
	"github.com/ncobase/searchkit/data/search"
	"github.com/spf13/cobra"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		index     string
		queryPath string
		offset    int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a query, optionally for a page at offset/limit",
		Long: `Run a query against an index.

Without --offset and --limit the query runs as-is. With either flag the page
is served from the window when it fits, and from a scroll cursor otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			query, err := readQuery(cmd, queryPath)
			if err != nil {
				return err
			}

			var res *search.Result
			if !cmd.Flags().Changed("offset") && !cmd.Flags().Changed("limit") {
				res, err = idx.Search(ctx, query)
			} else {
				if !cmd.Flags().Changed("limit") {
					limit = idx.Pager().Options().WindowLimit
				}
				res, err = idx.AdvancedSearch(ctx, query, offset, limit)
			}
			if err != nil {
				return err
			}
			return writeResult(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "query body file, - for stdin")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size, defaults to the window limit")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func newCountCommand(a *app) *cobra.Command {
	var index, queryPath string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the documents matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			n, err := idx.Count(ctx, query)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]int64{"count": n})
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "query body file, - for stdin")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

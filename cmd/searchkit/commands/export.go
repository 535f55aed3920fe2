package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		index     string
		queryPath string
		total     int64
		format    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every document matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "jsonl" && format != "json" {
				return fmt.Errorf("unsupported format %q, use jsonl or json", format)
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

			res, err := idx.AdvancedSearchAll(ctx, query, total)
			if err != nil {
				return err
			}
			if format == "json" || res.Unavailable {
				return writeResult(cmd, res)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, hit := range res.Data {
				if err := enc.Encode(hit); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "query body file, - for stdin")
	cmd.Flags().Int64Var(&total, "total", 0, "known match count, skips the count round trip")
	cmd.Flags().StringVarP(&format, "format", "f", "jsonl", "output format (jsonl or json)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDocCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Args:  cobra.NoArgs,
		Short: "Single-document write commands",
	}

	cmd.AddCommand(
		newDocPutCommand(a),
		newDocUpdateCommand(a),
		newDocDeleteCommand(a),
	)
	return cmd
}

// printOutcome reports a write outcome; a write that did not apply is an error.
func printOutcome(cmd *cobra.Command, op string, ok bool) error {
	if !ok {
		return fmt.Errorf("%s was not applied", op)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", op)
	return nil
}

func newDocPutCommand(a *app) *cobra.Command {
	var index, docPath string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Index one document, the id is read from data.search.id_field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			doc, err := readJSON(cmd, docPath)
			if err != nil {
				return err
			}
			ok, err := idx.Put(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return printOutcome(cmd, "put", ok)
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVarP(&docPath, "file", "f", "-", "document JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func newDocUpdateCommand(a *app) *cobra.Command {
	var index, id, docPath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Partially update an existing document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			doc, err := readJSON(cmd, docPath)
			if err != nil {
				return err
			}
			ok, err := idx.Update(cmd.Context(), id, doc)
			if err != nil {
				return err
			}
			return printOutcome(cmd, "update", ok)
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVar(&id, "id", "", "document id")
	cmd.Flags().StringVarP(&docPath, "file", "f", "-", "partial document JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDocDeleteCommand(a *app) *cobra.Command {
	var index, id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one document by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.index(index)
			if err != nil {
				return err
			}
			ok, err := idx.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutcome(cmd, "delete", ok)
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "index name, without prefix")
	cmd.Flags().StringVar(&id, "id", "", "document id")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

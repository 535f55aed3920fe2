package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ncobase/searchkit/data/search"
	"github.com/spf13/cobra"
)

// readJSON decodes a JSON object from path, or from stdin when path is "-".
// An empty path yields an empty object.
func readJSON(cmd *cobra.Command, path string) (map[string]any, error) {
	out := map[string]any{}
	if path == "" {
		return out, nil
	}

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func readQuery(cmd *cobra.Command, path string) (search.Query, error) {
	q, err := readJSON(cmd, path)
	if err != nil {
		return nil, err
	}
	return search.Query(q), nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints res, failing when the backend was unreachable.
func writeResult(cmd *cobra.Command, res *search.Result) error {
	if res.Unavailable {
		return search.ErrUnavailable
	}
	return writeJSON(cmd, res)
}

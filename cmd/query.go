package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
)

var queryCmd = &cobra.Command{
	Use:   "query <json|->",
	Short: "Run a raw JSON request",
	Long: `Run a request given as JSON, exactly as the HTTP API accepts it. Use "-" to
read the request from stdin.

Example:
  hoopstats query '{"function":"streak","params":{"label":"TD","game_type":"all"}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	var r io.Reader = strings.NewReader(args[0])
	if args[0] == "-" {
		r = os.Stdin
	}
	req, err := decodeRequest(r)
	if err != nil {
		return err
	}
	return runRequest(cmd.Context(), req)
}

func decodeRequest(r io.Reader) (model.Request, error) {
	var req model.Request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

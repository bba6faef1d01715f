package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewGetCmd returns a command that looks a key up on a running server.
// The key is appended to the prefix verbatim, so it must already be
// URL-escaped where needed.
func NewGetCmd(serverAddr *string) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a value by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			url := strings.TrimSuffix(*serverAddr, "/") + prefix + key
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}

			rsp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to get key %q: %w", key, err)
			}
			defer rsp.Body.Close()

			body, err := io.ReadAll(rsp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			switch rsp.StatusCode {
			case http.StatusOK:
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", body)
				return nil
			case http.StatusNotFound:
				return fmt.Errorf("key %q not found", key)
			default:
				return fmt.Errorf("failed to get key %q: server returned %s", key, rsp.Status)
			}
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "/", "URL prefix the server was started with")
	return cmd
}

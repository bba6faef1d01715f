package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewHealthCmd returns a command that checks a running server, over HTTP
// by default or through the gRPC health service when --grpc is set.
func NewHealthCmd(serverAddr *string) *cobra.Command {
	var grpcAddr string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the server can reach its store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			if grpcAddr != "" {
				return checkGRPC(ctx, cmd, grpcAddr)
			}
			return checkHTTP(ctx, cmd, *serverAddr)
		},
	}

	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "gRPC health address to query instead of HTTP")
	return cmd
}

func checkHTTP(ctx context.Context, cmd *cobra.Command, serverAddr string) error {
	url := strings.TrimSuffix(serverAddr, "/") + "/healthcheck"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	rsp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: server returned %s", rsp.Status)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func checkGRPC(ctx context.Context, cmd *cobra.Command, addr string) error {
	conn, err := grpc.NewClient("passthrough:///"+addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	rsp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	if rsp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("unhealthy: %s", rsp.GetStatus())
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

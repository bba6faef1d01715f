package api

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// HealthServer implements the grpc.health.v1.Health service.
// Each Check probes the store, the same way GET /healthcheck does.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	Reader  kv.Reader
	Service string

	logger hclog.Logger
}

// NewHealthServer creates a health service answering for the empty
// service name and for service.
func NewHealthServer(reader kv.Reader, service string, logger hclog.Logger) *HealthServer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HealthServer{
		Reader:  reader,
		Service: service,
		logger:  logger,
	}
}

// Check reports SERVING when the store can be probed.
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != s.Service {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	if err := s.Reader.Probe(); err != nil {
		s.logger.Warn("healthcheck error", "error", err)
		return &healthpb.HealthCheckResponse{
			Status: healthpb.HealthCheckResponse_NOT_SERVING,
		}, nil
	}

	return &healthpb.HealthCheckResponse{
		Status: healthpb.HealthCheckResponse_SERVING,
	}, nil
}

// NewGRPCServer creates a gRPC server with the health service registered.
func NewGRPCServer(health *HealthServer) *grpc.Server {
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, health)
	return server
}

// Package grpc exposes the controller's readiness over the standard gRPC
// health-checking protocol.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/songbook/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service reported alongside the overall status.
const ServiceName = "songbook.controller"

type GRPCServer struct {
	address   string
	logger    logging.Logger
	health    *health.Server
	jwtSecret []byte
}

// NewGRPCServer creates a health server on address. With a non-empty
// secretKey every call must carry a valid access token. Both the overall
// status and ServiceName start as NOT_SERVING.
func NewGRPCServer(address string, l logging.Logger, secretKey string) *GRPCServer {
	s := &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		health:    health.NewServer(),
		jwtSecret: []byte(secretKey),
	}
	s.SetServing(false)
	return s
}

// SetServing flips the reported status.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

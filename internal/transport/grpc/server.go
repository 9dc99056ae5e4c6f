package grpc

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported to health checks.
const ServiceName = "coursehub"

// Server exposes the standard health service and reflection.
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{server: s, health: h, logger: logger}
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", "addr", lis.Addr().String())
	return s.server.Serve(lis)
}

// Stop reports NOT_SERVING to health checks and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

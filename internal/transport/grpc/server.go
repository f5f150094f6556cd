package grpc_server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"greensteps/internal/logger"
)

// ServiceName is the health-check name reported for the habit API.
const ServiceName = "greensteps.Habits"

// Probe reports whether the backing store can serve requests.
type Probe func(ctx context.Context) error

// OpsServer exposes gRPC health and reflection for orchestrators.
type OpsServer struct {
	server *grpc.Server
	health *health.Server
	probe  Probe
}

func NewOpsServer(probe Probe) *OpsServer {
	s := &OpsServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
		probe:  probe,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *OpsServer) Serve(lis net.Listener) error {
	logger.Info("grpc ops server listening", "addr", lis.Addr().String())
	return s.server.Serve(lis)
}

// Check runs the probe once and publishes the result.
func (s *OpsServer) Check(ctx context.Context) {
	if s.probe == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.probe(ctx); err != nil {
		logger.Warn("store probe failed", "err", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Watch re-runs Check every interval until ctx is done.
func (s *OpsServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *OpsServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *OpsServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

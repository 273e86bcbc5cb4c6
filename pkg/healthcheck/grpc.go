package healthcheck

import (
	"fmt"
	"net"

	"message_board_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Server grpc.health.v1 server for orchestrator probes
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	service    string
}

// NewServer listen on addr, service 為回報狀態的服務名稱 ("" 代表整體)
func NewServer(addr, service string) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen grpc health %s: %w", addr, err)
	}

	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		listener:   lis,
		service:    service,
	}
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(false)
	return s, nil
}

// Addr listening address
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// SetServing update status of service and the overall server
func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	if s.service != "" {
		s.health.SetServingStatus(s.service, status)
	}
}

// Start serve in background
func (s *Server) Start() {
	go func() {
		logger.Log.Info("grpc health server start", zap.String("addr", s.Addr()))
		if err := s.grpcServer.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
			logger.Log.Error("grpc health server stopped", zap.Error(err))
		}
	}()
}

// Stop mark NOT_SERVING then stop gracefully
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

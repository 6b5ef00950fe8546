package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
)

// BoardServiceName is the service name reported by the health endpoint next
// to the overall ("") status.
const BoardServiceName = "board.Board"

// DefaultProbeInterval is how often the storage is pinged when no interval
// is given to [Handler.Watch].
const DefaultProbeInterval = 5 * time.Second

// Handler is the root gRPC transport handler.
//
// It serves the standard grpc.health.v1 service. The reported status follows
// a ping of the board storage.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health *health.Server

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger. The health status starts as NOT_SERVING until the first probe.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(BoardServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Handler{
		services: services,
		health:   hs,
		logger:   logger,
	}
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Probe pings the storage once and publishes the result.
func (h *Handler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.services.BoardService.Ping(ctx); err != nil {
		h.logger.Err(err).Str("func", "*Handler.Probe").Msg("storage ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(BoardServiceName, status)
	return status
}

// Watch probes the storage every interval until ctx is done, then marks all
// services as NOT_SERVING.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

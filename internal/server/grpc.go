package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-board-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-board-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-board-sync/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	watchCtx  context.Context
	stopWatch context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.GRPCAddress, err)
	}

	s := grpc.NewServer(grpc.ConnectionTimeout(cfg.RequestTimeout))
	handler.Register(s)

	ctx, cancel := context.WithCancel(context.Background())
	return &grpcServer{
		handler:         handler,
		server:          s,
		gRPCNetListener: lis,
		watchCtx:        ctx,
		stopWatch:       cancel,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	go g.handler.Watch(g.watchCtx, myGRPC.DefaultProbeInterval)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Err(err).Str("func", "*grpcServer.RunServer").Msg("gRPC server Serve")
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.stopWatch()
	g.server.GracefulStop()
}

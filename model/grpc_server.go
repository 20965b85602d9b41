// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package model

import (
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/go-core-stack/admission/admission"
	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/interceptor"
)

type GrpcServerContext struct {
	// GRPC server handle, over which the grpc server is hosted,
	// every unary and stream call is admitted through the configured
	// admission service before reaching the registered handlers
	Server *grpc.Server

	// GRPC gateway mux handle, used to register the GRPC gateway
	// http handle following grpc gateway conventions, serves /healthz
	// backed by the health service
	Mux *runtime.ServeMux

	// GRPC client handle typically to the above grpc server itself
	// required by GRPC gateway to plumb between server and mux
	Conn *grpc.ClientConn

	// Health service registered on Server
	Health *health.Server
}

// GrpcServerConfig describes the server context to build
type GrpcServerConfig struct {
	// Endpoint the gateway client conn dials, typically the address
	// Server is listening on
	Endpoint string

	// Admission service consulted for every call
	Admission *admission.Service

	// Interceptor options, e.g. methods to skip
	Interceptor []interceptor.Option

	// Dial options appended to the default insecure transport
	Dial []grpc.DialOption

	// Server options appended after the admission interceptors
	Server []grpc.ServerOption
}

// NewGrpcServerContext builds the grpc server with admission control
// chained in, along with the gateway mux and its client conn. The conn
// connects lazily, so Server may start serving afterwards.
func NewGrpcServerContext(cfg GrpcServerConfig) (*GrpcServerContext, error) {
	if cfg.Admission == nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "admission service must not be nil")
	}
	if cfg.Endpoint == "" {
		return nil, errors.Wrapf(errors.InvalidArgument, "grpc endpoint must not be empty")
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, cfg.Dial...)
	conn, err := grpc.NewClient(cfg.Endpoint, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "failed to create grpc client for %s: %s", cfg.Endpoint, err)
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(interceptor.UnaryServerInterceptor(cfg.Admission, cfg.Interceptor...)),
		grpc.ChainStreamInterceptor(interceptor.StreamServerInterceptor(cfg.Admission, cfg.Interceptor...)),
	}, cfg.Server...)
	server := grpc.NewServer(serverOpts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	mux := runtime.NewServeMux(
		runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)),
	)

	return &GrpcServerContext{
		Server: server,
		Mux:    mux,
		Conn:   conn,
		Health: hs,
	}, nil
}

// Close stops the server, dropping in flight calls, and closes the
// gateway client conn.
func (c *GrpcServerContext) Close() error {
	c.Health.Shutdown()
	c.Server.Stop()
	return c.Conn.Close()
}

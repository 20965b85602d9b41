// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/go-core-stack/admission/admission"
	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/key"
)

// UnaryServerInterceptor admits unary calls through svc before the
// handler runs.
func UnaryServerInterceptor(svc *admission.Service, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := newConfig(opts)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !cfg.skip[info.FullMethod] {
			if err := svc.Admit(grpcInvocation(ctx, info.FullMethod)); err != nil {
				return nil, grpcError(err)
			}
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor admits streams through svc when they are
// opened. Messages on an admitted stream are not limited.
func StreamServerInterceptor(svc *admission.Service, opts ...Option) grpc.StreamServerInterceptor {
	cfg := newConfig(opts)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !cfg.skip[info.FullMethod] {
			if err := svc.Admit(grpcInvocation(ss.Context(), info.FullMethod)); err != nil {
				return grpcError(err)
			}
		}
		return handler(srv, ss)
	}
}

func grpcInvocation(ctx context.Context, fullMethod string) *key.Invocation {
	service, method := splitFullMethod(fullMethod)
	inv := &key.Invocation{
		Service: service,
		Method:  method,
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		inv.RemoteAddr = p.Addr.String()
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		// metadata keys are already lower case
		inv.Metadata = md
	}
	return inv
}

// splitFullMethod splits "/package.Service/Method" into its service and
// method parts.
func splitFullMethod(fullMethod string) (string, string) {
	name := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func grpcError(err error) error {
	switch {
	case errors.IsResourceExhausted(err):
		return status.Error(codes.ResourceExhausted, "rate limit exceeded")
	case errors.IsKeyNotResolved(err):
		return status.Error(codes.Internal, "rate limit key could not be resolved")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

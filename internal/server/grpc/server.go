// Package grpc exposes the wallet bridge over gRPC and provides a matching
// client.
package grpc

import (
	"context"
	"net"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/dmitrijs2005/walletbridge/internal/bridge"
	"github.com/dmitrijs2005/walletbridge/internal/logging"
)

const limiterTTL = 10 * time.Minute

// Options tune the server. A zero RateLimitRPS disables rate limiting.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

type GRPCServer struct {
	address string
	bridge  *bridge.Bridge
	logger  logging.Logger
	limiter *multiLimiter
}

func NewGRPCServer(a string, l logging.Logger, b *bridge.Bridge, opts Options) *GRPCServer {
	s := &GRPCServer{
		address: a,
		bridge:  b,
		logger:  l.With("module", "grpc_server"),
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = newMultiLimiter(rate.Limit(opts.RateLimitRPS), burst, limiterTTL)
	}
	return s
}

// NewServer builds a grpc.Server with the interceptors and the service
// registered, ready to Serve on any listener.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.rateLimitInterceptor))
	RegisterWalletBridgeServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/millionaire/internal/platform/playertoken"
	"github.com/louisbranch/millionaire/internal/platform/telemetry/metrics"
	"github.com/louisbranch/millionaire/internal/platform/timeouts"
	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/millionaire/internal/services/game/gameplay"
	gamesqlite "github.com/louisbranch/millionaire/internal/services/game/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "game"

// Config describes one game server.
type Config struct {
	Addr        string
	DBPath      string
	MetricsAddr string
	// Seed makes question draws reproducible when non-zero.
	Seed  int64
	Clock func() time.Time
	// DevAdmins may import questions while player tokens are disabled.
	DevAdmins []string
	// Auth overrides token settings loaded from the environment.
	Auth *auth.Config
}

// Server hosts the game gRPC API and storage lifecycle.
type Server struct {
	listener      net.Listener
	grpcServer    *grpc.Server
	health        *health.Server
	store         *gamesqlite.Store
	metrics       *metrics.Metrics
	metricsServer *http.Server
}

// New creates a configured game server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "game.db")
	}
	authCfg, err := authConfig(cfg)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	var storeOpts []gamesqlite.Option
	if cfg.Clock != nil {
		storeOpts = append(storeOpts, gamesqlite.WithClock(cfg.Clock))
	}
	store, err := openGameStore(cfg.DBPath, storeOpts...)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	m := metrics.New(serviceName)
	if err := m.RegisterDB(store.DB(), serviceName); err != nil {
		log.Printf("register db metrics: %v", err)
	}

	opts := []gameplay.Option{gameplay.WithMetrics(m), gameplay.WithClock(cfg.Clock)}
	if cfg.Seed != 0 {
		opts = append(opts, gameplay.WithSeed(cfg.Seed))
	}
	play := gameplay.NewService(gameplay.Stores{
		Questions: store,
		Accounts:  store,
		Games:     store,
	}, opts...)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			metrics.UnaryServerInterceptor(m),
			auth.UnaryServerInterceptor(authCfg),
		),
	)
	healthServer := health.NewServer()
	gamegrpc.RegisterGameServiceServer(grpcServer, gamegrpc.NewService(play))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamegrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	server := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		metrics:    m,
	}
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		server.metricsServer = &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: timeouts.MetricsReadHeader,
		}
	}
	return server, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Metrics returns the server's metric collectors.
func (s *Server) Metrics() *metrics.Metrics {
	if s == nil {
		return nil
	}
	return s.metrics
}

// Run creates and serves a game server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server, and the metrics listener when configured,
// until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("game server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()
	if s.metricsServer != nil {
		log.Printf("metrics listening at %s", s.metricsServer.Addr)
		go func() {
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("serve metrics: %w", err)
			}
		}()
	}

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		s.shutdownMetrics()
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.shutdownMetrics()
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close game store: %v", err)
		}
	}
}

func (s *Server) shutdownMetrics() {
	if s.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Drain)
	defer cancel()
	if err := s.metricsServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown metrics: %v", err)
	}
}

// authConfig resolves token verification. A configured public key turns on
// bearer tokens; otherwise the development user header is trusted.
func authConfig(cfg Config) (auth.Config, error) {
	publicMethods := []string{gamegrpc.FullMethod(gamegrpc.MethodGetLeaderboard)}
	var out auth.Config
	if cfg.Auth != nil {
		out = *cfg.Auth
	} else {
		verifier, enabled, err := playertoken.LoadVerifierConfigFromEnv(cfg.Clock)
		if err != nil {
			return auth.Config{}, err
		}
		out = auth.Config{Verifier: verifier, Enabled: enabled, DevAdmins: cfg.DevAdmins}
	}
	out.PublicMethods = append(out.PublicMethods, publicMethods...)
	if !out.Enabled {
		log.Printf("WARNING: player tokens not configured; running in development mode and trusting the %s header", grpcmeta.UserIDHeader)
		if len(out.DevAdmins) > 0 {
			log.Printf("WARNING: development admins %v may import questions", out.DevAdmins)
		}
	}
	return out, nil
}

func openGameStore(path string, opts ...gamesqlite.Option) (*gamesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := gamesqlite.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open game sqlite store: %w", err)
	}
	return store, nil
}

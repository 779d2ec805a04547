package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/treasure-realm/internal/config"
	v1alpha1 "github.com/KirkDiggler/treasure-realm/internal/handlers/api/v1alpha1"
	"github.com/KirkDiggler/treasure-realm/internal/handlers/ws"
	"github.com/KirkDiggler/treasure-realm/internal/journal"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/clock"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/logger"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
	redisclient "github.com/KirkDiggler/treasure-realm/internal/redis"
	"github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard"
	"github.com/KirkDiggler/treasure-realm/internal/visibility"
)

const redisPingTimeout = 5 * time.Second

var (
	grpcPort  int
	wsAddr    string
	redisAddr string
	seed      int64
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the world server",
	Long:  `Generate a world and serve it over gRPC and websockets.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
	serverCmd.Flags().StringVar(&wsAddr, "ws-addr", "", "websocket listen address (overrides config)")
	serverCmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the scoreboard (overrides config)")
	serverCmd.Flags().Int64Var(&seed, "seed", 0, "world generation seed (overrides config)")
}

// loadConfig reads --config and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.GRPCPort = grpcPort
	}
	if flags.Changed("ws-addr") {
		cfg.Server.WSAddr = wsAddr
	}
	if flags.Changed("redis") {
		cfg.Redis.Addr = redisAddr
	}
	if flags.Changed("seed") {
		cfg.World.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	state, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	engine, err := visibility.New(&visibility.Config{
		State:                state,
		ViewRadius:           cfg.Visibility.ViewRadius,
		BuildingRevealMargin: cfg.Visibility.BuildingRevealMargin,
	})
	if err != nil {
		return fmt.Errorf("failed to create visibility engine: %w", err)
	}

	board, closeBoard, err := buildScoreboard(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBoard()

	actions, err := buildJournal(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := actions.Close(); err != nil {
			log.WithError(err).Warn("failed to close journal")
		}
	}()

	hub := ws.NewHub()
	gameService, err := game.NewOrchestrator(&game.Config{
		WorldID:    cfg.World.ID,
		State:      state,
		Visibility: engine,
		Scoreboard: board,
		Journal:    actions,
		Clock:      clock.New(),
		Logger:     log,
		Rules:      cfg.Combat,
		Notifier:   hub,
	})
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	validator, err := protocol.NewValidator()
	if err != nil {
		return err
	}

	worldHandler, err := v1alpha1.NewWorldHandler(&v1alpha1.WorldHandlerConfig{
		GameService: gameService,
		Validator:   validator,
	})
	if err != nil {
		return fmt.Errorf("failed to create world handler: %w", err)
	}

	wsHandler, err := ws.NewHandler(&ws.HandlerConfig{
		Service:   gameService,
		Validator: validator,
		Hub:       hub,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(log)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(log)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	v1alpha1.RegisterWorldServiceServer(srv, worldHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.WorldServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpSrv := &http.Server{
		Addr:              cfg.Server.WSAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		log.WithField("port", cfg.Server.GRPCPort).Info("gRPC server starting")
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		log.WithField("addr", cfg.Server.WSAddr).Info("websocket server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve websockets: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errChan:
		srv.Stop()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	healthServer.Shutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("websocket server did not stop cleanly")
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		log.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		log.Info("server stopped gracefully")
	}
	return nil
}

// buildScoreboard connects to redis when an address is configured and keeps
// scores in memory otherwise
func buildScoreboard(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (scoreboard.Repository, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Info("scoreboard kept in memory")
		return scoreboard.NewInMemory(), func() {}, nil
	}

	client, err := redisclient.NewClient(cfg.Redis.Addr, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis client")
		}
	}

	if err := redisclient.Ping(ctx, client, redisPingTimeout); err != nil {
		closeClient()
		return nil, nil, err
	}

	board, err := scoreboard.NewRedisRepository(&scoreboard.Config{
		Client:  client,
		WorldID: cfg.World.ID,
	})
	if err != nil {
		closeClient()
		return nil, nil, fmt.Errorf("failed to create scoreboard: %w", err)
	}

	log.WithField("addr", cfg.Redis.Addr).Info("scoreboard backed by redis")
	return board, closeClient, nil
}

func buildJournal(cfg *config.Config) (journal.Writer, error) {
	if !cfg.Journal.Enabled {
		return journal.Nop{}, nil
	}

	w, err := journal.NewZstdWriter(&journal.Config{
		Dir:    cfg.Journal.Dir,
		Prefix: cfg.Journal.Prefix,
		Clock:  clock.New(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	return w, nil
}

// interceptorLogger adapts logrus to the grpc middleware logging interface
func interceptorLogger(l logrus.FieldLogger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(_ context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		f := make(logrus.Fields, len(fields)/2)
		i := grpc_logging.Fields(fields).Iterator()
		for i.Next() {
			k, v := i.At()
			f[k] = v
		}
		entry := l.WithFields(f)

		switch lvl {
		case grpc_logging.LevelDebug:
			entry.Debug(msg)
		case grpc_logging.LevelInfo:
			entry.Info(msg)
		case grpc_logging.LevelWarn:
			entry.Warn(msg)
		case grpc_logging.LevelError:
			entry.Error(msg)
		default:
			entry.WithField("level", lvl).Warn(msg)
		}
	})
}

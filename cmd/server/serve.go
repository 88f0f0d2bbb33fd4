package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/database"
	"terminal-terrace/blog-service/internal/file"
	blogGrpc "terminal-terrace/blog-service/internal/grpc"
	"terminal-terrace/blog-service/internal/identity"
	"terminal-terrace/blog-service/internal/logger"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/internal/route"
	"terminal-terrace/blog-service/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	migrate bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "migrate tables before serving")
	return cmd
}

func runServe(parent context.Context, opts serveOptions) error {
	// 1. 加载配置
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(conf.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 初始化数据库
	conns, err := database.Open(ctx, conf)
	if err != nil {
		return err
	}
	defer func() { _ = conns.Close() }()
	if opts.migrate {
		if err := database.Migrate(conns.DB); err != nil {
			return err
		}
	}

	store, err := storage.New(ctx, conf.S3, conf.Upload)
	if err != nil {
		return err
	}

	guest, unknown := permission.ParseSet(conf.Guest.Permissions)
	if len(unknown) > 0 {
		log.Warn("ignoring unknown guest permissions", zap.Strings("names", unknown))
	}
	provider, err := identity.NewProviderFromConfig(conf.JWT, guest)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 3. 设置路由
	deps := route.Deps{
		Config:   conf,
		DB:       conns.DB,
		Redis:    conns.Redis,
		Storage:  store,
		Resolver: provider,
		Log:      log,
		Registry: registry,
		Health:   conns.Ping,
	}
	services := route.NewServices(deps)
	r := route.SetupRouter(deps, services)

	sweeper := file.NewSweeper(file.NewFileRepository(conns.DB), store, 2*conf.Upload.LinkTTL, log, registry)
	if err := sweeper.Start(conf.Upload.SweepSchedule); err != nil {
		return err
	}
	defer sweeper.Stop()

	var gs *blogGrpc.Server
	if conf.GRPC.Port != 0 {
		if gs, err = blogGrpc.NewServer(conf.GRPC.Port, provider, log, blogGrpc.Services{
			Articles: services.Articles,
			Comments: services.Comments,
		}); err != nil {
			return err
		}
	}

	// 4. 启动服务
	srv := &http.Server{
		Addr:         conf.Server.Addr(),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if gs != nil {
		g.Go(func() error {
			log.Info("grpc server listening", zap.String("addr", gs.GetAddr()))
			return gs.Start()
		})
		g.Go(func() error {
			gs.Probe(gctx, 10*time.Second, conns.Ping)
			gs.Stop()
			return nil
		})
	}

	err = g.Wait()
	log.Info("server stopped", zap.Error(err))
	return err
}

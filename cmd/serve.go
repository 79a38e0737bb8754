package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/tradebook/cache"
	"github.com/etnz/tradebook/events"
	"github.com/etnz/tradebook/logger"
	"github.com/etnz/tradebook/reporting"
	"github.com/etnz/tradebook/scheduler"
	"github.com/etnz/tradebook/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reports over HTTP" }
func (*serveCmd) Usage() string {
	return `tbk serve [-port <port>]

  Serves the positions, balances and full report over HTTP. The report is
  refreshed on the TBK_CRON schedule, its renderings are cached in Redis when
  TBK_REDIS_ADDR is set, and each new report is published to Kafka when
  TBK_KAFKA_BROKERS is set.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "HTTP port. Overrides TBK_PORT")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(context.Background())
	log := a.log

	var opts []reporting.Option
	if a.cfg.Cache.Addr != "" {
		rc, err := cache.NewRedis(ctx, a.cfg.Cache.Addr, a.cfg.Cache.TTL)
		if err != nil {
			log.Warn("redis cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			opts = append(opts, reporting.WithCache(rc))
			log.Info("redis cache enabled", zap.String("addr", a.cfg.Cache.Addr))
		}
	}
	if len(a.cfg.Events.Brokers) > 0 {
		pub := events.NewPublisher(a.cfg.Events.Brokers, a.cfg.Events.Topic, logger.Named(log, "events"))
		defer pub.Close()
		opts = append(opts, reporting.WithPublisher(pub))
		log.Info("kafka events enabled", zap.String("topic", a.cfg.Events.Topic))
	}

	svc := reporting.NewService(a.store, a.engine, logger.Named(log, "svc.reporting"), opts...)
	if err := svc.Refresh(ctx); err != nil {
		log.Warn("initial report failed", zap.Error(err))
	}

	sched := scheduler.New(a.cfg.Reporting.CronSchedule, svc, logger.Named(log, "scheduler"))
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer sched.Stop()

	port := a.cfg.Server.Port
	if c.port != "" {
		port = c.port
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.New(server.NewHandler(svc, logger.Named(log, "handlers")), logger.Named(log, "router")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	log.Info("server stopped")
	return subcommands.ExitSuccess
}

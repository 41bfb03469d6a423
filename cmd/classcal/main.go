package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"classcal/internal/config"
	appLog "classcal/internal/log"
	"classcal/internal/records"
	"classcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("classcal starting",
		"listen", conf.Listen,
		"backend", conf.Backend.BaseURL,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"backfill_days", conf.BackfillDays,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	client := records.NewClient(conf.Backend, conf.CacheDir)
	server := web.NewServer(conf, client)

	if flags.once {
		data := server.Refresh(ctx)
		appLog.Info("single fetch cycle complete",
			"classes", len(data.Classes),
			"schedules", len(data.Schedules),
			"attendance", len(data.Attendance),
			"makeups", len(data.Makeups),
		)
		return
	}

	// Periodic refresh keeps the collections cache warm between requests.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.RefreshCron, func() {
		server.Refresh(ctx)
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Warm the cache before serving.
	server.Refresh(ctx)

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http server shutdown failed", err)
		}
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("classcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/classcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch cycle, print counts, and exit")

	flag.Parse()

	return cfg
}

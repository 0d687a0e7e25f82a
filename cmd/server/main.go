package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"exodus-server/internal/domain"
	"exodus-server/internal/engine"
	"exodus-server/internal/infrastructure/storage"
	"exodus-server/internal/network"
	"exodus-server/internal/server"
	"exodus-server/internal/session"
	"exodus-server/internal/version"
	"exodus-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Флаги
	var seed int64
	var configPath, recordDir, inspectPath string
	// 0 - сид из конфига (по умолчанию - от текущего времени)
	flag.Int64Var(&seed, "seed", 0, "Initial generation seed (0 for random)")
	flag.StringVar(&configPath, "config", "", "Path to YAML generation config")
	flag.StringVar(&recordDir, "record", "", "Directory to save .exlt layer traces of finished runs")
	flag.StringVar(&inspectPath, "inspect", "", "Print a saved .exlt trace and exit")
	flag.Parse()

	logger.Log.Info("Starting Exodus layer server...")
	logger.Log.Info(version.Current().String())

	// РЕЖИМ ПРОСМОТРА ЛЕНТЫ
	if inspectPath != "" {
		if err := inspect(inspectPath); err != nil {
			logger.Log.Fatal("Failed to inspect trace:", err)
		}
		return
	}

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatal("Failed to load config:", err)
		}
		cfg = loaded
		logger.Log.WithField("path", configPath).Info("Config loaded")
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("Using seed: %d", cfg.Seed)
	}

	port := os.Getenv("EXODUS_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Сессия
	sess, err := session.New(cfg, network.NewBroadcaster())
	if err != nil {
		logger.Log.Fatal("Failed to create session:", err)
	}

	var traces *storage.TraceService
	if recordDir != "" {
		traces = storage.NewTraceService(recordDir)
		sess.OnRunFinished(func(t *domain.LayerTrace) { saveTrace(traces, t) })
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		sess.Run(ctx)
		close(done)
	}()

	// 3. HTTP
	srv := server.New(sess, port)
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")
	<-done

	// Незавершенный забег тоже сохраняем
	if traces != nil {
		saveTrace(traces, sess.Trace())
	}

	logger.Log.Info("Done.")
}

func saveTrace(traces *storage.TraceService, t *domain.LayerTrace) {
	if t == nil || len(t.Layers) == 0 {
		return
	}
	path, err := traces.Save(t)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to save trace")
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"path":    path,
		"run":     t.Run,
		"layers":  len(t.Layers),
		"content": t.ContentCount(),
	}).Info("Trace saved")
}

func inspect(path string) error {
	t, err := storage.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("seed=%d run=%d layers=%d content=%d\n", t.Seed, t.Run, len(t.Layers), t.ContentCount())
	for _, l := range t.Layers {
		mark := ""
		if l.Dangerous {
			mark = " !"
		}
		fmt.Printf("#%-4d y=%-8.1f%s\n", l.Index, l.Y, mark)
		for _, c := range l.Content {
			fmt.Printf("    %-10s %-16s (%6.2f, %7.2f) rot=%.0f\n", c.Category, c.Variant, c.Pos.X, c.Pos.Y, c.Rotation)
		}
	}
	return nil
}

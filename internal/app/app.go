package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/scenecast/server/internal/analyzer"
	"github.com/scenecast/server/internal/controller"
	connInmemory "github.com/scenecast/server/internal/repository/connection/inmemory"
	sessionInmemory "github.com/scenecast/server/internal/repository/session/inmemory"
	tokenRedis "github.com/scenecast/server/internal/repository/token/redis"
	"github.com/scenecast/server/internal/service/player"
	"github.com/scenecast/server/pkg/ctxlogger"
	"github.com/scenecast/server/pkg/redisclient"
)

type AppConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	LogLevel        string `json:"log_level"`
	FPS             int    `json:"fps"`
	CanvasWidth     int    `json:"canvas_width"`
	CanvasHeight    int    `json:"canvas_height"`
	ScenesLimit     int    `json:"scenes_limit"`
	StepMs          int    `json:"step_ms"`
	AnalyzerURL     string `json:"analyzer_url"`
	AnalyzerTimeout int    `json:"analyzer_timeout"`
	RedisPort       int    `json:"redis_port"`
	RedisHost       string `json:"redis_host"`
	RedisPassword   string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.FPS < 1 {
		return fmt.Errorf("fps must be greater than 0")
	}
	if cfg.CanvasWidth < 1 || cfg.CanvasHeight < 1 {
		return fmt.Errorf("canvas dimensions must be greater than 0")
	}
	if cfg.ScenesLimit < 1 {
		return fmt.Errorf("scenes limit must be greater than 0")
	}
	if cfg.StepMs < 1 {
		return fmt.Errorf("step ms must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	sessionRepo := sessionInmemory.NewRepo()
	connRepo := connInmemory.NewRepo()
	tokenRepo := tokenRedis.NewRepo(rc, 10*time.Minute)
	analyzerClient := analyzer.NewClient(cfg.AnalyzerURL, time.Duration(cfg.AnalyzerTimeout)*time.Second)
	playerService := player.NewService(sessionRepo, connRepo, tokenRepo, analyzerClient, &player.Config{
		CanvasWidth:   cfg.CanvasWidth,
		CanvasHeight:  cfg.CanvasHeight,
		ScenesLimit:   cfg.ScenesLimit,
		DefaultStepMs: cfg.StepMs,
		AllowedSpeeds: []float64{0.5, 1, 1.5, 2},
	})
	frameInterval := time.Second / time.Duration(cfg.FPS)
	controller := controller.NewController(playerService, logger, frameInterval)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}

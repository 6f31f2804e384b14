package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tempmonitor/internal/handlers"
	"tempmonitor/internal/logger"
	"tempmonitor/internal/repository"
	"tempmonitor/internal/server"
	"tempmonitor/internal/service"
	"tempmonitor/internal/telemetry"

	"github.com/spf13/viper"
)

func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log_level"))

	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	recorder := service.NewRecorderService(repos.Thresholds, repos.Readings, recorderConfig(), log.Named("recorder"))
	subscriber := telemetry.NewSubscriber(telemetryConfig(), recorder.HandleSample, log.Named("telemetry"))
	services := service.NewService(repos, adminConfig(), subscriber)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go subscriber.Run(ctx)

	if sweep := viper.GetDuration("auth.sweep_interval"); sweep > 0 {
		if sessions, ok := services.Sessions.(*service.SessionService); ok {
			go sessions.Sweep(ctx, sweep)
		}
	}

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

func adminConfig() service.AdminConfig {
	return service.AdminConfig{
		Username:     viper.GetString("admin.username"),
		Password:     viper.GetString("admin.password"),
		PasswordHash: viper.GetString("admin.password_hash"),
	}
}

func telemetryConfig() telemetry.Config {
	return telemetry.Config{
		DSN:                 viper.GetString("broker.dsn"),
		Exchange:            viper.GetString("broker.exchange"),
		Topic:               viper.GetString("broker.topic"),
		TLS:                 viper.GetBool("broker.tls"),
		ReconnectInitial:    viper.GetDuration("broker.reconnect.initial"),
		ReconnectMax:        viper.GetDuration("broker.reconnect.max"),
		ReconnectMultiplier: viper.GetFloat64("broker.reconnect.multiplier"),
		ReconnectJitter:     viper.GetFloat64("broker.reconnect.jitter"),
	}
}

func recorderConfig() service.RecorderConfig {
	cfg := service.DefaultRecorderConfig()
	if d := viper.GetDuration("recorder.write_timeout"); d > 0 {
		cfg.WriteTimeout = d
	}
	if n := viper.GetUint("recorder.max_attempts"); n > 0 {
		cfg.MaxAttempts = n
	}
	return cfg
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the subscriber and sweeper first
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}

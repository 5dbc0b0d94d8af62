package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"danakita/config"
	"danakita/internal/database"
	"danakita/internal/repository"
	"danakita/internal/router"
	"danakita/internal/scheduler"
	"danakita/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if cfg.Server.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}
	database.SeedAdmin(db, &cfg.Admin)

	events := make(chan service.DonationEvent, 64)
	engine := router.Setup(cfg, db, events)

	sched := scheduler.New(log.Logger)
	reportSvc := service.NewReportService(repository.NewReportRepository(db), log.Logger)
	if err := sched.AddJob(cfg.Report.MonthlySchedule, scheduler.NewMonthlyReportJob(reportSvc)); err != nil {
		log.Fatal().Err(err).Msg("schedule monthly report")
	}
	sched.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	sched.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown")
	}
	close(events)
	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	httpadapter "resumeflow/internal/adapter/http"
	"resumeflow/internal/adapter/repository"
	"resumeflow/internal/auth"
	"resumeflow/internal/config"
	"resumeflow/internal/infrastructure/migration"
	"resumeflow/internal/schedule"
	"resumeflow/internal/usecase"
	"resumeflow/pkg/ai"
	"resumeflow/pkg/infrastructure"
	"resumeflow/pkg/mail"
	"resumeflow/pkg/scrape"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if cfg.DefaultSecret() {
		log.Warn("SECRET_KEY is not set; using the built-in development key, do not run this in production")
	}

	ctx := context.Background()

	var (
		store repository.Store
		pool  *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		pool, err = infrastructure.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("connect to postgres", zap.Error(err))
		}
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			log.Fatal("run migrations", zap.Error(err))
		}
		store = repository.NewPostgresStore(pool)
	} else {
		log.Warn("DATABASE_URL is not set; using in-memory storage, nothing survives a restart")
		store = repository.NewMemoryStore()
	}

	llm := ai.NewClient(ai.Config{
		APIKey:            cfg.GoogleAPIKey,
		Model:             cfg.GeminiModel,
		RequestsPerMinute: cfg.GeminiRPM,
		Logger:            log.Named("ai"),
	})
	if !llm.Configured() {
		log.Warn("GOOGLE_API_KEY is not set; scoring and tailoring are disabled")
	}

	scraper := scrape.NewClient(scrape.Config{
		BaseURL: cfg.ScraperURL,
		Logger:  log.Named("scrape"),
	})
	if !scraper.Configured() {
		log.Warn("SCRAPER_SERVICE_URL is not set; job search is disabled")
	}

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
		Renderer: infrastructure.NewChromedpRenderer(),
		Logger:   log.Named("mail"),
	})
	if !mailer.Configured() {
		log.Warn("SMTP credentials are not set; notifications will be skipped")
	}

	pipeline := usecase.NewPipeline(store, store, llm, llm, mailer, log.Named("pipeline"))
	batch := usecase.NewBatch(pipeline, store, log.Named("batch"))

	registry := schedule.NewCronRegistry()
	scheduler := schedule.NewService(store, store, scraper, batch, registry, log.Named("schedule"))
	if err := scheduler.Rebuild(ctx); err != nil {
		log.Warn("rebuild schedule triggers", zap.Error(err))
	}
	registry.Start()

	handler := httpadapter.NewHandler(httpadapter.Deps{
		Users:     store,
		Jobs:      store,
		Saved:     store,
		Schedules: store,
		Scheduler: scheduler,
		LLM:       llm,
		Scraper:   scraper,
		Mailer:    mailer,
		Batch:     batch,
		Runner:    pipeline,
		Tokens:    auth.NewTokenIssuer(cfg.SecretKey, time.Duration(cfg.TokenTTLMinutes)*time.Minute),
		Defaults:  cfg.Search,
		Threshold: cfg.MatchThreshold,
		Log:       log.Named("http"),
	})
	app := httpadapter.NewApp(handler, cfg.FrontendURL)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("resumeflow listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	// Stop returns once in-flight cron fires have run their handlers.
	<-registry.Stop().Done()
	if pool != nil {
		pool.Close()
	}
	log.Info("bye")
}

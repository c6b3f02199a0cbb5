package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio-manager/internal/adapter/api"
	"github.com/portfolio-manager/internal/adapter/bundesbank"
	"github.com/portfolio-manager/internal/adapter/openai"
	"github.com/portfolio-manager/internal/adapter/repository/postgres"
	"github.com/portfolio-manager/internal/config"
	"github.com/portfolio-manager/internal/scheduler"
	"github.com/portfolio-manager/internal/usecase/advisor"
	"github.com/portfolio-manager/internal/usecase/city"
	"github.com/portfolio-manager/internal/usecase/investor"
	"github.com/portfolio-manager/internal/usecase/valuation"
	"github.com/portfolio-manager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	// 2. Database and migrations
	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database migrations applied")

	// 3. Repositories
	investorRepo := postgres.NewInvestorRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	quoteRepo := postgres.NewQuoteRepository(db)
	cityRepo := postgres.NewCityRepository(db)

	// 4. Services
	valuationService := valuation.NewService(investorRepo, investmentRepo, transactionRepo, quoteRepo, log)
	investorService := investor.NewService(investorRepo)
	cityService := city.NewService(cityRepo)

	openaiClient := openai.NewClient(openai.Config{
		APIKey: cfg.OpenAI.APIKey,
		APIURL: cfg.OpenAI.APIURL,
		Model:  cfg.OpenAI.Model,
	}, log)
	advisorService := advisor.NewService(openaiClient, log)

	bundesbankClient := bundesbank.NewClient(cfg.Bundesbank.APIURL, cfg.Bundesbank.Flow, log)
	rateService := bundesbank.NewRateService(bundesbankClient, log)

	// 5. Background jobs
	sched := scheduler.New(log)
	ratesJob := scheduler.NewRatesRefreshJob(rateService, cfg.Bundesbank.Currencies)
	if err := sched.AddJob(cfg.Bundesbank.RefreshSchedule, ratesJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register rates refresh job")
	}
	sched.Start()

	// 6. HTTP server
	server := api.New(api.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		Log:       log,
		Valuation: valuationService,
		Investors: investorService,
		Cities:    cityService,
		Advisor:   advisorService,
		Rates:     rateService,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	waitForShutdown(server, sched, log)
}

// waitForShutdown waits for SIGTERM or SIGINT, then stops the scheduler and
// gracefully shuts down the HTTP server.
func waitForShutdown(server *api.Server, sched *scheduler.Scheduler, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

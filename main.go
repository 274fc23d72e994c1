package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pricewatch/database"
	"pricewatch/handlers"
	"pricewatch/middleware"
	"pricewatch/repository"
	"pricewatch/scheduler"
	"pricewatch/scraper"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		runNow      = flag.Bool("now", false, "run a single monitoring pass and exit")
		showHistory = flag.Bool("history", false, "print recent price history and exit")
		interval    = flag.Int("interval", 60, "minutes between passes in continuous mode")
		configPath  = flag.String("config", "products.json", "path to the product configuration file")
		dbPath      = flag.String("db", "price_history.db", "path to the SQLite history file")
		addr        = flag.String("addr", "", "status API listen address (empty disables the API)")
	)
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		logger.Fatal("failed to open history database", zap.Error(err))
	}
	defer db.Close()

	history := repository.NewHistoryRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *showHistory {
		printHistory(history, logger)
		return
	}

	monitor := scheduler.NewMonitor(*configPath, history, scraper.NewFetcher(logger), logger)

	if *runNow {
		monitor.RunPass(ctx)
		return
	}

	if *addr != "" {
		go serveAPI(ctx, *addr, history, *configPath, logger)
	}

	if err := monitor.Run(ctx, time.Duration(*interval)*time.Minute); err != nil {
		logger.Fatal("monitor failed", zap.Error(err))
	}
}

// newLogger builds the process logger; LOG_LEVEL tunes verbosity.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		_ = cfg.Level.UnmarshalText([]byte(strings.ToLower(level)))
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// printHistory renders the most recent readings as a console table.
func printHistory(history *repository.HistoryRepository, logger *zap.Logger) {
	readings, err := history.Recent(50)
	if err != nil {
		logger.Fatal("failed to read history", zap.Error(err))
	}

	if len(readings) == 0 {
		fmt.Println("No price history recorded yet.")
		return
	}

	line := strings.Repeat("-", 72)
	fmt.Println(line)
	fmt.Printf("%-28s %14s  %s\n", "PRODUCT", "PRICE", "DATE")
	fmt.Println(line)
	for _, r := range readings {
		fmt.Printf("%-28s %14s  %s\n", r.Name, fmt.Sprintf("%s %s", r.Price.StringFixed(2), r.Currency), r.Date)
	}
	fmt.Println(line)
}

// serveAPI runs the read-only status API until the context is cancelled.
func serveAPI(ctx context.Context, addr string, history *repository.HistoryRepository, configPath string, logger *zap.Logger) {
	router := mux.NewRouter()
	handlers.NewHandlers(history, configPath, logger).Register(router)

	router.Use(middleware.Logging(logger))
	router.Use(middleware.RateLimit(10))

	server := &http.Server{
		Addr:         addr,
		Handler:      cors.Default().Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("status API listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("status API failed", zap.Error(err))
	}
}

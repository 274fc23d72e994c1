package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"pricewatch/alerts"
	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/notify"
	"pricewatch/repository"
	"pricewatch/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier is the alert delivery capability the monitor needs.
type Notifier interface {
	Notify(title, message string)
}

// Summary reports the outcome of one pass. A pass always completes, even when
// every product failed.
type Summary struct {
	Processed int
	Succeeded int
}

// Monitor drives monitoring passes over the configured products: one-shot or
// continuously at a fixed interval. Products are checked sequentially, which
// paces requests to the same or neighboring hosts.
type Monitor struct {
	configPath string
	history    *repository.HistoryRepository
	fetcher    *scraper.Fetcher
	logger     *zap.Logger

	// Factories rebuilt per pass from freshly loaded settings; swappable in
	// tests.
	registryFor func(models.Settings) *scraper.Registry
	notifierFor func(models.Settings) Notifier
}

func NewMonitor(configPath string, history *repository.HistoryRepository, fetcher *scraper.Fetcher, logger *zap.Logger) *Monitor {
	return &Monitor{
		configPath:  configPath,
		history:     history,
		fetcher:     fetcher,
		logger:      logger,
		registryFor: scraper.DefaultRegistry,
		notifierFor: func(s models.Settings) Notifier { return notify.NewNotifier(s, logger) },
	}
}

// RunPass loads the configuration fresh and checks every product once, in
// configuration order. No single product failure is fatal to the pass.
func (m *Monitor) RunPass(ctx context.Context) Summary {
	m.logger.Info("starting monitoring pass", zap.String("time", time.Now().Format("2006-01-02 15:04:05")))

	cfg, err := config.Load(m.configPath)
	if err != nil {
		m.logger.Warn("config load failed, using defaults", zap.Error(err))
	}
	cfg.ApplyEnvOverrides()

	summary := Summary{}
	if len(cfg.Products) == 0 {
		m.logger.Warn("no products configured", zap.String("config", m.configPath))
		return summary
	}

	registry := m.registryFor(cfg.Settings)
	notifier := m.notifierFor(cfg.Settings)

	for _, product := range cfg.Products {
		if ctx.Err() != nil {
			m.logger.Info("pass interrupted", zap.Int("processed", summary.Processed))
			break
		}
		summary.Processed++
		if err := m.checkProduct(ctx, product, cfg.Settings, registry, notifier); err != nil {
			m.logger.Warn("product skipped",
				zap.String("product", product.DisplayName()),
				zap.String("reason", err.Error()))
			continue
		}
		summary.Succeeded++
	}

	m.logger.Info("pass complete",
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded))
	return summary
}

// checkProduct runs the full chain for one product: fetch, extract, persist,
// evaluate, notify. The prior price is captured before the insert so alert
// comparisons never see the reading just written.
func (m *Monitor) checkProduct(ctx context.Context, product models.Product, settings models.Settings, registry *scraper.Registry, notifier Notifier) error {
	m.logger.Info("checking product", zap.String("product", product.DisplayName()), zap.String("url", product.URL))

	body, err := m.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	price, err := registry.Extract(ctx, product.URL, doc, settings)
	if err != nil {
		if errors.Is(err, scraper.ErrPriceNotFound) {
			return fmt.Errorf("price not detected on page")
		}
		return err
	}

	m.logger.Info("price extracted",
		zap.String("product", product.DisplayName()),
		zap.String("price", models.FormatPrice(price, settings)))

	var prior *decimal.Decimal
	if last, ok, err := m.history.LastPrice(product.URL); err != nil {
		m.logger.Error("failed to read prior price", zap.String("product", product.DisplayName()), zap.Error(err))
	} else if ok {
		prior = &last
	}

	// A silently dropped reading would corrupt later drop-alert comparisons,
	// so persistence failures abort this product with a clear message.
	if err := m.history.Insert(product.DisplayName(), product.URL, price, settings.CurrencyCode); err != nil {
		return fmt.Errorf("history write failed, reading discarded: %w", err)
	}

	for _, alert := range alerts.Evaluate(product, price, prior, settings) {
		notifier.Notify(alert.Title, alert.Message)
	}

	if rise, rose := alerts.RisePercent(price, prior); rose {
		m.logger.Info("price rose",
			zap.String("product", product.DisplayName()),
			zap.String("rise_percent", rise.StringFixed(1)))
	}

	return nil
}

// Run executes one pass immediately, then repeats at the given interval until
// the context is cancelled. Cancellation aborts the inter-pass sleep early; a
// pass already in flight exits at its next per-product checkpoint.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	m.logger.Info("monitor started", zap.Duration("interval", interval))

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{m.logger})))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() { m.RunPass(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule monitoring pass: %w", err)
	}

	m.RunPass(ctx)
	c.Start()

	<-ctx.Done()
	// Stop cancels the pending timer; wait for an in-flight pass to reach its
	// own cancellation checkpoint.
	<-c.Stop().Done()
	m.logger.Info("monitor stopped")
	return nil
}

// cronLogger adapts zap to the cron logging interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

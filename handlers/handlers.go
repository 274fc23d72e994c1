package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/repository"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// Handlers serves the read-only status API: recent history, configured
// products with their last stored price, and a health probe. Nothing here
// mutates state; the monitor owns all writes.
type Handlers struct {
	history    *repository.HistoryRepository
	configPath string
	logger     *zap.Logger
	startedAt  time.Time
}

func NewHandlers(history *repository.HistoryRepository, configPath string, logger *zap.Logger) *Handlers {
	return &Handlers{
		history:    history,
		configPath: configPath,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// Register attaches the API routes to the router.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/history", h.RecentHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.Products).Methods(http.MethodGet)
}

// Health returns a liveness response with process uptime.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// RecentHistory returns the newest readings across all products. The limit
// query parameter caps the count (default 50).
func (h *Handlers) RecentHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	readings, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("failed to read history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if readings == nil {
		readings = []models.PriceReading{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(readings),
		"readings": readings,
	})
}

type productStatus struct {
	models.Product
	LastPrice *string `json:"last_price,omitempty"`
}

// Products returns the currently configured products joined with their most
// recent stored price. Configuration is read fresh on every request, matching
// the monitor's per-pass reload.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.Load(h.configPath)
	if err != nil {
		h.logger.Warn("config load failed for status API", zap.Error(err))
	}

	statuses := make([]productStatus, 0, len(cfg.Products))
	for _, product := range cfg.Products {
		status := productStatus{Product: product}
		if last, ok, err := h.history.LastPrice(product.URL); err != nil {
			h.logger.Error("failed to read last price", zap.String("url", product.URL), zap.Error(err))
		} else if ok {
			formatted := models.FormatPrice(last, cfg.Settings)
			status.LastPrice = &formatted
		}
		statuses = append(statuses, status)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(statuses),
		"products": statuses,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

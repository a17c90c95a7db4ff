package envelope

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/common/observability"
	"aldalil-gateway/internal/gateway/cache"
	"aldalil-gateway/internal/gateway/router"
	"aldalil-gateway/internal/inference"
)

const serviceVersion = "1.0.0"

// Handler exposes the router over HTTP with permissive CORS.
type Handler struct {
	router *router.Router
	store  cache.Store
	obs    *observability.Observability
	log    logger.Logger
}

func NewHandler(r *router.Router, store cache.Store, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{router: r, store: store, obs: obs, log: log}
}

// Routes wires the gateway endpoints onto a fresh mux. The metrics endpoint
// is mounted by the caller so the handler stays transport-only.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/cache/stats", h.handleCacheStats)
	mux.HandleFunc("/cache/clear", h.handleCacheClear)
	return mux
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.descriptor())
	case http.MethodPost:
		h.handleAction(w, r)
	default:
		h.writeJSON(w, http.StatusMethodNotAllowed, Envelope{
			Success:   false,
			Error:     "Method not allowed",
			Timestamp: nowMillis(),
		})
	}
}

// descriptor is the GET / capability document.
func (h *Handler) descriptor() map[string]interface{} {
	return map[string]interface{}{
		"message":   "Al-Dalil AI Gateway - English-Arabic Learning Assistant",
		"status":    "active",
		"version":   serviceVersion,
		"endpoints": []string{"/", "/healthz", "/metrics", "/cache/stats", "/cache/clear"},
		"actions":   h.router.Actions(),
		"models": []string{
			inference.ModelChat,
			inference.ModelChatLarge,
			inference.ModelLesson,
			inference.ModelVision,
			inference.ModelTranslation,
			inference.ModelSpeech,
			inference.ModelImage,
			inference.ModelTranscribe,
			inference.ModelModeration,
		},
	}
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.log.With(map[string]interface{}{"requestId": requestID})

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Warn("request body is not valid JSON", map[string]interface{}{"error": err.Error()})
		h.writeJSON(w, http.StatusBadRequest, Envelope{
			Success:   false,
			Error:     "Invalid JSON in request body",
			Timestamp: nowMillis(),
		})
		return
	}

	action, _ := body["action"].(string)
	delete(body, "action")

	log.Info("action received", map[string]interface{}{"action": action})

	start := time.Now()
	result, err := h.router.Dispatch(r.Context(), router.Request{Action: action, Params: body})
	h.obs.RecordActionDuration(r.Context(), action, time.Since(start))
	if err != nil {
		h.obs.RecordActionProcessed(r.Context(), action, "error")
		log.WithError(err).Warn("action failed", map[string]interface{}{"action": action})
		h.writeJSON(w, errors.HTTPStatus(err), Fail(action, err, h.router.Actions()))
		return
	}

	h.obs.RecordActionProcessed(r.Context(), action, "success")
	log.Info("action completed", map[string]interface{}{"action": action, "model": result.Model})
	h.writeJSON(w, http.StatusOK, Ok(action, result.Model, result.Value, result.Extra))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeCORS(w)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if h.store == nil {
		h.writeJSON(w, http.StatusOK, cache.Stats{})
		return
	}
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeJSON(w, errors.HTTPStatus(err), Fail("cache-stats", err, nil))
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method != http.MethodPost {
		h.writeJSON(w, http.StatusMethodNotAllowed, Envelope{
			Success:   false,
			Error:     "Method not allowed",
			Timestamp: nowMillis(),
		})
		return
	}
	if h.store != nil {
		if err := h.store.Clear(r.Context()); err != nil {
			h.writeJSON(w, errors.HTTPStatus(err), Fail("cache-clear", err, nil))
			return
		}
	}
	h.log.Info("cache cleared", nil)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "timestamp": nowMillis()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

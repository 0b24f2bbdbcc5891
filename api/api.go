// Package api exposes a wallet.Ledger over a JSON HTTP interface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Handler serves the ledger routes.
type Handler struct {
	ledger *wallet.Ledger
	log    zerolog.Logger
}

// New returns an http.Handler serving l.
func New(l *wallet.Ledger, log zerolog.Logger) http.Handler {
	h := &Handler{ledger: l, log: log.With().Str("component", "api").Logger()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the ledger routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolios", func(r chi.Router) {
		r.Get("/", h.listPortfolios)
		r.Post("/", h.createPortfolio)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getPortfolio)
			r.Patch("/", h.renamePortfolio)
			r.Delete("/", h.confirmed(h.deletePortfolio))
			r.Post("/capital", h.adjustCapital)
			r.Put("/capital", h.resetCapital)
			r.Put("/goals", h.setGoals)
			r.Post("/trades", h.openTrade)
			r.Patch("/trades/{tradeID}", h.editTrade)
			r.Post("/trades/{tradeID}/close", h.closeTrade)
			r.Delete("/trades/{tradeID}", h.confirmed(h.deleteTrade))
			r.Post("/withdrawals", h.withdraw)
			r.Get("/unrealized", h.unrealized)
			r.Get("/performance", h.performance)
		})
	})
	r.Get("/compare", h.compare)
	r.Get("/expenses", h.listExpenses)
	r.Post("/expenses", h.addExpense)
	r.Delete("/expenses/{id}", h.confirmed(h.deleteExpense))
	r.Get("/savings", h.savings)
	r.Get("/summary", h.summary)
	r.Get("/export", h.export)
	r.Post("/import", h.confirmed(h.importSnapshot))
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// confirmed rejects destructive requests lacking ?confirm=true.
func (h *Handler) confirmed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			h.writeError(w, http.StatusPreconditionRequired, "destructive operation requires confirm=true")
			return
		}
		next(w, r)
	}
}

// status maps a ledger error to an HTTP status code.
func status(err error) int {
	switch {
	case errors.Is(err, wallet.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrInsufficientCapital),
		errors.Is(err, wallet.ErrInsufficientSavings),
		errors.Is(err, wallet.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, map[string]string{"error": message})
}

// fail reports err with the status matching its kind.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	h.writeError(w, code, err.Error())
}

// decode reads a JSON body into v, reporting a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

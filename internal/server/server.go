// Package server exposes the categorization engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/ledgerlens/ledgerlens/internal/categorize"
	"github.com/ledgerlens/ledgerlens/internal/common"
	"github.com/ledgerlens/ledgerlens/internal/model"
)

// LearningStore persists exported learning-queue keys.
type LearningStore interface {
	SaveLearningKeys(ctx context.Context, keys []string) (int, error)
}

// Server routes HTTP requests to the categorization engine.
type Server struct {
	svc    *categorize.Service
	store  LearningStore // nil when running without persistence
	logger *slog.Logger
	router chi.Router
}

// New creates a server around the engine. store may be nil, in which case
// learning-queue exports are returned but not persisted.
func New(svc *categorize.Service, store LearningStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc:    svc,
		store:  store,
		logger: logger.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Post("/classify/batch", s.handleClassifyBatch)
		r.Get("/learning-queue", s.handleLearningQueue)
		r.Post("/learning-queue/export", s.handleLearningExport)
	})
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// transactionRequest is the wire form of a transaction to classify.
type transactionRequest struct {
	ID           string `json:"id"`
	Date         string `json:"date,omitempty"`
	Description  string `json:"description"`
	MerchantName string `json:"merchant_name,omitempty"`
	Currency     string `json:"currency"`
	MCC          string `json:"mcc,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	RegionHint   string `json:"region_hint,omitempty"`
	Amount       string `json:"amount"`
}

func (tr transactionRequest) toModel() (model.Transaction, error) {
	if tr.ID == "" {
		return model.Transaction{}, fmt.Errorf("transaction id is required")
	}

	amount, err := decimal.NewFromString(tr.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", tr.Amount, err)
	}

	var date time.Time
	if tr.Date != "" {
		if date, err = time.Parse(time.RFC3339, tr.Date); err != nil {
			return model.Transaction{}, fmt.Errorf("invalid date %q: %w", tr.Date, err)
		}
	}

	return model.Transaction{
		ID:           tr.ID,
		Date:         date,
		Description:  tr.Description,
		MerchantName: tr.MerchantName,
		Currency:     tr.Currency,
		MCC:          tr.MCC,
		AccountID:    tr.AccountID,
		RegionHint:   model.Region(tr.RegionHint),
		Amount:       amount,
	}, nil
}

// categorizationResponse is the wire form of a verdict.
type categorizationResponse struct {
	TransactionID string  `json:"transaction_id"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Source        string  `json:"source"`
	RuleID        string  `json:"rule_id,omitempty"`
	Rationale     string  `json:"rationale,omitempty"`
	Confidence    float64 `json:"confidence"`
}

func toResponse(c model.Categorization) categorizationResponse {
	return categorizationResponse{
		TransactionID: c.TransactionID,
		Category:      string(c.Category),
		Type:          string(c.Type),
		Source:        string(c.Source),
		RuleID:        c.RuleID,
		Rationale:     c.Rationale,
		Confidence:    c.Confidence,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	txn, err := req.toModel()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.svc.Classify(r.Context(), txn)
	if err != nil {
		s.writeClassifyError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toResponse(result))
}

type batchRequest struct {
	Transactions []transactionRequest `json:"transactions"`
}

type batchResponse struct {
	Results []categorizationResponse `json:"results"`
}

func (s *Server) handleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	txns := make([]model.Transaction, 0, len(req.Transactions))
	for _, tr := range req.Transactions {
		txn, err := tr.toModel()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		txns = append(txns, txn)
	}

	results, err := s.svc.ClassifyBatch(r.Context(), txns)
	if err != nil {
		s.writeClassifyError(w, err)
		return
	}

	resp := batchResponse{Results: make([]categorizationResponse, 0, len(results))}
	for _, c := range results {
		resp.Results = append(resp.Results, toResponse(c))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLearningQueue(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, categorize.LearningExport{Keys: s.svc.LearningKeys()})
}

type exportResponse struct {
	Keys      []string `json:"keys"`
	Persisted int      `json:"persisted"`
}

func (s *Server) handleLearningExport(w http.ResponseWriter, r *http.Request) {
	keys := s.svc.LearningKeys()

	persisted := 0
	if s.store != nil {
		added, err := s.store.SaveLearningKeys(r.Context(), keys)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to persist learning queue: %w", err))
			return
		}
		persisted = added
	}

	s.writeJSON(w, http.StatusOK, exportResponse{Keys: keys, Persisted: persisted})
}

// writeClassifyError maps engine failures onto HTTP status codes. A provider
// outage is the upstream's fault, not the caller's.
func (s *Server) writeClassifyError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, common.ErrProviderFailure) {
		status = http.StatusBadGateway
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

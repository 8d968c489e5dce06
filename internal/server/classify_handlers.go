package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledgerlens/ledgerlens/internal/classifier"
)

type feedbackRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount,omitempty"`
}

type batchRequest struct {
	Transactions []classifier.Transaction `json:"transactions"`
}

// categorizeHandler classifies a single transaction.
func (s *Server) categorizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var tx classifier.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if tx.Description == "" {
		writeErrorResponse(w, "Description is required", http.StatusBadRequest)
		return
	}

	res, err := s.classifier.Classify(tx)
	if err != nil {
		if errors.Is(err, classifier.ErrNotTrained) {
			writeErrorResponse(w, "Classifier is not trained", http.StatusServiceUnavailable)
			return
		}
		writeErrorResponse(w, fmt.Sprintf("Classification failed: %v", err), http.StatusInternalServerError)
		return
	}

	classificationsTotal.WithLabelValues(res.Category).Inc()
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: res})
}

// categorizeBatchHandler classifies several transactions in one call.
// A transaction with an empty description yields a null entry rather
// than failing the batch.
func (s *Server) categorizeBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Transactions) == 0 {
		writeErrorResponse(w, "Transactions are required", http.StatusBadRequest)
		return
	}

	results := make([]*classifier.Result, len(req.Transactions))
	for i, tx := range req.Transactions {
		if tx.Description == "" {
			continue
		}
		res, err := s.classifier.Classify(tx)
		if err != nil {
			if errors.Is(err, classifier.ErrNotTrained) {
				writeErrorResponse(w, "Classifier is not trained", http.StatusServiceUnavailable)
				return
			}
			continue
		}
		classificationsTotal.WithLabelValues(res.Category).Inc()
		results[i] = res
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: results})
}

// feedbackHandler records a labeled example and synchronously retrains.
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Description == "" || req.Category == "" {
		writeErrorResponse(w, "Description and category are required", http.StatusBadRequest)
		return
	}

	if err := s.classifier.AddExample(req.Description, req.Category, req.Amount); err != nil {
		var ice *classifier.InvalidCategoryError
		if errors.As(err, &ice) {
			writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeErrorResponse(w, fmt.Sprintf("Training failed: %v", err), http.StatusInternalServerError)
		return
	}

	trainingExamples.Set(float64(s.classifier.ExampleCount()))
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]any{
		"trained":  true,
		"examples": s.classifier.ExampleCount(),
	}})
}

// categoriesHandler returns the fixed taxonomy.
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: s.classifier.Categories()})
}

// categoryStatsHandler aggregates accumulated training data.
func (s *Server) categoryStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: s.classifier.Stats()})
}

// Package transport exposes the lokal gateway over HTTP: completion
// endpoints backed by a Provider, retrieval of stored completions,
// health and metrics, plus recovery/request-id/logging middleware.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/debug"
	"github.com/rhuss/lokal/pkg/provider"
	"github.com/rhuss/lokal/pkg/provider/local"
	"github.com/rhuss/lokal/pkg/storage"
)

// Handler serves the completion API.
type Handler struct {
	Provider     provider.Provider
	Store        storage.Store // optional; nil disables retrieval
	DefaultModel string
}

// completionRequest is the wire format of POST /v1/completions.
type completionRequest struct {
	Model    string         `json:"model"`
	Messages []api.Message  `json:"messages"`
	Options  map[string]any `json:"options,omitempty"`
	Stream   bool           `json:"stream,omitempty"`
}

// batchRequest is the wire format of POST /v1/completions/batch.
type batchRequest struct {
	Model    string          `json:"model"`
	Messages [][]api.Message `json:"messages"`
	Options  map[string]any  `json:"options,omitempty"`
}

// HandleCompletion serves single and streaming completions.
func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewInvalidRequestError("", "invalid JSON body: "+err.Error()))
		return
	}
	model, err := h.resolveModel(req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, api.NewInvalidRequestError("messages", "messages must not be empty"))
		return
	}

	preq := &provider.Request{Model: model, Messages: req.Messages, Options: req.Options}

	if req.Stream {
		h.streamCompletion(w, r, preq)
		return
	}

	resp, err := h.Provider.Complete(r.Context(), preq)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.Store != nil {
		if err := h.Store.Save(r.Context(), resp); err != nil {
			debug.Log("transport", "saving completion failed", "id", resp.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// streamCompletion writes the raw engine outputs as newline-delimited
// JSON. The stream is single-pass; nothing is stored.
func (h *Handler) streamCompletion(w http.ResponseWriter, r *http.Request, preq *provider.Request) {
	stream, err := h.Provider.Stream(r.Context(), preq)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for {
		out, ok := stream.Next()
		if !ok {
			return
		}
		if err := enc.Encode(out); err != nil {
			debug.Log("transport", "stream write failed", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// HandleBatch serves batch completions: one response per message list,
// in input order.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewInvalidRequestError("", "invalid JSON body: "+err.Error()))
		return
	}
	model, err := h.resolveModel(req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, api.NewInvalidRequestError("messages", "messages must not be empty"))
		return
	}

	responses, err := h.Provider.CompleteBatch(r.Context(), &provider.BatchRequest{
		Model:    model,
		Messages: req.Messages,
		Options:  req.Options,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// HandleGet serves GET /v1/completions/{id} from the store.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !api.ValidateCompletionID(id) {
		writeError(w, api.NewInvalidRequestError("id", "invalid completion ID"))
		return
	}
	if h.Store == nil {
		writeError(w, api.NewNotFoundError("completion storage is disabled"))
		return
	}

	resp, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, api.NewNotFoundError("completion "+id+" not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth serves GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (h *Handler) resolveModel(model string) (string, error) {
	if model != "" {
		return model, nil
	}
	if h.DefaultModel != "" {
		return h.DefaultModel, nil
	}
	return "", api.NewInvalidRequestError("model", "model is required")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps errors to HTTP status codes and the JSON error body.
// Adapter errors carry status code 0 (local, non-HTTP failure); they
// surface as model errors with the underlying message intact.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		var adapterErr *local.Error
		if errors.As(err, &adapterErr) {
			apiErr = api.NewModelError(adapterErr.Message)
		} else {
			apiErr = api.NewServerError(err.Error())
		}
	}

	status := http.StatusInternalServerError
	switch apiErr.Type {
	case api.ErrorTypeInvalidRequest:
		status = http.StatusBadRequest
	case api.ErrorTypeNotFound:
		status = http.StatusNotFound
	case api.ErrorTypeModelError:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, api.ErrorResponse{Error: apiErr})
}
